package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bibliohome/bibliohome-server/internal/store"
)

func TestFindOrCreateAuthor_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateAuthor(ctx, "Ursula K.", "Le Guin")
	if err != nil {
		t.Fatalf("FindOrCreateAuthor: %v", err)
	}
	second, err := s.FindOrCreateAuthor(ctx, "Ursula K.", "Le Guin")
	if err != nil {
		t.Fatalf("FindOrCreateAuthor again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same id, got %q and %q", first.ID, second.ID)
	}
}

func TestFindOrCreateAuthor_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := s.FindOrCreateAuthor(ctx, "Octavia", "Butler")
			errs[i] = err
			if a != nil {
				ids[i] = a.ID
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got %q, want %q", i, ids[i], ids[0])
		}
	}

	authors, err := s.ListAuthors(ctx, "Butler")
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(authors) != 1 {
		t.Errorf("expected exactly one author row, got %d", len(authors))
	}
}

func TestCreateAuthor_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.FindOrCreateAuthor(ctx, "Frank", "Herbert"); err != nil {
		t.Fatalf("FindOrCreateAuthor: %v", err)
	}
	a, _ := s.GetAuthorByName(ctx, "Frank", "Herbert")
	dup := *a
	dup.ID = "auth-dup"

	err := s.CreateAuthor(ctx, &dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBookAuthors_OrderAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := createTestBook(t, s, "Good Omens")
	pratchett, _ := s.FindOrCreateAuthor(ctx, "Terry", "Pratchett")
	gaiman, _ := s.FindOrCreateAuthor(ctx, "Neil", "Gaiman")

	if err := s.SetBookAuthors(ctx, b.ID, []string{pratchett.ID, gaiman.ID}); err != nil {
		t.Fatalf("SetBookAuthors: %v", err)
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if len(got.Authors) != 2 || got.Authors[0].LastName != "Pratchett" || got.Authors[1].LastName != "Gaiman" {
		t.Errorf("unexpected authors: %+v", got.Authors)
	}

	n, err := s.CountAuthorBooks(ctx, gaiman.ID)
	if err != nil {
		t.Fatalf("CountAuthorBooks: %v", err)
	}
	if n != 1 {
		t.Errorf("CountAuthorBooks: got %d, want 1", n)
	}

	// Replacing drops the old links.
	if err := s.SetBookAuthors(ctx, b.ID, []string{gaiman.ID}); err != nil {
		t.Fatalf("SetBookAuthors: %v", err)
	}
	n, _ = s.CountAuthorBooks(ctx, pratchett.ID)
	if n != 0 {
		t.Errorf("expected Pratchett unlinked, count %d", n)
	}
}

func TestDeleteAuthor_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteAuthor(context.Background(), "auth-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
