package sqlite

import (
	"context"
	"testing"
)

func TestFindAuthorsByPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range [][2]string{{"Ursula K.", "Le Guin"}, {"Stanisław", "Lem"}, {"Iain", "Banks"}} {
		if _, err := s.FindOrCreateAuthor(ctx, n[0], n[1]); err != nil {
			t.Fatalf("FindOrCreateAuthor: %v", err)
		}
	}

	got, err := s.FindAuthorsByPrefix(ctx, "le")
	if err != nil {
		t.Fatalf("FindAuthorsByPrefix: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(got))
	}
	if got[0].LastName != "Le Guin" || got[1].LastName != "Lem" {
		t.Errorf("unexpected order: %q, %q", got[0].LastName, got[1].LastName)
	}

	got, err = s.FindAuthorsByPrefix(ctx, "Guin")
	if err != nil {
		t.Fatalf("FindAuthorsByPrefix: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected prefix-only match, got %d authors", len(got))
	}
}

func TestFindGenresByPathFragment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.FindOrCreateGenrePath(ctx, "Fiction / Fantasy / Epic"); err != nil {
		t.Fatalf("FindOrCreateGenrePath: %v", err)
	}

	got, err := s.FindGenresByPathFragment(ctx, "Fantasy")
	if err != nil {
		t.Fatalf("FindGenresByPathFragment: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(got))
	}

	byName, err := s.GetGenreByName(ctx, "Epic")
	if err != nil {
		t.Fatalf("GetGenreByName: %v", err)
	}
	if byName.Path != "Fiction / Fantasy / Epic" {
		t.Errorf("unexpected path %q", byName.Path)
	}
}
