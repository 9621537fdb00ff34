package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/bibliohome/bibliohome-server/internal/store"
)

func TestUpsertBookSeries_OverwritesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := createTestBook(t, s, "The Fellowship of the Ring")
	sr, err := s.FindOrCreateSeries(ctx, "The Lord of the Rings")
	if err != nil {
		t.Fatalf("FindOrCreateSeries: %v", err)
	}

	one, two := 1, 2
	if err := s.UpsertBookSeries(ctx, b.ID, sr.ID, &one); err != nil {
		t.Fatalf("UpsertBookSeries: %v", err)
	}
	if err := s.UpsertBookSeries(ctx, b.ID, sr.ID, &two); err != nil {
		t.Fatalf("UpsertBookSeries again: %v", err)
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if len(got.Series) != 1 {
		t.Fatalf("expected one series link, got %d", len(got.Series))
	}
	if got.Series[0].OrderNumber == nil || *got.Series[0].OrderNumber != 2 {
		t.Errorf("orderNumber: got %v, want 2", got.Series[0].OrderNumber)
	}

	n, _ := s.CountSeriesBooks(ctx, sr.ID)
	if n != 1 {
		t.Errorf("CountSeriesBooks: got %d", n)
	}
}

func TestFindOrCreateProductionCompany_KeepsFirstPhoto(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateProductionCompany(ctx, "Ghibli", "ghibli.png")
	if err != nil {
		t.Fatalf("FindOrCreateProductionCompany: %v", err)
	}
	second, err := s.FindOrCreateProductionCompany(ctx, "Ghibli", "other.png")
	if err != nil {
		t.Fatalf("FindOrCreateProductionCompany again: %v", err)
	}
	if first.ID != second.ID || second.Photo != "ghibli.png" {
		t.Errorf("unexpected company: %+v", second)
	}
}

func TestCreateLibrary_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	lib := createTestLibrary(t, s, "Den")
	clone := *lib
	clone.ID = "lib-other"

	err := s.CreateLibrary(context.Background(), &clone)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	missing, err := s.MissingLibraryIDs(context.Background(), []string{lib.ID, "lib-nope"})
	if err != nil {
		t.Fatalf("MissingLibraryIDs: %v", err)
	}
	if len(missing) != 1 || missing[0] != "lib-nope" {
		t.Errorf("missing: %v", missing)
	}
}
