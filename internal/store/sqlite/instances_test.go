package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func addInstance(t *testing.T, s *Store, kind domain.MediaKind, entityID string, libraryIDs ...string) *domain.Instance {
	t.Helper()
	inst := &domain.Instance{Kind: kind, Status: domain.StatusAvailable}
	if kind == domain.KindBook {
		inst.ID = id.MustGenerate(id.BookInstance)
		inst.BookID = entityID
		inst.NumberOfCopies = 1
	} else {
		inst.ID = id.MustGenerate(id.MovieInstance)
		inst.MovieID = entityID
	}
	inst.InitTimestamps()
	if err := s.CreateInstance(context.Background(), inst, libraryIDs); err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	return inst
}

func TestListInstances_SortedBySortTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	lib := createTestLibrary(t, s, "Home")

	for _, title := range []string{"The Stand", "a Game of Thrones", "Carrie"} {
		b := createTestBook(t, s, title)
		addInstance(t, s, domain.KindBook, b.ID, lib.ID)
	}

	rows, err := s.ListInstances(ctx, domain.KindBook, lib.ID, nil)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	var got []string
	for _, r := range rows {
		got = append(got, r.Book.Title)
	}
	want := []string{"Carrie", "a Game of Thrones", "The Stand"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if len(rows[0].Libraries) != 1 || rows[0].Libraries[0].Name != "Home" {
		t.Errorf("unexpected libraries: %+v", rows[0].Libraries)
	}
}

func TestListInstances_PagedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	home := createTestLibrary(t, s, "Home")
	office := createTestLibrary(t, s, "Office")

	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		b := createTestBook(t, s, title)
		addInstance(t, s, domain.KindBook, b.ID, home.ID)
	}
	other := createTestBook(t, s, "Elsewhere")
	addInstance(t, s, domain.KindBook, other.ID, office.ID)

	n, err := s.CountInstances(ctx, domain.KindBook, home.ID)
	if err != nil {
		t.Fatalf("CountInstances: %v", err)
	}
	if n != 3 {
		t.Errorf("count: got %d, want 3", n)
	}

	page := &store.PageParams{Page: 2, PageSize: 2}
	rows, err := s.ListInstances(ctx, domain.KindBook, home.ID, page)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(rows) != 1 || rows[0].Book.Title != "Charlie" {
		t.Errorf("page 2: got %d rows", len(rows))
	}

	all, _ := s.CountInstances(ctx, domain.KindBook, "")
	if all != 4 {
		t.Errorf("unfiltered count: got %d, want 4", all)
	}
}

func TestMovieInstance_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	lib := createTestLibrary(t, s, "Shelf")
	m := createTestMovie(t, s, "Alien", mustDate(t, "1979-05-25"))

	inst := addInstance(t, s, domain.KindMovie, m.ID, lib.ID)

	got, err := s.GetInstance(ctx, domain.KindMovie, inst.ID)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.Kind != domain.KindMovie || got.MovieID != m.ID || got.Movie == nil || got.Movie.Title != "Alien" {
		t.Errorf("unexpected instance: %+v", got)
	}

	libs, err := s.LibraryIDsForMovie(ctx, m.ID)
	if err != nil {
		t.Fatalf("LibraryIDsForMovie: %v", err)
	}
	if len(libs) != 1 || libs[0] != lib.ID {
		t.Errorf("libraries: %v", libs)
	}

	if err := s.DeleteInstance(ctx, domain.KindMovie, inst.ID); err != nil {
		t.Fatalf("DeleteInstance: %v", err)
	}
	n, _ := s.CountLibraryInstances(ctx, lib.ID)
	if n != 0 {
		t.Errorf("expected library links to cascade, found %d", n)
	}
}

func TestCreateInstance_UnknownBook(t *testing.T) {
	s := newTestStore(t)
	inst := &domain.Instance{
		Entity: domain.Entity{ID: id.MustGenerate(id.BookInstance)},
		Kind:   domain.KindBook,
		Status: domain.StatusMaintenance,
		BookID: "book-missing",
	}
	inst.InitTimestamps()

	err := s.CreateInstance(context.Background(), inst, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLibraryIDsForBook_FirstAppearanceOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createTestLibrary(t, s, "Alpha")
	b := createTestLibrary(t, s, "Beta")
	book := createTestBook(t, s, "Emma")

	addInstance(t, s, domain.KindBook, book.ID, b.ID)
	addInstance(t, s, domain.KindBook, book.ID, a.ID, b.ID)

	got, err := s.LibraryIDsForBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("LibraryIDsForBook: %v", err)
	}
	if len(got) != 2 || got[0] != b.ID || got[1] != a.ID {
		t.Errorf("got %v, want [%s %s]", got, b.ID, a.ID)
	}
}
