package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"books", "movies", "authors", "genres", "series", "production_companies",
		"libraries", "book_instances", "movie_instances", "users", "user_books", "app_settings",
		"book_authors", "book_genres", "movie_genres", "movie_production_companies",
		"library_book_instances", "library_movie_instances", "book_series", "movie_series",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s1, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()

	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	version, err := Migrate(context.Background(), s2.db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if version != 1 {
		t.Errorf("version: got %d, want 1", version)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.FindOrCreateAuthor(ctx, "Frank", "Herbert"); err != nil {
			t.Fatalf("FindOrCreateAuthor: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	authors, err := s.ListAuthors(ctx, "")
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(authors) != 0 {
		t.Errorf("expected rollback, found %d authors", len(authors))
	}
}

func TestWithTx_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *Store) error {
		// Nested calls join the outer transaction.
		return tx.WithTx(ctx, func(inner *Store) error {
			_, err := inner.FindOrCreateAuthor(ctx, "Frank", "Herbert")
			return err
		})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	if _, err := s.GetAuthorByName(ctx, "Frank", "Herbert"); err != nil {
		t.Errorf("expected committed author: %v", err)
	}
}

// createTestBook inserts a book row with no associations.
func createTestBook(t *testing.T, s *Store, title string) *domain.Book {
	t.Helper()
	b := &domain.Book{Entity: domain.Entity{ID: id.MustGenerate(id.Book)}, Title: title}
	b.InitTimestamps()
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("CreateBook(%q): %v", title, err)
	}
	return b
}

// createTestMovie inserts a movie row with no associations.
func createTestMovie(t *testing.T, s *Store, title string, released time.Time) *domain.Movie {
	t.Helper()
	m := &domain.Movie{Entity: domain.Entity{ID: id.MustGenerate(id.Movie)}, Title: title, ReleaseDate: released}
	m.InitTimestamps()
	if err := s.CreateMovie(context.Background(), m); err != nil {
		t.Fatalf("CreateMovie(%q): %v", title, err)
	}
	return m
}

func createTestLibrary(t *testing.T, s *Store, name string) *domain.Library {
	t.Helper()
	lib := &domain.Library{Entity: domain.Entity{ID: id.MustGenerate(id.Library)}, Name: name, Icon: domain.DefaultLibraryIcon}
	lib.InitTimestamps()
	if err := s.CreateLibrary(context.Background(), lib); err != nil {
		t.Fatalf("CreateLibrary(%q): %v", name, err)
	}
	return lib
}

func createTestUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Entity:       domain.Entity{ID: id.MustGenerate(id.User)},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	u.InitTimestamps()
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}
