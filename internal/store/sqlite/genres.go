package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/genre"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// genreColumns must match the scan order in scanGenre.
const genreColumns = `id, created_at, updated_at, name, path, parent_id`

func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var (
		g                    domain.Genre
		createdAt, updatedAt string
		parentID             sql.NullString
	)
	if err := scanner.Scan(&g.ID, &createdAt, &updatedAt, &g.Name, &g.Path, &parentID); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		g.ParentID = parentID.String
	}
	return &g, nil
}

// FindOrCreateGenrePath find-or-creates one genre per cumulative prefix of
// path and returns them root first. The last element is the leaf.
func (s *Store) FindOrCreateGenrePath(ctx context.Context, path string) ([]*domain.Genre, error) {
	levels := genre.Levels(path)
	if len(levels) == 0 {
		return nil, store.ErrInvalidInput.WithMessage("Genre path is empty")
	}

	out := make([]*domain.Genre, 0, len(levels))
	var parentID string
	for _, lvl := range levels {
		g, err := s.findOrCreateGenre(ctx, lvl.Name, lvl.Path, parentID)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
		parentID = g.ID
	}
	return out, nil
}

func (s *Store) findOrCreateGenre(ctx context.Context, name, path, parentID string) (*domain.Genre, error) {
	genreID, err := id.Generate(id.Genre)
	if err != nil {
		return nil, err
	}
	now := formatTime(time.Now())
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO genres (`+genreColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO NOTHING`,
		genreID, now, now, name, path, nullString(parentID))
	if err != nil {
		return nil, fmt.Errorf("upsert genre %q: %w", path, err)
	}
	return s.GetGenreByPath(ctx, path)
}

// GetGenre retrieves a genre by ID.
func (s *Store) GetGenre(ctx context.Context, genreID string) (*domain.Genre, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ?`, genreID)
	g, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "Genre not found")
	}
	return g, nil
}

// GetGenreByPath retrieves a genre by its canonical path.
func (s *Store) GetGenreByPath(ctx context.Context, path string) (*domain.Genre, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+genreColumns+` FROM genres WHERE path = ?`, path)
	g, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "Genre not found")
	}
	return g, nil
}

// ListGenres returns genres ordered by path. A non-empty name filters by
// case-insensitive substring on the path.
func (s *Store) ListGenres(ctx context.Context, name string) ([]*domain.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres`
	var args []any
	if name != "" {
		query += ` WHERE path LIKE ?`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY path COLLATE NOCASE`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var out []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGenre overwrites a genre's display name.
func (s *Store) UpdateGenre(ctx context.Context, g *domain.Genre) error {
	res, err := s.q.ExecContext(ctx, `UPDATE genres SET updated_at = ?, name = ? WHERE id = ?`,
		formatTime(g.UpdatedAt), g.Name, g.ID)
	if err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	return expectOne(res, "Genre not found")
}

// DeleteGenre removes a genre. Children keep their paths and lose their parent link.
func (s *Store) DeleteGenre(ctx context.Context, genreID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, genreID)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return expectOne(res, "Genre not found")
}

// CountGenreReferences returns how many books and movies are tagged with the genre.
func (s *Store) CountGenreReferences(ctx context.Context, genreID string) (int, error) {
	return s.count(ctx, `
		SELECT (SELECT COUNT(*) FROM book_genres WHERE genre_id = ?)
		     + (SELECT COUNT(*) FROM movie_genres WHERE genre_id = ?)`, genreID, genreID)
}

// SetBookGenres replaces the book's genre links.
func (s *Store) SetBookGenres(ctx context.Context, bookID string, genreIDs []string) error {
	return s.replaceLinks(ctx, "book_genres", "book_id", "genre_id", bookID, genreIDs)
}

// SetMovieGenres replaces the movie's genre links.
func (s *Store) SetMovieGenres(ctx context.Context, movieID string, genreIDs []string) error {
	return s.replaceLinks(ctx, "movie_genres", "movie_id", "genre_id", movieID, genreIDs)
}

func (s *Store) genresFor(ctx context.Context, table, ownerCol string, ownerIDs []string) (map[string][]domain.Genre, error) {
	out := make(map[string][]domain.Genre, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.`+ownerCol+`, g.id, g.created_at, g.updated_at, g.name, g.path, g.parent_id
		FROM `+table+` l JOIN genres g ON g.id = l.genre_id
		WHERE l.`+ownerCol+` IN (`+placeholders(len(ownerIDs))+`)
		ORDER BY g.path COLLATE NOCASE`, stringArgs(ownerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		g, err := scanGenre(prefixed{rows, &owner})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[owner] = append(out[owner], *g)
	}
	return out, rows.Err()
}

// replaceLinks deletes every row of a two-column join table for owner and
// inserts one row per target.
func (s *Store) replaceLinks(ctx context.Context, table, ownerCol, targetCol, owner string, targets []string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+ownerCol+` = ?`, owner); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, target := range targets {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO `+table+` (`+ownerCol+`, `+targetCol+`) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			owner, target)
		if isForeignKeyViolation(err) {
			return store.ErrNotFound.WithMessage(fmt.Sprintf("%s %s does not exist", targetCol, target))
		}
		if err != nil {
			return fmt.Errorf("link %s: %w", table, err)
		}
	}
	return nil
}
