package sqlite

import (
	"context"
	"fmt"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

const libraryColumns = `id, created_at, updated_at, name, icon`

func scanLibrary(scanner interface{ Scan(dest ...any) error }) (*domain.Library, error) {
	var (
		lib                  domain.Library
		createdAt, updatedAt string
	)
	if err := scanner.Scan(&lib.ID, &createdAt, &updatedAt, &lib.Name, &lib.Icon); err != nil {
		return nil, err
	}
	var err error
	if lib.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if lib.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &lib, nil
}

// CreateLibrary inserts a new library. A duplicate name returns store.ErrAlreadyExists.
func (s *Store) CreateLibrary(ctx context.Context, lib *domain.Library) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO libraries (`+libraryColumns+`) VALUES (?, ?, ?, ?, ?)`,
		lib.ID, formatTime(lib.CreatedAt), formatTime(lib.UpdatedAt), lib.Name, lib.Icon)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Library name must be unique")
	}
	if err != nil {
		return fmt.Errorf("insert library: %w", err)
	}
	return nil
}

// GetLibrary retrieves a library by ID.
func (s *Store) GetLibrary(ctx context.Context, libraryID string) (*domain.Library, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+libraryColumns+` FROM libraries WHERE id = ?`, libraryID)
	lib, err := scanLibrary(row)
	if err != nil {
		return nil, notFound(err, "Library not found")
	}
	return lib, nil
}

// ListLibraries returns libraries ordered by name. A non-empty name
// filters by case-insensitive substring.
func (s *Store) ListLibraries(ctx context.Context, name string) ([]*domain.Library, error) {
	query := `SELECT ` + libraryColumns + ` FROM libraries`
	var args []any
	if name != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	var out []*domain.Library
	for rows.Next() {
		lib, err := scanLibrary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan library: %w", err)
		}
		out = append(out, lib)
	}
	return out, rows.Err()
}

// MissingLibraryIDs returns the ids that do not name an existing library,
// in input order.
func (s *Store) MissingLibraryIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.QueryContext(ctx,
		`SELECT id FROM libraries WHERE id IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("check libraries: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var libID string
		if err := rows.Scan(&libID); err != nil {
			return nil, err
		}
		found[libID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, libID := range ids {
		if !found[libID] {
			missing = append(missing, libID)
		}
	}
	return missing, nil
}

// UpdateLibrary overwrites a library row.
func (s *Store) UpdateLibrary(ctx context.Context, lib *domain.Library) error {
	res, err := s.q.ExecContext(ctx, `UPDATE libraries SET updated_at = ?, name = ?, icon = ? WHERE id = ?`,
		formatTime(lib.UpdatedAt), lib.Name, lib.Icon, lib.ID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Library name must be unique")
	}
	if err != nil {
		return fmt.Errorf("update library: %w", err)
	}
	return expectOne(res, "Library not found")
}

// DeleteLibrary removes a library.
func (s *Store) DeleteLibrary(ctx context.Context, libraryID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM libraries WHERE id = ?`, libraryID)
	if err != nil {
		return fmt.Errorf("delete library: %w", err)
	}
	return expectOne(res, "Library not found")
}

// CountLibraryInstances returns how many instances of either kind the library holds.
func (s *Store) CountLibraryInstances(ctx context.Context, libraryID string) (int, error) {
	return s.count(ctx, `
		SELECT (SELECT COUNT(*) FROM library_book_instances WHERE library_id = ?)
		     + (SELECT COUNT(*) FROM library_movie_instances WHERE library_id = ?)`, libraryID, libraryID)
}
