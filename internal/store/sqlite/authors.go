package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

const authorColumns = `id, created_at, updated_at, first_name, last_name`

func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*domain.Author, error) {
	var (
		a                    domain.Author
		createdAt, updatedAt string
	)
	if err := scanner.Scan(&a.ID, &createdAt, &updatedAt, &a.FirstName, &a.LastName); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAuthor inserts a new author. A duplicate (firstName, lastName)
// returns store.ErrAlreadyExists.
func (s *Store) CreateAuthor(ctx context.Context, a *domain.Author) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO authors (`+authorColumns+`) VALUES (?, ?, ?, ?, ?)`,
		a.ID, formatTime(a.CreatedAt), formatTime(a.UpdatedAt), a.FirstName, a.LastName)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Author already exists")
	}
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

// FindOrCreateAuthor returns the author with this exact name, creating it
// if absent. Concurrent callers converge on a single row.
func (s *Store) FindOrCreateAuthor(ctx context.Context, firstName, lastName string) (*domain.Author, error) {
	now := formatTime(time.Now())
	authorID, err := id.Generate(id.Author)
	if err != nil {
		return nil, err
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO authors (`+authorColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(first_name, last_name) DO NOTHING`,
		authorID, now, now, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("upsert author: %w", err)
	}
	return s.GetAuthorByName(ctx, firstName, lastName)
}

// GetAuthor retrieves an author by ID.
func (s *Store) GetAuthor(ctx context.Context, authorID string) (*domain.Author, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, authorID)
	a, err := scanAuthor(row)
	if err != nil {
		return nil, notFound(err, "Author not found")
	}
	return a, nil
}

// GetAuthorByName retrieves an author by exact first and last name.
func (s *Store) GetAuthorByName(ctx context.Context, firstName, lastName string) (*domain.Author, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE first_name = ? AND last_name = ?`, firstName, lastName)
	a, err := scanAuthor(row)
	if err != nil {
		return nil, notFound(err, "Author not found")
	}
	return a, nil
}

// ListAuthors returns authors ordered by last then first name. A non-empty
// name matches either name part as a case-insensitive substring.
func (s *Store) ListAuthors(ctx context.Context, name string) ([]*domain.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors`
	var args []any
	if name != "" {
		query += ` WHERE first_name LIKE ? OR last_name LIKE ? OR (first_name || ' ' || last_name) LIKE ?`
		like := "%" + name + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var out []*domain.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAuthor overwrites an author's names.
func (s *Store) UpdateAuthor(ctx context.Context, a *domain.Author) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE authors SET updated_at = ?, first_name = ?, last_name = ? WHERE id = ?`,
		formatTime(a.UpdatedAt), a.FirstName, a.LastName, a.ID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Author already exists")
	}
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return expectOne(res, "Author not found")
}

// DeleteAuthor removes an author. Callers check CountAuthorBooks first.
func (s *Store) DeleteAuthor(ctx context.Context, authorID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, authorID)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	return expectOne(res, "Author not found")
}

// CountAuthorBooks returns how many books credit the author.
func (s *Store) CountAuthorBooks(ctx context.Context, authorID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM book_authors WHERE author_id = ?`, authorID)
}

// authorsForBooks loads the ordered author list of each book.
func (s *Store) authorsForBooks(ctx context.Context, bookIDs []string) (map[string][]domain.Author, error) {
	out := make(map[string][]domain.Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT ba.book_id, a.id, a.created_at, a.updated_at, a.first_name, a.last_name
		FROM book_authors ba JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id IN (`+placeholders(len(bookIDs))+`)
		ORDER BY ba.book_id, ba.position`, stringArgs(bookIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load book authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID string
		a, err := scanAuthor(prefixed{rows, &bookID})
		if err != nil {
			return nil, fmt.Errorf("scan book author: %w", err)
		}
		out[bookID] = append(out[bookID], *a)
	}
	return out, rows.Err()
}

// SetBookAuthors replaces the book's author links, preserving list order.
func (s *Store) SetBookAuthors(ctx context.Context, bookID string, authorIDs []string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM book_authors WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear book authors: %w", err)
	}
	for i, authorID := range authorIDs {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO book_authors (book_id, author_id, position) VALUES (?, ?, ?)
			ON CONFLICT(book_id, author_id) DO NOTHING`, bookID, authorID, i)
		if err != nil {
			return fmt.Errorf("link book author: %w", err)
		}
	}
	return nil
}
