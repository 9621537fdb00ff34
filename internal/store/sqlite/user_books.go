package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

const userBookColumns = `user_id, book_id, status, date_read, created_at, updated_at`

func scanUserBook(scanner interface{ Scan(dest ...any) error }) (*domain.UserBook, error) {
	var (
		ub                   domain.UserBook
		status               string
		dateRead             sql.NullString
		createdAt, updatedAt string
	)
	if err := scanner.Scan(&ub.UserID, &ub.BookID, &status, &dateRead, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if ub.DateRead, err = parseNullableDate(dateRead); err != nil {
		return nil, err
	}
	if ub.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if ub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	ub.Status = domain.ReadingStatus(status)
	return &ub, nil
}

// GetUserBook retrieves the reading status of one user for one book.
func (s *Store) GetUserBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+userBookColumns+` FROM user_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
	ub, err := scanUserBook(row)
	if err != nil {
		return nil, notFound(err, "Reading status not found")
	}
	return ub, nil
}

// UpsertUserBook inserts or overwrites the (user, book) row. created_at is
// kept from the first insert.
func (s *Store) UpsertUserBook(ctx context.Context, ub *domain.UserBook) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO user_books (`+userBookColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET
			status = excluded.status,
			date_read = excluded.date_read,
			updated_at = excluded.updated_at`,
		ub.UserID, ub.BookID, string(ub.Status), nullDate(ub.DateRead),
		formatTime(ub.CreatedAt), formatTime(ub.UpdatedAt))
	if isForeignKeyViolation(err) {
		return notFound(sql.ErrNoRows, "Book or user not found")
	}
	if err != nil {
		return fmt.Errorf("upsert user book: %w", err)
	}
	return nil
}

// CountUserBooks returns how many reading status rows exist for the pair.
func (s *Store) CountUserBooks(ctx context.Context, userID, bookID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM user_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
}

// BookReaders returns every user with a reading status for the book, each
// carrying that status.
func (s *Store) BookReaders(ctx context.Context, bookID string) ([]domain.Reader, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT u.id, u.username, u.first_name, u.last_name,
		       ub.user_id, ub.book_id, ub.status, ub.date_read, ub.created_at, ub.updated_at
		FROM user_books ub JOIN users u ON u.id = ub.user_id
		WHERE ub.book_id = ?
		ORDER BY u.username COLLATE NOCASE`, bookID)
	if err != nil {
		return nil, fmt.Errorf("load book readers: %w", err)
	}
	defer rows.Close()

	out := []domain.Reader{}
	for rows.Next() {
		var (
			r                   domain.Reader
			firstName, lastName sql.NullString
		)
		ub, err := scanUserBook(readerRow{rows, []any{&r.ID, &r.Username, &firstName, &lastName}})
		if err != nil {
			return nil, fmt.Errorf("scan book reader: %w", err)
		}
		r.FirstName = firstName.String
		r.LastName = lastName.String
		r.UserBook = *ub
		out = append(out, r)
	}
	return out, rows.Err()
}

// readerRow scans the user columns ahead of the user_books columns.
type readerRow struct {
	rows *sql.Rows
	head []any
}

func (r readerRow) Scan(dest ...any) error {
	return r.rows.Scan(append(r.head, dest...)...)
}
