package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, isbn10, isbn13, subtitle,
	description, photo, page_count, publisher, published_date, binding`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b                    domain.Book
		createdAt, updatedAt string
		isbn10, isbn13       sql.NullString
		subtitle, desc       sql.NullString
		photo, publisher     sql.NullString
		pageCount            sql.NullInt64
		publishedDate        sql.NullString
		binding              string
	)
	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&isbn10,
		&isbn13,
		&subtitle,
		&desc,
		&photo,
		&pageCount,
		&publisher,
		&publishedDate,
		&binding,
	)
	if err != nil {
		return nil, err
	}

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if b.PublishedDate, err = parseNullableDate(publishedDate); err != nil {
		return nil, err
	}

	b.ISBN10 = isbn10.String
	b.ISBN13 = isbn13.String
	b.Subtitle = subtitle.String
	b.Description = desc.String
	b.Photo = photo.String
	b.Publisher = publisher.String
	b.PageCount = intPtr(pageCount)
	b.Binding = domain.Binding(binding)
	b.Authors = []domain.Author{}
	b.Genres = []domain.Genre{}
	b.Series = []domain.SeriesEntry{}
	return &b, nil
}

// CreateBook inserts the book row. Associations are linked separately.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`, sort_title)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		b.Title,
		nullString(b.ISBN10),
		nullString(b.ISBN13),
		nullString(b.Subtitle),
		nullString(b.Description),
		nullString(b.Photo),
		nullInt(b.PageCount),
		nullString(b.Publisher),
		nullDate(b.PublishedDate),
		string(b.Binding),
		domain.SortTitle(b.Title),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Book already exists")
	}
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// UpdateBook overwrites the book row.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?, title = ?, sort_title = ?, isbn10 = ?, isbn13 = ?, subtitle = ?,
			description = ?, photo = ?, page_count = ?, publisher = ?, published_date = ?, binding = ?
		WHERE id = ?`,
		formatTime(b.UpdatedAt),
		b.Title,
		domain.SortTitle(b.Title),
		nullString(b.ISBN10),
		nullString(b.ISBN13),
		nullString(b.Subtitle),
		nullString(b.Description),
		nullString(b.Photo),
		nullInt(b.PageCount),
		nullString(b.Publisher),
		nullDate(b.PublishedDate),
		string(b.Binding),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return expectOne(res, "Book not found")
}

// DeleteBook removes a book. Its author, genre, series and reader links cascade.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return expectOne(res, "Book not found")
}

// GetBook retrieves a book with its authors, genres and series.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.getBookWhere(ctx, `id = ?`, bookID)
}

// GetBookByISBN10 retrieves the first book with the given ISBN-10.
func (s *Store) GetBookByISBN10(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.getBookWhere(ctx, `isbn10 = ?`, isbn)
}

// GetBookByISBN13 retrieves the first book with the given ISBN-13.
func (s *Store) GetBookByISBN13(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.getBookWhere(ctx, `isbn13 = ?`, isbn)
}

func (s *Store) getBookWhere(ctx context.Context, where string, arg any) (*domain.Book, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE `+where+` ORDER BY rowid LIMIT 1`, arg)
	b, err := scanBook(row)
	if err != nil {
		return nil, notFound(err, "Book not found")
	}
	if err := s.loadBookAssociations(ctx, []*domain.Book{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// BookExists reports whether a book row exists.
func (s *Store) BookExists(ctx context.Context, bookID string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM books WHERE id = ?`, bookID)
	return n > 0, err
}

// ListBooks returns books ordered by sort title, with associations. A
// non-empty title filters by case-insensitive substring.
func (s *Store) ListBooks(ctx context.Context, title string) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any
	if title != "" {
		query += ` WHERE title LIKE ?`
		args = append(args, "%"+title+"%")
	}
	query += ` ORDER BY sort_title COLLATE NOCASE, title, id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadBookAssociations(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// loadBookAssociations fills Authors, Genres and Series on each book.
func (s *Store) loadBookAssociations(ctx context.Context, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}

	authors, err := s.authorsForBooks(ctx, ids)
	if err != nil {
		return err
	}
	genres, err := s.genresFor(ctx, "book_genres", "book_id", ids)
	if err != nil {
		return err
	}
	series, err := s.seriesFor(ctx, "book_series", "book_id", ids)
	if err != nil {
		return err
	}

	for _, b := range books {
		if a := authors[b.ID]; a != nil {
			b.Authors = a
		}
		if g := genres[b.ID]; g != nil {
			b.Genres = g
		}
		if sr := series[b.ID]; sr != nil {
			b.Series = sr
		}
	}
	return nil
}

// BookInstanceIDs returns the ids of every instance of the book.
func (s *Store) BookInstanceIDs(ctx context.Context, bookID string) ([]string, error) {
	return s.ids(ctx, `SELECT id FROM book_instances WHERE book_id = ? ORDER BY rowid`, bookID)
}

// LibraryIDsForBook returns the distinct libraries holding any instance of
// the book, ordered by first appearance.
func (s *Store) LibraryIDsForBook(ctx context.Context, bookID string) ([]string, error) {
	ids, err := s.ids(ctx, `
		SELECT l.library_id FROM library_book_instances l
		JOIN book_instances bi ON bi.id = l.book_instance_id
		WHERE bi.book_id = ?
		ORDER BY bi.rowid, l.rowid`, bookID)
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

func (s *Store) ids(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// booksByID loads the given books with associations, keyed by id.
func (s *Store) booksByID(ctx context.Context, ids []string) (map[string]*domain.Book, error) {
	out := make(map[string]*domain.Book, len(ids))
	ids = dedupe(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	books := make([]*domain.Book, 0, len(ids))
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadBookAssociations(ctx, books); err != nil {
		return nil, err
	}
	for _, b := range books {
		out[b.ID] = b
	}
	return out, nil
}

// CountBooks returns the number of catalog books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM books`)
}
