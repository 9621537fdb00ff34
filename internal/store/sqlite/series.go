package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

const seriesColumns = `id, created_at, updated_at, name, description, photo`

func scanSeries(scanner interface{ Scan(dest ...any) error }) (*domain.Series, error) {
	var (
		sr                   domain.Series
		createdAt, updatedAt string
		description, photo   sql.NullString
	)
	if err := scanner.Scan(&sr.ID, &createdAt, &updatedAt, &sr.Name, &description, &photo); err != nil {
		return nil, err
	}
	var err error
	if sr.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sr.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	sr.Description = description.String
	sr.Photo = photo.String
	return &sr, nil
}

// CreateSeries inserts a new series. A duplicate name returns store.ErrAlreadyExists.
func (s *Store) CreateSeries(ctx context.Context, sr *domain.Series) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO series (`+seriesColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		sr.ID, formatTime(sr.CreatedAt), formatTime(sr.UpdatedAt), sr.Name,
		nullString(sr.Description), nullString(sr.Photo))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Series already exists")
	}
	if err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	return nil
}

// FindOrCreateSeries returns the series with this exact name, creating it if absent.
func (s *Store) FindOrCreateSeries(ctx context.Context, name string) (*domain.Series, error) {
	seriesID, err := id.Generate(id.Series)
	if err != nil {
		return nil, err
	}
	now := formatTime(time.Now())
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO series (`+seriesColumns+`) VALUES (?, ?, ?, ?, NULL, NULL)
		ON CONFLICT(name) DO NOTHING`, seriesID, now, now, name)
	if err != nil {
		return nil, fmt.Errorf("upsert series: %w", err)
	}
	row := s.q.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE name = ?`, name)
	sr, err := scanSeries(row)
	if err != nil {
		return nil, notFound(err, "Series not found")
	}
	return sr, nil
}

// GetSeries retrieves a series by ID.
func (s *Store) GetSeries(ctx context.Context, seriesID string) (*domain.Series, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = ?`, seriesID)
	sr, err := scanSeries(row)
	if err != nil {
		return nil, notFound(err, "Series not found")
	}
	return sr, nil
}

// ListSeries returns series ordered by name, optionally filtered by substring.
func (s *Store) ListSeries(ctx context.Context, name string) ([]*domain.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series`
	var args []any
	if name != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []*domain.Series
	for rows.Next() {
		sr, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// UpdateSeries overwrites a series row.
func (s *Store) UpdateSeries(ctx context.Context, sr *domain.Series) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE series SET updated_at = ?, name = ?, description = ?, photo = ? WHERE id = ?`,
		formatTime(sr.UpdatedAt), sr.Name, nullString(sr.Description), nullString(sr.Photo), sr.ID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Series already exists")
	}
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	return expectOne(res, "Series not found")
}

// DeleteSeries removes a series.
func (s *Store) DeleteSeries(ctx context.Context, seriesID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, seriesID)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return expectOne(res, "Series not found")
}

// CountSeriesBooks returns how many books belong to the series.
func (s *Store) CountSeriesBooks(ctx context.Context, seriesID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM book_series WHERE series_id = ?`, seriesID)
}

// CountSeriesMovies returns how many movies belong to the series.
func (s *Store) CountSeriesMovies(ctx context.Context, seriesID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM movie_series WHERE series_id = ?`, seriesID)
}

// UpsertBookSeries links a book to a series, overwriting the order number
// if the link already exists.
func (s *Store) UpsertBookSeries(ctx context.Context, bookID, seriesID string, orderNumber *int) error {
	return s.upsertSeriesLink(ctx, "book_series", "book_id", bookID, seriesID, orderNumber)
}

// UpsertMovieSeries links a movie to a series, overwriting the order number
// if the link already exists.
func (s *Store) UpsertMovieSeries(ctx context.Context, movieID, seriesID string, orderNumber *int) error {
	return s.upsertSeriesLink(ctx, "movie_series", "movie_id", movieID, seriesID, orderNumber)
}

func (s *Store) upsertSeriesLink(ctx context.Context, table, ownerCol, owner, seriesID string, orderNumber *int) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO `+table+` (`+ownerCol+`, series_id, order_number) VALUES (?, ?, ?)
		ON CONFLICT(`+ownerCol+`, series_id) DO UPDATE SET order_number = excluded.order_number`,
		owner, seriesID, nullInt(orderNumber))
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithMessage("Series not found")
	}
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (s *Store) seriesFor(ctx context.Context, table, ownerCol string, ownerIDs []string) (map[string][]domain.SeriesEntry, error) {
	out := make(map[string][]domain.SeriesEntry, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.`+ownerCol+`, l.order_number,
		       sr.id, sr.created_at, sr.updated_at, sr.name, sr.description, sr.photo
		FROM `+table+` l JOIN series sr ON sr.id = l.series_id
		WHERE l.`+ownerCol+` IN (`+placeholders(len(ownerIDs))+`)
		ORDER BY sr.name COLLATE NOCASE`, stringArgs(ownerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			owner string
			order sql.NullInt64
		)
		sr, err := scanSeries(seriesRow{rows, &owner, &order})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[owner] = append(out[owner], domain.SeriesEntry{Series: *sr, OrderNumber: intPtr(order)})
	}
	return out, rows.Err()
}

// seriesRow scans the owner and order_number columns ahead of the series.
type seriesRow struct {
	rows  *sql.Rows
	owner *string
	order *sql.NullInt64
}

func (r seriesRow) Scan(dest ...any) error {
	return r.rows.Scan(append([]any{r.owner, r.order}, dest...)...)
}
