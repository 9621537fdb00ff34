package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// movieColumns must match the scan order in scanMovie.
const movieColumns = `id, created_at, updated_at, title, release_date, subtitle,
	description, upc, runtime, budget, revenue, photo`

func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var (
		m                        domain.Movie
		createdAt, updatedAt     string
		releaseDate              string
		subtitle, desc, upc      sql.NullString
		photo                    sql.NullString
		runtime, budget, revenue sql.NullInt64
	)
	err := scanner.Scan(
		&m.ID,
		&createdAt,
		&updatedAt,
		&m.Title,
		&releaseDate,
		&subtitle,
		&desc,
		&upc,
		&runtime,
		&budget,
		&revenue,
		&photo,
	)
	if err != nil {
		return nil, err
	}

	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if m.ReleaseDate, err = parseDate(releaseDate); err != nil {
		return nil, err
	}

	m.Subtitle = subtitle.String
	m.Description = desc.String
	m.UPC = upc.String
	m.Photo = photo.String
	m.Runtime = int64Ptr(runtime)
	m.Budget = int64Ptr(budget)
	m.Revenue = int64Ptr(revenue)
	m.Genres = []domain.Genre{}
	m.ProductionCompanies = []domain.ProductionCompany{}
	m.Series = []domain.SeriesEntry{}
	return &m, nil
}

// CreateMovie inserts the movie row. Associations are linked separately.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`, sort_title)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
		m.Title,
		formatDate(m.ReleaseDate),
		nullString(m.Subtitle),
		nullString(m.Description),
		nullString(m.UPC),
		nullInt64(m.Runtime),
		nullInt64(m.Budget),
		nullInt64(m.Revenue),
		nullString(m.Photo),
		domain.SortTitle(m.Title),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Movie already exists")
	}
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// UpdateMovie overwrites the movie row.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE movies SET
			updated_at = ?, title = ?, sort_title = ?, release_date = ?, subtitle = ?,
			description = ?, upc = ?, runtime = ?, budget = ?, revenue = ?, photo = ?
		WHERE id = ?`,
		formatTime(m.UpdatedAt),
		m.Title,
		domain.SortTitle(m.Title),
		formatDate(m.ReleaseDate),
		nullString(m.Subtitle),
		nullString(m.Description),
		nullString(m.UPC),
		nullInt64(m.Runtime),
		nullInt64(m.Budget),
		nullInt64(m.Revenue),
		nullString(m.Photo),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return expectOne(res, "Movie not found")
}

// DeleteMovie removes a movie. Its genre, company and series links cascade.
func (s *Store) DeleteMovie(ctx context.Context, movieID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, movieID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return expectOne(res, "Movie not found")
}

// GetMovie retrieves a movie with its genres, production companies and series.
func (s *Store) GetMovie(ctx context.Context, movieID string) (*domain.Movie, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, movieID)
	return s.scanMovieWithAssociations(ctx, row)
}

// GetMovieByTitleAndReleaseDate finds the movie with this exact title released
// on the same calendar day.
func (s *Store) GetMovieByTitleAndReleaseDate(ctx context.Context, title string, releaseDate time.Time) (*domain.Movie, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE title = ? AND release_date = ?
		ORDER BY rowid LIMIT 1`, title, formatDate(releaseDate))
	return s.scanMovieWithAssociations(ctx, row)
}

func (s *Store) scanMovieWithAssociations(ctx context.Context, row *sql.Row) (*domain.Movie, error) {
	m, err := scanMovie(row)
	if err != nil {
		return nil, notFound(err, "Movie not found")
	}
	if err := s.loadMovieAssociations(ctx, []*domain.Movie{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// MovieExists reports whether a movie row exists.
func (s *Store) MovieExists(ctx context.Context, movieID string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM movies WHERE id = ?`, movieID)
	return n > 0, err
}

// ListMovies returns movies ordered by sort title, with associations. A
// non-empty title filters by case-insensitive substring.
func (s *Store) ListMovies(ctx context.Context, title string) ([]*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	var args []any
	if title != "" {
		query += ` WHERE title LIKE ?`
		args = append(args, "%"+title+"%")
	}
	query += ` ORDER BY sort_title COLLATE NOCASE, title, id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	var movies []*domain.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadMovieAssociations(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// loadMovieAssociations fills Genres, ProductionCompanies and Series on each movie.
func (s *Store) loadMovieAssociations(ctx context.Context, movies []*domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}

	genres, err := s.genresFor(ctx, "movie_genres", "movie_id", ids)
	if err != nil {
		return err
	}
	companies, err := s.productionCompaniesForMovies(ctx, ids)
	if err != nil {
		return err
	}
	series, err := s.seriesFor(ctx, "movie_series", "movie_id", ids)
	if err != nil {
		return err
	}

	for _, m := range movies {
		if g := genres[m.ID]; g != nil {
			m.Genres = g
		}
		if pc := companies[m.ID]; pc != nil {
			m.ProductionCompanies = pc
		}
		if sr := series[m.ID]; sr != nil {
			m.Series = sr
		}
	}
	return nil
}

// MovieInstanceIDs returns the ids of every instance of the movie.
func (s *Store) MovieInstanceIDs(ctx context.Context, movieID string) ([]string, error) {
	return s.ids(ctx, `SELECT id FROM movie_instances WHERE movie_id = ? ORDER BY rowid`, movieID)
}

// LibraryIDsForMovie returns the distinct libraries holding any instance of
// the movie, ordered by first appearance.
func (s *Store) LibraryIDsForMovie(ctx context.Context, movieID string) ([]string, error) {
	ids, err := s.ids(ctx, `
		SELECT l.library_id FROM library_movie_instances l
		JOIN movie_instances mi ON mi.id = l.movie_instance_id
		WHERE mi.movie_id = ?
		ORDER BY mi.rowid, l.rowid`, movieID)
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

// moviesByID loads the given movies with associations, keyed by id.
func (s *Store) moviesByID(ctx context.Context, ids []string) (map[string]*domain.Movie, error) {
	out := make(map[string]*domain.Movie, len(ids))
	ids = dedupe(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	movies := make([]*domain.Movie, 0, len(ids))
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadMovieAssociations(ctx, movies); err != nil {
		return nil, err
	}
	for _, m := range movies {
		out[m.ID] = m
	}
	return out, nil
}

// CountMovies returns the number of catalog movies.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM movies`)
}
