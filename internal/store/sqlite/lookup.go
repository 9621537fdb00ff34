package sqlite

import (
	"context"
	"fmt"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

// selectAll runs query and scans every row with scan.
func selectAll[T any](ctx context.Context, s *Store, what string, scan func(interface{ Scan(dest ...any) error }) (T, error), query string, args ...any) ([]T, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// FindAuthorsByPrefix returns authors whose first or last name starts with prefix.
func (s *Store) FindAuthorsByPrefix(ctx context.Context, prefix string) ([]*domain.Author, error) {
	return selectAll(ctx, s, "authors", scanAuthor, `
		SELECT `+authorColumns+` FROM authors
		WHERE first_name LIKE ? || '%' OR last_name LIKE ? || '%'
		ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE`, prefix, prefix)
}

// FindSeriesByPrefix returns series whose name starts with prefix.
func (s *Store) FindSeriesByPrefix(ctx context.Context, prefix string) ([]*domain.Series, error) {
	return selectAll(ctx, s, "series", scanSeries, `
		SELECT `+seriesColumns+` FROM series
		WHERE name LIKE ? || '%' ORDER BY name COLLATE NOCASE`, prefix)
}

// FindSeriesByName returns the series named exactly name, if any.
func (s *Store) FindSeriesByName(ctx context.Context, name string) ([]*domain.Series, error) {
	return selectAll(ctx, s, "series", scanSeries,
		`SELECT `+seriesColumns+` FROM series WHERE name = ?`, name)
}

// FindProductionCompaniesByPrefix returns companies whose name starts with prefix.
func (s *Store) FindProductionCompaniesByPrefix(ctx context.Context, prefix string) ([]*domain.ProductionCompany, error) {
	return selectAll(ctx, s, "production companies", scanProductionCompany, `
		SELECT `+productionCompanyColumns+` FROM production_companies
		WHERE name LIKE ? || '%' ORDER BY name COLLATE NOCASE`, prefix)
}

// FindProductionCompaniesByName returns the company named exactly name, if any.
func (s *Store) FindProductionCompaniesByName(ctx context.Context, name string) ([]*domain.ProductionCompany, error) {
	return selectAll(ctx, s, "production companies", scanProductionCompany,
		`SELECT `+productionCompanyColumns+` FROM production_companies WHERE name = ?`, name)
}

// FindGenresByNamePrefix returns genres whose display name starts with prefix.
func (s *Store) FindGenresByNamePrefix(ctx context.Context, prefix string) ([]*domain.Genre, error) {
	return selectAll(ctx, s, "genres", scanGenre, `
		SELECT `+genreColumns+` FROM genres
		WHERE name LIKE ? || '%' ORDER BY path COLLATE NOCASE`, prefix)
}

// FindGenresByPathFragment returns genres whose path contains fragment.
func (s *Store) FindGenresByPathFragment(ctx context.Context, fragment string) ([]*domain.Genre, error) {
	return selectAll(ctx, s, "genres", scanGenre, `
		SELECT `+genreColumns+` FROM genres
		WHERE path LIKE '%' || ? || '%' ORDER BY path COLLATE NOCASE`, fragment)
}

// GetGenreByName retrieves the first genre, in path order, with this display name.
func (s *Store) GetGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE name = ? ORDER BY path COLLATE NOCASE LIMIT 1`, name)
	g, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "Genre not found")
	}
	return g, nil
}
