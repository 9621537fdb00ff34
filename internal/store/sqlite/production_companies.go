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

const productionCompanyColumns = `id, created_at, updated_at, name, photo`

func scanProductionCompany(scanner interface{ Scan(dest ...any) error }) (*domain.ProductionCompany, error) {
	var (
		pc                   domain.ProductionCompany
		createdAt, updatedAt string
		photo                sql.NullString
	)
	if err := scanner.Scan(&pc.ID, &createdAt, &updatedAt, &pc.Name, &photo); err != nil {
		return nil, err
	}
	var err error
	if pc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if pc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	pc.Photo = photo.String
	return &pc, nil
}

// CreateProductionCompany inserts a new company. A duplicate name returns store.ErrAlreadyExists.
func (s *Store) CreateProductionCompany(ctx context.Context, pc *domain.ProductionCompany) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO production_companies (`+productionCompanyColumns+`) VALUES (?, ?, ?, ?, ?)`,
		pc.ID, formatTime(pc.CreatedAt), formatTime(pc.UpdatedAt), pc.Name, nullString(pc.Photo))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Production company already exists")
	}
	if err != nil {
		return fmt.Errorf("insert production company: %w", err)
	}
	return nil
}

// FindOrCreateProductionCompany returns the company with this exact name,
// creating it with photo if absent. An existing company keeps its photo.
func (s *Store) FindOrCreateProductionCompany(ctx context.Context, name, photo string) (*domain.ProductionCompany, error) {
	pcID, err := id.Generate(id.ProductionCompany)
	if err != nil {
		return nil, err
	}
	now := formatTime(time.Now())
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO production_companies (`+productionCompanyColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING`, pcID, now, now, name, nullString(photo))
	if err != nil {
		return nil, fmt.Errorf("upsert production company: %w", err)
	}
	row := s.q.QueryRowContext(ctx,
		`SELECT `+productionCompanyColumns+` FROM production_companies WHERE name = ?`, name)
	pc, err := scanProductionCompany(row)
	if err != nil {
		return nil, notFound(err, "Production company not found")
	}
	return pc, nil
}

// GetProductionCompany retrieves a company by ID.
func (s *Store) GetProductionCompany(ctx context.Context, pcID string) (*domain.ProductionCompany, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+productionCompanyColumns+` FROM production_companies WHERE id = ?`, pcID)
	pc, err := scanProductionCompany(row)
	if err != nil {
		return nil, notFound(err, "Production company not found")
	}
	return pc, nil
}

// ListProductionCompanies returns companies ordered by name, optionally filtered by substring.
func (s *Store) ListProductionCompanies(ctx context.Context, name string) ([]*domain.ProductionCompany, error) {
	query := `SELECT ` + productionCompanyColumns + ` FROM production_companies`
	var args []any
	if name != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production companies: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProductionCompany
	for rows.Next() {
		pc, err := scanProductionCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production company: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// UpdateProductionCompany overwrites a company row.
func (s *Store) UpdateProductionCompany(ctx context.Context, pc *domain.ProductionCompany) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE production_companies SET updated_at = ?, name = ?, photo = ? WHERE id = ?`,
		formatTime(pc.UpdatedAt), pc.Name, nullString(pc.Photo), pc.ID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Production company already exists")
	}
	if err != nil {
		return fmt.Errorf("update production company: %w", err)
	}
	return expectOne(res, "Production company not found")
}

// DeleteProductionCompany removes a company.
func (s *Store) DeleteProductionCompany(ctx context.Context, pcID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM production_companies WHERE id = ?`, pcID)
	if err != nil {
		return fmt.Errorf("delete production company: %w", err)
	}
	return expectOne(res, "Production company not found")
}

// CountProductionCompanyMovies returns how many movies credit the company.
func (s *Store) CountProductionCompanyMovies(ctx context.Context, pcID string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM movie_production_companies WHERE production_company_id = ?`, pcID)
}

// SetMovieProductionCompanies replaces the movie's company links.
func (s *Store) SetMovieProductionCompanies(ctx context.Context, movieID string, pcIDs []string) error {
	return s.replaceLinks(ctx, "movie_production_companies", "movie_id", "production_company_id", movieID, pcIDs)
}

func (s *Store) productionCompaniesForMovies(ctx context.Context, movieIDs []string) (map[string][]domain.ProductionCompany, error) {
	out := make(map[string][]domain.ProductionCompany, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.movie_id, pc.id, pc.created_at, pc.updated_at, pc.name, pc.photo
		FROM movie_production_companies l
		JOIN production_companies pc ON pc.id = l.production_company_id
		WHERE l.movie_id IN (`+placeholders(len(movieIDs))+`)
		ORDER BY pc.name COLLATE NOCASE`, stringArgs(movieIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load movie production companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID string
		pc, err := scanProductionCompany(prefixed{rows, &movieID})
		if err != nil {
			return nil, fmt.Errorf("scan movie production company: %w", err)
		}
		out[movieID] = append(out[movieID], *pc)
	}
	return out, rows.Err()
}
