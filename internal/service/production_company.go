package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// ProductionCompanyService orchestrates production company operations.
type ProductionCompanyService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewProductionCompanyService creates a new production company service.
func NewProductionCompanyService(store *sqlite.Store, logger *slog.Logger) *ProductionCompanyService {
	return &ProductionCompanyService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ProductionCompanyRequest contains fields for creating or updating a production company.
type ProductionCompanyRequest struct {
	Name  string `json:"name" validate:"required,max=300"`
	Photo string `json:"photo"`
}

func (r *ProductionCompanyRequest) normalize() {
	r.Name = normalize.Text(r.Name)
	r.Photo = normalize.Text(r.Photo)
}

// CreateProductionCompany creates a company, or returns the existing one
// with the same name. created reports which happened.
func (s *ProductionCompanyService) CreateProductionCompany(ctx context.Context, req ProductionCompanyRequest) (pc *domain.ProductionCompany, created bool, err error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	pcID, err := id.Generate(id.ProductionCompany)
	if err != nil {
		return nil, false, err
	}
	pc = &domain.ProductionCompany{Entity: domain.Entity{ID: pcID}, Name: req.Name, Photo: req.Photo}
	pc.InitTimestamps()

	err = s.store.CreateProductionCompany(ctx, pc)
	switch {
	case domainerrors.Is(err, store.ErrAlreadyExists):
		existing, err := s.store.FindOrCreateProductionCompany(ctx, req.Name, req.Photo)
		if err != nil {
			return nil, false, fmt.Errorf("find production company: %w", storeErr(err))
		}
		return existing, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("create production company: %w", storeErr(err))
	}

	recordMutation("production_company", opCreate)
	s.logger.Info("production company created", "id", pc.ID, "name", pc.Name)
	return pc, true, nil
}

// GetProductionCompany returns a single production company.
func (s *ProductionCompanyService) GetProductionCompany(ctx context.Context, pcID string) (*domain.ProductionCompany, error) {
	pc, err := s.store.GetProductionCompany(ctx, pcID)
	if err != nil {
		return nil, storeErr(err)
	}
	return pc, nil
}

// ListProductionCompanies returns companies, optionally filtered by a name substring.
func (s *ProductionCompanyService) ListProductionCompanies(ctx context.Context, name string) ([]*domain.ProductionCompany, error) {
	pcs, err := s.store.ListProductionCompanies(ctx, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("list production companies: %w", err)
	}
	if pcs == nil {
		pcs = []*domain.ProductionCompany{}
	}
	return pcs, nil
}

// UpdateProductionCompany overwrites a company's name and photo.
func (s *ProductionCompanyService) UpdateProductionCompany(ctx context.Context, pcID string, req ProductionCompanyRequest) (*domain.ProductionCompany, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	pc, err := s.store.GetProductionCompany(ctx, pcID)
	if err != nil {
		return nil, storeErr(err)
	}
	pc.Name = req.Name
	pc.Photo = req.Photo
	pc.Touch()

	if err := s.store.UpdateProductionCompany(ctx, pc); err != nil {
		return nil, fmt.Errorf("update production company: %w", storeErr(err))
	}

	recordMutation("production_company", opUpdate)
	s.logger.Info("production company updated", "id", pc.ID, "name", pc.Name)
	return pc, nil
}

// DeleteProductionCompany removes a company no movie references.
func (s *ProductionCompanyService) DeleteProductionCompany(ctx context.Context, pcID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetProductionCompany(ctx, pcID); err != nil {
			return storeErr(err)
		}
		n, err := tx.CountProductionCompanyMovies(ctx, pcID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domainerrors.Referenced("Cannot delete production company as there are associated movies")
		}
		return storeErr(tx.DeleteProductionCompany(ctx, pcID))
	})
	if err != nil {
		return fmt.Errorf("delete production company: %w", err)
	}

	recordMutation("production_company", opDelete)
	s.logger.Info("production company deleted", "id", pcID)
	return nil
}

// ProductionCompanyLookup selects companies for autocomplete. The first
// criterion set wins: ID, then Search as a name prefix, then the exact Name.
type ProductionCompanyLookup struct {
	ID     string
	Search string
	Name   string
}

// SearchProductionCompanies returns the companies matching q, or nil when
// q sets no criterion.
func (s *ProductionCompanyService) SearchProductionCompanies(ctx context.Context, q ProductionCompanyLookup) ([]*domain.ProductionCompany, error) {
	switch {
	case q.ID != "":
		return byID(s.store.GetProductionCompany(ctx, q.ID))
	case q.Search != "":
		return nonNil(s.store.FindProductionCompaniesByPrefix(ctx, normalize.Text(q.Search)))
	case q.Name != "":
		return nonNil(s.store.FindProductionCompaniesByName(ctx, normalize.Text(q.Name)))
	}
	return nil, nil
}
