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

// SeriesService orchestrates series operations.
type SeriesService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewSeriesService creates a new series service.
func NewSeriesService(store *sqlite.Store, logger *slog.Logger) *SeriesService {
	return &SeriesService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// SeriesRequest contains fields for creating or updating a series.
type SeriesRequest struct {
	Name        string `json:"name" validate:"required,max=300"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

func (r *SeriesRequest) normalize() {
	r.Name = normalize.Text(r.Name)
	r.Description = normalize.Description(r.Description)
	r.Photo = normalize.Text(r.Photo)
}

// CreateSeries creates a series, or returns the existing one with the same
// name. created reports which happened.
func (s *SeriesService) CreateSeries(ctx context.Context, req SeriesRequest) (sr *domain.Series, created bool, err error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	seriesID, err := id.Generate(id.Series)
	if err != nil {
		return nil, false, err
	}
	sr = &domain.Series{Entity: domain.Entity{ID: seriesID}, Name: req.Name, Description: req.Description, Photo: req.Photo}
	sr.InitTimestamps()

	err = s.store.CreateSeries(ctx, sr)
	switch {
	case domainerrors.Is(err, store.ErrAlreadyExists):
		existing, err := s.store.FindOrCreateSeries(ctx, req.Name)
		if err != nil {
			return nil, false, fmt.Errorf("find series: %w", storeErr(err))
		}
		return existing, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("create series: %w", storeErr(err))
	}

	recordMutation("series", opCreate)
	s.logger.Info("series created", "id", sr.ID, "name", sr.Name)
	return sr, true, nil
}

// GetSeries returns a single series.
func (s *SeriesService) GetSeries(ctx context.Context, seriesID string) (*domain.Series, error) {
	sr, err := s.store.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, storeErr(err)
	}
	return sr, nil
}

// ListSeries returns series, optionally filtered by a name substring.
func (s *SeriesService) ListSeries(ctx context.Context, name string) ([]*domain.Series, error) {
	series, err := s.store.ListSeries(ctx, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	if series == nil {
		series = []*domain.Series{}
	}
	return series, nil
}

// UpdateSeries overwrites a series' name, description and photo.
func (s *SeriesService) UpdateSeries(ctx context.Context, seriesID string, req SeriesRequest) (*domain.Series, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sr, err := s.store.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, storeErr(err)
	}
	sr.Name = req.Name
	sr.Description = req.Description
	sr.Photo = req.Photo
	sr.Touch()

	if err := s.store.UpdateSeries(ctx, sr); err != nil {
		return nil, fmt.Errorf("update series: %w", storeErr(err))
	}

	recordMutation("series", opUpdate)
	s.logger.Info("series updated", "id", sr.ID, "name", sr.Name)
	return sr, nil
}

// DeleteSeries removes a series no book or movie belongs to.
func (s *SeriesService) DeleteSeries(ctx context.Context, seriesID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetSeries(ctx, seriesID); err != nil {
			return storeErr(err)
		}
		movies, err := tx.CountSeriesMovies(ctx, seriesID)
		if err != nil {
			return err
		}
		if movies > 0 {
			return domainerrors.Referenced("Cannot delete series as there are associated movies")
		}
		books, err := tx.CountSeriesBooks(ctx, seriesID)
		if err != nil {
			return err
		}
		if books > 0 {
			return domainerrors.Referenced("Cannot delete series as there are associated books")
		}
		return storeErr(tx.DeleteSeries(ctx, seriesID))
	})
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}

	recordMutation("series", opDelete)
	s.logger.Info("series deleted", "id", seriesID)
	return nil
}

// SeriesLookup selects series for autocomplete. The first criterion set
// wins: ID, then Search as a name prefix, then the exact Name.
type SeriesLookup struct {
	ID     string
	Search string
	Name   string
}

// SearchSeries returns the series matching q, or nil when q sets no criterion.
func (s *SeriesService) SearchSeries(ctx context.Context, q SeriesLookup) ([]*domain.Series, error) {
	switch {
	case q.ID != "":
		return byID(s.store.GetSeries(ctx, q.ID))
	case q.Search != "":
		return nonNil(s.store.FindSeriesByPrefix(ctx, normalize.Text(q.Search)))
	case q.Name != "":
		return nonNil(s.store.FindSeriesByName(ctx, normalize.Text(q.Name)))
	}
	return nil, nil
}
