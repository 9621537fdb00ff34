package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/genre"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// GenreService orchestrates genre operations.
type GenreService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewGenreService creates a new genre service.
func NewGenreService(store *sqlite.Store, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateGenreRequest contains the breadcrumb path of the genre to create.
type CreateGenreRequest struct {
	Path string `json:"path" validate:"required,max=500"`
}

// CreateGenre find-or-creates every level of the path and returns the leaf.
func (s *GenreService) CreateGenre(ctx context.Context, req CreateGenreRequest) (*domain.Genre, error) {
	req.Path = genre.Canonical(req.Path)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var chain []*domain.Genre
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		var err error
		chain, err = tx.FindOrCreateGenrePath(ctx, req.Path)
		return storeErr(err)
	})
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}

	leaf := chain[len(chain)-1]
	recordMutation("genre", opCreate)
	s.logger.Info("genre created", "id", leaf.ID, "path", leaf.Path, "levels", len(chain))
	return leaf, nil
}

// GetGenre returns a single genre.
func (s *GenreService) GetGenre(ctx context.Context, genreID string) (*domain.Genre, error) {
	g, err := s.store.GetGenre(ctx, genreID)
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

// ListGenres returns genres, optionally filtered by a path substring.
func (s *GenreService) ListGenres(ctx context.Context, name string) ([]*domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	if genres == nil {
		genres = []*domain.Genre{}
	}
	return genres, nil
}

// UpdateGenreRequest contains fields for updating a genre.
type UpdateGenreRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateGenre renames a genre's display name. The path is left unchanged
// so existing breadcrumbs keep resolving to it.
func (s *GenreService) UpdateGenre(ctx context.Context, genreID string, req UpdateGenreRequest) (*domain.Genre, error) {
	segs := genre.Segments(req.Name)
	req.Name = ""
	if len(segs) > 0 {
		req.Name = segs[len(segs)-1]
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g, err := s.store.GetGenre(ctx, genreID)
	if err != nil {
		return nil, storeErr(err)
	}
	g.Name = req.Name
	g.Touch()

	if err := s.store.UpdateGenre(ctx, g); err != nil {
		return nil, fmt.Errorf("update genre: %w", storeErr(err))
	}

	recordMutation("genre", opUpdate)
	s.logger.Info("genre updated", "id", g.ID, "name", g.Name)
	return g, nil
}

// DeleteGenre removes a genre no book or movie references.
func (s *GenreService) DeleteGenre(ctx context.Context, genreID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetGenre(ctx, genreID); err != nil {
			return storeErr(err)
		}
		n, err := tx.CountGenreReferences(ctx, genreID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domainerrors.Referenced("Cannot delete genre as it is associated with books or movies")
		}
		return storeErr(tx.DeleteGenre(ctx, genreID))
	})
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}

	recordMutation("genre", opDelete)
	s.logger.Info("genre deleted", "id", genreID)
	return nil
}

// GenreLookup selects genres for autocomplete. The first criterion set
// wins: ID, then Name as a display-name prefix, then Path as a path fragment.
type GenreLookup struct {
	ID   string
	Name string
	Path string
}

// SearchGenres returns the genres matching q. A lookup with no criterion
// is a validation error.
func (s *GenreService) SearchGenres(ctx context.Context, q GenreLookup) ([]*domain.Genre, error) {
	switch {
	case q.ID != "":
		return byID(s.store.GetGenre(ctx, q.ID))
	case q.Name != "":
		return nonNil(s.store.FindGenresByNamePrefix(ctx, genre.Canonical(q.Name)))
	case q.Path != "":
		return nonNil(s.store.FindGenresByPathFragment(ctx, genre.Canonical(q.Path)))
	}
	return nil, domainerrors.Validation("Name, Path, or ID parameter is missing")
}

// GetGenreByName returns the genre with this exact display name.
func (s *GenreService) GetGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	g, err := s.store.GetGenreByName(ctx, genre.Canonical(name))
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}
