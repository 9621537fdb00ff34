package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// LibraryService orchestrates library operations.
type LibraryService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewLibraryService creates a new library service.
func NewLibraryService(store *sqlite.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// LibraryRequest contains fields for creating or updating a library.
type LibraryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Icon string `json:"icon" validate:"max=100"`
}

func (r *LibraryRequest) normalize() {
	r.Name = normalize.Text(r.Name)
	r.Icon = normalize.Text(r.Icon)
}

// CreateLibrary creates a library. Names are unique; the icon defaults to
// domain.DefaultLibraryIcon.
func (s *LibraryService) CreateLibrary(ctx context.Context, req LibraryRequest) (*domain.Library, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Icon == "" {
		req.Icon = domain.DefaultLibraryIcon
	}

	libraryID, err := id.Generate(id.Library)
	if err != nil {
		return nil, err
	}
	lib := &domain.Library{Entity: domain.Entity{ID: libraryID}, Name: req.Name, Icon: req.Icon}
	lib.InitTimestamps()

	if err := s.store.CreateLibrary(ctx, lib); err != nil {
		return nil, fmt.Errorf("create library: %w", storeErr(err))
	}

	recordMutation("library", opCreate)
	s.logger.Info("library created", "id", lib.ID, "name", lib.Name)
	return lib, nil
}

// GetLibrary returns a single library.
func (s *LibraryService) GetLibrary(ctx context.Context, libraryID string) (*domain.Library, error) {
	lib, err := s.store.GetLibrary(ctx, libraryID)
	if err != nil {
		return nil, storeErr(err)
	}
	return lib, nil
}

// ListLibraries returns libraries, optionally filtered by a name substring.
func (s *LibraryService) ListLibraries(ctx context.Context, name string) ([]*domain.Library, error) {
	libs, err := s.store.ListLibraries(ctx, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	if libs == nil {
		libs = []*domain.Library{}
	}
	return libs, nil
}

// UpdateLibrary renames a library or changes its icon. An empty icon keeps
// the current one.
func (s *LibraryService) UpdateLibrary(ctx context.Context, libraryID string, req LibraryRequest) (*domain.Library, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lib, err := s.store.GetLibrary(ctx, libraryID)
	if err != nil {
		return nil, storeErr(err)
	}
	lib.Name = req.Name
	setIfNotEmpty(&lib.Icon, req.Icon)
	lib.Touch()

	if err := s.store.UpdateLibrary(ctx, lib); err != nil {
		return nil, fmt.Errorf("update library: %w", storeErr(err))
	}

	recordMutation("library", opUpdate)
	s.logger.Info("library updated", "id", lib.ID, "name", lib.Name)
	return lib, nil
}

// DeleteLibrary removes an empty library.
func (s *LibraryService) DeleteLibrary(ctx context.Context, libraryID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetLibrary(ctx, libraryID); err != nil {
			return storeErr(err)
		}
		n, err := tx.CountLibraryInstances(ctx, libraryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domainerrors.Referenced("Cannot delete library as it contains instances")
		}
		return storeErr(tx.DeleteLibrary(ctx, libraryID))
	})
	if err != nil {
		return fmt.Errorf("delete library: %w", err)
	}

	recordMutation("library", opDelete)
	s.logger.Info("library deleted", "id", libraryID)
	return nil
}
