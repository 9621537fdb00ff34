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

// AuthorService orchestrates author operations.
type AuthorService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthorService creates a new author service.
func NewAuthorService(store *sqlite.Store, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// AuthorRequest contains fields for creating or updating an author.
type AuthorRequest struct {
	FirstName string `json:"firstName" validate:"required,max=200"`
	LastName  string `json:"lastName" validate:"required,max=200"`
}

func (r *AuthorRequest) normalize() {
	r.FirstName = normalize.Text(r.FirstName)
	r.LastName = normalize.Text(r.LastName)
}

// CreateAuthor creates an author. (firstName, lastName) must be unique.
func (s *AuthorService) CreateAuthor(ctx context.Context, req AuthorRequest) (*domain.Author, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	authorID, err := id.Generate(id.Author)
	if err != nil {
		return nil, err
	}
	a := &domain.Author{Entity: domain.Entity{ID: authorID}, FirstName: req.FirstName, LastName: req.LastName}
	a.InitTimestamps()

	if err := s.store.CreateAuthor(ctx, a); err != nil {
		return nil, fmt.Errorf("create author: %w", storeErr(err))
	}

	recordMutation("author", opCreate)
	s.logger.Info("author created", "id", a.ID, "name", a.Name())
	return a, nil
}

// GetAuthor returns a single author.
func (s *AuthorService) GetAuthor(ctx context.Context, authorID string) (*domain.Author, error) {
	a, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// ListAuthors returns authors, optionally filtered by a name substring.
func (s *AuthorService) ListAuthors(ctx context.Context, name string) ([]*domain.Author, error) {
	authors, err := s.store.ListAuthors(ctx, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	if authors == nil {
		authors = []*domain.Author{}
	}
	return authors, nil
}

// UpdateAuthor renames an author.
func (s *AuthorService) UpdateAuthor(ctx context.Context, authorID string, req AuthorRequest) (*domain.Author, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	a, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, storeErr(err)
	}
	a.FirstName, a.LastName = req.FirstName, req.LastName
	a.Touch()

	if err := s.store.UpdateAuthor(ctx, a); err != nil {
		return nil, fmt.Errorf("update author: %w", storeErr(err))
	}

	recordMutation("author", opUpdate)
	s.logger.Info("author updated", "id", a.ID, "name", a.Name())
	return a, nil
}

// DeleteAuthor removes an author no book references.
func (s *AuthorService) DeleteAuthor(ctx context.Context, authorID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetAuthor(ctx, authorID); err != nil {
			return storeErr(err)
		}
		n, err := tx.CountAuthorBooks(ctx, authorID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domainerrors.Referenced("Cannot delete author as there are associated books")
		}
		return storeErr(tx.DeleteAuthor(ctx, authorID))
	})
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	recordMutation("author", opDelete)
	s.logger.Info("author deleted", "id", authorID)
	return nil
}

// AuthorLookup selects authors for autocomplete. The first criterion set
// wins: ID, then Search as a first- or last-name prefix, then the exact
// FirstName and LastName pair.
type AuthorLookup struct {
	ID        string
	Search    string
	FirstName string
	LastName  string
}

// SearchAuthors returns the authors matching q, or nil when q sets no criterion.
func (s *AuthorService) SearchAuthors(ctx context.Context, q AuthorLookup) ([]*domain.Author, error) {
	switch {
	case q.ID != "":
		return byID(s.store.GetAuthor(ctx, q.ID))
	case q.Search != "":
		return nonNil(s.store.FindAuthorsByPrefix(ctx, normalize.Text(q.Search)))
	case q.FirstName != "" && q.LastName != "":
		return byID(s.store.GetAuthorByName(ctx, normalize.Text(q.FirstName), normalize.Text(q.LastName)))
	}
	return nil, nil
}
