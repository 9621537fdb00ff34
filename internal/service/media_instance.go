package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// MediaInstanceService merges book and movie instances into one feed.
//
// Both kinds are paged independently with the same offset and limit, so a
// page holds up to two page sizes of rows: books first, then movies, each
// sorted by title sort key. Count is the sum of both totals.
type MediaInstanceService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewMediaInstanceService creates a new media instance service.
func NewMediaInstanceService(store *sqlite.Store, logger *slog.Logger) *MediaInstanceService {
	return &MediaInstanceService{store: store, logger: logger}
}

// Search returns one page of a library's instances of every kind. An
// empty libraryID yields an empty page.
func (s *MediaInstanceService) Search(ctx context.Context, libraryID string, page store.PageParams) (*store.PagedResult[*domain.Instance], error) {
	page.Validate()
	libraryID = normalize.Text(libraryID)
	result := &store.PagedResult[*domain.Instance]{Rows: []*domain.Instance{}}
	if libraryID == "" {
		return result, nil
	}

	for _, kind := range domain.MediaKinds {
		total, err := s.store.CountInstances(ctx, kind, libraryID)
		if err != nil {
			return nil, fmt.Errorf("count %s instances: %w", kind, err)
		}
		rows, err := s.store.ListInstances(ctx, kind, libraryID, &page)
		if err != nil {
			return nil, fmt.Errorf("search %s instances: %w", kind, err)
		}
		result.Count += total
		result.Rows = append(result.Rows, rows...)
	}

	s.logger.Debug("media instance search",
		"library_id", libraryID,
		"page", page.Page,
		"page_size", page.PageSize,
		"count", result.Count,
		"rows", len(result.Rows),
	)
	return result, nil
}

// FindAll returns every instance of every kind, books first.
func (s *MediaInstanceService) FindAll(ctx context.Context) ([]*domain.Instance, error) {
	out := []*domain.Instance{}
	for _, kind := range domain.MediaKinds {
		rows, err := s.store.ListInstances(ctx, kind, "", nil)
		if err != nil {
			return nil, fmt.Errorf("list %s instances: %w", kind, err)
		}
		out = append(out, rows...)
	}
	return out, nil
}
