package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// InstanceService manages owned copies of books and movies.
type InstanceService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewInstanceService creates a new instance service.
func NewInstanceService(store *sqlite.Store, logger *slog.Logger) *InstanceService {
	return &InstanceService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// InstanceRequest contains fields for creating or updating an instance.
// CatalogID is the book id for book instances and the movie id for movie
// instances. A nil LibraryIDs leaves library links untouched on update.
type InstanceRequest struct {
	Status         string   `json:"status" validate:"required,oneof=Available Maintenance Loaned Reserved"`
	DueBack        string   `json:"dueBack" validate:"isodate"`
	NumberOfCopies *int     `json:"numberOfCopies" validate:"omitempty,gte=1"`
	CatalogID      string   `json:"catalogId"`
	UserID         string   `json:"userId"`
	LibraryIDs     []string `json:"libraryIds"`
}

func (r *InstanceRequest) normalize() {
	r.Status = normalize.Text(r.Status)
	r.DueBack = normalize.Text(r.DueBack)
	r.CatalogID = normalize.Text(r.CatalogID)
	r.UserID = normalize.Text(r.UserID)
	if r.LibraryIDs != nil {
		cleaned := make([]string, 0, len(r.LibraryIDs))
		for _, l := range r.LibraryIDs {
			if l = normalize.Text(l); l != "" {
				cleaned = append(cleaned, l)
			}
		}
		r.LibraryIDs = uniqueIDs(cleaned)
	}
}

func invalidCatalogID(kind domain.MediaKind) *domainerrors.Error {
	if kind == domain.KindMovie {
		return domainerrors.Validation("Invalid Movie ID")
	}
	return domainerrors.Validation("Invalid Book ID")
}

func entityName(kind domain.MediaKind) string {
	return string(kind) + "_instance"
}

// checkReferences verifies the catalog entry, user and libraries a request names.
func (s *InstanceService) checkReferences(ctx context.Context, tx *sqlite.Store, kind domain.MediaKind, req InstanceRequest) error {
	if req.CatalogID == "" {
		return invalidCatalogID(kind)
	}
	var (
		exists bool
		err    error
	)
	if kind == domain.KindMovie {
		exists, err = tx.MovieExists(ctx, req.CatalogID)
	} else {
		exists, err = tx.BookExists(ctx, req.CatalogID)
	}
	if err != nil {
		return err
	}
	if !exists {
		return invalidCatalogID(kind)
	}

	if req.UserID != "" {
		ok, err := tx.UserExists(ctx, req.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.NotFound("User not found")
		}
	}

	if len(req.LibraryIDs) > 0 {
		missing, err := tx.MissingLibraryIDs(ctx, req.LibraryIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return domainerrors.Validation("Invalid Library ID(s)").WithCause(
				fmt.Errorf("unknown libraries: %s", strings.Join(missing, ", ")))
		}
	}
	return nil
}

func (s *InstanceService) apply(inst *domain.Instance, req InstanceRequest) error {
	dueBack, err := normalize.OptionalDate(req.DueBack)
	if err != nil {
		return domainerrors.Validation("Invalid due back date")
	}
	inst.Status = domain.InstanceStatus(req.Status)
	inst.DueBack = dueBack
	inst.UserID = req.UserID
	if inst.Kind == domain.KindMovie {
		inst.MovieID = req.CatalogID
		inst.NumberOfCopies = 0
	} else {
		inst.BookID = req.CatalogID
		if req.NumberOfCopies != nil {
			inst.NumberOfCopies = *req.NumberOfCopies
		}
		if inst.NumberOfCopies < 1 {
			inst.NumberOfCopies = 1
		}
	}
	return nil
}

// CreateInstance creates an instance of kind and attaches it to the requested libraries.
func (s *InstanceService) CreateInstance(ctx context.Context, kind domain.MediaKind, req InstanceRequest) (*domain.Instance, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("Unknown media kind %q", kind)
	}
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	prefix := id.BookInstance
	if kind == domain.KindMovie {
		prefix = id.MovieInstance
	}
	instanceID, err := id.Generate(prefix)
	if err != nil {
		return nil, err
	}
	inst := &domain.Instance{Entity: domain.Entity{ID: instanceID}, Kind: kind}
	inst.InitTimestamps()
	if err := s.apply(inst, req); err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if err := s.checkReferences(ctx, tx, kind, req); err != nil {
			return err
		}
		return storeErr(tx.CreateInstance(ctx, inst, req.LibraryIDs))
	})
	if err != nil {
		return nil, fmt.Errorf("create %s instance: %w", kind, err)
	}

	recordMutation(entityName(kind), opCreate)
	s.logger.Info("instance created", "id", inst.ID, "kind", kind, "catalog_id", inst.CatalogID(), "libraries", len(req.LibraryIDs))
	return s.GetInstance(ctx, kind, inst.ID)
}

// UpdateInstance overwrites an instance's status, due date, catalog entry
// and borrower, and replaces its libraries when LibraryIDs is non-nil.
func (s *InstanceService) UpdateInstance(ctx context.Context, kind domain.MediaKind, instanceID string, req InstanceRequest) (*domain.Instance, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("Unknown media kind %q", kind)
	}
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		inst, err := tx.GetInstance(ctx, kind, instanceID)
		if err != nil {
			return storeErr(err)
		}
		if err := s.checkReferences(ctx, tx, kind, req); err != nil {
			return err
		}
		if err := s.apply(inst, req); err != nil {
			return err
		}
		inst.Touch()

		if err := tx.UpdateInstance(ctx, inst); err != nil {
			return storeErr(err)
		}
		if req.LibraryIDs != nil {
			return storeErr(tx.SetInstanceLibraries(ctx, kind, inst.ID, req.LibraryIDs))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update %s instance: %w", kind, err)
	}

	recordMutation(entityName(kind), opUpdate)
	s.logger.Info("instance updated", "id", instanceID, "kind", kind)
	return s.GetInstance(ctx, kind, instanceID)
}

// DeleteInstance removes an instance; its library links go with it.
func (s *InstanceService) DeleteInstance(ctx context.Context, kind domain.MediaKind, instanceID string) error {
	if err := s.store.DeleteInstance(ctx, kind, instanceID); err != nil {
		return fmt.Errorf("delete %s instance: %w", kind, storeErr(err))
	}
	recordMutation(entityName(kind), opDelete)
	s.logger.Info("instance deleted", "id", instanceID, "kind", kind)
	return nil
}

// GetInstance returns one instance with its libraries and catalog entry.
func (s *InstanceService) GetInstance(ctx context.Context, kind domain.MediaKind, instanceID string) (*domain.Instance, error) {
	inst, err := s.store.GetInstance(ctx, kind, instanceID)
	if err != nil {
		return nil, storeErr(err)
	}
	return inst, nil
}

// ListInstances returns every instance of kind ordered by title sort key.
func (s *InstanceService) ListInstances(ctx context.Context, kind domain.MediaKind) ([]*domain.Instance, error) {
	out, err := s.store.ListInstances(ctx, kind, "", nil)
	if err != nil {
		return nil, fmt.Errorf("list %s instances: %w", kind, err)
	}
	return out, nil
}

// SearchInstances pages through the instances of one kind held by a
// library. An empty libraryID yields an empty page.
func (s *InstanceService) SearchInstances(ctx context.Context, kind domain.MediaKind, libraryID string, page store.PageParams) (*store.PagedResult[*domain.Instance], error) {
	page.Validate()
	libraryID = normalize.Text(libraryID)
	if libraryID == "" {
		return &store.PagedResult[*domain.Instance]{Rows: []*domain.Instance{}}, nil
	}

	total, err := s.store.CountInstances(ctx, kind, libraryID)
	if err != nil {
		return nil, fmt.Errorf("count %s instances: %w", kind, err)
	}
	rows, err := s.store.ListInstances(ctx, kind, libraryID, &page)
	if err != nil {
		return nil, fmt.Errorf("search %s instances: %w", kind, err)
	}
	return &store.PagedResult[*domain.Instance]{Count: total, Rows: rows}, nil
}
