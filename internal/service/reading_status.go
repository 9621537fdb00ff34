package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// ReadingStatusService maintains each user's status overlay on shared books.
type ReadingStatusService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
	now       clock
}

// NewReadingStatusService creates a new reading status service.
func NewReadingStatusService(store *sqlite.Store, logger *slog.Logger) *ReadingStatusService {
	return &ReadingStatusService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// UpdateStatusRequest sets a user's reading status on a book.
type UpdateStatusRequest struct {
	BookID string `json:"bookId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=unread reading read abandoned"`
}

// UpdateDateReadRequest sets the date a user finished a book. DateRead is
// ISO 8601; "", "null" and "Invalid Date" clear it.
type UpdateDateReadRequest struct {
	BookID   string `json:"bookId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	DateRead string `json:"dateRead"`
}

// UpdateStatus upserts the (user, book) overlay with a new status. Moving
// to read stamps today's date when none is recorded; no status clears it.
func (s *ReadingStatusService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*domain.UserBook, error) {
	req.BookID = normalize.Text(req.BookID)
	req.UserID = normalize.Text(req.UserID)
	req.Status = normalize.Text(req.Status)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var ub *domain.UserBook
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		var err error
		ub, err = s.load(ctx, tx, req.UserID, req.BookID, domain.ReadingUnread)
		if err != nil {
			return err
		}
		ub.ApplyStatus(domain.ReadingStatus(req.Status), s.now())
		return storeErr(tx.UpsertUserBook(ctx, ub))
	})
	if err != nil {
		return nil, fmt.Errorf("update reading status: %w", err)
	}

	s.logger.Info("reading status updated", "book_id", req.BookID, "user_id", req.UserID, "status", ub.Status)
	return ub, nil
}

// UpdateDateRead upserts the (user, book) overlay with a new date read. A
// missing overlay is created with status read.
func (s *ReadingStatusService) UpdateDateRead(ctx context.Context, req UpdateDateReadRequest) (*domain.UserBook, error) {
	req.BookID = normalize.Text(req.BookID)
	req.UserID = normalize.Text(req.UserID)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	dateRead, err := normalize.OptionalDate(req.DateRead)
	if err != nil {
		return nil, domainerrors.Validation("Invalid 'date read' value. Must be in ISO 8601 format.")
	}

	var ub *domain.UserBook
	err = s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		var err error
		ub, err = s.load(ctx, tx, req.UserID, req.BookID, domain.ReadingRead)
		if err != nil {
			return err
		}
		ub.ApplyDateRead(dateRead)
		return storeErr(tx.UpsertUserBook(ctx, ub))
	})
	if err != nil {
		return nil, fmt.Errorf("update date read: %w", err)
	}

	s.logger.Info("date read updated", "book_id", req.BookID, "user_id", req.UserID, "date_read", ub.DateRead)
	return ub, nil
}

// load returns the existing overlay, or a new one with initial status.
// The book and user must exist.
func (s *ReadingStatusService) load(ctx context.Context, tx *sqlite.Store, userID, bookID string, initial domain.ReadingStatus) (*domain.UserBook, error) {
	ok, err := tx.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.NotFound("Book not found")
	}
	ok, err = tx.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.NotFound("User not found")
	}

	ub, err := tx.GetUserBook(ctx, userID, bookID)
	if err == nil {
		return ub, nil
	}
	if !domainerrors.Is(storeErr(err), domainerrors.ErrNotFound) {
		return nil, err
	}
	ub = domain.NewUserBook(userID, bookID)
	ub.Status = initial
	return ub, nil
}
