// Package service implements the catalog's business rules on top of the
// SQLite store: identity resolution, the unified instance feed, the per-user
// reading status overlay and CRUD for every catalog entity.
package service

import (
	"errors"
	"time"

	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/metrics"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// Mutation labels recorded in metrics.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// storeErr translates store sentinels into domain errors, keeping the
// store's message. Other errors pass through unchanged.
func storeErr(err error) error {
	var se *store.Error
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case errors.Is(se, store.ErrNotFound):
		return domainerrors.NotFound(se.Message).WithCause(err)
	case errors.Is(se, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists(se.Message).WithCause(err)
	case errors.Is(se, store.ErrInvalidInput):
		return domainerrors.Validation(se.Message).WithCause(err)
	}
	return err
}

func recordMutation(entity, op string) {
	metrics.RecordCatalogMutation(entity, op)
}

// clock returns the local time; tests replace it.
type clock func() time.Time

// byID wraps a single-row lookup as a list: a missing row yields an empty
// list rather than an error.
func byID[T any](v T, err error) ([]T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []T{v}, nil
}

func nonNil[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
