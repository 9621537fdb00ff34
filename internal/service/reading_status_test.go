package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
)

func TestUpdateStatus_ReadStampsTodayAndSticks(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	today := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)
	ts.readingStatus.now = func() time.Time { return today }

	b := ts.createBook(t, "Possession", "A. S. Byatt")
	u := ts.createUser(t, "roland", "ash")

	ub, err := ts.readingStatus.UpdateStatus(ctx, UpdateStatusRequest{BookID: b.ID, UserID: u.ID, Status: "read"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingRead, ub.Status)
	require.NotNil(t, ub.DateRead)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), *ub.DateRead)

	ts.readingStatus.now = func() time.Time { return today.AddDate(0, 0, 5) }
	ub, err = ts.readingStatus.UpdateStatus(ctx, UpdateStatusRequest{BookID: b.ID, UserID: u.ID, Status: "reading"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingReading, ub.Status)
	require.NotNil(t, ub.DateRead)
	assert.Equal(t, 14, ub.DateRead.Day())

	n, err := ts.store.CountUserBooks(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "Stoner", "John Williams")
	u := ts.createUser(t, "edith", "pw")
	req := UpdateStatusRequest{BookID: b.ID, UserID: u.ID, Status: "abandoned"}

	first, err := ts.readingStatus.UpdateStatus(ctx, req)
	require.NoError(t, err)
	second, err := ts.readingStatus.UpdateStatus(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Nil(t, second.DateRead)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestUpdateStatus_Rejects(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "Austerlitz", "W. G. Sebald")
	u := ts.createUser(t, "jacques", "pw")

	tests := []struct {
		name    string
		req     UpdateStatusRequest
		wantErr *domainerrors.Error
	}{
		{name: "unknown status", req: UpdateStatusRequest{BookID: b.ID, UserID: u.ID, Status: "skimmed"}, wantErr: domainerrors.ErrValidation},
		{name: "missing user id", req: UpdateStatusRequest{BookID: b.ID, Status: "read"}, wantErr: domainerrors.ErrValidation},
		{name: "unknown book", req: UpdateStatusRequest{BookID: "book-missing", UserID: u.ID, Status: "read"}, wantErr: domainerrors.ErrNotFound},
		{name: "unknown user", req: UpdateStatusRequest{BookID: b.ID, UserID: "usr-missing", Status: "read"}, wantErr: domainerrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.readingStatus.UpdateStatus(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestUpdateDateRead(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "The Rings of Saturn", "W. G. Sebald")
	u := ts.createUser(t, "max", "pw")

	ub, err := ts.readingStatus.UpdateDateRead(ctx, UpdateDateReadRequest{BookID: b.ID, UserID: u.ID, DateRead: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingRead, ub.Status)
	require.NotNil(t, ub.DateRead)
	assert.Equal(t, "2024-03-01", ub.DateRead.Format(time.DateOnly))

	ub, err = ts.readingStatus.UpdateDateRead(ctx, UpdateDateReadRequest{BookID: b.ID, UserID: u.ID, DateRead: "Invalid Date"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingRead, ub.Status)
	assert.Nil(t, ub.DateRead)

	_, err = ts.readingStatus.UpdateDateRead(ctx, UpdateDateReadRequest{BookID: b.ID, UserID: u.ID, DateRead: "last tuesday"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestResolveBook_IncludesReaders(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "Vertigo", "W. G. Sebald")
	u := ts.createUser(t, "clara", "pw")
	_, err := ts.readingStatus.UpdateStatus(ctx, UpdateStatusRequest{BookID: b.ID, UserID: u.ID, Status: "reading"})
	require.NoError(t, err)

	match, err := ts.books.ResolveBook(ctx, BookQuery{ID: b.ID})
	require.NoError(t, err)
	require.NotNil(t, match)
	require.Len(t, match.Book.Readers, 1)
	assert.Equal(t, u.ID, match.Book.Readers[0].ID)
	assert.Equal(t, domain.ReadingReading, match.Book.Readers[0].UserBook.Status)
}
