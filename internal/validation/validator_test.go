package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
)

type sample struct {
	Title     string   `json:"title" validate:"required"`
	Status    string   `json:"status" validate:"omitempty,oneof=Available Loaned"`
	Published string   `json:"publishedDate" validate:"isodate"`
	Email     string   `json:"email,omitempty" validate:"omitempty,email"`
	Libraries []string `json:"libraryIds" validate:"omitempty,min=1"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(sample{Title: "Dune", Status: "Loaned", Published: "1965-08-01"})
	assert.NoError(t, err)
}

func TestValidate_CollectsMessagesInFieldOrder(t *testing.T) {
	v := New()
	err := v.Validate(sample{Status: "Lost", Published: "yesterday", Email: "nope"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
	assert.Equal(t, []string{
		"title is required",
		"status must be one of: Available Loaned",
		"publishedDate must be an ISO 8601 date",
		"email must be a valid email address",
	}, domainErr.Messages)
}

func TestValidate_ISODateAcceptsTimestamps(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sample{Title: "x", Published: "2024-03-01T10:00:00Z"}))
	assert.NoError(t, v.Validate(sample{Title: "x", Published: "2024-03-01T10:00:00.000Z"}))
	assert.Error(t, v.Validate(sample{Title: "x", Published: "2024-13-01"}))
}
