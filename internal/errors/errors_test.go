package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeReferenced, http.StatusBadRequest},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("Book not found")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("load: %w", Referenced("in use"))
	assert.True(t, Is(wrapped, ErrReferenced))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeInternal, "save book")

	assert.Equal(t, "save book: disk full", err.Error())
	assert.Equal(t, cause, Unwrap(err))
}

func TestValidationMessages(t *testing.T) {
	err := ValidationMessages([]string{"Title is required", "Invalid date"})
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Len(t, err.Messages, 2)

	single := Validation("Invalid Book ID")
	assert.Equal(t, []string{"Invalid Book ID"}, single.Messages)
}
