package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/http/response"
)

// APIError is a custom error type that implements huma.StatusError.
// It renders as {"code", "message", "errors"} for every failure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string   `json:"code" doc:"Machine-readable error code"`
	Message string   `json:"message" doc:"Human-readable error message"`
	Errors  []string `json:"errors,omitempty" doc:"One message per failing field"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to render domain and store errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			if err == nil {
				continue
			}
			code, body, known := response.Describe(err)
			if known {
				return &APIError{status: code, Code: body.Code, Message: body.Message, Errors: body.Errors}
			}
		}

		// Schema validation failures are reported like service validation.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		var details []string
		for _, err := range errs {
			var detail *huma.ErrorDetail
			if errors.As(err, &detail) {
				details = append(details, detailMessage(detail))
			}
		}

		if status >= http.StatusInternalServerError {
			if logger != nil {
				logger.Error("request failed", "status", status, "message", message, "error", errors.Join(errs...))
			}
			message = "internal server error"
			details = nil
		}

		return &APIError{
			status:  status,
			Code:    string(response.CodeForStatus(status)),
			Message: message,
			Errors:  details,
		}
	}
}

// detailMessage renders "body.title: expected string".
func detailMessage(d *huma.ErrorDetail) string {
	if d.Location == "" {
		return d.Message
	}
	return d.Location + ": " + d.Message
}
