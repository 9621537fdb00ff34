// Package response writes JSON bodies for routes served outside huma:
// the rate limiter, the health probe and the router's 404/405 fallbacks.
package response

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// ErrorBody matches the error shape huma handlers return.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes an error body with the given status and code.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Code: string(code), Message: message}, logger)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, logger)
}

// MethodNotAllowed writes a 405 response.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, CodeForStatus(http.StatusMethodNotAllowed), "method not allowed", logger)
}

// TooManyRequests writes a 429 response with a Retry-After hint in seconds.
func TooManyRequests(w http.ResponseWriter, retryAfter string, logger *slog.Logger) {
	if retryAfter != "" {
		w.Header().Set("Retry-After", retryAfter)
	}
	rejected := domainerrors.ErrTooManyRequests
	Error(w, rejected.HTTPStatus(), rejected.Code, rejected.Message, logger)
}

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", logger)
}

// Describe maps domain and store errors to a status and body. known is
// false for anything else, which is described as a generic 500.
func Describe(err error) (status int, body ErrorBody, known bool) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeInternal {
		return domainErr.HTTPStatus(), ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Errors:  domainErr.Messages,
		}, true
	}

	var storeErr *store.Error
	if domainerrors.As(err, &storeErr) {
		status := storeErr.HTTPCode()
		return status, ErrorBody{Code: string(CodeForStatus(status)), Message: storeErr.Message}, true
	}

	return http.StatusInternalServerError, ErrorBody{
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}, false
}

// HandleError writes the response Describe picks for err. Unknown errors
// are logged.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body, known := Describe(err)
	if !known && logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	JSON(w, status, body, logger)
}

// CodeForStatus returns the error code reported for an HTTP status.
func CodeForStatus(status int) domainerrors.Code {
	switch status {
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeInvalidCredentials
	case http.StatusTooManyRequests:
		return domainerrors.CodeTooManyRequests
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return domainerrors.CodeInternal
	}
}
