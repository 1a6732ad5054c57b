package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/store"
)

// Messages for failures raised by the HTTP layer itself.
const (
	msgInvalidRequest = "Invalid request"
	msgServerError    = "Server error"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
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

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return fromDomainError(domainErr)
		}

		// Store sentinels that escape a service are still "not found" to clients.
		if errors.Is(err, store.ErrNotFound) {
			return fromDomainError(domainerrors.NotFound(http.StatusText(http.StatusNotFound)))
		}
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		// Malformed bodies and schema violations are client faults; clients
		// of this API expect 403 for those.
		return &APIError{
			status:  domainerrors.CodeInvalidInput.HTTPStatus(),
			Code:    string(domainerrors.CodeInvalidInput),
			Message: msgInvalidRequest,
			Details: errorDetails(message, errs),
		}
	case status >= http.StatusInternalServerError:
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeInternal),
			Message: msgServerError,
		}
	}

	return &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
}

// fromDomainError renders a domain error. Server faults never carry their
// message or details to the client.
func fromDomainError(err *domainerrors.Error) *APIError {
	status := err.HTTPStatus()
	if status >= http.StatusInternalServerError {
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeInternal),
			Message: msgServerError,
		}
	}
	return &APIError{
		status:  status,
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}
}

// errorDetails flattens huma's validation errors into readable strings.
func errorDetails(message string, errs []error) []string {
	details := make([]string, 0, len(errs)+1)
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}
	if len(details) == 0 && message != "" {
		details = append(details, message)
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusLengthRequired:
		return string(domainerrors.CodeValidation)
	default:
		if status < http.StatusInternalServerError {
			return string(domainerrors.CodeInvalidInput)
		}
		return string(domainerrors.CodeInternal)
	}
}
