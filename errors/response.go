package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON structure returned to clients following RFC 7807.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
// Kinds stay server-side: validation failures surface as INVALID_INPUT and
// every credential or token rejection surfaces as UNAUTHORIZED.
func (e *AppError) ToResponse() ErrorResponse {
	switch e.Category() {
	case CategoryValidation:
		return ErrorResponse{Error: ErrorBody{
			Code:    ErrCodeInvalidInput,
			Message: e.Message,
			Details: publicDetails(e.Details),
		}}
	case CategoryHashing, CategoryToken, CategoryAuth:
		return ErrorResponse{Error: ErrorBody{
			Code:    ErrCodeUnauthorized,
			Message: "Authentication failed.",
		}}
	default:
		return ErrorResponse{Error: ErrorBody{
			Code:    ErrCodeInternal,
			Message: "An unexpected error occurred. Please try again or contact support.",
		}}
	}
}

// PublicStatus returns the HTTP status the transport layer should use.
func (e *AppError) PublicStatus() int {
	switch e.Category() {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryHashing, CategoryToken, CategoryAuth:
		return http.StatusUnauthorized
	default:
		if e.HTTPStatus != 0 {
			return e.HTTPStatus
		}
		return http.StatusInternalServerError
	}
}

func publicDetails(details map[string]any) map[string]any {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if k == "kind" {
			continue
		}
		out[k] = v
	}
	return out
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
