package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPropertyNotFound is returned when a property does not exist or is not publicly visible.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("email already exists")
	// ErrInvalidRole is returned when a registration names an unknown account type.
	ErrInvalidRole = errors.New("please select a valid account type")
	// ErrInvalidFavoriteAction is returned when a favorite toggle is neither add nor remove.
	ErrInvalidFavoriteAction = errors.New("invalid action")
	// ErrUnauthenticated is returned when an operation needs a logged in user.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError carries the single human readable message of the first failed check.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return NewHTTPError(http.StatusNotFound, "Property not found", "PROPERTY_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, "Email already exists", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, "Please select a valid account type", "INVALID_ROLE")
	case errors.Is(err, ErrInvalidFavoriteAction):
		return NewHTTPError(http.StatusBadRequest, "Invalid action", "INVALID_ACTION")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, "Please log in to continue", "UNAUTHENTICATED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
