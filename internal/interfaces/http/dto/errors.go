package dto

import (
	"net/http"

	"github.com/logistics/backend/internal/domain/shared"
)

// Domain error codes pass through unchanged
const (
	ErrCodeNotFound             = shared.CodeNotFound
	ErrCodeInvalidInput         = shared.CodeInvalidInput
	ErrCodeUnauthorized         = shared.CodeUnauthorized
	ErrCodeAuthorizationDenied  = shared.CodeAuthorizationDenied
	ErrCodeValidationConflict   = shared.CodeValidationConflict
	ErrCodeReferentialIntegrity = shared.CodeReferentialIntegrity
	ErrCodeMalformedPayload     = shared.CodeMalformedPayload
	ErrCodeExternalDependency   = shared.CodeExternalDependency
	ErrCodeConfiguration        = shared.CodeConfiguration
)

// Transport error codes
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeValidationConflict:   http.StatusConflict,
	ErrCodeReferentialIntegrity: http.StatusConflict,
	ErrCodeMalformedPayload:     http.StatusBadRequest,
	ErrCodeExternalDependency:   http.StatusBadGateway,
	ErrCodeConfiguration:        http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode folds codes that must not be told apart on the wire.
// A denied object read is reported exactly like a missing one.
func NormalizeErrorCode(code string) string {
	if code == ErrCodeAuthorizationDenied {
		return ErrCodeNotFound
	}
	return code
}

// PublicMessage returns the message sent for a normalized code. Not-found
// responses always carry the same text so they leak nothing about the
// record's existence.
func PublicMessage(code, message string) string {
	if code == ErrCodeNotFound {
		return shared.ErrNotFound.Message
	}
	return message
}
