package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so errors created
// with a more specific message still match the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeAuthorizationDenied  = "AUTHORIZATION_DENIED"
	CodeValidationConflict   = "VALIDATION_CONFLICT"
	CodeReferentialIntegrity = "REFERENTIAL_INTEGRITY"
	CodeMalformedPayload     = "MALFORMED_PAYLOAD"
	CodeExternalDependency   = "EXTERNAL_DEPENDENCY_FAILURE"
	CodeConfiguration        = "CONFIGURATION_ERROR"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized         = NewDomainError(CodeUnauthorized, "Authentication required")
	ErrAuthorizationDenied  = NewDomainError(CodeAuthorizationDenied, "Not authorized to perform this action")
	ErrValidationConflict   = NewDomainError(CodeValidationConflict, "Operation conflicts with existing data")
	ErrReferentialIntegrity = NewDomainError(CodeReferentialIntegrity, "Resource is still referenced")
	ErrMalformedPayload     = NewDomainError(CodeMalformedPayload, "Malformed payload")
	ErrExternalDependency   = NewDomainError(CodeExternalDependency, "External service failed")
	ErrConfiguration        = NewDomainError(CodeConfiguration, "Tenant configuration is incomplete")
)
