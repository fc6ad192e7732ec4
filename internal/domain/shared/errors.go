package shared

// DomainError is a business rule violation with a stable code that the HTTP
// layer maps to a status
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches by code, so a DomainError built elsewhere with the same code
// satisfies errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	// ErrNotFound is returned by repositories for a missing row
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput rejects malformed arguments that passed request binding
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
)
