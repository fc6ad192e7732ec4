package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Input error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeForbidden    = "FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeBusinessRule      = "BUSINESS_RULE"
	ErrCodeShipmentExists    = "SHIPMENT_EXISTS"
	ErrCodeOrderNotShippable = "ORDER_NOT_SHIPPABLE"
)

// Sync and platform error codes
const (
	ErrCodeNotConfigured        = "NOT_CONFIGURED"
	ErrCodeSyncInProgress       = "SYNC_IN_PROGRESS"
	ErrCodeUnknownKind          = "UNKNOWN_ENTITY_KIND"
	ErrCodePushUnsupported      = "PUSH_UNSUPPORTED"
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrCodeConfirmationInvalid  = "CONFIRMATION_INVALID"
	ErrCodeRemoteAuth           = "REMOTE_AUTH_FAILED"
	ErrCodeRemoteRateLimited    = "REMOTE_RATE_LIMITED"
	ErrCodeRemoteUnavailable    = "REMOTE_UNAVAILABLE"
	ErrCodeRemoteRejected       = "REMOTE_REJECTED"
	ErrCodeRemoteConflict       = "REMOTE_CONFLICT"
	ErrCodeRemoteNotFound       = "REMOTE_NOT_FOUND"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeShipmentExists:    http.StatusConflict,
	ErrCodeOrderNotShippable: http.StatusUnprocessableEntity,

	ErrCodeNotConfigured:        http.StatusPreconditionFailed,
	ErrCodeSyncInProgress:       http.StatusConflict,
	ErrCodeUnknownKind:          http.StatusBadRequest,
	ErrCodePushUnsupported:      http.StatusBadRequest,
	ErrCodeConfirmationRequired: http.StatusPreconditionRequired,
	ErrCodeConfirmationInvalid:  http.StatusForbidden,
	ErrCodeRemoteAuth:           http.StatusBadGateway,
	ErrCodeRemoteRateLimited:    http.StatusTooManyRequests,
	ErrCodeRemoteUnavailable:    http.StatusBadGateway,
	ErrCodeRemoteRejected:       http.StatusBadGateway,
	ErrCodeRemoteConflict:       http.StatusBadGateway,
	ErrCodeRemoteNotFound:       http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorStatus returns the status for a domain error code. Codes
// without an explicit mapping are business rule violations.
func DomainErrorStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
