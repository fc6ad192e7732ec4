package integration

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Integration Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")

	// Remote error classes, wrapped by RemoteError
	ErrRemoteAuth        = errors.New("integration: remote authentication failed")
	ErrRemoteRateLimited = errors.New("integration: remote rate limited")
	ErrRemoteNetwork     = errors.New("integration: remote unreachable")
	ErrRemoteValidation  = errors.New("integration: remote rejected record")
	ErrRemoteConflict    = errors.New("integration: remote conflict")
	ErrRemoteNotFound    = errors.New("integration: remote record not found")

	// Run errors
	ErrUnknownEntityKind   = errors.New("integration: unknown entity kind")
	ErrPushUnsupportedKind = errors.New("integration: entity kind cannot be pushed")
	ErrSyncInProgress      = errors.New("integration: a sync for this entity kind is already running")
	ErrRecordNotFound      = errors.New("integration: local record not found")

	// Confirmation gate errors
	ErrConfirmationRequired = errors.New("integration: confirmation code required")
	ErrConfirmationInvalid  = errors.New("integration: confirmation code invalid or expired")
)

// Platform identifies an external system a tenant connects to
type Platform string

const (
	PlatformShopify    Platform = "shopify"
	PlatformShiprocket Platform = "shiprocket"
)

// NotConfiguredError is returned by every operation that needs a platform
// the tenant has not connected. It matches ErrPlatformNotConfigured.
type NotConfiguredError struct {
	Platform Platform
	Missing  []string
}

func (e *NotConfiguredError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s is not configured", e.Platform)
	}
	return fmt.Sprintf("%s is not configured: missing %v", e.Platform, e.Missing)
}

// Is makes errors.Is(err, ErrPlatformNotConfigured) true
func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrPlatformNotConfigured
}

// RemoteErrorKind classifies a failure reported by a remote API
type RemoteErrorKind string

const (
	RemoteErrorAuth        RemoteErrorKind = "auth"
	RemoteErrorRateLimited RemoteErrorKind = "rate_limited"
	RemoteErrorNetwork     RemoteErrorKind = "network"
	RemoteErrorValidation  RemoteErrorKind = "validation"
	RemoteErrorConflict    RemoteErrorKind = "conflict"
	RemoteErrorNotFound    RemoteErrorKind = "not_found"
)

var remoteKindSentinels = map[RemoteErrorKind]error{
	RemoteErrorAuth:        ErrRemoteAuth,
	RemoteErrorRateLimited: ErrRemoteRateLimited,
	RemoteErrorNetwork:     ErrRemoteNetwork,
	RemoteErrorValidation:  ErrRemoteValidation,
	RemoteErrorConflict:    ErrRemoteConflict,
	RemoteErrorNotFound:    ErrRemoteNotFound,
}

// RemoteError is a typed failure from a remote API. Message carries the
// upstream reason so it can be shown to the user.
type RemoteError struct {
	Kind       RemoteErrorKind
	Platform   Platform
	StatusCode int
	Message    string
	Err        error
}

// NewRemoteError creates a RemoteError
func NewRemoteError(platform Platform, kind RemoteErrorKind, status int, message string, cause error) *RemoteError {
	return &RemoteError{Kind: kind, Platform: platform, StatusCode: status, Message: message, Err: cause}
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s %s error", e.Platform, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap exposes the class sentinel and the underlying cause
func (e *RemoteError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := remoteKindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsTransportFailure reports whether err means the remote could not be used
// at all (unreachable or credentials rejected), as opposed to a problem with
// one record.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrRemoteNetwork) ||
		errors.Is(err, ErrRemoteAuth) ||
		errors.Is(err, ErrPlatformNotConfigured)
}
