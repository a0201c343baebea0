// Package errs provides the unified error type used across all of drivefs.
//
// Every subsystem (object store, drive layer, server, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindUpstream, "list failed", s3Err)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
// The object-store driver maps its native errors to one of these kinds,
// and retry policy is decided purely from the kind: only ErrKindUpstream
// and ErrKindTimeout are ever retried.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // referenced object or folder absent
	ErrKindValidation               // malformed name/path/size/query — client-fixable, never retried
	ErrKindQuotaExceeded            // upload size over the configured limit
	ErrKindUpstream                 // object store unreachable or returned a server-side failure
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindPermissionDenied         // access denied / bad credentials at the store
	ErrKindPartialFailure           // multi-key operation where some keys succeeded and others did not
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindValidation:
		return "validation"
	case ErrKindQuotaExceeded:
		return "quota_exceeded"
	case ErrKindUpstream:
		return "upstream"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindPartialFailure:
		return "partial_failure"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all drivefs subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
// Message is safe to surface to clients; Cause is not — it may contain
// raw upstream detail and is preserved for logging only.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Partial failures ---

// KeyOutcome records the result of one key in a multi-key operation.
type KeyOutcome struct {
	Key string
	Err error // nil when the key succeeded
}

// PartialError reports a multi-key rename or delete where some keys
// succeeded and others did not. The underlying store has no cross-object
// transaction, so the caller must reconcile using the per-key outcomes.
type PartialError struct {
	Op        string       // "rename" or "delete"
	Succeeded []string     // keys fully processed
	Failed    []KeyOutcome // keys that failed, with their individual errors
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("[%s] %s completed for %d key(s), failed for %d",
		ErrKindPartialFailure, e.Op, len(e.Succeeded), len(e.Failed))
}

// AsPartial extracts a *PartialError from anywhere in the chain.
func AsPartial(err error) (*PartialError, bool) {
	var pe *PartialError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing object or folder.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsValidation reports whether err was caused by malformed caller input.
func IsValidation(err error) bool {
	return kindOf(err) == ErrKindValidation
}

// IsQuotaExceeded reports whether err is an upload over the size limit.
func IsQuotaExceeded(err error) bool {
	return kindOf(err) == ErrKindQuotaExceeded
}

// IsUpstream reports whether err is an object-store connectivity or
// server-side failure. Upstream errors are eligible for retry.
func IsUpstream(err error) bool {
	return kindOf(err) == ErrKindUpstream
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// IsPartialFailure reports whether err carries per-key outcomes from a
// multi-key operation.
func IsPartialFailure(err error) bool {
	return kindOf(err) == ErrKindPartialFailure
}

// Retryable reports whether err may succeed on a later attempt.
// Only upstream and timeout kinds qualify; everything else is permanent.
func Retryable(err error) bool {
	k := kindOf(err)
	return k == ErrKindUpstream || k == ErrKindTimeout
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var pe *PartialError
	if errors.As(err, &pe) {
		return ErrKindPartialFailure
	}
	return ErrKindUnknown
}
