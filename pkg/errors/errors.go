// Package errors defines the error taxonomy for the stalker portal prober.
// Every failure a portal conversation can produce is represented by a
// ProbeError with a Kind, so callers classify by kind instead of matching
// message strings or collapsing distinct failures into nil returns.
package errors

import (
	"fmt"
)

// ================================================================================
// Error Kinds
// ================================================================================

// Kind identifies the category of a probe failure.
type Kind string

const (
	// KindTransport covers connection and timeout failures. Retryable only at
	// the authenticate step; terminal everywhere else.
	KindTransport Kind = "transport"

	// KindRateLimited covers HTTP 429 and equivalent rejections issued before a
	// usable payload is returned.
	KindRateLimited Kind = "rate_limited"

	// KindMalformedResponse covers non-JSON bodies and payloads missing the
	// top-level js field.
	KindMalformedResponse Kind = "malformed_response"

	// KindProtocolReject covers the empty-array handshake response the portal
	// uses to signal an unrecognized identity or header combination.
	KindProtocolReject Kind = "protocol_reject"

	// KindSessionState covers programming errors such as authenticating before
	// a successful handshake.
	KindSessionState Kind = "session_state"

	// KindResolution covers failures to reach the portal at all during endpoint
	// resolution. Batch-fatal.
	KindResolution Kind = "resolution"

	// KindInterrupted covers operator cancellation between identities.
	KindInterrupted Kind = "interrupted"

	// KindConfig covers invalid or unreadable configuration.
	KindConfig Kind = "config"
)

// ================================================================================
// ProbeError Interface
// ================================================================================

// ProbeError is a structured error carrying a kind and optional metadata.
type ProbeError interface {
	error

	// Kind returns the failure category
	Kind() Kind

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause attaches an underlying error
	WithCause(cause error) ProbeError

	// WithMetadata attaches additional context
	WithMetadata(key string, value interface{}) ProbeError

	// Metadata returns all attached metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Implementation
// ================================================================================

type probeError struct {
	kind     Kind
	message  string
	cause    error
	metadata map[string]interface{}
}

func (e *probeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *probeError) Kind() Kind {
	return e.kind
}

func (e *probeError) Unwrap() error {
	return e.cause
}

func (e *probeError) WithCause(cause error) ProbeError {
	e.cause = cause
	return e
}

func (e *probeError) WithMetadata(key string, value interface{}) ProbeError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *probeError) Metadata() map[string]interface{} {
	return e.metadata
}

// New creates a ProbeError with the given kind and message.
func New(kind Kind, message string) ProbeError {
	return &probeError{kind: kind, message: message}
}

// Newf creates a ProbeError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) ProbeError {
	return &probeError{kind: kind, message: fmt.Sprintf(format, args...)}
}

// ================================================================================
// Predefined Constructors
// ================================================================================

// ErrTransport wraps a connection or timeout failure.
func ErrTransport(op string, cause error) ProbeError {
	return Newf(KindTransport, "transport failure during %s", op).WithCause(cause)
}

// ErrRateLimited reports a rate-limited request.
func ErrRateLimited(statusCode int) ProbeError {
	return Newf(KindRateLimited, "request rejected with HTTP %d", statusCode).
		WithMetadata("http_status", statusCode)
}

// ErrMalformedResponse reports an unusable payload.
func ErrMalformedResponse(reason string, cause error) ProbeError {
	return Newf(KindMalformedResponse, "malformed portal response: %s", reason).WithCause(cause)
}

// ErrProtocolReject reports the empty-array handshake rejection.
func ErrProtocolReject(mac string) ProbeError {
	return Newf(KindProtocolReject, "portal rejected handshake for %s", mac).
		WithMetadata("mac", mac)
}

// ErrSessionState reports an operation invoked in the wrong session phase.
func ErrSessionState(op string, state string) ProbeError {
	return Newf(KindSessionState, "%s called in session state %s", op, state)
}

// ErrResolution reports that the portal could not be reached at all.
func ErrResolution(baseURL string, cause error) ProbeError {
	return Newf(KindResolution, "portal unreachable: %s", baseURL).WithCause(cause)
}

// ErrScanInterrupted reports operator cancellation of a running batch.
func ErrScanInterrupted(completed, total int) ProbeError {
	return Newf(KindInterrupted, "scan interrupted after %d of %d identities", completed, total).
		WithMetadata("completed", completed).
		WithMetadata("total", total)
}

// ================================================================================
// Predicates
// ================================================================================

// AsProbeError attempts to cast an error to ProbeError.
func AsProbeError(err error) (ProbeError, bool) {
	pe, ok := err.(ProbeError)
	return pe, ok
}

// IsKind reports whether err is a ProbeError of the given kind.
func IsKind(err error, kind Kind) bool {
	if pe, ok := AsProbeError(err); ok {
		return pe.Kind() == kind
	}
	return false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return IsKind(err, KindTransport)
}

// IsRateLimited reports whether err is a rate-limited rejection.
func IsRateLimited(err error) bool {
	return IsKind(err, KindRateLimited)
}

// IsMalformedResponse reports whether err is an unusable payload.
func IsMalformedResponse(err error) bool {
	return IsKind(err, KindMalformedResponse)
}

// IsProtocolReject reports whether err is a handshake rejection.
func IsProtocolReject(err error) bool {
	return IsKind(err, KindProtocolReject)
}

// IsInterrupted reports whether err is an operator cancellation.
func IsInterrupted(err error) bool {
	return IsKind(err, KindInterrupted)
}

// IsRetryable reports whether the retry policy may act on err. Only transport
// failures and rate-limited rejections qualify; a conflict or a malformed
// payload will not improve on retry.
func IsRetryable(err error) bool {
	return IsTransport(err) || IsRateLimited(err)
}
