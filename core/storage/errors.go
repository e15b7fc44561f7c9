package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies storage errors.
type Kind string

const (
	// KindInvalidName means a bucket name or object key breaks naming rules.
	KindInvalidName Kind = "InvalidName"
	// KindNameConflict means the bucket name is owned by another account.
	KindNameConflict Kind = "NameConflict"
	// KindNotFound means the referenced bucket or object does not exist.
	KindNotFound Kind = "NotFound"
	// KindPreconditionFailed means conditional retrieval criteria were not met.
	KindPreconditionFailed Kind = "PreconditionFailed"
	// KindBucketNotEmpty means a bucket still holds objects.
	KindBucketNotEmpty Kind = "BucketNotEmpty"
	// KindLengthRequired means an upload source has no determinable length.
	KindLengthRequired Kind = "LengthRequired"
	// KindService means the backend rejected a well-formed request.
	KindService Kind = "Service"
	// KindTransport means the request never completed.
	KindTransport Kind = "Transport"
)

// Error types reported alongside service errors.
const (
	ErrorTypeClient  = "Client"
	ErrorTypeService = "Service"
)

// Error is the single error type returned by Client operations.
//
// Errors raised locally (validation, missing length) carry no StatusCode.
// Errors built from a backend response carry StatusCode, Code, Type and
// RequestID. Transport errors wrap the underlying cause in Err.
type Error struct {
	Kind   Kind
	Op     string
	Bucket string
	Key    string

	StatusCode int
	Code       string
	Type       string
	RequestID  string
	HostID     string

	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("storage")
	if e.Op != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Op)
	}
	if e.Bucket != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Bucket)
		if e.Key != "" {
			sb.WriteString("/")
			sb.WriteString(e.Key)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(string(e.Kind))

	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	}

	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, " (status=%d, code=%s, type=%s, request_id=%s)", e.StatusCode, e.Code, e.Type, e.RequestID)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, ErrNotFound) works for
// any not-found error regardless of bucket, key or backend details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidName        = &Error{Kind: KindInvalidName}
	ErrNameConflict       = &Error{Kind: KindNameConflict}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPreconditionFailed = &Error{Kind: KindPreconditionFailed}
	ErrBucketNotEmpty     = &Error{Kind: KindBucketNotEmpty}
	ErrLengthRequired     = &Error{Kind: KindLengthRequired}
	ErrService            = &Error{Kind: KindService}
	ErrTransport          = &Error{Kind: KindTransport}
)

// Local errors outside the backend taxonomy.
var (
	ErrInvalidRange   = errors.New("storage: invalid byte range")
	ErrNoMorePages    = errors.New("storage: no more pages")
	ErrStalledListing = errors.New("storage: truncated listing without a usable continuation marker")
)

// KindOf returns the kind of a storage error, or "" for other errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsServiceError reports whether the request reached the backend and was
// rejected. Such errors are definite and should not be retried blindly.
func IsServiceError(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode > 0
}

// IsTransportError reports whether the request never completed.
func IsTransportError(err error) bool {
	return KindOf(err) == KindTransport
}

// IsRetryable reports whether err is a natural candidate for a retry with
// backoff: transport failures and backend-side (5xx) rejections.
func IsRetryable(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Kind == KindTransport {
		return true
	}
	return se.StatusCode >= 500
}

func invalidName(op, bucket, key, msg string) *Error {
	return &Error{Kind: KindInvalidName, Op: op, Bucket: bucket, Key: key, Message: msg}
}

func transportError(op, bucket, key string, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, Bucket: bucket, Key: key, Err: cause}
}
