package cmn

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrKind enumerates the semantic error kinds surfaced by the core object
// graph. Names follow the vocabulary used throughout the design docs
// rather than being distinct Go error types, so that callers can
// discriminate with a single switch on an Error's Kind field.
type ErrKind int

const (
	_ ErrKind = iota
	ErrReadOnlyViolation
	ErrImmutableAfterWrite
	ErrBadConfig
	ErrBadMetadata
	ErrNotImplemented
	ErrTypeMismatch
	ErrNoSuchAttribute
	ErrUnsupportedData
	ErrBackend
)

var kindNames = map[ErrKind]string{
	ErrReadOnlyViolation:   "read-only-violation",
	ErrImmutableAfterWrite: "immutable-after-write",
	ErrBadConfig:           "bad-config",
	ErrBadMetadata:         "bad-metadata",
	ErrNotImplemented:      "not-implemented",
	ErrTypeMismatch:        "type-mismatch",
	ErrNoSuchAttribute:     "no-such-attribute",
	ErrUnsupportedData:     "unsupported-data",
	ErrBackend:             "backend-error",
}

func (k ErrKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-error"
}

// Error is the single error type every core operation returns. It carries
// a Kind so callers can branch on it with errors.As, and wraps the
// underlying cause (via github.com/pkg/errors) so %+v formatting yields a
// stack trace during debugging.
type Error struct {
	Kind ErrKind
	msg  string
	// cause is, when non-nil, produced by pkg/errors.WithStack/Wrap and
	// prints a stack trace under "%+v".
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Format implements fmt.Formatter so "%+v" prints the wrapped stack trace,
// matching the teacher's pkg/errors-flavored diagnostics.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.cause != nil {
		fmt.Fprintf(s, "%s: %+v", e.Kind, e.cause)
		return
	}
	fmt.Fprint(s, e.Error())
}

func newErr(kind ErrKind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, msg: msg, cause: errors.WithStack(errors.New(msg))}
}

func NewReadOnlyViolation(format string, args ...any) error {
	return newErr(ErrReadOnlyViolation, format, args...)
}

func NewImmutableAfterWrite(format string, args ...any) error {
	return newErr(ErrImmutableAfterWrite, format, args...)
}

func NewBadConfig(format string, args ...any) error {
	return newErr(ErrBadConfig, format, args...)
}

func NewBadMetadata(format string, args ...any) error {
	return newErr(ErrBadMetadata, format, args...)
}

func NewNotImplemented(format string, args ...any) error {
	return newErr(ErrNotImplemented, format, args...)
}

func NewTypeMismatch(format string, args ...any) error {
	return newErr(ErrTypeMismatch, format, args...)
}

func NewNoSuchAttribute(key string) error {
	return newErr(ErrNoSuchAttribute, "no such attribute: %q", key)
}

func NewUnsupportedData(format string, args ...any) error {
	return newErr(ErrUnsupportedData, format, args...)
}

// NewBackendError wraps a backend-reported failure, preserving its cause
// via pkg/errors.Wrap so the original error remains in the chain.
func NewBackendError(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: ErrBackend, msg: msg, cause: errors.Wrap(cause, msg)}
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind ErrKind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
