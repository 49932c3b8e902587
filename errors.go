package extjson

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedWrapper is returned when a reserved wrapper key ($oid,
	// $numberLong, ...) holds a value of the wrong type or unparsable text.
	ErrMalformedWrapper = errors.New("malformed extended json wrapper")

	// ErrTypeMismatch is returned when a value cannot be represented as the
	// expected kind: a decode hint or Go destination type that does not fit
	// the JSON node, or a wrapper value of the wrong JSON type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCallback is returned when a user-supplied custom strategy function
	// or Marshaler/Unmarshaler fails. The callback's own error is wrapped as well.
	ErrCallback = errors.New("custom callback failed")

	// ErrUnsupportedValue is returned for values that have no representation
	// under the active strategies (channels, out-of-range unsigned integers,
	// dates without an ISO8601 form, ...).
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrMaxDepth is returned when nesting exceeds the configured maximum depth.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// Error describes a failed encode or decode call.
//
// It matches one of the sentinel errors above via errors.Is; for ErrCallback
// it also matches the error returned by the callback.
type Error struct {
	// Op is "encode" or "decode".
	Op string
	// Path locates the failing value from the root of the tree.
	Path Path
	// Key is the offending reserved wrapper key, if any.
	Key string
	// Reason is a human-readable explanation.
	Reason string

	kind  error
	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("extjson: ")
	b.WriteString(e.Op)
	b.WriteByte(' ')
	b.WriteString(e.Path.String())
	b.WriteString(": ")
	b.WriteString(e.kind.Error())
	if e.Key != "" {
		b.WriteString(" (key ")
		b.WriteString(e.Key)
		b.WriteByte(')')
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the sentinel kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func newError(op string, path Path, kind error, key, reason string, cause error) *Error {
	return &Error{
		Op:     op,
		Path:   path.clone(),
		Key:    key,
		Reason: reason,
		kind:   kind,
		cause:  cause,
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
