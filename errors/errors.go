package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes the error.
type Kind string

const (
	// KindGeneric covers host-call failures and protocol misuse.
	KindGeneric Kind = "generic"
	// KindDecode marks a byte sequence that is not valid text.
	KindDecode Kind = "decode"
	// KindParse marks text that does not encode an integer.
	KindParse Kind = "parse"
)

// Error is the structured error type used throughout the SDK.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	b.WriteString(e.Detail)

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Generic creates a generic error with a free-text detail message.
func Generic(detail string) *Error {
	return &Error{Kind: KindGeneric, Detail: detail}
}

// Genericf creates a generic error with a formatted detail message.
func Genericf(format string, args ...any) *Error {
	return &Error{Kind: KindGeneric, Detail: fmt.Sprintf(format, args...)}
}

// InvalidUTF8 creates a decode error for a byte sequence that is not
// valid text. A short hex preview of the data is kept in the message.
func InvalidUTF8(what string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Kind:   KindDecode,
		Detail: fmt.Sprintf("%s is not valid UTF-8: %x", what, preview),
	}
}

// Decode wraps a cause as a decode error.
func Decode(what string, cause error) *Error {
	return &Error{
		Kind:   KindDecode,
		Detail: fmt.Sprintf("decode %s", what),
		Cause:  cause,
	}
}

// Parse wraps a cause as a parse error for text expected to encode an
// integer or version number.
func Parse(text string, cause error) *Error {
	return &Error{
		Kind:   KindParse,
		Detail: fmt.Sprintf("parse %q", text),
		Cause:  cause,
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
