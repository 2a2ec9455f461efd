package session

import (
	"unicode/utf8"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

// LogLevel is a level of logging understood by the host log directive.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogVerbose
	LogNotice
	LogWarning
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogVerbose:
		return "verbose"
	case LogNotice:
		return "notice"
	case LogWarning:
		return "warning"
	default:
		return "notice"
	}
}

// Session is a non-owning handle over the host's per-invocation context
// pointer. Its lifetime is bound to one dispatch invocation; it must
// never be stored or reused past that call.
type Session struct {
	ctx abi.Ctx
}

// New wraps a host context pointer. Called by the dispatch harness; a
// Session built from anything else has no valid context behind it.
func New(ctx abi.Ctx) *Session {
	return &Session{ctx: ctx}
}

// Log emits a message through the host's log primitive.
func (s *Session) Log(level LogLevel, message string) {
	abi.Log(s.ctx, abi.CString(level.String()), abi.CString(message))
}

// LogDebug logs at notice level so messages show up under the host's
// default configuration.
func (s *Session) LogDebug(message string) {
	s.Log(LogNotice, message)
}

// decodeBytes copies a (pointer, length) payload and validates it as
// text. what names the payload for the error message.
func decodeBytes(p *byte, length uintptr, what string) (string, error) {
	b := abi.GoBytes(p, length)
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(what, b)
	}
	return string(b), nil
}

// decodeHandle decodes a host-owned native string via its (pointer,
// length) accessor.
func decodeHandle(h abi.String, what string) (string, error) {
	var length uintptr
	p := abi.StringPtrLen(h, &length)
	return decodeBytes(p, length, what)
}
