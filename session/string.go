package session

import "github.com/wippyai/redismod/abi"

// String owns one native text object. Close releases it exactly once;
// defer Close immediately after construction.
type String struct {
	ctx abi.Ctx
	h   abi.String
}

// CreateString copies text into a native string owned by the returned
// wrapper.
func (s *Session) CreateString(text string) *String {
	return newString(s.ctx, text)
}

func newString(ctx abi.Ctx, text string) *String {
	// The host gets a terminated buffer plus the explicit byte length:
	// value payloads may contain embedded NUL bytes, so the length is
	// authoritative and the terminator is a convention.
	buf := make([]byte, len(text)+1)
	copy(buf, text)
	return &String{ctx: ctx, h: abi.CreateString(ctx, &buf[0], uintptr(len(text)))}
}

// Close releases the native string. Safe to call more than once.
func (s *String) Close() {
	if s.h == nil {
		return
	}
	abi.FreeString(s.ctx, s.h)
	s.h = nil
}
