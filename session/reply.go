package session

import (
	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

// ReplyArray declares an upcoming array reply of length n. Protocol
// contract: exactly n further reply emissions must follow before the
// session is used for anything else. BeginArray is the checked variant.
func (s *Session) ReplyArray(n int64) error {
	return status(abi.ReplyWithArray(s.ctx, n), "could not reply with array")
}

// ReplyInteger emits an integer reply.
func (s *Session) ReplyInteger(v int64) error {
	return status(abi.ReplyWithLongLong(s.ctx, v), "could not reply with integer")
}

// ReplyString emits a bulk string reply. A transient native string is
// allocated and released internally.
func (s *Session) ReplyString(text string) error {
	str := newString(s.ctx, text)
	defer str.Close()
	return status(abi.ReplyWithString(s.ctx, str.h), "could not reply with string")
}

// ReplySimpleString emits a simple string reply.
func (s *Session) ReplySimpleString(text string) error {
	return status(abi.ReplyWithSimpleString(s.ctx, abi.CString(text)), "could not reply with simple string")
}

// ReplyOK emits the fixed "OK" simple string reply.
func (s *Session) ReplyOK() error {
	return s.ReplySimpleString("OK")
}

// ReplyNull emits a null reply.
func (s *Session) ReplyNull() {
	abi.ReplyWithNull(s.ctx)
}

// ReplyError emits an error reply with the given message.
func (s *Session) ReplyError(message string) {
	abi.ReplyWithError(s.ctx, abi.CString(message))
}

// ReplicateVerbatim asks the host to propagate the command to replicas
// exactly as received. Needed by write commands with non-deterministic
// effects.
func (s *Session) ReplicateVerbatim() error {
	return status(abi.ReplicateVerbatim(s.ctx), "could not replicate verbatim")
}

func status(st abi.Status, detail string) error {
	if st != abi.StatusOK {
		return errors.Generic(detail)
	}
	return nil
}

// ArrayBuilder counts emitted elements against a declared array length
// so a mismatch fails fast instead of corrupting the reply stream.
type ArrayBuilder struct {
	s        *Session
	declared int64
	emitted  int64
}

// BeginArray declares an array reply of length n and returns a builder
// whose Close fails unless exactly n elements were emitted through it.
func (s *Session) BeginArray(n int64) (*ArrayBuilder, error) {
	if err := s.ReplyArray(n); err != nil {
		return nil, err
	}
	return &ArrayBuilder{s: s, declared: n}, nil
}

// Integer emits an integer element.
func (b *ArrayBuilder) Integer(v int64) error {
	b.emitted++
	return b.s.ReplyInteger(v)
}

// String emits a bulk string element.
func (b *ArrayBuilder) String(text string) error {
	b.emitted++
	return b.s.ReplyString(text)
}

// SimpleString emits a simple string element.
func (b *ArrayBuilder) SimpleString(text string) error {
	b.emitted++
	return b.s.ReplySimpleString(text)
}

// Null emits a null element.
func (b *ArrayBuilder) Null() {
	b.emitted++
	b.s.ReplyNull()
}

// Close verifies the emission count against the declared length.
func (b *ArrayBuilder) Close() error {
	if b.emitted != b.declared {
		return errors.Genericf("array reply declared %d elements, emitted %d", b.declared, b.emitted)
	}
	return nil
}
