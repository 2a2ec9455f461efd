package session

import (
	"strconv"
	"strings"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

// CallReply owns one native reply object produced by a nested call.
// Close releases it exactly once; releasing the reply obtained from the
// call itself frees the whole reply tree on the host side.
type CallReply struct {
	h abi.CallReply
}

func newCallReply(h abi.CallReply) *CallReply {
	return &CallReply{h: h}
}

// Type returns the reply's type tag.
func (r *CallReply) Type() abi.ReplyType {
	return abi.CallReplyTypeOf(r.h)
}

// Integer extracts an integer reply. Fails unless the tag is Integer.
func (r *CallReply) Integer() (int64, error) {
	if r.Type() != abi.ReplyInteger {
		return 0, errors.Generic("call reply is not an integer")
	}
	return abi.CallReplyInteger(r.h), nil
}

// Text extracts a string reply. Fails unless the tag is String.
func (r *CallReply) Text() (string, error) {
	if r.Type() != abi.ReplyString {
		return "", errors.Generic("call reply is not a string")
	}
	var length uintptr
	p := abi.CallReplyStringPtr(r.h, &length)
	return decodeBytes(p, length, "call reply")
}

// Len returns the element count of an array reply.
func (r *CallReply) Len() int {
	return int(abi.CallReplyLength(r.h))
}

// Element returns a new owning wrapper for the idx-th element of an
// array reply. The host does not bounds-check beyond what it stores;
// guard idx with Len before calling.
func (r *CallReply) Element(idx int) (*CallReply, error) {
	if r.Type() != abi.ReplyArray {
		return nil, errors.Generic("call reply is not an array")
	}
	return newCallReply(abi.CallReplyArrayElement(r.h, uintptr(idx))), nil
}

// Close releases the native reply. Safe to call more than once.
func (r *CallReply) Close() {
	if r.h == nil {
		return
	}
	abi.FreeCallReply(r.h)
	r.h = nil
}

// Reply is a decoded nested-call reply value.
type Reply struct {
	Type    abi.ReplyType
	Integer int64
	Text    string
}

// Value materializes the reply into a decoded Reply. Scalar payloads
// are extracted; for arrays only the type tag is carried and elements
// stay behind Element.
func (r *CallReply) Value() (Reply, error) {
	switch t := r.Type(); t {
	case abi.ReplyInteger:
		v, err := r.Integer()
		if err != nil {
			return Reply{}, err
		}
		return Reply{Type: t, Integer: v}, nil
	case abi.ReplyString:
		text, err := r.Text()
		if err != nil {
			return Reply{}, err
		}
		return Reply{Type: t, Text: text}, nil
	default:
		return Reply{Type: t}, nil
	}
}

// CoerceInteger converts a string reply that looks like an integer into
// an integer reply. The host is loose about value types: an integer set
// in the store keeps looking like text until some operation forces its
// coercion. All other replies pass through unmodified.
func CoerceInteger(r Reply) Reply {
	if r.Type != abi.ReplyString {
		return r
	}
	n, err := strconv.ParseInt(r.Text, 10, 64)
	if err != nil {
		return r
	}
	return Reply{Type: abi.ReplyInteger, Integer: n}
}

// call issues a synchronous nested command. Arguments are marshalled as
// NUL-terminated text and declared to the host's generic call primitive
// through its format string, one 'c' per argument.
func (s *Session) call(cmd string, args ...string) *CallReply {
	ptrs := make([]*byte, len(args))
	for i, a := range args {
		ptrs[i] = abi.CString(a)
	}
	format := strings.Repeat("c", len(args))
	return newCallReply(abi.Call(s.ctx, abi.CString(cmd), abi.CString(format), ptrs...))
}

// Call issues a synchronous nested command and returns the owning reply
// wrapper; the caller must Close it. The typed helpers below cover the
// common scalar cases.
func (s *Session) Call(cmd string, args ...string) *CallReply {
	return s.call(cmd, args...)
}

// Call1Integer issues cmd with one argument and extracts an integer
// reply.
func (s *Session) Call1Integer(cmd, arg0 string) (int64, error) {
	reply := s.call(cmd, arg0)
	defer reply.Close()
	return reply.Integer()
}

// Call2Integer issues cmd with two arguments and extracts an integer
// reply.
func (s *Session) Call2Integer(cmd, arg0, arg1 string) (int64, error) {
	reply := s.call(cmd, arg0, arg1)
	defer reply.Close()
	return reply.Integer()
}

// Call3Integer issues cmd with three arguments and extracts an integer
// reply.
func (s *Session) Call3Integer(cmd, arg0, arg1, arg2 string) (int64, error) {
	reply := s.call(cmd, arg0, arg1, arg2)
	defer reply.Close()
	return reply.Integer()
}

// Call1Text issues cmd with one argument and extracts a string reply.
func (s *Session) Call1Text(cmd, arg0 string) (string, error) {
	reply := s.call(cmd, arg0)
	defer reply.Close()
	return reply.Text()
}

// Call2Text issues cmd with two arguments and extracts a string reply.
func (s *Session) Call2Text(cmd, arg0, arg1 string) (string, error) {
	reply := s.call(cmd, arg0, arg1)
	defer reply.Close()
	return reply.Text()
}

// Call3Text issues cmd with three arguments and extracts a string reply.
func (s *Session) Call3Text(cmd, arg0, arg1, arg2 string) (string, error) {
	reply := s.call(cmd, arg0, arg1, arg2)
	defer reply.Close()
	return reply.Text()
}

// CallKeys issues a "keys" pattern query and eagerly materializes every
// element into an owned slice, in host-returned order. An element that
// does not extract as text contributes the failure's message in its
// position instead of aborting the whole query.
func (s *Session) CallKeys(pattern string) ([]string, error) {
	reply := s.call("keys", pattern)
	defer reply.Close()

	n := reply.Len()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ele, err := reply.Element(i)
		if err != nil {
			return nil, errors.Generic("could not take element from reply array")
		}
		text, terr := ele.Text()
		ele.Close()
		if terr != nil {
			keys = append(keys, terr.Error())
			continue
		}
		keys = append(keys, text)
	}
	return keys, nil
}
