package hosttest

import (
	"path"
	"sort"
	"strconv"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/redismod/abi"
)

// replyNode is one node of a reply tree produced by a nested call.
type replyNode struct {
	typ   abi.ReplyType
	n     int64
	text  []byte
	elems []*replyNode
}

// replyRef is the handle the host issues for one reply node. The root
// reply and every array element handed out get their own ref, and each
// must be freed exactly once.
type replyRef struct {
	node *replyNode
}

func replyOf(r abi.CallReply) *replyRef {
	return (*replyRef)(unsafe.Pointer(r))
}

func (h *Host) issueReply(n *replyNode) abi.CallReply {
	ref := &replyRef{node: n}
	h.mu.Lock()
	h.replies[ref] = struct{}{}
	h.mu.Unlock()
	return abi.CallReply(unsafe.Pointer(ref))
}

func textNode(s string) *replyNode {
	return &replyNode{typ: abi.ReplyString, text: []byte(s)}
}

func intNode(v int64) *replyNode {
	return &replyNode{typ: abi.ReplyInteger, n: v}
}

func errNode(msg string) *replyNode {
	return &replyNode{typ: abi.ReplyError, text: []byte(msg)}
}

func nilNode() *replyNode {
	return &replyNode{typ: abi.ReplyNil}
}

func (h *Host) apiCall(ctx abi.Ctx, cmdname, format *byte, args ...*byte) abi.CallReply {
	h.checkCtx(ctx)

	cmd := abi.GoString(cmdname)
	fmtStr := abi.GoString(format)
	if len(fmtStr) != len(args) {
		return abi.CallReply(nil)
	}
	for _, c := range fmtStr {
		if c != 'c' {
			return abi.CallReply(nil)
		}
	}
	decoded := make([]string, len(args))
	for i, a := range args {
		decoded[i] = abi.GoString(a)
	}

	h.logger.Debug("nested call", zap.String("command", cmd), zap.Strings("args", decoded))
	return h.issueReply(h.dispatch(cmd, decoded))
}

// dispatch evaluates one nested command against the keyspace. Unknown
// commands and arity mistakes come back as error nodes, the way a real
// host reports them.
func (h *Host) dispatch(cmd string, args []string) *replyNode {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch cmd {
	case "get":
		if len(args) != 1 {
			return errNode("wrong number of arguments for 'get' command")
		}
		e := h.live(args[0])
		if e == nil {
			return nilNode()
		}
		if e.kind != abi.KeyTypeString {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		return textNode(e.str)

	case "set":
		if len(args) != 2 {
			return errNode("wrong number of arguments for 'set' command")
		}
		h.keys[args[0]] = &entry{kind: abi.KeyTypeString, str: args[1]}
		return textNode("OK")

	case "del":
		if len(args) == 0 {
			return errNode("wrong number of arguments for 'del' command")
		}
		var removed int64
		for _, name := range args {
			if h.live(name) != nil {
				delete(h.keys, name)
				removed++
			}
		}
		return intNode(removed)

	case "exists":
		if len(args) != 1 {
			return errNode("wrong number of arguments for 'exists' command")
		}
		if h.live(args[0]) != nil {
			return intNode(1)
		}
		return intNode(0)

	case "strlen":
		if len(args) != 1 {
			return errNode("wrong number of arguments for 'strlen' command")
		}
		e := h.live(args[0])
		if e == nil {
			return intNode(0)
		}
		if e.kind != abi.KeyTypeString {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		return intNode(int64(len(e.str)))

	case "incrby":
		if len(args) != 2 {
			return errNode("wrong number of arguments for 'incrby' command")
		}
		delta, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errNode("value is not an integer or out of range")
		}
		e := h.live(args[0])
		var cur int64
		if e != nil {
			if e.kind != abi.KeyTypeString {
				return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
			}
			cur, err = strconv.ParseInt(e.str, 10, 64)
			if err != nil {
				return errNode("value is not an integer or out of range")
			}
		}
		cur += delta
		h.keys[args[0]] = &entry{kind: abi.KeyTypeString, str: strconv.FormatInt(cur, 10)}
		return intNode(cur)

	case "llen":
		if len(args) != 1 {
			return errNode("wrong number of arguments for 'llen' command")
		}
		e := h.live(args[0])
		if e == nil {
			return intNode(0)
		}
		if e.kind != abi.KeyTypeList {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		return intNode(int64(len(e.list)))

	case "lpush", "rpush":
		if len(args) < 2 {
			return errNode("wrong number of arguments for '" + cmd + "' command")
		}
		e := h.live(args[0])
		if e != nil && e.kind != abi.KeyTypeList {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		if e == nil {
			e = h.ensure(args[0], abi.KeyTypeList)
		}
		for _, v := range args[1:] {
			if cmd == "lpush" {
				e.list = append([]string{v}, e.list...)
			} else {
				e.list = append(e.list, v)
			}
		}
		return intNode(int64(len(e.list)))

	case "hget":
		if len(args) != 2 {
			return errNode("wrong number of arguments for 'hget' command")
		}
		e := h.live(args[0])
		if e == nil {
			return nilNode()
		}
		if e.kind != abi.KeyTypeHash {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		v, ok := e.hash[args[1]]
		if !ok {
			return nilNode()
		}
		return textNode(v)

	case "hset":
		if len(args) != 3 {
			return errNode("wrong number of arguments for 'hset' command")
		}
		e := h.live(args[0])
		if e != nil && e.kind != abi.KeyTypeHash {
			return errNode("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		if e == nil {
			e = h.ensure(args[0], abi.KeyTypeHash)
		}
		_, existed := e.hash[args[1]]
		e.hash[args[1]] = args[2]
		if existed {
			return intNode(0)
		}
		return intNode(1)

	case "keys":
		if len(args) != 1 {
			return errNode("wrong number of arguments for 'keys' command")
		}
		var names []string
		for name := range h.keys {
			if h.keys[name].expired() {
				continue
			}
			if ok, _ := path.Match(args[0], name); ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		elems := make([]*replyNode, len(names))
		for i, name := range names {
			elems[i] = textNode(name)
		}
		return &replyNode{typ: abi.ReplyArray, elems: elems}

	default:
		return errNode("unknown command '" + cmd + "'")
	}
}

func (h *Host) apiCallReplyType(r abi.CallReply) abi.ReplyType {
	ref := replyOf(r)
	if ref == nil {
		return abi.ReplyUnknown
	}
	return ref.node.typ
}

func (h *Host) apiCallReplyInteger(r abi.CallReply) int64 {
	ref := replyOf(r)
	if ref == nil || ref.node.typ != abi.ReplyInteger {
		return 0
	}
	return ref.node.n
}

func (h *Host) apiCallReplyStringPtr(r abi.CallReply, length *uintptr) *byte {
	ref := replyOf(r)
	if ref == nil || len(ref.node.text) == 0 {
		if length != nil {
			*length = 0
		}
		return nil
	}
	if length != nil {
		*length = uintptr(len(ref.node.text))
	}
	return &ref.node.text[0]
}

func (h *Host) apiCallReplyLength(r abi.CallReply) uintptr {
	ref := replyOf(r)
	if ref == nil {
		return 0
	}
	switch ref.node.typ {
	case abi.ReplyArray:
		return uintptr(len(ref.node.elems))
	case abi.ReplyString, abi.ReplyError:
		return uintptr(len(ref.node.text))
	default:
		return 0
	}
}

func (h *Host) apiCallReplyArrayElement(r abi.CallReply, idx uintptr) abi.CallReply {
	ref := replyOf(r)
	if ref == nil || ref.node.typ != abi.ReplyArray || idx >= uintptr(len(ref.node.elems)) {
		return abi.CallReply(nil)
	}
	return h.issueReply(ref.node.elems[idx])
}

func (h *Host) apiFreeCallReply(r abi.CallReply) {
	ref := replyOf(r)
	if ref == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, live := h.replies[ref]; !live {
		h.doubleFrees++
		return
	}
	delete(h.replies, ref)
}
