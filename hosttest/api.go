package hosttest

import (
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/redismod/abi"
)

// API builds the host's function table over this engine. Every entry
// holds the mutex for its whole body; nested calls made by a command
// re-enter through the same table but never while a lock is held.
func (h *Host) API() abi.API {
	return abi.API{
		Init:          h.apiInit,
		CreateCommand: h.apiCreateCommand,

		OpenKey:   h.apiOpenKey,
		CloseKey:  h.apiCloseKey,
		KeyType:   h.apiKeyType,
		StringSet: h.apiStringSet,
		StringDMA: h.apiStringDMA,
		DeleteKey: h.apiDeleteKey,
		SetExpire: h.apiSetExpire,

		ListPush: h.apiListPush,
		ListPop:  h.apiListPop,

		HashGet: h.apiHashGet,
		HashSet: h.apiHashSet,

		ZsetAdd:    h.apiZsetAdd,
		ZsetIncrby: h.apiZsetIncrby,
		ZsetScore:  h.apiZsetScore,

		CreateString: h.apiCreateString,
		FreeString:   h.apiFreeString,
		StringPtrLen: h.apiStringPtrLen,

		ReplyWithArray:        h.apiReplyWithArray,
		ReplyWithError:        h.apiReplyWithError,
		ReplyWithLongLong:     h.apiReplyWithLongLong,
		ReplyWithString:       h.apiReplyWithString,
		ReplyWithSimpleString: h.apiReplyWithSimpleString,
		ReplyWithNull:         h.apiReplyWithNull,
		ReplicateVerbatim:     h.apiReplicateVerbatim,

		Call:                  h.apiCall,
		CallReplyType:         h.apiCallReplyType,
		CallReplyInteger:      h.apiCallReplyInteger,
		CallReplyStringPtr:    h.apiCallReplyStringPtr,
		CallReplyLength:       h.apiCallReplyLength,
		CallReplyArrayElement: h.apiCallReplyArrayElement,
		FreeCallReply:         h.apiFreeCallReply,

		Log: h.apiLog,

		Alloc: h.apiAlloc,
		Free:  h.apiFree,
	}
}

func (h *Host) apiInit(ctx abi.Ctx, name *byte, version, apiVersion int32) abi.Status {
	h.checkCtx(ctx)
	if apiVersion != abi.APIVersion {
		return abi.StatusErr
	}
	h.mu.Lock()
	h.moduleName = abi.GoString(name)
	h.moduleVersion = version
	h.mu.Unlock()
	return abi.StatusOK
}

func (h *Host) apiCreateCommand(ctx abi.Ctx, name *byte, fn abi.CmdFunc, flags *byte, firstKey, lastKey, keyStep int32) abi.Status {
	h.checkCtx(ctx)
	if fn == nil {
		return abi.StatusErr
	}
	cmdName := abi.GoString(name)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.commands[cmdName]; dup {
		return abi.StatusErr
	}
	h.commands[cmdName] = registration{fn: fn, flags: abi.GoString(flags)}
	return abi.StatusOK
}

// checkKey validates a key handle's owning context and records misuse.
// It returns the backing object, nil for the host's null handle.
func (h *Host) checkKey(k abi.Key) *keyObj {
	ko := keyOf(k)
	if ko != nil && ko.ctx.expired {
		h.mu.Lock()
		h.expiredUses++
		h.mu.Unlock()
	}
	return ko
}

func (h *Host) apiOpenKey(ctx abi.Ctx, name abi.String, mode abi.KeyMode) abi.Key {
	cs := h.checkCtx(ctx)
	keyName := string(strOf(name).b)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.opens = append(h.opens, OpenRecord{Name: keyName, Mode: mode})

	// Read-only opens of absent keys yield the null handle. Writable
	// opens always yield a usable one; the slot materializes on first
	// write.
	if mode&abi.ModeWrite == 0 && h.live(keyName) == nil {
		return abi.Key(nil)
	}

	ko := &keyObj{ctx: cs, name: keyName, mode: mode}
	h.openKeys[ko] = struct{}{}
	return abi.Key(unsafe.Pointer(ko))
}

func (h *Host) apiCloseKey(k abi.Key) {
	ko := h.checkKey(k)
	if ko == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, live := h.openKeys[ko]; !live {
		h.doubleFrees++
		return
	}
	delete(h.openKeys, ko)
}

func (h *Host) apiKeyType(k abi.Key) abi.KeyType {
	ko := h.checkKey(k)
	if ko == nil {
		return abi.KeyTypeEmpty
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil {
		return abi.KeyTypeEmpty
	}
	return e.kind
}

func (h *Host) apiStringSet(k abi.Key, val abi.String) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e != nil && e.kind != abi.KeyTypeString {
		return abi.StatusErr
	}
	h.keys[ko.name] = &entry{kind: abi.KeyTypeString, str: string(strOf(val).b)}
	return abi.StatusOK
}

func (h *Host) apiStringDMA(k abi.Key, length *uintptr, mode abi.KeyMode) *byte {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&mode != mode {
		*length = 0
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil || e.kind != abi.KeyTypeString {
		*length = 0
		return nil
	}
	if len(e.str) == 0 {
		// Present but empty: a non-null pointer with zero length.
		*length = 0
		buf := make([]byte, 1)
		return &buf[0]
	}
	buf := []byte(e.str)
	*length = uintptr(len(buf))
	return &buf[0]
}

func (h *Host) apiDeleteKey(k abi.Key) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.keys, ko.name)
	return abi.StatusOK
}

func (h *Host) apiSetExpire(k abi.Key, expireMillis int64) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil {
		return abi.StatusErr
	}
	if expireMillis < 0 {
		e.expireAt = time.Time{}
		return abi.StatusOK
	}
	e.expireAt = now().Add(time.Duration(expireMillis) * time.Millisecond)
	return abi.StatusOK
}

func (h *Host) apiListPush(k abi.Key, where int32, ele abi.String) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e != nil && e.kind != abi.KeyTypeList {
		return abi.StatusErr
	}
	if e == nil {
		e = h.ensure(ko.name, abi.KeyTypeList)
	}
	val := string(strOf(ele).b)
	if where == abi.ListHead {
		e.list = append([]string{val}, e.list...)
	} else {
		e.list = append(e.list, val)
	}
	return abi.StatusOK
}

func (h *Host) apiListPop(k abi.Key, where int32) abi.String {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.String(nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil || e.kind != abi.KeyTypeList || len(e.list) == 0 {
		return abi.String(nil)
	}
	var val string
	if where == abi.ListHead {
		val, e.list = e.list[0], e.list[1:]
	} else {
		val, e.list = e.list[len(e.list)-1], e.list[:len(e.list)-1]
	}
	if len(e.list) == 0 {
		delete(h.keys, ko.name)
	}
	return abi.String(unsafe.Pointer(&strObj{b: []byte(val), transient: true}))
}

func (h *Host) apiHashGet(k abi.Key, field abi.String) abi.String {
	ko := h.checkKey(k)
	if ko == nil {
		return abi.String(nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil || e.kind != abi.KeyTypeHash {
		return abi.String(nil)
	}
	val, ok := e.hash[string(strOf(field).b)]
	if !ok {
		return abi.String(nil)
	}
	return abi.String(unsafe.Pointer(&strObj{b: []byte(val), transient: true}))
}

func (h *Host) apiHashSet(k abi.Key, field, val abi.String) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e != nil && e.kind != abi.KeyTypeHash {
		return abi.StatusErr
	}
	if e == nil {
		e = h.ensure(ko.name, abi.KeyTypeHash)
	}
	e.hash[string(strOf(field).b)] = string(strOf(val).b)
	return abi.StatusOK
}

func (h *Host) apiZsetAdd(k abi.Key, score float64, ele abi.String, flags *int32) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e != nil && e.kind != abi.KeyTypeZset {
		return abi.StatusErr
	}
	if e == nil {
		e = h.ensure(ko.name, abi.KeyTypeZset)
	}
	e.zset[string(strOf(ele).b)] = score
	return abi.StatusOK
}

func (h *Host) apiZsetIncrby(k abi.Key, incr float64, ele abi.String, flags *int32, newScore *float64) abi.Status {
	ko := h.checkKey(k)
	if ko == nil || ko.mode&abi.ModeWrite == 0 {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e != nil && e.kind != abi.KeyTypeZset {
		return abi.StatusErr
	}
	if e == nil {
		e = h.ensure(ko.name, abi.KeyTypeZset)
	}
	member := string(strOf(ele).b)
	e.zset[member] += incr
	if newScore != nil {
		*newScore = e.zset[member]
	}
	return abi.StatusOK
}

func (h *Host) apiZsetScore(k abi.Key, ele abi.String, score *float64) abi.Status {
	ko := h.checkKey(k)
	if ko == nil {
		return abi.StatusErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(ko.name)
	if e == nil || e.kind != abi.KeyTypeZset {
		return abi.StatusErr
	}
	v, ok := e.zset[string(strOf(ele).b)]
	if !ok {
		return abi.StatusErr
	}
	if score != nil {
		*score = v
	}
	return abi.StatusOK
}

func (h *Host) apiCreateString(ctx abi.Ctx, ptr *byte, length uintptr) abi.String {
	h.checkCtx(ctx)
	var b []byte
	if ptr != nil && length > 0 {
		b = append([]byte(nil), unsafe.Slice(ptr, length)...)
	}
	so := &strObj{b: b}
	h.mu.Lock()
	h.strings[so] = struct{}{}
	h.mu.Unlock()
	return abi.String(unsafe.Pointer(so))
}

func (h *Host) apiFreeString(ctx abi.Ctx, s abi.String) {
	h.checkCtx(ctx)
	so := strOf(s)
	if so == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, live := h.strings[so]; !live {
		h.doubleFrees++
		return
	}
	delete(h.strings, so)
}

func (h *Host) apiStringPtrLen(s abi.String, length *uintptr) *byte {
	so := strOf(s)
	if so == nil || len(so.b) == 0 {
		if length != nil {
			*length = 0
		}
		return nil
	}
	if length != nil {
		*length = uintptr(len(so.b))
	}
	return &so.b[0]
}

func (h *Host) record(r Reply) {
	h.mu.Lock()
	h.recorded = append(h.recorded, r)
	h.mu.Unlock()
}

func (h *Host) apiReplyWithArray(ctx abi.Ctx, length int64) abi.Status {
	h.checkCtx(ctx)
	h.record(Reply{Kind: ReplyArrayHeader, Int: length})
	return abi.StatusOK
}

func (h *Host) apiReplyWithError(ctx abi.Ctx, err *byte) {
	h.checkCtx(ctx)
	h.record(Reply{Kind: ReplyError, Text: abi.GoString(err)})
}

func (h *Host) apiReplyWithLongLong(ctx abi.Ctx, v int64) abi.Status {
	h.checkCtx(ctx)
	h.record(Reply{Kind: ReplyInteger, Int: v})
	return abi.StatusOK
}

func (h *Host) apiReplyWithString(ctx abi.Ctx, s abi.String) abi.Status {
	h.checkCtx(ctx)
	so := strOf(s)
	if so == nil {
		return abi.StatusErr
	}
	h.record(Reply{Kind: ReplyBulk, Text: string(so.b)})
	return abi.StatusOK
}

func (h *Host) apiReplyWithSimpleString(ctx abi.Ctx, msg *byte) abi.Status {
	h.checkCtx(ctx)
	h.record(Reply{Kind: ReplySimple, Text: abi.GoString(msg)})
	return abi.StatusOK
}

func (h *Host) apiReplyWithNull(ctx abi.Ctx) {
	h.checkCtx(ctx)
	h.record(Reply{Kind: ReplyNull})
}

func (h *Host) apiReplicateVerbatim(ctx abi.Ctx) abi.Status {
	h.checkCtx(ctx)
	h.mu.Lock()
	h.replicated++
	h.mu.Unlock()
	return abi.StatusOK
}

func (h *Host) apiLog(ctx abi.Ctx, level, message *byte) {
	h.checkCtx(ctx)
	msg := abi.GoString(message)
	switch abi.GoString(level) {
	case "debug", "verbose":
		h.logger.Debug("module log", zap.String("message", msg))
	case "warning":
		h.logger.Warn("module log", zap.String("message", msg))
	default:
		h.logger.Info("module log", zap.String("message", msg))
	}
}

func (h *Host) apiAlloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	b := make([]byte, size)
	p := unsafe.Pointer(&b[0])
	h.mu.Lock()
	h.allocs[p] = b
	h.mu.Unlock()
	return p
}

func (h *Host) apiFree(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, live := h.allocs[ptr]; !live {
		h.doubleFrees++
		return
	}
	delete(h.allocs, ptr)
}
