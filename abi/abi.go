package abi

import "unsafe"

// APIVersion is the fixed ABI revision passed to the host init primitive.
const APIVersion int32 = 1

// Status is the result code of host calls and command entry points.
type Status int32

const (
	StatusOK  Status = 0
	StatusErr Status = 1
)

// KeyMode selects the access mode for OpenKey. Modes combine as bit flags.
type KeyMode int32

const (
	ModeRead  KeyMode = 1 << 0
	ModeWrite KeyMode = 1 << 1
)

// KeyType identifies the native type of an open key's value.
type KeyType int32

const (
	KeyTypeEmpty KeyType = iota
	KeyTypeString
	KeyTypeList
	KeyTypeHash
	KeyTypeSet
	KeyTypeZset
	KeyTypeModule
)

// ReplyType tags the value carried by a nested-call reply.
type ReplyType int32

const (
	ReplyUnknown ReplyType = -1
	ReplyString  ReplyType = 0
	ReplyError   ReplyType = 1
	ReplyInteger ReplyType = 2
	ReplyArray   ReplyType = 3
	ReplyNil     ReplyType = 4
)

// List ends for ListPush and ListPop.
const (
	ListHead int32 = 0
	ListTail int32 = -1
)

// Opaque host handles. All are pointer-sized values issued by the host;
// the zero value is the host's null.
type (
	// Ctx is the per-invocation context handle.
	Ctx unsafe.Pointer
	// Key is an open key handle.
	Key unsafe.Pointer
	// String is a native string handle.
	String unsafe.Pointer
	// CallReply is a nested-call reply handle.
	CallReply unsafe.Pointer
)

// CmdFunc is the command entry point calling convention: the host invokes
// it with its context, an argument vector of native strings and the
// argument count.
type CmdFunc func(ctx Ctx, argv *String, argc int32) Status

// API is the host's native function table. The host populates one of
// these when it loads the module; Install binds it for the package-level
// wrappers below.
//
// Name, flag and log parameters are NUL-terminated byte pointers; value
// payloads travel as (pointer, length) pairs.
type API struct {
	Init          func(ctx Ctx, name *byte, version, apiVersion int32) Status
	CreateCommand func(ctx Ctx, name *byte, fn CmdFunc, flags *byte, firstKey, lastKey, keyStep int32) Status

	OpenKey   func(ctx Ctx, name String, mode KeyMode) Key
	CloseKey  func(k Key)
	KeyType   func(k Key) KeyType
	StringSet func(k Key, val String) Status
	StringDMA func(k Key, length *uintptr, mode KeyMode) *byte
	DeleteKey func(k Key) Status
	SetExpire func(k Key, expireMillis int64) Status

	ListPush func(k Key, where int32, ele String) Status
	ListPop  func(k Key, where int32) String

	HashGet func(k Key, field String) String
	HashSet func(k Key, field, val String) Status

	ZsetAdd    func(k Key, score float64, ele String, flags *int32) Status
	ZsetIncrby func(k Key, incr float64, ele String, flags *int32, newScore *float64) Status
	ZsetScore  func(k Key, ele String, score *float64) Status

	CreateString func(ctx Ctx, ptr *byte, length uintptr) String
	FreeString   func(ctx Ctx, s String)
	StringPtrLen func(s String, length *uintptr) *byte

	ReplyWithArray        func(ctx Ctx, length int64) Status
	ReplyWithError        func(ctx Ctx, err *byte)
	ReplyWithLongLong     func(ctx Ctx, v int64) Status
	ReplyWithString       func(ctx Ctx, s String) Status
	ReplyWithSimpleString func(ctx Ctx, msg *byte) Status
	ReplyWithNull         func(ctx Ctx)
	ReplicateVerbatim     func(ctx Ctx) Status

	// Call is the generic synchronous command-call primitive. The format
	// string declares one 'c' per NUL-terminated argument that follows.
	Call                  func(ctx Ctx, cmdname, format *byte, args ...*byte) CallReply
	CallReplyType         func(r CallReply) ReplyType
	CallReplyInteger      func(r CallReply) int64
	CallReplyStringPtr    func(r CallReply, length *uintptr) *byte
	CallReplyLength       func(r CallReply) uintptr
	CallReplyArrayElement func(r CallReply, idx uintptr) CallReply
	FreeCallReply         func(r CallReply)

	Log func(ctx Ctx, level, message *byte)

	Alloc func(size uintptr) unsafe.Pointer
	Free  func(ptr unsafe.Pointer)
}

var host API

// Install binds the host's function table. It must be called exactly once
// before any other function in this package, normally from the module's
// load entry point.
func Install(api API) { host = api }

// Installed reports whether a host table has been bound.
func Installed() bool { return host.Init != nil }

func Init(ctx Ctx, name *byte, version, apiVersion int32) Status {
	return host.Init(ctx, name, version, apiVersion)
}

func CreateCommand(ctx Ctx, name *byte, fn CmdFunc, flags *byte, firstKey, lastKey, keyStep int32) Status {
	return host.CreateCommand(ctx, name, fn, flags, firstKey, lastKey, keyStep)
}

func OpenKey(ctx Ctx, name String, mode KeyMode) Key { return host.OpenKey(ctx, name, mode) }

func CloseKey(k Key) { host.CloseKey(k) }

// KeyTypeOf returns the native type of the value stored at an open key.
func KeyTypeOf(k Key) KeyType { return host.KeyType(k) }

func StringSet(k Key, val String) Status { return host.StringSet(k, val) }

func StringDMA(k Key, length *uintptr, mode KeyMode) *byte { return host.StringDMA(k, length, mode) }

func DeleteKey(k Key) Status { return host.DeleteKey(k) }

func SetExpire(k Key, expireMillis int64) Status { return host.SetExpire(k, expireMillis) }

func ListPush(k Key, where int32, ele String) Status { return host.ListPush(k, where, ele) }

func ListPop(k Key, where int32) String { return host.ListPop(k, where) }

func HashGet(k Key, field String) String { return host.HashGet(k, field) }

func HashSet(k Key, field, val String) Status { return host.HashSet(k, field, val) }

func ZsetAdd(k Key, score float64, ele String, flags *int32) Status {
	return host.ZsetAdd(k, score, ele, flags)
}

func ZsetIncrby(k Key, incr float64, ele String, flags *int32, newScore *float64) Status {
	return host.ZsetIncrby(k, incr, ele, flags, newScore)
}

func ZsetScore(k Key, ele String, score *float64) Status { return host.ZsetScore(k, ele, score) }

func CreateString(ctx Ctx, ptr *byte, length uintptr) String {
	return host.CreateString(ctx, ptr, length)
}

func FreeString(ctx Ctx, s String) { host.FreeString(ctx, s) }

func StringPtrLen(s String, length *uintptr) *byte { return host.StringPtrLen(s, length) }

func ReplyWithArray(ctx Ctx, length int64) Status { return host.ReplyWithArray(ctx, length) }

func ReplyWithError(ctx Ctx, err *byte) { host.ReplyWithError(ctx, err) }

func ReplyWithLongLong(ctx Ctx, v int64) Status { return host.ReplyWithLongLong(ctx, v) }

func ReplyWithString(ctx Ctx, s String) Status { return host.ReplyWithString(ctx, s) }

func ReplyWithSimpleString(ctx Ctx, msg *byte) Status { return host.ReplyWithSimpleString(ctx, msg) }

func ReplyWithNull(ctx Ctx) { host.ReplyWithNull(ctx) }

func ReplicateVerbatim(ctx Ctx) Status { return host.ReplicateVerbatim(ctx) }

func Call(ctx Ctx, cmdname, format *byte, args ...*byte) CallReply {
	return host.Call(ctx, cmdname, format, args...)
}

func CallReplyTypeOf(r CallReply) ReplyType { return host.CallReplyType(r) }

func CallReplyInteger(r CallReply) int64 { return host.CallReplyInteger(r) }

func CallReplyStringPtr(r CallReply, length *uintptr) *byte {
	return host.CallReplyStringPtr(r, length)
}

func CallReplyLength(r CallReply) uintptr { return host.CallReplyLength(r) }

func CallReplyArrayElement(r CallReply, idx uintptr) CallReply {
	return host.CallReplyArrayElement(r, idx)
}

func FreeCallReply(r CallReply) { host.FreeCallReply(r) }

func Log(ctx Ctx, level, message *byte) { host.Log(ctx, level, message) }

func Alloc(size uintptr) unsafe.Pointer { return host.Alloc(size) }

func Free(ptr unsafe.Pointer) { host.Free(ptr) }
