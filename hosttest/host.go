package hosttest

import (
	"sync"
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/redismod/abi"
)

// Host is an in-memory host engine. The zero value is not usable; call
// New.
type Host struct {
	mu     sync.Mutex
	logger *zap.Logger

	keys     map[string]*entry
	commands map[string]registration

	moduleName    string
	moduleVersion int32

	// Handle accounting. Transient strings the host itself owns (argv
	// entries, popped elements, hash lookups) are not tracked: the
	// module never frees those.
	strings  map[*strObj]struct{}
	openKeys map[*keyObj]struct{}
	replies  map[*replyRef]struct{}
	allocs   map[unsafe.Pointer][]byte

	doubleFrees int
	expiredUses int

	opens      []OpenRecord
	recorded   []Reply
	replicated int
}

type registration struct {
	fn    abi.CmdFunc
	flags string
}

// ctxState backs a context handle. Expired contexts record misuse.
type ctxState struct {
	h       *Host
	expired bool
}

// strObj backs a native string handle.
type strObj struct {
	b         []byte
	transient bool
}

// keyObj backs an open key handle.
type keyObj struct {
	ctx  *ctxState
	name string
	mode abi.KeyMode
}

// OpenRecord captures one OpenKey call for assertions on access modes.
type OpenRecord struct {
	Name string
	Mode abi.KeyMode
}

// ReplyKind tags a recorded reply emission.
type ReplyKind int

const (
	ReplyArrayHeader ReplyKind = iota
	ReplyInteger
	ReplyBulk
	ReplySimple
	ReplyNull
	ReplyError
)

// Reply is one recorded reply emission.
type Reply struct {
	Kind ReplyKind
	Int  int64
	Text string
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host's structured logger. A no-op logger is used
// by default.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// New creates an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		logger:   zap.NewNop(),
		keys:     make(map[string]*entry),
		commands: make(map[string]registration),
		strings:  make(map[*strObj]struct{}),
		openKeys: make(map[*keyObj]struct{}),
		replies:  make(map[*replyRef]struct{}),
		allocs:   make(map[unsafe.Pointer][]byte),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Install binds this host's function table as the process ABI.
func (h *Host) Install() {
	abi.Install(h.API())
}

// Context returns a fresh, non-expired context handle, for module
// loading and for driving sessions directly in tests.
func (h *Host) Context() abi.Ctx {
	return abi.Ctx(unsafe.Pointer(&ctxState{h: h}))
}

// ExpireContext invalidates a context handle; later ABI calls through
// it count as expired uses.
func (h *Host) ExpireContext(ctx abi.Ctx) {
	if cs := (*ctxState)(unsafe.Pointer(ctx)); cs != nil {
		cs.expired = true
	}
}

// Invoke runs a registered command end-to-end: it builds a host-owned
// argument vector (argv[0] is the command name), dispatches through the
// registered entry point with a fresh context, and expires the context
// when the call returns. Previously recorded replies are cleared.
func (h *Host) Invoke(name string, args ...string) abi.Status {
	argv := make([][]byte, 0, len(args)+1)
	argv = append(argv, []byte(name))
	for _, a := range args {
		argv = append(argv, []byte(a))
	}
	return h.InvokeBytes(argv...)
}

// InvokeBytes is Invoke with raw argument bytes, for driving commands
// with payloads that are not valid text.
func (h *Host) InvokeBytes(argv ...[]byte) abi.Status {
	if len(argv) == 0 {
		return abi.StatusErr
	}

	h.mu.Lock()
	reg, ok := h.commands[string(argv[0])]
	h.recorded = h.recorded[:0]
	h.mu.Unlock()

	if !ok {
		h.logger.Warn("invoke of unregistered command", zap.ByteString("name", argv[0]))
		return abi.StatusErr
	}

	// argv strings stay host-owned; the module reads them but never
	// frees them.
	handles := make([]abi.String, len(argv))
	for i, a := range argv {
		handles[i] = abi.String(unsafe.Pointer(&strObj{
			b:         append([]byte(nil), a...),
			transient: true,
		}))
	}

	cs := &ctxState{h: h}
	st := reg.fn(abi.Ctx(unsafe.Pointer(cs)), &handles[0], int32(len(handles)))
	cs.expired = true

	h.logger.Debug("command invoked",
		zap.ByteString("name", argv[0]),
		zap.Int32("status", int32(st)),
	)
	return st
}

// OpenHandles returns the number of module-owned native handles not yet
// released.
func (h *Host) OpenHandles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.strings) + len(h.openKeys) + len(h.replies) + len(h.allocs)
}

// DoubleFrees returns how many release calls targeted a handle that was
// not live.
func (h *Host) DoubleFrees() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doubleFrees
}

// ExpiredUses returns how many ABI calls arrived on an expired context.
func (h *Host) ExpiredUses() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.expiredUses
}

// Opens returns every OpenKey call observed, in order.
func (h *Host) Opens() []OpenRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]OpenRecord(nil), h.opens...)
}

// Replies returns the replies recorded since the last Invoke, in
// emission order.
func (h *Host) Replies() []Reply {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Reply(nil), h.recorded...)
}

// LastReply returns the most recently recorded reply.
func (h *Host) LastReply() (Reply, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.recorded) == 0 {
		return Reply{}, false
	}
	return h.recorded[len(h.recorded)-1], true
}

// Replicated returns how many replicate-verbatim requests the host has
// observed.
func (h *Host) Replicated() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replicated
}

// ModuleName returns the name the module registered with.
func (h *Host) ModuleName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moduleName
}

// ModuleVersion returns the version the module registered with.
func (h *Host) ModuleVersion() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moduleVersion
}

// CommandFlags returns the flags string a command was registered with.
func (h *Host) CommandFlags(name string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	reg, ok := h.commands[name]
	return reg.flags, ok
}

// checkCtx validates a context handle and records expired use.
func (h *Host) checkCtx(ctx abi.Ctx) *ctxState {
	cs := (*ctxState)(unsafe.Pointer(ctx))
	if cs == nil || cs.expired {
		h.mu.Lock()
		h.expiredUses++
		h.mu.Unlock()
		h.logger.Warn("ABI call on expired or nil context")
	}
	return cs
}

func strOf(s abi.String) *strObj {
	return (*strObj)(unsafe.Pointer(s))
}

func keyOf(k abi.Key) *keyObj {
	return (*keyObj)(unsafe.Pointer(k))
}

// now is stubbed in expiry tests.
var now = time.Now
