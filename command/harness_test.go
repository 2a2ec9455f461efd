package command_test

import (
	"strings"
	"testing"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/command"
	"github.com/wippyai/redismod/errors"
	"github.com/wippyai/redismod/hosttest"
	"github.com/wippyai/redismod/session"
)

// setCommand stores a value under a key and acknowledges with OK.
type setCommand struct{}

func (setCommand) Name() string  { return "ns.set" }
func (setCommand) Flags() string { return command.FlagWrite + " " + command.FlagDenyOOM }

func (setCommand) Run(s *session.Session, args []string) error {
	if len(args) != 3 {
		return errors.Generic("Usage: ns.set <key> <value>")
	}
	k := s.OpenKeyWritable(args[1])
	defer k.Close()
	if err := k.Write(args[2]); err != nil {
		return err
	}
	if err := s.ReplicateVerbatim(); err != nil {
		return err
	}
	return s.ReplyOK()
}

// getCommand reads a key back, replying null when absent.
type getCommand struct{}

func (getCommand) Name() string  { return "ns.get" }
func (getCommand) Flags() string { return command.FlagReadonly + " " + command.FlagFast }

func (getCommand) Run(s *session.Session, args []string) error {
	if len(args) != 2 {
		return errors.Generic("Usage: ns.get <key>")
	}
	k := s.OpenKey(args[1])
	defer k.Close()
	val, ok, err := k.Read()
	if err != nil {
		return err
	}
	if !ok {
		s.ReplyNull()
		return nil
	}
	return s.ReplyString(val)
}

func load(t *testing.T) *hosttest.Host {
	t.Helper()
	h := hosttest.New()
	h.Install()
	if st := command.Load(h.Context(), "ns", 1, setCommand{}, getCommand{}); st != abi.StatusOK {
		t.Fatalf("load: got status %d", st)
	}
	return h
}

func TestLoadRegistersModule(t *testing.T) {
	h := load(t)

	if got := h.ModuleName(); got != "ns" {
		t.Fatalf("module name: got %q", got)
	}
	if got := h.ModuleVersion(); got != 1 {
		t.Fatalf("module version: got %d", got)
	}
	flags, ok := h.CommandFlags("ns.set")
	if !ok || flags != "write deny-oom" {
		t.Fatalf("ns.set flags: got %q, %v", flags, ok)
	}
	flags, ok = h.CommandFlags("ns.get")
	if !ok || flags != "readonly fast" {
		t.Fatalf("ns.get flags: got %q, %v", flags, ok)
	}
}

func TestLoadDuplicateCommand(t *testing.T) {
	h := hosttest.New()
	h.Install()
	st := command.Load(h.Context(), "ns", 1, setCommand{}, setCommand{})
	if st != abi.StatusErr {
		t.Fatalf("duplicate registration: got status %d, want error", st)
	}
}

func TestInvokeSetGet(t *testing.T) {
	h := load(t)

	if st := h.Invoke("ns.set", "k", "v"); st != abi.StatusOK {
		t.Fatalf("ns.set status: %d", st)
	}
	if r, ok := h.LastReply(); !ok || r.Kind != hosttest.ReplySimple || r.Text != "OK" {
		t.Fatalf("ns.set reply: %+v", r)
	}
	if got, _ := h.Value("k"); got != "v" {
		t.Fatalf("stored value: got %q", got)
	}
	if h.Replicated() != 1 {
		t.Fatalf("replicated: got %d, want 1", h.Replicated())
	}

	if st := h.Invoke("ns.get", "k"); st != abi.StatusOK {
		t.Fatalf("ns.get status: %d", st)
	}
	if r, _ := h.LastReply(); r.Kind != hosttest.ReplyBulk || r.Text != "v" {
		t.Fatalf("ns.get reply: %+v", r)
	}

	if st := h.Invoke("ns.get", "missing"); st != abi.StatusOK {
		t.Fatalf("ns.get missing status: %d", st)
	}
	if r, _ := h.LastReply(); r.Kind != hosttest.ReplyNull {
		t.Fatalf("ns.get missing reply: %+v", r)
	}

	if n := h.OpenHandles(); n != 0 {
		t.Fatalf("leaked handles: %d", n)
	}
	if n := h.DoubleFrees(); n != 0 {
		t.Fatalf("double frees: %d", n)
	}
}

func TestInvokeUsageError(t *testing.T) {
	h := load(t)

	if st := h.Invoke("ns.set", "only-key"); st != abi.StatusErr {
		t.Fatalf("short invocation status: %d, want error", st)
	}
	r, ok := h.LastReply()
	if !ok || r.Kind != hosttest.ReplyError {
		t.Fatalf("reply: %+v", r)
	}
	if !strings.HasPrefix(r.Text, "module error: Usage: ns.set") {
		t.Fatalf("error text: %q", r.Text)
	}
}

func TestInvokeUndecodableArgument(t *testing.T) {
	h := load(t)

	st := h.InvokeBytes([]byte("ns.set"), []byte{0xff, 0xfe}, []byte("v"))
	if st != abi.StatusErr {
		t.Fatalf("status: %d, want error", st)
	}
	r, ok := h.LastReply()
	if !ok || r.Kind != hosttest.ReplyError {
		t.Fatalf("reply: %+v", r)
	}
	if !strings.Contains(r.Text, "not valid UTF-8") {
		t.Fatalf("error text: %q", r.Text)
	}
	if n := h.OpenHandles(); n != 0 {
		t.Fatalf("leaked handles: %d", n)
	}
}

func TestEncodeVersion(t *testing.T) {
	cases := []struct {
		in   string
		want int32
		ok   bool
	}{
		{"1.2.3", 10203, true},
		{"0.0.1", 1, true},
		{"12.34.56", 123456, true},
		{"not-a-version", 0, false},
	}
	for _, tc := range cases {
		got, err := command.EncodeVersion(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("%q: expected error", tc.in)
		}
		if !errors.IsKind(err, errors.KindParse) {
			t.Errorf("%q: error kind: %v", tc.in, err)
		}
	}
}
