package session_test

import (
	"testing"

	"github.com/wippyai/redismod/hosttest"
	"github.com/wippyai/redismod/session"
)

// newSession wires a fresh in-memory host and returns it with a session
// bound to one of its contexts.
func newSession(t *testing.T) (*hosttest.Host, *session.Session) {
	t.Helper()
	h := hosttest.New()
	h.Install()
	return h, session.New(h.Context())
}

// checkClean asserts that every handle handed out was released exactly
// once.
func checkClean(t *testing.T, h *hosttest.Host) {
	t.Helper()
	if n := h.OpenHandles(); n != 0 {
		t.Errorf("open handles after close: got %d, want 0", n)
	}
	if n := h.DoubleFrees(); n != 0 {
		t.Errorf("double frees: got %d, want 0", n)
	}
}

func TestStringLifecycle(t *testing.T) {
	h, s := newSession(t)

	str := s.CreateString("hello")
	if n := h.OpenHandles(); n != 1 {
		t.Fatalf("open handles with one live string: got %d, want 1", n)
	}

	str.Close()
	str.Close() // second close must be a no-op
	checkClean(t, h)
}

func TestLogLevels(t *testing.T) {
	_, s := newSession(t)

	// Levels route through the host without panicking; output goes to
	// the nop logger.
	s.Log(session.LogDebug, "d")
	s.Log(session.LogVerbose, "v")
	s.Log(session.LogNotice, "n")
	s.Log(session.LogWarning, "w")
	s.LogDebug("promoted to notice")
}
