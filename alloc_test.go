package redismod_test

import (
	"testing"

	"github.com/wippyai/redismod"
	"github.com/wippyai/redismod/hosttest"
)

func TestHostAllocator(t *testing.T) {
	h := hosttest.New()
	h.Install()

	var a redismod.Allocator = redismod.HostAllocator{}

	p := a.Alloc(64)
	if p == nil {
		t.Fatal("alloc returned nil")
	}
	if n := h.OpenHandles(); n != 1 {
		t.Fatalf("open handles: got %d, want 1", n)
	}

	a.Free(p)
	if n := h.OpenHandles(); n != 0 {
		t.Fatalf("open handles after free: got %d, want 0", n)
	}
	if n := h.DoubleFrees(); n != 0 {
		t.Fatalf("double frees: got %d, want 0", n)
	}
}
