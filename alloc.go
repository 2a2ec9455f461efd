package redismod

import (
	"unsafe"

	"github.com/wippyai/redismod/abi"
)

// Allocator is a pluggable allocation policy for embedders that want
// general allocations to go through the host. It is consumed as an
// opaque policy; the resource wrappers in session do not depend on it.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Free(ptr unsafe.Pointer)
}

// HostAllocator delegates to the host's allocator through the bound ABI
// table.
type HostAllocator struct{}

func (HostAllocator) Alloc(size uintptr) unsafe.Pointer { return abi.Alloc(size) }

func (HostAllocator) Free(ptr unsafe.Pointer) { abi.Free(ptr) }
