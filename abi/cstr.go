package abi

import "unsafe"

// CString returns a pointer to a NUL-terminated copy of s. The backing
// buffer stays reachable for as long as the returned pointer is.
func CString(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// GoString copies the NUL-terminated byte sequence at p into a Go string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// GoBytes copies length bytes starting at p. The copy may contain
// embedded NUL bytes; a nil pointer or zero length yields nil.
func GoBytes(p *byte, length uintptr) []byte {
	if p == nil || length == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice(p, length)...)
}

// BytePtr returns a pointer to the first byte of b, or nil for an empty
// slice.
func BytePtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

// ArgvAt indexes a host argument vector. The vector is a contiguous
// array of argc native string handles; i must be within it.
func ArgvAt(argv *String, i int32) String {
	p := unsafe.Add(unsafe.Pointer(argv), uintptr(i)*unsafe.Sizeof(uintptr(0)))
	return *(*String)(p)
}
