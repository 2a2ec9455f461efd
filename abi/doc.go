// Package abi holds the raw binding layer over the host engine's native
// function table.
//
// The host hands a loaded module its ABI as a table of function pointers;
// Install binds that table once at load time and the package-level
// wrappers mirror each entry with typed Go signatures. Handles (Ctx, Key,
// String, CallReply) are opaque pointer-sized values owned by the host and
// valid only for the invocation that produced them.
//
// This package is a trusted, unsafe boundary: it performs no lifetime or
// bounds checking of its own. The session package layers owned wrappers on
// top; nothing outside that layer should hold a raw handle.
//
// # String conventions
//
// Two transfer conventions coexist and must be used at the exact call
// sites the host expects them:
//
//   - NUL-terminated byte pointers for names, flags and log messages
//     (CString / GoString).
//   - Explicit (pointer, length) pairs for argument and value payloads,
//     which may contain embedded NUL bytes (GoBytes).
package abi
