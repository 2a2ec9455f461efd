// Package hosttest provides an in-memory host engine implementing the
// full abi.API function table over a typed keyspace.
//
// It exists so SDK code and command handlers can run end-to-end without
// a real host: strings, lists, hashes and sorted sets with expiry on the
// data side, and faithful handle semantics on the ABI side. Read-mode
// opens return a null handle for absent keys, write-mode opens always
// return a usable one, nested calls produce reply trees.
//
// Every handle the host hands out is accounted for. Tests assert the
// release-exactly-once discipline through OpenHandles (must drop back to
// zero) and DoubleFrees (must stay zero), and the single-invocation
// lifetime rule through ExpiredUses.
//
//	h := hosttest.New()
//	h.Install()
//	command.Load(h.Context(), "ns", 1, cmds...)
//	st := h.Invoke("ns.set", "k", "v")
//
// Invoke records every reply the command emits; Replies and LastReply
// expose them for assertions.
package hosttest
