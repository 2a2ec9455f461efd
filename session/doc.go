// Package session provides the per-invocation handle and the owned
// wrappers over native host resources.
//
// A Session wraps the host context pointer for exactly one command
// invocation. Everything it hands out (String, Key, KeyWritable,
// CallReply) owns one native resource and releases it in Close,
// exactly once, regardless of exit path:
//
//	key := s.OpenKeyWritable("user:1")
//	defer key.Close()
//	if err := key.Write("v"); err != nil {
//	    return err // key still closed by the defer
//	}
//
// Close is idempotent and ownership is exclusive, so double release is
// structurally impossible. No wrapper may outlive the invocation that
// produced its Session: the host is free to reuse or invalidate the
// underlying pointers afterwards.
//
// The Session also carries the reply builder (ReplyArray, ReplyInteger,
// ReplyString, ...) and the nested-call helpers (Call1Integer ...
// Call3Text, CallKeys), both thin typed layers over the host reply and
// call primitives.
package session
