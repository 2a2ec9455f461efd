// Package redismod is a Go SDK for writing extension modules against a
// host keyspace engine's native, manually-memory-managed ABI.
//
// Handler code is written against structured, owned Go values; the SDK
// guarantees that every native resource obtained from the host (keys,
// strings, call replies) is released exactly once, on every exit path,
// and that failures surface through the host's own reply protocol rather
// than crashing the process.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	redismod/        Root package with the injectable Allocator policy
//	├── abi/         Raw binding layer over the host function table
//	├── errors/      Structured error type (generic/decode/parse kinds)
//	├── session/     Owned resource wrappers, reply builder, nested calls
//	├── command/     Command interface, dispatch harness, registration
//	└── hosttest/    In-memory host for tests and local tooling
//
// # Quick Start
//
// Define a command and register it from the module's load entry point:
//
//	type setCommand struct{}
//
//	func (setCommand) Name() string  { return "ns.set" }
//	func (setCommand) Flags() string { return command.FlagWrite }
//
//	func (setCommand) Run(s *session.Session, args []string) error {
//	    if len(args) != 3 {
//	        return errors.Genericf("Usage: %s <key> <value>", "ns.set")
//	    }
//	    key := s.OpenKeyWritable(args[1])
//	    defer key.Close()
//	    if err := key.Write(args[2]); err != nil {
//	        return err
//	    }
//	    return s.ReplyOK()
//	}
//
//	func onLoad(ctx abi.Ctx) abi.Status {
//	    return command.Load(ctx, "ns", 1, setCommand{})
//	}
//
// Every wrapper returned by a Session owns exactly one native resource
// and releases it in Close; defer Close immediately after construction
// and the release happens on every exit path, early error returns
// included.
//
// # Execution Model
//
// The host invokes the dispatch harness synchronously on its own thread;
// everything runs to completion before control returns. Handles and
// Sessions are valid only for the single invocation that produced them
// and must never be retained across invocations.
package redismod
