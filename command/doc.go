// Package command defines the command capability interface, the dispatch
// harness invoked by the host and the data-driven registration loop.
//
// A command is a stateless, process-lifetime descriptor: a name, a
// space-separated execution-flags string drawn from the host's fixed
// vocabulary, and a Run behavior. Load pairs each descriptor with a
// generated entry point and registers the set with the host in one loop;
// the harness is pure plumbing between the host calling convention and
// Run.
package command
