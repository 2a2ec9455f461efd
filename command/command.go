package command

import "github.com/wippyai/redismod/session"

// Command is the capability interface implemented by every command
// variant. One instance exists per registered command; descriptors are
// stateless and live for the whole process.
type Command interface {
	// Name returns the command name registered with the host.
	Name() string

	// Flags returns the space-separated execution-class tokens passed
	// through verbatim at registration. See the Flag constants for the
	// vocabulary the host defines.
	Flags() string

	// Run executes the command against the given per-invocation session
	// and the decoded argument list (args[0] is the command name).
	Run(s *session.Session, args []string) error
}

// Execution-flag tokens. Their semantics are defined entirely by the
// host's scheduler, ACL and scripting subsystems; the SDK passes them
// through unmodified.
const (
	// FlagWrite marks a command that may modify the data set.
	FlagWrite = "write"
	// FlagReadonly marks a command that reads keys but never writes.
	FlagReadonly = "readonly"
	// FlagAdmin marks an administrative command.
	FlagAdmin = "admin"
	// FlagDenyOOM denies the command under out-of-memory conditions.
	FlagDenyOOM = "deny-oom"
	// FlagDenyScript keeps the command out of scripts.
	FlagDenyScript = "deny-script"
	// FlagAllowLoading allows the command while the host loads data.
	FlagAllowLoading = "allow-loading"
	// FlagPubSub marks a command that publishes on pub/sub channels.
	FlagPubSub = "pubsub"
	// FlagRandom marks a command with non-deterministic output.
	FlagRandom = "random"
	// FlagAllowStale allows the command on replicas serving stale data.
	FlagAllowStale = "allow-stale"
	// FlagNoMonitor keeps the command off the monitor stream.
	FlagNoMonitor = "no-monitor"
	// FlagFast marks a command with at most O(log N) time complexity.
	FlagFast = "fast"
	// FlagGetkeysAPI marks a command implementing the key-extraction
	// interface.
	FlagGetkeysAPI = "getkeys-api"
	// FlagNoCluster keeps the command unregistered in cluster mode.
	FlagNoCluster = "no-cluster"
)
