package command

import (
	"github.com/coreos/go-semver/semver"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

// Load initializes the module with the host and registers every command
// through a single data-driven loop: name, generated entry point and
// flags string per descriptor. Key metadata is fixed at 0/0/0 since
// these commands expose no host-introspectable key arguments.
//
// Intended to be called once from the module's load entry point with
// the context the host passes in.
func Load(ctx abi.Ctx, moduleName string, version int32, cmds ...Command) abi.Status {
	if abi.Init(ctx, abi.CString(moduleName), version, abi.APIVersion) != abi.StatusOK {
		return abi.StatusErr
	}

	for _, cmd := range cmds {
		st := abi.CreateCommand(
			ctx,
			abi.CString(cmd.Name()),
			entryPoint(cmd),
			abi.CString(cmd.Flags()),
			0, 0, 0,
		)
		if st != abi.StatusOK {
			return abi.StatusErr
		}
	}
	return abi.StatusOK
}

// entryPoint pairs a descriptor with a dispatch entry point in the
// host's calling convention.
func entryPoint(cmd Command) abi.CmdFunc {
	return func(ctx abi.Ctx, argv *abi.String, argc int32) abi.Status {
		return Harness(cmd, ctx, argv, argc)
	}
}

// EncodeVersion converts a semantic version string into the integer
// form the host init primitive expects: major*10000 + minor*100 +
// patch.
func EncodeVersion(v string) (int32, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return 0, errors.Parse(v, err)
	}
	return int32(sv.Major*10000 + sv.Minor*100 + sv.Patch), nil
}
