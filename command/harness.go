package command

import (
	"fmt"
	"unicode/utf8"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
	"github.com/wippyai/redismod/session"
)

// errPrefix identifies error replies originating from this layer rather
// than the host itself.
const errPrefix = "module error: "

// Harness adapts the host calling convention to a Command: it decodes
// the argument vector into owned text, builds a Session over the
// context, invokes Run and maps the result onto the host's status and
// reply protocol. Any error, including an argument decode failure,
// becomes an error reply and a failure status, never a crash.
func Harness(cmd Command, ctx abi.Ctx, argv *abi.String, argc int32) abi.Status {
	s := session.New(ctx)

	args, err := decodeArgs(argv, argc)
	if err != nil {
		s.ReplyError(errPrefix + err.Error())
		return abi.StatusErr
	}

	if err := cmd.Run(s, args); err != nil {
		s.ReplyError(errPrefix + err.Error())
		return abi.StatusErr
	}
	return abi.StatusOK
}

// decodeArgs materializes the host argument vector into owned strings.
// A single undecodable argument fails the whole invocation.
func decodeArgs(argv *abi.String, argc int32) ([]string, error) {
	args := make([]string, 0, argc)
	for i := int32(0); i < argc; i++ {
		var length uintptr
		p := abi.StringPtrLen(abi.ArgvAt(argv, i), &length)
		b := abi.GoBytes(p, length)
		if !utf8.Valid(b) {
			return nil, errors.InvalidUTF8(fmt.Sprintf("argument %d", i), b)
		}
		args = append(args, string(b))
	}
	return args, nil
}
