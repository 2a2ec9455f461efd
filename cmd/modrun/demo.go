package main

import (
	"strconv"
	"time"

	"github.com/wippyai/redismod/command"
	"github.com/wippyai/redismod/errors"
	"github.com/wippyai/redismod/session"
)

// demoCommand is one console command: a name, its execution flags and
// its handler.
type demoCommand struct {
	name  string
	flags string
	usage string
	arity int
	run   func(s *session.Session, args []string) error
}

func (c demoCommand) Name() string  { return c.name }
func (c demoCommand) Flags() string { return c.flags }

func (c demoCommand) Run(s *session.Session, args []string) error {
	if len(args) != c.arity {
		return errors.Generic("Usage: " + c.usage)
	}
	return c.run(s, args)
}

// demoCommands builds the console command set under the given
// namespace. It exercises string keys, lists, hashes, expiry and
// nested calls.
func demoCommands(ns string) []command.Command {
	return []command.Command{
		demoCommand{
			name:  ns + ".set",
			flags: command.FlagWrite + " " + command.FlagDenyOOM,
			usage: ns + ".set <key> <value>",
			arity: 3,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				if err := k.Write(args[2]); err != nil {
					return err
				}
				if err := s.ReplicateVerbatim(); err != nil {
					return err
				}
				return s.ReplyOK()
			},
		},
		demoCommand{
			name:  ns + ".get",
			flags: command.FlagReadonly + " " + command.FlagFast,
			usage: ns + ".get <key>",
			arity: 2,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKey(args[1])
				defer k.Close()
				val, ok, err := k.Read()
				if err != nil {
					return err
				}
				if !ok {
					s.ReplyNull()
					return nil
				}
				return s.ReplyString(val)
			},
		},
		demoCommand{
			name:  ns + ".del",
			flags: command.FlagWrite,
			usage: ns + ".del <key>",
			arity: 2,
			run: func(s *session.Session, args []string) error {
				n, err := s.Call1Integer("del", args[1])
				if err != nil {
					return err
				}
				return s.ReplyInteger(n)
			},
		},
		demoCommand{
			name:  ns + ".expire",
			flags: command.FlagWrite + " " + command.FlagFast,
			usage: ns + ".expire <key> <seconds>",
			arity: 3,
			run: func(s *session.Session, args []string) error {
				secs, err := strconv.ParseInt(args[2], 10, 64)
				if err != nil {
					return errors.Parse(args[2], err)
				}
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				if err := k.SetExpire(time.Duration(secs) * time.Second); err != nil {
					return err
				}
				return s.ReplyOK()
			},
		},
		demoCommand{
			name:  ns + ".enqueue",
			flags: command.FlagWrite + " " + command.FlagDenyOOM,
			usage: ns + ".enqueue <queue> <value>",
			arity: 3,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				if err := k.RPush(args[2]); err != nil {
					return err
				}
				n, err := s.Call1Integer("llen", args[1])
				if err != nil {
					return err
				}
				return s.ReplyInteger(n)
			},
		},
		demoCommand{
			name:  ns + ".dequeue",
			flags: command.FlagWrite + " " + command.FlagFast,
			usage: ns + ".dequeue <queue>",
			arity: 2,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				val, ok, err := k.LPop()
				if err != nil {
					return err
				}
				if !ok {
					s.ReplyNull()
					return nil
				}
				return s.ReplyString(val)
			},
		},
		demoCommand{
			name:  ns + ".hset",
			flags: command.FlagWrite + " " + command.FlagDenyOOM,
			usage: ns + ".hset <key> <field> <value>",
			arity: 4,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				if err := k.HashSet(args[2], args[3]); err != nil {
					return err
				}
				return s.ReplyOK()
			},
		},
		demoCommand{
			name:  ns + ".hget",
			flags: command.FlagReadonly + " " + command.FlagFast,
			usage: ns + ".hget <key> <field>",
			arity: 3,
			run: func(s *session.Session, args []string) error {
				k := s.OpenKeyWritable(args[1])
				defer k.Close()
				val, ok := k.HashGet(args[2])
				if !ok {
					s.ReplyNull()
					return nil
				}
				return s.ReplyString(val)
			},
		},
		demoCommand{
			name:  ns + ".keys",
			flags: command.FlagReadonly,
			usage: ns + ".keys <pattern>",
			arity: 2,
			run: func(s *session.Session, args []string) error {
				keys, err := s.CallKeys(args[1])
				if err != nil {
					return err
				}
				b, err := s.BeginArray(int64(len(keys)))
				if err != nil {
					return err
				}
				for _, k := range keys {
					if err := b.String(k); err != nil {
						return err
					}
				}
				return b.Close()
			},
		},
	}
}
