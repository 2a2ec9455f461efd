package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/command"
	"github.com/wippyai/redismod/hosttest"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML module config")
		cmdLine     = flag.String("cmd", "", "Command to invoke (name and args, space-separated)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose host logging")
	)
	flag.Parse()

	if *cmdLine == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: modrun [-config file.toml] -cmd \"demo.set key value\"")
		fmt.Fprintln(os.Stderr, "       modrun [-config file.toml] -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*configFile, *cmdLine, *interactive, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, cmdLine string, interactive, verbose bool) error {
	cfg := defaultConfig()
	if configFile != "" {
		loaded, err := loadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer dev.Sync()
		logger = dev
	}

	version, err := command.EncodeVersion(cfg.Module.Version)
	if err != nil {
		return fmt.Errorf("module version: %w", err)
	}

	h := hosttest.New(hosttest.WithLogger(logger))
	h.Install()

	cmds := demoCommands(cfg.Module.Name)
	if st := command.Load(h.Context(), cfg.Module.Name, version, cmds...); st != abi.StatusOK {
		return fmt.Errorf("module load failed")
	}
	cfg.seed(h)

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(h, cfg.Module.Name, cmds)
	}

	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	st := h.Invoke(fields[0], fields[1:]...)
	for _, r := range h.Replies() {
		fmt.Println(formatReply(r))
	}
	if st != abi.StatusOK {
		return fmt.Errorf("command returned error status")
	}
	return nil
}

func formatReply(r hosttest.Reply) string {
	switch r.Kind {
	case hosttest.ReplyArrayHeader:
		return fmt.Sprintf("*%d", r.Int)
	case hosttest.ReplyInteger:
		return fmt.Sprintf("(integer) %d", r.Int)
	case hosttest.ReplyBulk:
		return fmt.Sprintf("%q", r.Text)
	case hosttest.ReplySimple:
		return "+" + r.Text
	case hosttest.ReplyNull:
		return "(nil)"
	case hosttest.ReplyError:
		return "(error) " + r.Text
	default:
		return fmt.Sprintf("%+v", r)
	}
}
