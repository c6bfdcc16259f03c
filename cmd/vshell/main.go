// vshell - sandboxed command interpreter for LLM agent workspaces
// License: MIT
//
// Copyright (c) 2026 vshell contributors

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/substrata-labs/vshell/pkg/config"
	"github.com/substrata-labs/vshell/pkg/logger"
	"github.com/substrata-labs/vshell/pkg/shell"
	"github.com/substrata-labs/vshell/pkg/workspace"
)

var (
	version   = "dev"
	buildTime string
)

const cliName = "vshell"

func printVersion() {
	fmt.Printf("%s v%s\n", cliName, version)
	if buildTime != "" {
		fmt.Printf("  Build: %s\n", buildTime)
	}
	fmt.Printf("  Go: %s\n", runtime.Version())
}

func printHelp() {
	fmt.Printf(`%s - sandboxed command interpreter for agent workspaces

Usage:
  %s run [options] "script"    Run a script against a fresh workspace
  %s repl [options]            Interactive session
  %s version                   Print version
  %s help                      Show this help

Options:
  -config PATH      Config file (YAML)
  -readonly         Reject all workspace writes
  -var NAME=VALUE   Preset a runtime variable (repeatable)
  -load HOST:WS     Load a host file into the workspace (repeatable)
`, cliName, cliName, cliName, cliName, cliName)
}

// repeatedFlag collects a flag given more than once.
type repeatedFlag []string

func (f *repeatedFlag) String() string { return strings.Join(*f, ",") }

func (f *repeatedFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type sessionOptions struct {
	configPath string
	readOnly   bool
	vars       repeatedFlag
	loads      repeatedFlag
}

func (o *sessionOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "config file (YAML)")
	fs.BoolVar(&o.readOnly, "readonly", false, "reject all workspace writes")
	fs.Var(&o.vars, "var", "preset runtime variable NAME=VALUE")
	fs.Var(&o.loads, "load", "load host file into workspace as HOST:WS")
}

// newSession builds a shell over a fresh in-memory workspace per the options.
func newSession(ctx context.Context, opts *sessionOptions) (*shell.Shell, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if cfg.Debug {
		logger.SetDebug(true)
	}

	provider := workspace.NewMemoryProvider()
	for _, spec := range opts.loads {
		hostPath, wsPath, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid -load %q (want HOST:WS)", spec)
		}
		data, err := os.ReadFile(hostPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", hostPath, err)
		}
		resolved, err := workspace.Resolve(wsPath)
		if err != nil {
			return nil, err
		}
		if err := provider.Write(ctx, resolved, string(data)); err != nil {
			return nil, err
		}
	}

	sh := shell.NewShell(provider, cfg)
	sh.SetReadOnly(opts.readOnly, nil)
	for _, kv := range opts.vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -var %q (want NAME=VALUE)", kv)
		}
		sh.SetEnv(name, value)
	}
	return sh, nil
}

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	opts := &sessionOptions{}
	opts.register(fs)
	fs.Parse(args)

	script := strings.Join(fs.Args(), " ")
	if script == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil || len(data) == 0 {
			fmt.Fprintln(os.Stderr, "run: no script given and stdin is empty")
			return 1
		}
		script = string(data)
	}

	ctx := context.Background()
	sh, err := newSession(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cliName, err)
		return 1
	}

	res := sh.Execute(ctx, script)
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			fmt.Println()
		}
	}
	if res.Stderr != "" {
		fmt.Fprintln(os.Stderr, res.Stderr)
	}
	return res.ExitCode
}

func replCmd(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	opts := &sessionOptions{}
	opts.register(fs)
	fs.Parse(args)

	ctx := context.Background()
	sh, err := newSession(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cliName, err)
		return 1
	}

	fmt.Printf("%s session %s (in-memory workspace, Ctrl-D to exit)\n", cliName, sh.ID())
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Printf("%s> ", cliName)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == "exit" {
			break
		}

		res := sh.Execute(ctx, line)
		if res.Stdout != "" {
			fmt.Print(res.Stdout)
			if !strings.HasSuffix(res.Stdout, "\n") {
				fmt.Println()
			}
		}
		if res.Stderr != "" {
			fmt.Fprintln(os.Stderr, res.Stderr)
		}
		if res.ExitCode != 0 {
			fmt.Fprintf(os.Stderr, "(exit %d)\n", res.ExitCode)
		}
	}
	fmt.Println()
	return 0
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "repl":
		os.Exit(replCmd(os.Args[2:]))
	case "version", "--version", "-v":
		printVersion()
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}
