package shell

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/substrata-labs/vshell/pkg/config"
	"github.com/substrata-labs/vshell/pkg/logger"
	"github.com/substrata-labs/vshell/pkg/workspace"
)

// devNull is a recognized discard sink for redirection; writing to it never
// touches the workspace.
const devNull = "/dev/null"

// Shell evaluates command scripts against a sandboxed workspace. One Shell
// serves an entire agent run: it owns the runtime variable map and the
// read-only sandbox state, which the surrounding agent logic toggles between
// modes. Shells are independent; two agent runs never share one.
type Shell struct {
	id       string
	fs       *store
	env      map[string]string
	provider EnvProvider
	cfg      *config.Config
	handlers map[string]handlerFunc
}

func NewShell(p workspace.Provider, cfg *config.Config) *Shell {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Shell{
		id:       uuid.NewString(),
		fs:       newStore(p),
		env:      make(map[string]string),
		cfg:      cfg,
		handlers: newHandlerTable(),
	}
}

// ID identifies this shell session in logs.
func (sh *Shell) ID() string { return sh.id }

// SetReadOnly toggles the read-only sandbox. While enabled, rm and mkdir are
// rejected outright and any write must target a path covered by
// writablePaths (exact match or directory prefix).
func (sh *Shell) SetReadOnly(enabled bool, writablePaths []string) {
	sh.fs.setReadOnly(enabled, writablePaths)
}

func (sh *Shell) IsReadOnly() bool { return sh.fs.readOnly }

func (sh *Shell) SetEnv(key, value string) { sh.env[key] = value }

func (sh *Shell) GetEnv() map[string]string {
	out := make(map[string]string, len(sh.env))
	for k, v := range sh.env {
		out[k] = v
	}
	return out
}

func (sh *Shell) SetEnvProvider(p EnvProvider) { sh.provider = p }

func (sh *Shell) GetEnvProvider() EnvProvider { return sh.provider }

// Execute parses and runs a command script. Pipelines run sequentially and
// the first nonzero exit stops the run; stdout accumulated by earlier
// successful pipelines is kept so partial progress is never hidden.
func (sh *Shell) Execute(ctx context.Context, input string) (res Result) {
	// A provider backed by real storage may fail hard; degrade to an exit
	// code instead of crashing the surrounding agent loop.
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("shell", "Recovered from provider fault", map[string]interface{}{
				"session": sh.id,
				"panic":   fmt.Sprintf("%v", r),
			})
			res = errResult("%v", r)
		}
	}()

	pipelines := parseScript(input)

	logger.DebugCF("shell", "Executing script", map[string]interface{}{
		"session":   sh.id,
		"pipelines": len(pipelines),
	})

	var stdout strings.Builder
	for _, p := range pipelines {
		res := sh.runPipeline(ctx, p, 0, "", false)
		stdout.WriteString(res.Stdout)
		if res.ExitCode != 0 {
			res.Stdout = stdout.String()
			return res
		}
	}
	return okResult(stdout.String())
}

var assignmentRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// runPipeline evaluates stage i of p, feeding its stdout into stage i+1.
// A failing interior stage short-circuits the remainder.
func (sh *Shell) runPipeline(ctx context.Context, p pipeline, i int, stdin string, hasStdin bool) Result {
	cmd := p[i]

	// A bare NAME=value with no arguments and no following pipe is a
	// runtime variable assignment, not a command.
	if m := assignmentRe.FindStringSubmatch(cmd.command); m != nil && len(cmd.args) == 0 && len(p) == 1 {
		sh.env[m[1]] = sh.expand(m[2])
		return okResult("")
	}

	name := sh.expand(cmd.command)
	args := make([]string, len(cmd.args))
	for j, a := range cmd.args {
		if j < len(cmd.argsLiteral) && cmd.argsLiteral[j] {
			args[j] = a
			continue
		}
		args[j] = sh.expand(a)
	}
	inputFile := sh.expand(cmd.inputFile)
	outputFile := sh.expand(cmd.outputFile)
	appendFile := sh.expand(cmd.appendFile)

	if sh.fs.readOnly && (name == "rm" || name == "mkdir") {
		return errResult("read-only mode: %s is not allowed", name)
	}

	// Redirect targets are policy-checked before the handler runs, so a
	// blocked stage produces no side effects (an HTTP fetch piped to a
	// forbidden file must not fire the request).
	for _, target := range []string{outputFile, appendFile} {
		if target != "" && target != devNull {
			if err := sh.fs.checkWritePath(target); err != nil {
				return errResult("%v", err)
			}
		}
	}

	handler, ok := sh.handlers[name]
	if !ok {
		return Result{
			ExitCode: 127,
			Stderr: fmt.Sprintf("command not found: %s. Available commands: %s",
				name, strings.Join(commandNames(sh.handlers), ", ")),
		}
	}

	cc := &commandContext{
		fs:       sh.fs,
		env:      sh.env,
		provider: sh.provider,
		cfg:      sh.cfg,
		stdin:    stdin,
		hasStdin: hasStdin,
	}

	if cmd.hasHeredoc {
		body := cmd.stdinContent
		if !cmd.heredocQuoted {
			body = sh.expand(body)
		}
		cc.stdin = body
		cc.hasStdin = true
	}

	if inputFile != "" {
		content, found, err := sh.fs.Read(ctx, inputFile)
		if err != nil {
			return errResult("%v", err)
		}
		if !found {
			return errResult("%s: no such file", inputFile)
		}
		cc.stdin = content
		cc.hasStdin = true
	}

	res := handler(ctx, args, cc)

	if res.ExitCode == 0 && (outputFile != "" || appendFile != "") {
		if err := sh.redirect(ctx, outputFile, appendFile, res.Stdout); err != nil {
			return errResult("%v", err)
		}
		res.Stdout = ""
	}

	if res.ExitCode == 0 && i+1 < len(p) {
		return sh.runPipeline(ctx, p, i+1, res.Stdout, true)
	}
	return res
}

// redirect writes stage stdout into its target. /dev/null discards without
// touching the workspace.
func (sh *Shell) redirect(ctx context.Context, outputFile, appendFile, stdout string) error {
	target := outputFile
	appending := false
	if target == "" {
		target = appendFile
		appending = true
	}

	if target == devNull {
		return nil
	}

	if appending {
		existing, found, err := sh.fs.Read(ctx, target)
		if err != nil {
			return err
		}
		if found {
			stdout = existing + stdout
		}
	}
	return sh.fs.Write(ctx, target, stdout)
}

var varRe = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)

// expand substitutes $VAR and ${VAR} references: runtime variables first,
// then the injected environment provider, else empty (unknown variables
// vanish, matching shell behavior).
func (sh *Shell) expand(s string) string {
	if s == "" || !strings.Contains(s, "$") {
		return s
	}
	return varRe.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.TrimPrefix(m, "$")
		name = strings.TrimPrefix(name, "{")
		name = strings.TrimSuffix(name, "}")
		if v, ok := sh.env[name]; ok {
			return v
		}
		if sh.provider != nil {
			if v, ok := sh.provider.Get(name); ok {
				return v
			}
		}
		return ""
	})
}
