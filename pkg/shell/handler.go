package shell

import (
	"context"
	"fmt"
	"sort"

	"github.com/substrata-labs/vshell/pkg/config"
)

// Result is what every command evaluation produces. ExitCode 0 is the sole
// success signal; grep's exit 1 for "no matches" is a legitimate value, not a
// failure report.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func okResult(stdout string) Result {
	return Result{ExitCode: 0, Stdout: stdout}
}

func errResult(format string, a ...any) Result {
	return Result{ExitCode: 1, Stderr: fmt.Sprintf(format, a...)}
}

// EnvProvider supplies externally injected variables (typically secrets).
// They expand inside commands like runtime variables but the env command
// masks their values.
type EnvProvider interface {
	Get(name string) (string, bool)
	Keys() []string
}

// commandContext is the per-invocation view a handler receives. Handlers
// are stateless between invocations; anything durable lives in the
// workspace.
type commandContext struct {
	fs       *store
	env      map[string]string
	provider EnvProvider
	cfg      *config.Config
	stdin    string
	hasStdin bool
}

type handlerFunc func(ctx context.Context, args []string, cc *commandContext) Result

// newHandlerTable enumerates the closed set of commands. Built once per
// Shell; never mutated afterwards, so the unknown-command path can list it
// safely.
func newHandlerTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		"cat":    cmdCat,
		"echo":   cmdEcho,
		"grep":   cmdGrep,
		"sed":    cmdSed,
		"jq":     cmdJq,
		"find":   cmdFind,
		"sort":   cmdSort,
		"uniq":   cmdUniq,
		"cut":    cmdCut,
		"tr":     cmdTr,
		"ls":     cmdLs,
		"pwd":    cmdPwd,
		"mkdir":  cmdMkdir,
		"rm":     cmdRm,
		"touch":  cmdTouch,
		"cp":     cmdCp,
		"mv":     cmdMv,
		"head":   cmdHead,
		"tail":   cmdTail,
		"wc":     cmdWc,
		"file":   cmdFile,
		"date":   cmdDate,
		"env":    cmdEnv,
		"curl":   cmdCurl,
		"browse": cmdCurl,
	}
}

func commandNames(table map[string]handlerFunc) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
