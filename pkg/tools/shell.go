package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/substrata-labs/vshell/pkg/shell"
)

// maxToolOutput caps what a single shell invocation can push back into the
// conversation.
const maxToolOutput = 10000

// ShellTool exposes the sandboxed command interpreter to the model. Every
// invocation runs against the same shell session, so runtime variables and
// workspace contents persist across tool calls within an agent run.
type ShellTool struct {
	shell   *shell.Shell
	timeout time.Duration
}

func NewShellTool(sh *shell.Shell) *ShellTool {
	return &ShellTool{
		shell:   sh,
		timeout: 60 * time.Second,
	}
}

func (t *ShellTool) SetTimeout(timeout time.Duration) {
	t.timeout = timeout
}

func (t *ShellTool) Name() string {
	return "shell"
}

func (t *ShellTool) Description() string {
	return "Run a shell command against the workspace. Supports pipes, redirection, heredocs, and variables. Files live in a sandboxed virtual filesystem; nothing touches the host."
}

func (t *ShellTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "The command script to execute",
			},
		},
		"required": []string{"command"},
	}
}

func (t *ShellTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	command, ok := getString(args, "command")
	if !ok || command == "" {
		return ErrorResult("command is required")
	}

	cmdCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	res := t.shell.Execute(cmdCtx, command)
	if cmdCtx.Err() == context.DeadlineExceeded {
		msg := fmt.Sprintf("Command timed out after %v", t.timeout)
		return &ToolResult{ForLLM: msg, ForUser: msg, IsError: true}
	}

	output := res.Stdout
	if res.Stderr != "" {
		if output != "" {
			output += "\n"
		}
		output += res.Stderr
	}
	if res.ExitCode != 0 {
		output += fmt.Sprintf("\nExit code: %d", res.ExitCode)
	}
	if output == "" {
		output = "(no output)"
	}

	if len(output) > maxToolOutput {
		output = output[:maxToolOutput] + fmt.Sprintf("\n... (truncated, %d more chars)", len(output)-maxToolOutput)
	}

	return &ToolResult{
		ForLLM:  output,
		ForUser: output,
		IsError: res.ExitCode != 0,
	}
}
