package shell

import (
	"context"
	"strings"
)

func cmdEcho(ctx context.Context, args []string, cc *commandContext) Result {
	noNewline := false
	if len(args) > 0 && args[0] == "-n" {
		noNewline = true
		args = args[1:]
	}

	out := strings.Join(args, " ")
	if !noNewline {
		out += "\n"
	}
	return okResult(out)
}
