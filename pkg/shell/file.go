package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// file reports a best-effort type guess for each path so the agent can
// decide how to inspect it further.
func cmdFile(ctx context.Context, args []string, cc *commandContext) Result {
	if len(args) == 0 {
		return errResult("file: missing operand")
	}

	var sb strings.Builder
	for _, target := range args {
		isDir, err := cc.fs.IsDirectory(ctx, target)
		if err != nil {
			return errResult("file: %v", err)
		}
		if isDir {
			fmt.Fprintf(&sb, "%s: directory\n", target)
			continue
		}

		content, found, err := cc.fs.Read(ctx, target)
		if err != nil {
			return errResult("file: %v", err)
		}
		if !found {
			return errResult("file: %s: no such file", target)
		}

		fmt.Fprintf(&sb, "%s: %s, %d bytes\n", target, classify(content), len(content))
	}
	return okResult(sb.String())
}

func classify(content string) string {
	switch {
	case content == "":
		return "empty"
	case isJSON(content):
		return "JSON data"
	case strings.ContainsRune(content, 0) || !utf8.ValidString(content):
		return "binary data"
	default:
		return "text"
	}
}

func isJSON(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid([]byte(trimmed))
}
