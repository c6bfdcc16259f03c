package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// cat concatenates files or stdin. Flags: -n numbers lines, --offset N
// skips the first N lines, --limit N caps the number of lines emitted.
func cmdCat(ctx context.Context, args []string, cc *commandContext) Result {
	numbered := false
	offset := 0
	limit := -1
	var files []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			numbered = true
		case "--offset":
			if i+1 >= len(args) {
				return errResult("cat: --offset requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return errResult("cat: invalid offset: %s", args[i+1])
			}
			offset = n
			i++
		case "--limit":
			if i+1 >= len(args) {
				return errResult("cat: --limit requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return errResult("cat: invalid limit: %s", args[i+1])
			}
			limit = n
			i++
		default:
			files = append(files, args[i])
		}
	}

	var content string
	if len(files) == 0 {
		if !cc.hasStdin {
			return okResult("")
		}
		content = cc.stdin
	} else {
		var parts []string
		for _, f := range files {
			data, found, err := cc.fs.Read(ctx, f)
			if err != nil {
				return errResult("cat: %v", err)
			}
			if !found {
				return errResult("cat: %s: no such file", f)
			}
			parts = append(parts, data)
		}
		content = strings.Join(parts, "")
	}

	if offset == 0 && limit < 0 && !numbered {
		return okResult(content)
	}

	lines := splitLines(content)
	if offset >= len(lines) {
		return okResult("")
	}
	lines = lines[offset:]
	if limit >= 0 && limit < len(lines) {
		lines = lines[:limit]
	}

	var sb strings.Builder
	for i, line := range lines {
		if numbered {
			fmt.Fprintf(&sb, "%6d\t%s\n", offset+i+1, line)
		} else {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return okResult(sb.String())
}

// splitLines splits content into lines without producing a trailing empty
// line for newline-terminated text.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
