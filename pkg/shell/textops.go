package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// readInput resolves handler input: named files concatenated in order, or
// stdin when no files are given. A missing file is a handler-level error.
func readInput(ctx context.Context, cc *commandContext, files []string, verb string) (string, error) {
	if len(files) == 0 {
		return cc.stdin, nil
	}
	var sb strings.Builder
	for _, f := range files {
		content, found, err := cc.fs.Read(ctx, f)
		if err != nil {
			return "", wrapVerb(verb, err)
		}
		if !found {
			return "", errf("%s: %s: no such file", verb, f)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// parseCountFlags handles -n N, -nN, -c N and bare -N for head/tail.
func parseCountFlags(args []string, verb string) (lines, chars int, files []string, err error) {
	lines = 10
	chars = -1
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-n" || a == "-c":
			if i+1 >= len(args) {
				return 0, 0, nil, errf("%s: option %s requires a value", verb, a)
			}
			n, perr := strconv.Atoi(args[i+1])
			if perr != nil || n < 0 {
				return 0, 0, nil, errf("%s: invalid count: %s", verb, args[i+1])
			}
			if a == "-n" {
				lines = n
			} else {
				chars = n
			}
			i++
		case strings.HasPrefix(a, "-n"):
			n, perr := strconv.Atoi(a[2:])
			if perrOrNeg(perr, n) {
				return 0, 0, nil, errf("%s: invalid count: %s", verb, a[2:])
			}
			lines = n
		case strings.HasPrefix(a, "-") && len(a) > 1 && a[1] >= '0' && a[1] <= '9':
			n, perr := strconv.Atoi(a[1:])
			if perrOrNeg(perr, n) {
				return 0, 0, nil, errf("%s: invalid count: %s", verb, a[1:])
			}
			lines = n
		default:
			files = append(files, a)
		}
	}
	return lines, chars, files, nil
}

func perrOrNeg(err error, n int) bool {
	return err != nil || n < 0
}

func cmdHead(ctx context.Context, args []string, cc *commandContext) Result {
	lines, chars, files, err := parseCountFlags(args, "head")
	if err != nil {
		return errResult("%v", err)
	}
	content, err := readInput(ctx, cc, files, "head")
	if err != nil {
		return errResult("%v", err)
	}

	if chars >= 0 {
		if chars < len(content) {
			content = content[:chars]
		}
		return okResult(content)
	}

	split := splitLines(content)
	if lines < len(split) {
		split = split[:lines]
	}
	if len(split) == 0 {
		return okResult("")
	}
	return okResult(strings.Join(split, "\n") + "\n")
}

func cmdTail(ctx context.Context, args []string, cc *commandContext) Result {
	lines, chars, files, err := parseCountFlags(args, "tail")
	if err != nil {
		return errResult("%v", err)
	}
	content, err := readInput(ctx, cc, files, "tail")
	if err != nil {
		return errResult("%v", err)
	}

	if chars >= 0 {
		if chars < len(content) {
			content = content[len(content)-chars:]
		}
		return okResult(content)
	}

	split := splitLines(content)
	if lines < len(split) {
		split = split[len(split)-lines:]
	}
	if len(split) == 0 {
		return okResult("")
	}
	return okResult(strings.Join(split, "\n") + "\n")
}

func cmdWc(ctx context.Context, args []string, cc *commandContext) Result {
	countLines, countWords, countChars := false, false, false
	var files []string
	for _, a := range args {
		switch a {
		case "-l":
			countLines = true
		case "-w":
			countWords = true
		case "-c":
			countChars = true
		default:
			files = append(files, a)
		}
	}
	if !countLines && !countWords && !countChars {
		countLines, countWords, countChars = true, true, true
	}

	content, err := readInput(ctx, cc, files, "wc")
	if err != nil {
		return errResult("%v", err)
	}

	nl := strings.Count(content, "\n")
	nw := len(strings.Fields(content))
	nc := len(content)

	var parts []string
	if countLines {
		parts = append(parts, fmt.Sprintf("%d", nl))
	}
	if countWords {
		parts = append(parts, fmt.Sprintf("%d", nw))
	}
	if countChars {
		parts = append(parts, fmt.Sprintf("%d", nc))
	}
	out := strings.Join(parts, " ")
	if len(files) == 1 {
		out += " " + files[0]
	}
	return okResult(out + "\n")
}
