package shell

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// grep searches stdin or files for a pattern. File arguments may be globs;
// -r turns a directory argument into a recursive **/* scan. Output is capped
// twice: long lines are truncated individually and a total budget stops the
// scan entirely, with a notice either way, so data is never dropped
// silently.
func cmdGrep(ctx context.Context, args []string, cc *commandContext) Result {
	ignoreCase, lineNumbers, invert, filesOnly, recursive := false, false, false, false, false
	var positional []string

	for _, a := range args {
		switch {
		case a == "-i":
			ignoreCase = true
		case a == "-n":
			lineNumbers = true
		case a == "-v":
			invert = true
		case a == "-l":
			filesOnly = true
		case a == "-r", a == "-R":
			recursive = true
		case strings.HasPrefix(a, "-") && len(a) > 1 && !strings.HasPrefix(a, "--"):
			// combined short flags like -in
			for _, c := range a[1:] {
				switch c {
				case 'i':
					ignoreCase = true
				case 'n':
					lineNumbers = true
				case 'v':
					invert = true
				case 'l':
					filesOnly = true
				case 'r', 'R':
					recursive = true
				default:
					return errResult("grep: invalid option: -%c", c)
				}
			}
		default:
			positional = append(positional, a)
		}
	}

	if len(positional) == 0 {
		return errResult("grep: missing pattern")
	}
	pattern := positional[0]
	fileArgs := positional[1:]

	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errResult("grep: invalid pattern: %v", err)
	}

	files, ferr := expandGrepTargets(ctx, cc, fileArgs, recursive)
	if ferr != nil {
		return errResult("grep: %v", ferr)
	}

	lineCap := cc.cfg.Limits.GrepLineChars
	budget := cc.cfg.Limits.GrepTotalChars

	var sb strings.Builder
	matched := false
	truncated := false

	scanLines := func(name, content string, prefixName bool) bool {
		for i, line := range splitLines(content) {
			if re.MatchString(line) == invert {
				continue
			}
			matched = true
			if filesOnly {
				sb.WriteString(name + "\n")
				return true // one mention per file
			}

			out := line
			if lineCap > 0 && len(out) > lineCap {
				out = out[:lineCap] + "... [line truncated]"
			}
			switch {
			case prefixName && lineNumbers:
				out = fmt.Sprintf("%s:%d:%s", name, i+1, out)
			case prefixName:
				out = fmt.Sprintf("%s:%s", name, out)
			case lineNumbers:
				out = fmt.Sprintf("%d:%s", i+1, out)
			}

			sb.WriteString(out + "\n")
			if budget > 0 && sb.Len() >= budget {
				sb.WriteString("[output truncated, scan stopped]\n")
				truncated = true
				return true
			}
		}
		return false
	}

	hadFileArgs := len(fileArgs) > 0 || recursive
	if !hadFileArgs {
		scanLines("", cc.stdin, false)
	} else {
		prefixName := len(files) > 1 || recursive
		for _, f := range files {
			content, found, err := cc.fs.Read(ctx, f)
			if err != nil {
				return errResult("grep: %v", err)
			}
			if !found {
				continue // glob expansion can surface directories
			}
			if stop := scanLines(f, content, prefixName); stop && truncated {
				break
			}
		}
	}

	if !matched {
		return Result{ExitCode: 1}
	}
	return okResult(sb.String())
}

// expandGrepTargets resolves grep's file arguments: glob patterns expand,
// a -r directory becomes dir/**/* and a bare -r scans the whole workspace.
func expandGrepTargets(ctx context.Context, cc *commandContext, fileArgs []string, recursive bool) ([]string, error) {
	if recursive && len(fileArgs) == 0 {
		fileArgs = []string{"."}
	}

	var files []string
	for _, arg := range fileArgs {
		pattern := arg
		if recursive {
			if pattern == "." {
				pattern = "**/*"
			} else {
				pattern = strings.TrimSuffix(pattern, "/") + "/**/*"
			}
		}

		if strings.ContainsAny(pattern, "*?") {
			matches, err := cc.fs.Glob(ctx, pattern)
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
			continue
		}

		found, err := cc.fs.Exists(ctx, arg)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errf("%s: no such file", arg)
		}
		isDir, err := cc.fs.IsDirectory(ctx, arg)
		if err != nil {
			return nil, err
		}
		if isDir {
			return nil, errf("%s: is a directory (use -r)", arg)
		}
		files = append(files, arg)
	}
	return files, nil
}
