package shell

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/substrata-labs/vshell/pkg/workspace"
)

// find walks everything under a base path and filters by -name globs
// (matched against the basename, multiple -name clauses OR together),
// -type f|d, and -maxdepth counted in path segments below the base. The
// base path itself appears in the results when it satisfies every active
// filter.
func cmdFind(ctx context.Context, args []string, cc *commandContext) Result {
	base := "."
	var names []string
	typeFilter := ""
	maxDepth := -1

	i := 0
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		base = args[0]
		i = 1
	}
	for ; i < len(args); i++ {
		switch args[i] {
		case "-name":
			if i+1 >= len(args) {
				return errResult("find: -name requires a pattern")
			}
			names = append(names, args[i+1])
			i++
		case "-type":
			if i+1 >= len(args) {
				return errResult("find: -type requires f or d")
			}
			typeFilter = args[i+1]
			if typeFilter != "f" && typeFilter != "d" {
				return errResult("find: invalid type: %s", typeFilter)
			}
			i++
		case "-maxdepth":
			if i+1 >= len(args) {
				return errResult("find: -maxdepth requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return errResult("find: invalid depth: %s", args[i+1])
			}
			maxDepth = n
			i++
		default:
			return errResult("find: unknown predicate: %s", args[i])
		}
	}

	exists, err := cc.fs.Exists(ctx, base)
	if err != nil {
		return errResult("find: %v", err)
	}
	if !exists && base != "." {
		return errResult("find: %s: no such file or directory", base)
	}

	pattern := "**/*"
	if base != "." {
		pattern = strings.TrimSuffix(base, "/") + "/**/*"
	}
	matches, err := cc.fs.Glob(ctx, pattern)
	if err != nil {
		return errResult("find: %v", err)
	}

	baseDepth := pathDepth(base)
	candidates := append([]string{base}, matches...)

	var sb strings.Builder
	for _, p := range candidates {
		if maxDepth >= 0 && pathDepth(p)-baseDepth > maxDepth {
			continue
		}
		if len(names) > 0 && !matchesAnyName(path.Base(p), names) {
			continue
		}
		if typeFilter != "" {
			isDir, err := cc.fs.IsDirectory(ctx, p)
			if err != nil {
				return errResult("find: %v", err)
			}
			if (typeFilter == "d") != isDir {
				continue
			}
		}
		sb.WriteString(p + "\n")
	}
	return okResult(sb.String())
}

func pathDepth(p string) int {
	p = strings.TrimSuffix(strings.TrimPrefix(p, "./"), "/")
	if p == "" || p == "." {
		return 0
	}
	return strings.Count(p, "/") + 1
}

func matchesAnyName(base string, patterns []string) bool {
	for _, pat := range patterns {
		if workspace.MatchGlob(base, pat) {
			return true
		}
	}
	return false
}
