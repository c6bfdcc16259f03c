package workspace

import (
	"regexp"
	"strings"
)

// CompileGlob translates the restricted glob grammar into an anchored
// regular expression:
//
//	"*"    any run of characters except "/"
//	"?"    exactly one character except "/"
//	"**/"  zero or more whole path segments
//	"**"   any run of characters including "/"
//
// Everything else is matched literally. The "**/" form matching zero
// segments is what lets "**/*" cover files directly at the root.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					sb.WriteString("(?:.*/)?")
					i += 2
				} else {
					sb.WriteString(".*")
					i++
				}
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// MatchGlob reports whether path matches the glob pattern. A pattern that
// fails to compile matches nothing.
func MatchGlob(path, pattern string) bool {
	re, err := CompileGlob(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
