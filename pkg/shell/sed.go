package shell

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// sed implements a faithful subset of the stream-editor language:
// expressions of the form [address]command where the command is
// s/pat/repl/flags (any delimiter), d, or p. Addresses are an absolute line
// number, $ for the last line, /regex/, or a comma-joined range.
//
// Range bounds that are regexes are tested per line rather than tracked as
// an in-range/out-of-range state machine, so /a/,/b/ selects lines matching
// either bound. This is a deliberate departure from GNU sed.
func cmdSed(ctx context.Context, args []string, cc *commandContext) Result {
	suppress := false
	inPlace := false
	var scripts []string
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			suppress = true
		case "-i":
			inPlace = true
		case "-e":
			if i+1 >= len(args) {
				return errResult("sed: -e requires a script")
			}
			scripts = append(scripts, args[i+1])
			i++
		default:
			positional = append(positional, args[i])
		}
	}

	if len(scripts) == 0 {
		if len(positional) == 0 {
			return errResult("sed: missing script")
		}
		scripts = positional[:1]
		positional = positional[1:]
	}
	files := positional

	var exprs []sedExpr
	for _, script := range scripts {
		parsed, err := parseSedScript(script)
		if err != nil {
			return errResult("sed: %v", err)
		}
		exprs = append(exprs, parsed...)
	}
	if len(exprs) == 0 {
		return errResult("sed: empty script")
	}

	if inPlace {
		if len(files) == 0 {
			return errResult("sed: -i requires a file")
		}
		for _, f := range files {
			content, found, err := cc.fs.Read(ctx, f)
			if err != nil {
				return errResult("sed: %v", err)
			}
			if !found {
				return errResult("sed: %s: no such file", f)
			}
			if err := cc.fs.Write(ctx, f, applySed(exprs, content, suppress)); err != nil {
				return errResult("sed: %v", err)
			}
		}
		return okResult("")
	}

	var sb strings.Builder
	if len(files) == 0 {
		sb.WriteString(applySed(exprs, cc.stdin, suppress))
	} else {
		for _, f := range files {
			content, found, err := cc.fs.Read(ctx, f)
			if err != nil {
				return errResult("sed: %v", err)
			}
			if !found {
				return errResult("sed: %s: no such file", f)
			}
			sb.WriteString(applySed(exprs, content, suppress))
		}
	}
	return okResult(sb.String())
}

type sedAddr struct {
	line int
	last bool
	re   *regexp.Regexp
}

type sedExpr struct {
	addr1, addr2 *sedAddr
	ranged       bool
	verb         byte
	re           *regexp.Regexp
	replacement  string
	global       bool
}

// parseSedScript parses one script into expressions, splitting on ";" only
// where it separates commands: a ";" inside an address regex or inside a
// substitution's pattern/replacement text stays put.
func parseSedScript(script string) ([]sedExpr, error) {
	var exprs []sedExpr
	s := script
	pos := 0

	skipSep := func() {
		for pos < len(s) && (s[pos] == ';' || s[pos] == ' ' || s[pos] == '\t') {
			pos++
		}
	}

	for {
		skipSep()
		if pos >= len(s) {
			break
		}

		var expr sedExpr
		addr, err := parseSedAddr(s, &pos)
		if err != nil {
			return nil, err
		}
		expr.addr1 = addr
		if addr != nil && pos < len(s) && s[pos] == ',' {
			pos++
			addr2, err := parseSedAddr(s, &pos)
			if err != nil {
				return nil, err
			}
			if addr2 == nil {
				return nil, errf("expected second address in range")
			}
			expr.addr2 = addr2
			expr.ranged = true
		}

		if pos >= len(s) {
			return nil, errf("missing command in script: %s", script)
		}
		expr.verb = s[pos]
		pos++

		switch expr.verb {
		case 'd', 'p':
		case 's':
			if pos >= len(s) {
				return nil, errf("unterminated s command")
			}
			delim := s[pos]
			pos++
			pat, ok := scanSedSection(s, &pos, delim)
			if !ok {
				return nil, errf("unterminated s command pattern")
			}
			repl, ok := scanSedSection(s, &pos, delim)
			if !ok {
				return nil, errf("unterminated s command replacement")
			}
			for pos < len(s) && s[pos] != ';' {
				switch s[pos] {
				case 'g':
					expr.global = true
				case ' ', '\t':
				default:
					return nil, errf("unknown s flag: %c", s[pos])
				}
				pos++
			}
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, errf("invalid pattern %q: %v", pat, err)
			}
			expr.re = re
			expr.replacement = repl
		default:
			return nil, errf("unsupported command: %c", expr.verb)
		}

		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func parseSedAddr(s string, pos *int) (*sedAddr, error) {
	if *pos >= len(s) {
		return nil, nil
	}
	c := s[*pos]
	switch {
	case c >= '0' && c <= '9':
		start := *pos
		for *pos < len(s) && s[*pos] >= '0' && s[*pos] <= '9' {
			*pos++
		}
		n, err := strconv.Atoi(s[start:*pos])
		if err != nil || n < 1 {
			return nil, errf("invalid line address: %s", s[start:*pos])
		}
		return &sedAddr{line: n}, nil
	case c == '$':
		*pos++
		return &sedAddr{last: true}, nil
	case c == '/':
		*pos++
		pat, ok := scanSedSection(s, pos, '/')
		if !ok {
			return nil, errf("unterminated address regex")
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errf("invalid address regex %q: %v", pat, err)
		}
		return &sedAddr{re: re}, nil
	}
	return nil, nil
}

// scanSedSection consumes characters up to the next unescaped delimiter,
// unescaping only backslash-delimiter pairs; every other escape is left for
// the regexp engine.
func scanSedSection(s string, pos *int, delim byte) (string, bool) {
	var sb strings.Builder
	for *pos < len(s) {
		c := s[*pos]
		if c == '\\' && *pos+1 < len(s) {
			next := s[*pos+1]
			if next == delim {
				sb.WriteByte(delim)
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
			*pos += 2
			continue
		}
		if c == delim {
			*pos++
			return sb.String(), true
		}
		sb.WriteByte(c)
		*pos++
	}
	return sb.String(), false
}

func applySed(exprs []sedExpr, content string, suppress bool) string {
	lines := splitLines(content)
	total := len(lines)

	var out []string
	for i, line := range lines {
		n := i + 1
		current := line
		deleted := false
		var prints []string

		for _, expr := range exprs {
			if !sedSelected(expr, n, total, current) {
				continue
			}
			switch expr.verb {
			case 'd':
				deleted = true
			case 'p':
				// p emits the line as it stands now; a later s command
				// must not retroactively alter what was printed.
				prints = append(prints, current)
			case 's':
				current = sedSubstitute(expr, current)
			}
			if deleted {
				break
			}
		}

		if deleted {
			continue
		}
		out = append(out, prints...)
		if !suppress {
			out = append(out, current)
		}
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func sedSelected(expr sedExpr, n, total int, line string) bool {
	if expr.addr1 == nil {
		return true
	}
	if !expr.ranged {
		return matchSedAddr(expr.addr1, n, total, line)
	}

	a1, a2 := expr.addr1, expr.addr2
	switch {
	case a1.line > 0 && a2.line > 0:
		return n >= a1.line && n <= a2.line
	case a1.line > 0 && a2.last:
		return n >= a1.line
	default:
		// Regex bounds: each bound is tested independently per line.
		return matchSedAddr(a1, n, total, line) || matchSedAddr(a2, n, total, line)
	}
}

func matchSedAddr(a *sedAddr, n, total int, line string) bool {
	switch {
	case a.last:
		return n == total
	case a.line > 0:
		return n == a.line
	case a.re != nil:
		return a.re.MatchString(line)
	}
	return false
}

// sedSubstitute applies one s command to a line. The replacement expands
// unescaped & to the whole match; \& yields a literal ampersand.
func sedSubstitute(expr sedExpr, line string) string {
	done := false
	return expr.re.ReplaceAllStringFunc(line, func(m string) string {
		if done && !expr.global {
			return m
		}
		done = true
		return expandSedReplacement(expr.replacement, m)
	})
}

func expandSedReplacement(repl, match string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '\\' && i+1 < len(repl) {
			sb.WriteByte(repl[i+1])
			i++
			continue
		}
		if c == '&' {
			sb.WriteString(match)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
