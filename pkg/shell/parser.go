package shell

import (
	"regexp"
	"strings"
)

// parsedCommand is one pipeline stage. A pipeline is an ordered slice of
// stages: stage i's stdout feeds stage i+1's stdin.
type parsedCommand struct {
	command string
	args    []string
	// argsLiteral marks arguments that were single-quoted in the source;
	// variable expansion leaves them untouched. Parallel to args.
	argsLiteral   []bool
	inputFile     string
	outputFile    string
	appendFile    string
	stdinContent  string
	hasHeredoc    bool
	heredocQuoted bool
}

type pipeline []*parsedCommand

var heredocMarker = regexp.MustCompile(`<<(-?)\s*(?:'(\w+)'|"(\w+)"|(\w+))`)

// stderr redirection fragments are stripped up front; the virtual shell has
// no separately redirectable stderr channel.
var stderrRedirect = regexp.MustCompile(`2>&1|2>>?\s*\S+`)

// parseScript turns a multi-line command script into a sequence of
// pipelines. Pipelines separated by newlines or && run sequentially with
// stop-on-error semantics in the engine.
//
// Heredocs are claimed from the raw physical lines before any quote
// joining: the body is verbatim text, so an apostrophe in it must not open
// a quote that swallows the delimiter line.
func parseScript(input string) []pipeline {
	lines := strings.Split(input, "\n")

	var pipelines []pipeline
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := findHeredocMarker(line); m != nil {
			cmd, consumed := parseHeredoc(line, m, lines[i+1:])
			i += consumed
			if cmd != nil {
				pipelines = append(pipelines, pipeline{cmd})
			}
			continue
		}

		// A quote left open at end-of-line continues onto the next
		// physical line, joined with an embedded newline. An unterminated
		// quote at end of input is tolerated: the joined line is parsed
		// as-is.
		for openQuote(line) != 0 && i+1 < len(lines) {
			i++
			line += "\n" + lines[i]
		}

		for _, segment := range splitOutsideQuotes(line, "&&") {
			if p := parsePipeline(segment); len(p) > 0 {
				pipelines = append(pipelines, p)
			}
		}
	}
	return pipelines
}

// findHeredocMarker locates the first heredoc marker sitting outside any
// quoted region of line; a "<<" inside quotes is ordinary text.
func findHeredocMarker(line string) []int {
	for _, m := range heredocMarker.FindAllStringSubmatchIndex(line, -1) {
		if openQuote(line[:m[0]]) == 0 {
			return m
		}
	}
	return nil
}

// openQuote returns the quote character left open at the end of s, or 0.
func openQuote(s string) byte {
	var open byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && open != '\'' {
			i++
			continue
		}
		switch {
		case open == 0 && (c == '\'' || c == '"'):
			open = c
		case open == c:
			open = 0
		}
	}
	return open
}

// parseHeredoc handles a line carrying a heredoc marker. The marker is
// stripped, the remainder of the line is parsed as an ordinary command, and
// subsequent lines are consumed verbatim into the body until a line exactly
// equal to the delimiter. Returns the stage and how many body lines were
// consumed.
func parseHeredoc(line string, m []int, rest []string) (*parsedCommand, int) {
	group := func(k int) string {
		if m[2*k] < 0 {
			return ""
		}
		return line[m[2*k]:m[2*k+1]]
	}
	stripTabs := group(1) == "-"
	delim := group(2)
	quoted := true
	if delim == "" {
		delim = group(3)
	}
	if delim == "" {
		delim = group(4)
		quoted = false
	}

	stripped := line[:m[0]] + line[m[1]:]

	var body []string
	consumed := 0
	for _, l := range rest {
		consumed++
		check := l
		if stripTabs {
			check = strings.TrimLeft(l, "\t")
		}
		if check == delim {
			break
		}
		if stripTabs {
			body = append(body, strings.TrimLeft(l, "\t"))
		} else {
			body = append(body, l)
		}
	}

	cmd := parseStage(stripped)
	if cmd == nil {
		return nil, consumed
	}
	cmd.hasHeredoc = true
	cmd.heredocQuoted = quoted
	cmd.stdinContent = strings.Join(body, "\n")
	if len(body) > 0 {
		cmd.stdinContent += "\n"
	}
	return cmd, consumed
}

func parsePipeline(segment string) pipeline {
	var p pipeline
	for _, stage := range splitOutsideQuotes(segment, "|") {
		if cmd := parseStage(stage); cmd != nil {
			p = append(p, cmd)
		}
	}
	return p
}

// parseStage tokenizes one pipeline stage and pulls redirection operators
// out of the token stream. A stage with zero tokens is dropped.
func parseStage(stage string) *parsedCommand {
	stage = stderrRedirect.ReplaceAllString(stage, "")
	tokens, literals := tokenize(stage)
	if len(tokens) == 0 {
		return nil
	}

	cmd := &parsedCommand{}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case !literals[i] && (tok == ">" || tok == ">>" || tok == "<"):
			if i+1 >= len(tokens) {
				continue
			}
			target := tokens[i+1]
			i++
			switch tok {
			case ">":
				cmd.outputFile = target
			case ">>":
				cmd.appendFile = target
			case "<":
				cmd.inputFile = target
			}
		default:
			if cmd.command == "" {
				cmd.command = tok
			} else {
				cmd.args = append(cmd.args, tok)
				cmd.argsLiteral = append(cmd.argsLiteral, literals[i])
			}
		}
	}
	if cmd.command == "" {
		return nil
	}
	return cmd
}

// tokenize scans a stage into tokens: backslash escaping, quote toggling
// (quotes are consumed and their contents kept whole), whitespace
// separation, and ">", ">>", "<" as standalone tokens even when glued to
// adjacent text. The parallel bool slice marks tokens that were
// single-quoted, which exempts them from variable expansion.
func tokenize(s string) ([]string, []bool) {
	var tokens []string
	var literals []bool
	var cur strings.Builder
	inToken := false
	literal := false
	var quote byte

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			literals = append(literals, literal)
			cur.Reset()
			inToken = false
			literal = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
				continue
			}
			if c == '\\' && quote == '"' && i+1 < len(s) {
				next := s[i+1]
				if next == '"' || next == '\\' || next == '$' {
					cur.WriteByte(next)
					i++
					continue
				}
			}
			cur.WriteByte(c)
			continue
		}

		switch {
		case c == '\\' && i+1 < len(s):
			if s[i+1] == '$' {
				literal = true
			}
			cur.WriteByte(s[i+1])
			inToken = true
			i++
		case c == '\'' || c == '"':
			quote = c
			inToken = true
			if c == '\'' {
				literal = true
			}
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		case c == '>':
			flush()
			if i+1 < len(s) && s[i+1] == '>' {
				tokens = append(tokens, ">>")
				literals = append(literals, false)
				i++
			} else {
				tokens = append(tokens, ">")
				literals = append(literals, false)
			}
		case c == '<':
			flush()
			tokens = append(tokens, "<")
			literals = append(literals, false)
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	flush()
	return tokens, literals
}

// splitOutsideQuotes splits s on sep wherever sep occurs at quote depth
// zero. Backslash escapes suppress both quoting and separator recognition.
func splitOutsideQuotes(s, sep string) []string {
	var parts []string
	var quote byte
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && quote != '\'' {
			i++
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
