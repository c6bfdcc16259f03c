package shell

import (
	"reflect"
	"testing"
)

// TestTokenize verifies quoting, escaping and redirect operator splitting
func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain words", "cat a.txt b.txt", []string{"cat", "a.txt", "b.txt"}},
		{"single quotes", "echo 'a b' c", []string{"echo", "a b", "c"}},
		{"double quotes", `echo "c d"`, []string{"echo", "c d"}},
		{"mixed quotes", `cmd 'a b' "c d" > out.txt`, []string{"cmd", "a b", "c d", ">", "out.txt"}},
		{"escaped space", `echo a\ b`, []string{"echo", "a b"}},
		{"escaped quote in double quotes", `echo "say \"hi\""`, []string{"echo", `say "hi"`}},
		{"escaped dollar in double quotes", `echo "\$HOME"`, []string{"echo", "$HOME"}},
		{"redirect glued to word", "echo hi>out", []string{"echo", "hi", ">", "out"}},
		{"append operator", "echo hi >> log", []string{"echo", "hi", ">>", "log"}},
		{"input redirect", "wc -l < f", []string{"wc", "-l", "<", "f"}},
		{"empty quoted token", "echo ''", []string{"echo", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// TestTokenize_LiteralMarking verifies single-quoted tokens are flagged so
// expansion leaves them alone
func TestTokenize_LiteralMarking(t *testing.T) {
	tokens, literals := tokenize(`sed '3,$d' "$FILE" plain`)
	want := []string{"sed", "3,$d", "$FILE", "plain"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokens = %#v", tokens)
	}
	if !literals[1] {
		t.Error("single-quoted token should be literal")
	}
	if literals[2] || literals[3] {
		t.Error("double-quoted and bare tokens should expand")
	}
}

// TestParseStage verifies redirect extraction from the token stream
func TestParseStage(t *testing.T) {
	cmd := parseStage("sort -r < in.txt > out.txt")
	if cmd == nil {
		t.Fatal("parseStage returned nil")
	}
	if cmd.command != "sort" || !reflect.DeepEqual(cmd.args, []string{"-r"}) {
		t.Errorf("command/args = %q %v", cmd.command, cmd.args)
	}
	if cmd.inputFile != "in.txt" || cmd.outputFile != "out.txt" {
		t.Errorf("redirects = %q %q", cmd.inputFile, cmd.outputFile)
	}
}

// TestParseStage_StripsStderrRedirects verifies 2>&1 and 2>/dev/null vanish
func TestParseStage_StripsStderrRedirects(t *testing.T) {
	cmd := parseStage("cat f.txt 2>/dev/null")
	if cmd == nil {
		t.Fatal("parseStage returned nil")
	}
	if !reflect.DeepEqual(cmd.args, []string{"f.txt"}) {
		t.Errorf("args = %v", cmd.args)
	}
	if cmd.outputFile != "" {
		t.Errorf("outputFile = %q, stderr redirect leaked into stdout redirect", cmd.outputFile)
	}

	cmd = parseStage("grep x f 2>&1")
	if cmd == nil || len(cmd.args) != 2 {
		t.Fatalf("cmd = %+v", cmd)
	}
}

// TestParseScript_Pipelines verifies pipe and && splitting outside quotes
func TestParseScript_Pipelines(t *testing.T) {
	ps := parseScript("cat f | grep x | wc -l")
	if len(ps) != 1 {
		t.Fatalf("pipelines = %d, want 1", len(ps))
	}
	if len(ps[0]) != 3 {
		t.Fatalf("stages = %d, want 3", len(ps[0]))
	}
	if ps[0][1].command != "grep" {
		t.Errorf("stage 1 = %q", ps[0][1].command)
	}

	ps = parseScript("echo a && echo b")
	if len(ps) != 2 {
		t.Fatalf("&& should yield 2 pipelines, got %d", len(ps))
	}

	// Separators inside quotes are literal.
	ps = parseScript(`echo "a && b | c"`)
	if len(ps) != 1 || len(ps[0]) != 1 {
		t.Fatalf("quoted separators split: %d pipelines", len(ps))
	}
	if !reflect.DeepEqual(ps[0][0].args, []string{"a && b | c"}) {
		t.Errorf("args = %v", ps[0][0].args)
	}
}

// TestParseScript_SkipsCommentsAndBlanks verifies non-command lines drop out
func TestParseScript_SkipsCommentsAndBlanks(t *testing.T) {
	ps := parseScript("# a comment\n\n  \necho works")
	if len(ps) != 1 {
		t.Fatalf("pipelines = %d, want 1", len(ps))
	}
	if ps[0][0].command != "echo" {
		t.Errorf("command = %q", ps[0][0].command)
	}
}

// TestParseScript_Heredoc verifies body capture, delimiter variants, and
// tab stripping
func TestParseScript_Heredoc(t *testing.T) {
	ps := parseScript("cat << EOF\nline one\nline two\nEOF\necho after")
	if len(ps) != 2 {
		t.Fatalf("pipelines = %d, want 2", len(ps))
	}
	cmd := ps[0][0]
	if !cmd.hasHeredoc || cmd.heredocQuoted {
		t.Errorf("heredoc flags = %v %v", cmd.hasHeredoc, cmd.heredocQuoted)
	}
	if cmd.stdinContent != "line one\nline two\n" {
		t.Errorf("body = %q", cmd.stdinContent)
	}
	if ps[1][0].command != "echo" {
		t.Errorf("following command = %q", ps[1][0].command)
	}
}

// TestParseScript_QuotedHeredocDelimiter verifies 'EOF' and "EOF" mark the
// body as literal
func TestParseScript_QuotedHeredocDelimiter(t *testing.T) {
	for _, script := range []string{
		"cat << 'END'\n$VAR\nEND",
		"cat << \"END\"\n$VAR\nEND",
	} {
		ps := parseScript(script)
		if len(ps) != 1 {
			t.Fatalf("pipelines = %d for %q", len(ps), script)
		}
		cmd := ps[0][0]
		if !cmd.heredocQuoted {
			t.Errorf("delimiter quoting not detected for %q", script)
		}
		if cmd.stdinContent != "$VAR\n" {
			t.Errorf("body = %q", cmd.stdinContent)
		}
	}
}

// TestParseScript_HeredocTabStripping verifies <<- removes leading tabs from
// body and delimiter lines
func TestParseScript_HeredocTabStripping(t *testing.T) {
	ps := parseScript("cat <<- EOF\n\tindented\n\tEOF")
	if len(ps) != 1 {
		t.Fatalf("pipelines = %d", len(ps))
	}
	if ps[0][0].stdinContent != "indented\n" {
		t.Errorf("body = %q", ps[0][0].stdinContent)
	}
}

// TestParseScript_HeredocWithRedirect verifies the marker strips cleanly out
// of a line that also redirects stdout
func TestParseScript_HeredocWithRedirect(t *testing.T) {
	ps := parseScript("cat > out.txt << EOF\nbody\nEOF")
	if len(ps) != 1 {
		t.Fatalf("pipelines = %d", len(ps))
	}
	cmd := ps[0][0]
	if cmd.command != "cat" || cmd.outputFile != "out.txt" {
		t.Errorf("cmd = %+v", cmd)
	}
	if cmd.stdinContent != "body\n" {
		t.Errorf("body = %q", cmd.stdinContent)
	}
}

// TestParseScript_HeredocBodyWithQuote verifies an unbalanced quote inside a
// heredoc body stays verbatim text and cannot swallow the delimiter line
func TestParseScript_HeredocBodyWithQuote(t *testing.T) {
	ps := parseScript("cat << EOF\ndon't panic\nEOF\necho after")
	if len(ps) != 2 {
		t.Fatalf("pipelines = %d, want 2", len(ps))
	}
	if ps[0][0].stdinContent != "don't panic\n" {
		t.Errorf("body = %q", ps[0][0].stdinContent)
	}
	if ps[1][0].command != "echo" {
		t.Errorf("following command = %q", ps[1][0].command)
	}
}

// TestParseScript_QuotedHeredocMarker verifies a << inside a quoted token is
// ordinary text, not a heredoc
func TestParseScript_QuotedHeredocMarker(t *testing.T) {
	ps := parseScript("echo 'use << EOF here'\necho next")
	if len(ps) != 2 {
		t.Fatalf("pipelines = %d, want 2", len(ps))
	}
	cmd := ps[0][0]
	if cmd.hasHeredoc {
		t.Error("quoted << should not open a heredoc")
	}
	if !reflect.DeepEqual(cmd.args, []string{"use << EOF here"}) {
		t.Errorf("args = %v", cmd.args)
	}
}

// TestParseScript_MultilineQuote verifies an open quote joins physical lines
func TestParseScript_MultilineQuote(t *testing.T) {
	ps := parseScript("echo \"first\nsecond\"")
	if len(ps) != 1 {
		t.Fatalf("pipelines = %d", len(ps))
	}
	if !reflect.DeepEqual(ps[0][0].args, []string{"first\nsecond"}) {
		t.Errorf("args = %v", ps[0][0].args)
	}
}

// TestSplitOutsideQuotes verifies separator recognition respects quotes and
// escapes
func TestSplitOutsideQuotes(t *testing.T) {
	got := splitOutsideQuotes(`a | 'b | c' | d`, "|")
	if len(got) != 3 {
		t.Fatalf("parts = %d: %#v", len(got), got)
	}
	got = splitOutsideQuotes(`a \| b`, "|")
	if len(got) != 1 {
		t.Errorf("escaped separator should not split: %#v", got)
	}
}
