package shell

import (
	"context"
	"strings"
	"testing"
	"time"
)

// TestCat verifies concatenation, numbering and windowing
func TestCat(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "f.txt", "alpha", "beta", "gamma")

	res := sh.Execute(ctx, "cat f.txt")
	if res.Stdout != "alpha\nbeta\ngamma\n" {
		t.Errorf("cat = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "cat f.txt f.txt | wc -l")
	if res.Stdout != "6\n" {
		t.Errorf("concat = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "cat -n f.txt")
	if !strings.Contains(res.Stdout, "     1\talpha") || !strings.Contains(res.Stdout, "     3\tgamma") {
		t.Errorf("cat -n = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "cat --offset 1 --limit 1 f.txt")
	if res.Stdout != "beta\n" {
		t.Errorf("windowed cat = %q", res.Stdout)
	}
}

// TestHeadTail verifies line and char modes and the bare -N spelling
func TestHeadTail(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "f.txt", "1", "2", "3", "4", "5")

	res := sh.Execute(ctx, "head -n 2 f.txt")
	if res.Stdout != "1\n2\n" {
		t.Errorf("head -n 2 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "head -2 f.txt")
	if res.Stdout != "1\n2\n" {
		t.Errorf("head -2 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "tail -n 2 f.txt")
	if res.Stdout != "4\n5\n" {
		t.Errorf("tail -n 2 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "head -c 3 f.txt")
	if res.Stdout != "1\n2" {
		t.Errorf("head -c 3 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "tail -c 3 f.txt")
	if res.Stdout != "\n5\n" {
		t.Errorf("tail -c 3 = %q", res.Stdout)
	}

	// Requests beyond the input return it whole.
	res = sh.Execute(ctx, "head -n 99 f.txt | wc -l")
	if res.Stdout != "5\n" {
		t.Errorf("oversized head = %q", res.Stdout)
	}
}

// TestWc verifies the selectable counters and filename suffix rule
func TestWc(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "f.txt", "one two", "three")

	res := sh.Execute(ctx, "wc f.txt")
	if res.Stdout != "2 3 14 f.txt\n" {
		t.Errorf("wc = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "wc -w f.txt")
	if res.Stdout != "3 f.txt\n" {
		t.Errorf("wc -w = %q", res.Stdout)
	}
	// Piped input carries no filename.
	res = sh.Execute(ctx, "cat f.txt | wc -l")
	if res.Stdout != "2\n" {
		t.Errorf("piped wc = %q", res.Stdout)
	}
}

// TestSort verifies lexical, numeric, reverse and unique modes
func TestSort(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "f.txt", "banana", "apple", "banana", "cherry")

	res := sh.Execute(ctx, "sort f.txt")
	if res.Stdout != "apple\nbanana\nbanana\ncherry\n" {
		t.Errorf("sort = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "sort -u f.txt")
	if res.Stdout != "apple\nbanana\ncherry\n" {
		t.Errorf("sort -u = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "sort -r f.txt")
	if !strings.HasPrefix(res.Stdout, "cherry\n") {
		t.Errorf("sort -r = %q", res.Stdout)
	}

	seedLines(t, sh, "n.txt", "10", "9", "100")
	res = sh.Execute(ctx, "sort n.txt")
	if res.Stdout != "10\n100\n9\n" {
		t.Errorf("lexical numbers = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "sort -n n.txt")
	if res.Stdout != "9\n10\n100\n" {
		t.Errorf("sort -n = %q", res.Stdout)
	}
}

// TestUniq verifies adjacent dedup and -c counts
func TestUniq(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "f.txt", "a", "a", "b", "a")

	res := sh.Execute(ctx, "uniq f.txt")
	if res.Stdout != "a\nb\na\n" {
		t.Errorf("uniq = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "uniq -c f.txt")
	want := "      2 a\n      1 b\n      1 a\n"
	if res.Stdout != want {
		t.Errorf("uniq -c = %q, want %q", res.Stdout, want)
	}
}

// TestCut verifies delimiter and field selection including ranges
func TestCut(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()
	seedLines(t, sh, "csv.txt", "a,b,c,d", "1,2,3,4")

	res := sh.Execute(ctx, "cut -d, -f2 csv.txt")
	if res.Stdout != "b\n2\n" {
		t.Errorf("cut -f2 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "cut -d, -f1,3 csv.txt")
	if res.Stdout != "a,c\n1,3\n" {
		t.Errorf("cut -f1,3 = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "cut -d, -f2-4 csv.txt")
	if res.Stdout != "b,c,d\n2,3,4\n" {
		t.Errorf("cut range = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "cut -d, csv.txt")
	if res.ExitCode == 0 {
		t.Error("cut without -f should fail")
	}
}

// TestTr verifies translation, ranges and -d
func TestTr(t *testing.T) {
	sh := newTestShell(t)
	ctx := context.Background()

	res := sh.Execute(ctx, "echo hello | tr a-z A-Z")
	if res.Stdout != "HELLO\n" {
		t.Errorf("tr upcase = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "echo banana | tr -d a")
	if res.Stdout != "bnn\n" {
		t.Errorf("tr -d = %q", res.Stdout)
	}
	res = sh.Execute(ctx, "echo a.b.c | tr . -")
	if res.Stdout != "a-b-c\n" {
		t.Errorf("tr single = %q", res.Stdout)
	}
}

// TestDate verifies strftime formatting against a pinned clock
func TestDate(t *testing.T) {
	restore := nowFunc
	defer func() { nowFunc = restore }()
	nowFunc = func() time.Time {
		return time.Date(2026, 8, 26, 14, 30, 5, 0, time.UTC)
	}

	sh := newTestShell(t)
	ctx := context.Background()

	res := sh.Execute(ctx, "date -u +%Y-%m-%d")
	if res.Stdout != "2026-08-26\n" {
		t.Errorf("date = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "date -u +%H:%M:%S")
	if res.Stdout != "14:30:05\n" {
		t.Errorf("time = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "date -u -d @0 +%Y")
	if res.Stdout != "1970\n" {
		t.Errorf("epoch = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "date -u -d 2024-02-29 +%j")
	if res.Stdout != "060\n" {
		t.Errorf("day of year = %q", res.Stdout)
	}

	res = sh.Execute(ctx, "date -d notadate")
	if res.ExitCode == 0 || !strings.Contains(res.Stderr, "invalid date") {
		t.Errorf("res = %+v", res)
	}

	// Unknown directives pass through so typos stay visible.
	res = sh.Execute(ctx, "date -u +%Q")
	if res.Stdout != "%Q\n" {
		t.Errorf("unknown directive = %q", res.Stdout)
	}
}
