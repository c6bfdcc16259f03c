package shell

import (
	"context"
	"strings"
	"testing"
)

func seedTree(t *testing.T, sh *Shell) {
	t.Helper()
	res := sh.Execute(context.Background(),
		"echo m > main.go\necho r > docs/readme.md\necho u > src/util.go\necho d > src/deep/nested.go\nmkdir -p empty")
	if res.ExitCode != 0 {
		t.Fatalf("seeding tree failed: %s", res.Stderr)
	}
}

// TestFind_All verifies the bare walk lists everything including the base
func TestFind_All(t *testing.T) {
	sh := newTestShell(t)
	seedTree(t, sh)

	res := sh.Execute(context.Background(), "find")
	if res.ExitCode != 0 {
		t.Fatalf("exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	for _, want := range []string{".", "main.go", "docs", "docs/readme.md", "src/deep/nested.go", "empty"} {
		if !strings.Contains(res.Stdout, want+"\n") {
			t.Errorf("missing %q in output:\n%s", want, res.Stdout)
		}
	}
}

// TestFind_NameFilter verifies -name globs match basenames and multiple
// clauses OR together
func TestFind_NameFilter(t *testing.T) {
	sh := newTestShell(t)
	seedTree(t, sh)
	ctx := context.Background()

	res := sh.Execute(ctx, "find . -name '*.go'")
	lines := splitLines(res.Stdout)
	if len(lines) != 3 {
		t.Fatalf("got %d results: %v", len(lines), lines)
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, ".go") {
			t.Errorf("unexpected result %q", l)
		}
	}

	res = sh.Execute(ctx, "find . -name '*.go' -name '*.md'")
	if !strings.Contains(res.Stdout, "docs/readme.md") || !strings.Contains(res.Stdout, "main.go") {
		t.Errorf("OR semantics broken:\n%s", res.Stdout)
	}
}

// TestFind_TypeFilter verifies -type f and -type d
func TestFind_TypeFilter(t *testing.T) {
	sh := newTestShell(t)
	seedTree(t, sh)
	ctx := context.Background()

	res := sh.Execute(ctx, "find . -type d")
	if !strings.Contains(res.Stdout, "src/deep\n") || !strings.Contains(res.Stdout, "empty\n") {
		t.Errorf("-type d output:\n%s", res.Stdout)
	}
	if strings.Contains(res.Stdout, "main.go") {
		t.Error("-type d listed a file")
	}

	res = sh.Execute(ctx, "find . -type f")
	for _, l := range splitLines(res.Stdout) {
		if l == "." || l == "empty" || l == "src" {
			t.Errorf("-type f listed directory %q", l)
		}
	}
	if !strings.Contains(res.Stdout, "src/util.go") {
		t.Errorf("-type f missing file:\n%s", res.Stdout)
	}
}

// TestFind_ScopedBase verifies results restrict to the base subtree
func TestFind_ScopedBase(t *testing.T) {
	sh := newTestShell(t)
	seedTree(t, sh)

	res := sh.Execute(context.Background(), "find src -type f")
	lines := splitLines(res.Stdout)
	if len(lines) != 2 {
		t.Fatalf("got %v", lines)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "src/") {
			t.Errorf("result outside base: %q", l)
		}
	}
}

// TestFind_MaxDepth verifies -maxdepth counts segments below the base
func TestFind_MaxDepth(t *testing.T) {
	sh := newTestShell(t)
	seedTree(t, sh)

	res := sh.Execute(context.Background(), "find . -maxdepth 1")
	if strings.Contains(res.Stdout, "src/util.go") {
		t.Errorf("depth-2 entry leaked:\n%s", res.Stdout)
	}
	if !strings.Contains(res.Stdout, "main.go") || !strings.Contains(res.Stdout, "src\n") {
		t.Errorf("depth-1 entries missing:\n%s", res.Stdout)
	}
}

// TestFind_MissingBase verifies an absent base is an error
func TestFind_MissingBase(t *testing.T) {
	sh := newTestShell(t)
	res := sh.Execute(context.Background(), "find nowhere -type f")
	if res.ExitCode == 0 || !strings.Contains(res.Stderr, "no such file or directory") {
		t.Errorf("res = %+v", res)
	}
}

// TestFind_BadPredicate verifies unknown predicates are rejected
func TestFind_BadPredicate(t *testing.T) {
	sh := newTestShell(t)
	res := sh.Execute(context.Background(), "find . -newer x")
	if res.ExitCode == 0 || !strings.Contains(res.Stderr, "unknown predicate") {
		t.Errorf("res = %+v", res)
	}
}
