package workspace

import (
	"strings"
	"testing"
)

// TestResolve_ValidPaths verifies relative paths normalize to storage keys
func TestResolve_ValidPaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty means root", "", "/"},
		{"dot means root", ".", "/"},
		{"plain file", "notes.txt", "/notes.txt"},
		{"nested path", "a/b/c.txt", "/a/b/c.txt"},
		{"leading dot-slash stripped", "./src/main.go", "/src/main.go"},
		{"trailing slash stripped", "dir/", "/dir"},
		{"surrounding whitespace trimmed", "  file.txt  ", "/file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestResolve_RejectsAbsolute verifies absolute paths fail with a usable suggestion
func TestResolve_RejectsAbsolute(t *testing.T) {
	_, err := Resolve("/etc/passwd")
	if err == nil {
		t.Fatal("expected error for absolute path")
	}
	// The error must tell the caller what to write instead.
	if !strings.Contains(err.Error(), `"etc/passwd"`) {
		t.Errorf("expected suggestion with relative form, got: %v", err)
	}
}

// TestResolve_RejectsTraversal verifies ".." segments are refused anywhere
func TestResolve_RejectsTraversal(t *testing.T) {
	for _, in := range []string{"..", "../x", "a/../b", "a/b/.."} {
		if _, err := Resolve(in); err == nil {
			t.Errorf("Resolve(%q) should have failed", in)
		}
	}
}

// TestToRelative verifies storage keys round-trip back to caller form
func TestToRelative(t *testing.T) {
	if got := ToRelative("/a/b.txt"); got != "a/b.txt" {
		t.Errorf("ToRelative(/a/b.txt) = %q", got)
	}
	if got := ToRelative("/"); got != "." {
		t.Errorf("ToRelative(/) = %q, want .", got)
	}
}
