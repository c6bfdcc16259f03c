package workspace

import (
	"fmt"
	"strings"
)

// Resolve normalizes a caller-written path into the internal storage key
// form. The workspace is strictly relative: "." and "" mean the root, a
// leading "./" is stripped, absolute paths and ".." traversal are rejected.
// Valid paths come back prefixed with "/" so every storage key has one
// canonical spelling.
func Resolve(path string) (string, error) {
	p := strings.TrimSpace(path)

	if p == "" || p == "." {
		return "/", nil
	}

	if strings.HasPrefix(p, "./") {
		p = p[2:]
	}

	if strings.HasPrefix(p, "/") {
		suggested := strings.TrimLeft(p, "/")
		return "", fmt.Errorf("absolute paths are not allowed: %s (use %q instead)", path, suggested)
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path traversal is not allowed: %s", path)
		}
	}

	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/", nil
	}

	return "/" + p, nil
}

// ToRelative converts an internal storage key back to the relative form
// callers write, for surfaces like find and glob that report paths.
func ToRelative(fsPath string) string {
	rel := strings.TrimPrefix(fsPath, "/")
	if rel == "" {
		return "."
	}
	return rel
}
