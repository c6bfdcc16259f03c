package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/substrata-labs/vshell/pkg/workspace"
)

// store wraps the workspace provider so every path crossing into storage is
// validated exactly once, and so write-side policy (read-only sandbox with a
// per-path allow-list) is enforced at a single choke point regardless of
// which handler performs the write.
type store struct {
	provider workspace.Provider
	readOnly bool
	writable []string
}

func newStore(provider workspace.Provider) *store {
	return &store{provider: provider}
}

func (s *store) setReadOnly(enabled bool, writablePaths []string) {
	s.readOnly = enabled
	s.writable = writablePaths
}

// allowedWrite reports whether a relative path may be written while the
// read-only sandbox is active: exact allow-list match, or nested under an
// allow-listed directory.
func (s *store) allowedWrite(rel string) bool {
	for _, w := range s.writable {
		w = strings.TrimSuffix(w, "/")
		if rel == w || strings.HasPrefix(rel, w+"/") {
			return true
		}
	}
	return false
}

func (s *store) checkWrite(rel string) error {
	if s.readOnly && !s.allowedWrite(rel) {
		return fmt.Errorf("read-only mode: writing to %s is not allowed", rel)
	}
	return nil
}

// checkWritePath validates and policy-checks a prospective write target
// without touching storage, so the engine can reject a redirect before the
// stage's handler runs any side effects.
func (s *store) checkWritePath(path string) error {
	key, err := workspace.Resolve(path)
	if err != nil {
		return err
	}
	return s.checkWrite(workspace.ToRelative(key))
}

func (s *store) Read(ctx context.Context, path string) (string, bool, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return "", false, err
	}
	return s.provider.Read(ctx, key)
}

func (s *store) Write(ctx context.Context, path, content string) error {
	key, err := workspace.Resolve(path)
	if err != nil {
		return err
	}
	if err := s.checkWrite(workspace.ToRelative(key)); err != nil {
		return err
	}
	return s.provider.Write(ctx, key, content)
}

func (s *store) Delete(ctx context.Context, path string) (bool, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return false, err
	}
	if err := s.checkWrite(workspace.ToRelative(key)); err != nil {
		return false, err
	}
	return s.provider.Delete(ctx, key)
}

func (s *store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return false, err
	}
	return s.provider.Exists(ctx, key)
}

func (s *store) List(ctx context.Context, path string) ([]string, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return nil, err
	}
	return s.provider.List(ctx, key)
}

// Glob matches against the whole workspace and reports paths relative, the
// way the caller wrote them.
func (s *store) Glob(ctx context.Context, pattern string) ([]string, error) {
	key, err := workspace.Resolve(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := s.provider.Glob(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, workspace.ToRelative(m))
	}
	return out, nil
}

func (s *store) Mkdir(ctx context.Context, path string) error {
	key, err := workspace.Resolve(path)
	if err != nil {
		return err
	}
	if err := s.checkWrite(workspace.ToRelative(key)); err != nil {
		return err
	}
	return s.provider.Mkdir(ctx, key)
}

func (s *store) IsDirectory(ctx context.Context, path string) (bool, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return false, err
	}
	return s.provider.IsDirectory(ctx, key)
}

func (s *store) Size(ctx context.Context, path string) (int64, bool, error) {
	key, err := workspace.Resolve(path)
	if err != nil {
		return 0, false, err
	}
	return s.provider.Size(ctx, key)
}
