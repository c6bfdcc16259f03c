package workspace

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryProvider is the reference Provider: a path→content map plus a
// separate set of known directories so empty directories created by mkdir
// are observable. It is the default backing store for an agent run.
type MemoryProvider struct {
	mu    sync.RWMutex
	files map[string]string
	dirs  map[string]struct{}
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		files: make(map[string]string),
		dirs:  make(map[string]struct{}),
	}
}

var _ Provider = (*MemoryProvider)(nil)

func (m *MemoryProvider) Read(ctx context.Context, path string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[path]
	return content, ok, nil
}

func (m *MemoryProvider) Write(ctx context.Context, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = content
	m.addAncestors(path)
	return nil
}

// addAncestors records every directory above path. Callers hold the lock.
func (m *MemoryProvider) addAncestors(path string) {
	for {
		idx := strings.LastIndex(path, "/")
		if idx <= 0 {
			return
		}
		path = path[:idx]
		m.dirs[path] = struct{}{}
	}
}

func (m *MemoryProvider) Delete(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return true, nil
	}

	if !m.isDirLocked(path) {
		return false, nil
	}

	// The root is a directory whose cascade covers everything; the generic
	// prefix "//" below would match nothing.
	if path == "/" {
		m.files = make(map[string]string)
		m.dirs = make(map[string]struct{})
		return true, nil
	}

	prefix := path + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for d := range m.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return true, nil
}

func (m *MemoryProvider) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[path]; ok {
		return true, nil
	}
	return m.isDirLocked(path), nil
}

func (m *MemoryProvider) isDirLocked(path string) bool {
	if path == "/" {
		return true
	}
	if _, ok := m.dirs[path]; ok {
		return true
	}
	prefix := path + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m *MemoryProvider) List(ctx context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}

	names := make(map[string]bool) // name → isDir
	collect := func(p string, isDir bool) {
		if !strings.HasPrefix(p, prefix) || p == path {
			return
		}
		rest := p[len(prefix):]
		if idx := strings.Index(rest, "/"); idx >= 0 {
			names[rest[:idx]] = true
		} else if isDir {
			names[rest] = true
		} else if !names[rest] {
			names[rest] = false
		}
	}
	for p := range m.files {
		collect(p, false)
	}
	for d := range m.dirs {
		collect(d, true)
	}

	out := make([]string, 0, len(names))
	for name, isDir := range names {
		if isDir {
			out = append(out, name+"/")
		} else {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryProvider) Glob(ctx context.Context, pattern string) ([]string, error) {
	re, err := CompileGlob(pattern)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for p := range m.files {
		if re.MatchString(p) {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	for d := range m.dirs {
		if re.MatchString(d) {
			if _, dup := seen[d]; !dup {
				seen[d] = struct{}{}
				out = append(out, d)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryProvider) Mkdir(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path != "/" {
		m.dirs[path] = struct{}{}
		m.addAncestors(path)
	}
	return nil
}

func (m *MemoryProvider) IsDirectory(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.isDirLocked(path), nil
}

func (m *MemoryProvider) Size(ctx context.Context, path string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[path]
	if !ok {
		return 0, false, nil
	}
	return int64(len(content)), true, nil
}
