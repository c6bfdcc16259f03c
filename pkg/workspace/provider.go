package workspace

import "context"

// Provider is the storage contract the shell runs against. Paths are
// internal storage keys as produced by Resolve (always "/"-prefixed).
//
// Implementations must return ok=false (not an error) when reading a path
// that does not exist, must auto-create ancestor directories on Write, and
// must cascade Delete of a directory to every descendant with no partial
// state visible to the caller. Calls take a context because a provider may
// be backed by remote or durable storage; the shell itself never issues two
// provider calls concurrently.
type Provider interface {
	Read(ctx context.Context, path string) (content string, ok bool, err error)
	Write(ctx context.Context, path, content string) error
	Delete(ctx context.Context, path string) (bool, error)
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the immediate children of a directory, file names
	// plain and directory names with a trailing "/".
	List(ctx context.Context, path string) ([]string, error)
	// Glob returns every stored path (files and directories) matching the
	// pattern, sorted.
	Glob(ctx context.Context, pattern string) ([]string, error)
	Mkdir(ctx context.Context, path string) error
	IsDirectory(ctx context.Context, path string) (bool, error)
	Size(ctx context.Context, path string) (int64, bool, error)
}
