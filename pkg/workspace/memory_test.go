package workspace

import (
	"context"
	"reflect"
	"testing"
)

// TestMemoryProvider_WriteRead verifies basic round-trip and the null-object
// read contract for missing paths
func TestMemoryProvider_WriteRead(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	if err := m.Write(ctx, "/a/b.txt", "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, ok, err := m.Read(ctx, "/a/b.txt")
	if err != nil || !ok {
		t.Fatalf("Read = (%q, %v, %v)", content, ok, err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want hello", content)
	}

	// Missing path is not an error, just ok=false.
	_, ok, err = m.Read(ctx, "/missing")
	if err != nil {
		t.Fatalf("Read of missing path errored: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing path")
	}
}

// TestMemoryProvider_WriteCreatesAncestors verifies implicit parent directories
func TestMemoryProvider_WriteCreatesAncestors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	if err := m.Write(ctx, "/x/y/z.txt", "data"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, dir := range []string{"/x", "/x/y"} {
		isDir, err := m.IsDirectory(ctx, dir)
		if err != nil {
			t.Fatalf("IsDirectory(%s) errored: %v", dir, err)
		}
		if !isDir {
			t.Errorf("expected %s to be a directory", dir)
		}
	}
}

// TestMemoryProvider_EmptyDirectory verifies mkdir'd directories are
// observable without any file inside
func TestMemoryProvider_EmptyDirectory(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()

	if err := m.Mkdir(ctx, "/empty/nested"); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	exists, err := m.Exists(ctx, "/empty/nested")
	if err != nil || !exists {
		t.Fatalf("Exists = (%v, %v), want true", exists, err)
	}
	isDir, _ := m.IsDirectory(ctx, "/empty")
	if !isDir {
		t.Error("ancestor of mkdir'd path should be a directory")
	}
}

// TestMemoryProvider_DeleteFile verifies single-file deletion and the
// false return for paths that were never there
func TestMemoryProvider_DeleteFile(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/f.txt", "x")

	deleted, err := m.Delete(ctx, "/f.txt")
	if err != nil || !deleted {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", deleted, err)
	}

	deleted, err = m.Delete(ctx, "/f.txt")
	if err != nil {
		t.Fatalf("second Delete errored: %v", err)
	}
	if deleted {
		t.Error("second Delete should report false")
	}
}

// TestMemoryProvider_DeleteDirectoryCascades verifies deleting a directory
// removes every descendant atomically
func TestMemoryProvider_DeleteDirectoryCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/d/a.txt", "1")
	m.Write(ctx, "/d/sub/b.txt", "2")
	m.Write(ctx, "/keep.txt", "3")

	deleted, err := m.Delete(ctx, "/d")
	if err != nil || !deleted {
		t.Fatalf("Delete(/d) = (%v, %v)", deleted, err)
	}

	for _, p := range []string{"/d/a.txt", "/d/sub/b.txt", "/d", "/d/sub"} {
		exists, _ := m.Exists(ctx, p)
		if exists {
			t.Errorf("%s should be gone after cascade delete", p)
		}
	}
	if exists, _ := m.Exists(ctx, "/keep.txt"); !exists {
		t.Error("unrelated file was deleted")
	}
}

// TestMemoryProvider_DeleteRoot verifies deleting the root clears the whole
// store, files and empty directories alike
func TestMemoryProvider_DeleteRoot(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/a.txt", "1")
	m.Write(ctx, "/d/b.txt", "2")
	m.Mkdir(ctx, "/empty")

	deleted, err := m.Delete(ctx, "/")
	if err != nil || !deleted {
		t.Fatalf("Delete(/) = (%v, %v)", deleted, err)
	}

	entries, err := m.List(ctx, "/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root not empty after delete: %v", entries)
	}
	for _, p := range []string{"/a.txt", "/d/b.txt", "/d", "/empty"} {
		if exists, _ := m.Exists(ctx, p); exists {
			t.Errorf("%s should be gone after root delete", p)
		}
	}
}

// TestMemoryProvider_List verifies immediate-children listing with the
// trailing-slash directory marker
func TestMemoryProvider_List(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/root.txt", "")
	m.Write(ctx, "/d/in.txt", "")
	m.Write(ctx, "/d/sub/deep.txt", "")
	m.Mkdir(ctx, "/d/empty")

	entries, err := m.List(ctx, "/")
	if err != nil {
		t.Fatalf("List(/) errored: %v", err)
	}
	if want := []string{"d/", "root.txt"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("List(/) = %v, want %v", entries, want)
	}

	entries, err = m.List(ctx, "/d")
	if err != nil {
		t.Fatalf("List(/d) errored: %v", err)
	}
	if want := []string{"empty/", "in.txt", "sub/"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("List(/d) = %v, want %v", entries, want)
	}
}

// TestMemoryProvider_Glob verifies pattern matching over files and directories
func TestMemoryProvider_Glob(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/a.go", "")
	m.Write(ctx, "/src/b.go", "")
	m.Write(ctx, "/src/deep/c.go", "")
	m.Write(ctx, "/readme.md", "")

	matches, err := m.Glob(ctx, "/**/*.go")
	if err != nil {
		t.Fatalf("Glob errored: %v", err)
	}
	want := []string{"/a.go", "/src/b.go", "/src/deep/c.go"}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Glob = %v, want %v", matches, want)
	}

	matches, err = m.Glob(ctx, "/src/*")
	if err != nil {
		t.Fatalf("Glob errored: %v", err)
	}
	want = []string{"/src/b.go", "/src/deep"}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Glob(/src/*) = %v, want %v", matches, want)
	}
}

// TestMemoryProvider_Size verifies byte length reporting
func TestMemoryProvider_Size(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProvider()
	m.Write(ctx, "/f", "hello")

	n, ok, err := m.Size(ctx, "/f")
	if err != nil || !ok || n != 5 {
		t.Errorf("Size = (%d, %v, %v), want (5, true, nil)", n, ok, err)
	}
	_, ok, _ = m.Size(ctx, "/nope")
	if ok {
		t.Error("Size of missing path should report ok=false")
	}
}
