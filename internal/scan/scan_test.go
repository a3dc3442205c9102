package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

// writeFile creates a file (and parent dirs) under root.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFiles_ExcludesDependencyDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hi")
	writeFile(t, root, "node_modules/x.js", "module.exports = {}")
	writeFile(t, root, "vendor/pkg/pkg.go", "package pkg")
	writeFile(t, root, ".git/config", "[core]")

	files, err := Files(context.Background(), root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"a.txt"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Files = %v, want %v", files, want)
	}
}

func TestFiles_ExcludesBinaryAndDotfiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "logo.png", "\x89PNG")
	writeFile(t, root, "archive.tar.gz", "")
	writeFile(t, root, ".gitignore", "dist/")
	writeFile(t, root, ".env", "SECRET=1")
	writeFile(t, root, ".golangci.yml", "run:")

	files, err := Files(context.Background(), root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	// Dotfiles with an extension stay; extensionless dotfiles go.
	want := []string{".golangci.yml", "main.go"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Files = %v, want %v", files, want)
	}
}

func TestFiles_SortedRelativeSlashPaths(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "z.txt", "")
	writeFile(t, root, "sub/deep/b.txt", "")
	writeFile(t, root, "a.txt", "")

	files, err := Files(context.Background(), root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if !sort.StringsAreSorted(files) {
		t.Errorf("Files not sorted: %v", files)
	}
	want := []string{"a.txt", "sub/deep/b.txt", "z.txt"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Files = %v, want %v", files, want)
	}
}

func TestFiles_CanceledContext(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.txt", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Files(ctx, root); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestSkipDir(t *testing.T) {
	t.Parallel()
	if !SkipDir("node_modules") {
		t.Error("node_modules should be skipped")
	}
	if SkipDir("internal") {
		t.Error("internal should not be skipped")
	}
}
