// Package scan enumerates reviewable source files under a directory. It is
// the fallback used when the target directory is not a git working tree: the
// listing stands in for what git would otherwise report.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names that never contain reviewable sources:
// VCS metadata, dependency trees, build output, coverage and cache dirs.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	"coverage":     true,
	".nyc_output":  true,
	"__pycache__":  true,
	".cache":       true,
	".next":        true,
	".venv":        true,
	"venv":         true,
}

// skipExts are extensions of binary-like files excluded from listings.
var skipExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".webp": true, ".bmp": true, ".pdf": true,
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".xz": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".a": true, ".class": true, ".jar": true, ".wasm": true,
	".pyc": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".webm": true,
	".sqlite": true, ".db": true,
}

// Files walks root and returns the relative, slash-separated paths of every
// reviewable file, sorted. Directories in skipDirs are pruned; binary-like
// extensions and extensionless dotfiles (".env", ".gitignore") are dropped.
// Unreadable entries are skipped rather than failing the walk.
func Files(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !reviewable(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// SkipDir reports whether a directory name is excluded from scans. Exposed
// for the watcher, which must not register watches inside excluded trees.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// reviewable reports whether a file name denotes a text source worth
// listing. Extensionless dotfiles carry no reviewable content signal and are
// excluded alongside binary extensions.
func reviewable(name string) bool {
	if strings.HasPrefix(name, ".") && !strings.Contains(name[1:], ".") {
		return false
	}
	return !skipExts[strings.ToLower(filepath.Ext(name))]
}
