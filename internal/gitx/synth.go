package gitx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signal-slot/mcp-codexreview/internal/scan"
)

// SynthesizeStatus lists every reviewable file under root as an addition,
// "A\t<path>" per line in sorted order. It is the plain-directory analogue
// of "git diff --name-status".
func SynthesizeStatus(ctx context.Context, root string) (string, error) {
	files, err := scan.Files(ctx, root)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "A\t%s\n", f)
	}
	return b.String(), nil
}

// SynthesizeDiff renders every reviewable file under root as a unified-diff
// hunk adding all of its lines, with a /dev/null origin. File blocks are
// separated by a blank line. A non-empty pathFilter restricts the output
// the way a trailing pathspec restricts "git diff": an exact file match or
// a directory prefix. It is the plain-directory analogue of "git diff".
func SynthesizeDiff(ctx context.Context, root, pathFilter string) (string, error) {
	files, err := scan.Files(ctx, root)
	if err != nil {
		return "", err
	}
	blocks := make([]string, 0, len(files))
	for _, f := range files {
		if !matchesFilter(f, pathFilter) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			continue // unreadable files are skipped, matching the scan walk
		}
		blocks = append(blocks, fileBlock(f, string(data)))
	}
	return strings.Join(blocks, "\n"), nil
}

// matchesFilter reports whether a slash-relative path falls under filter.
func matchesFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.TrimSuffix(filepath.ToSlash(filter), "/")
	return path == filter || strings.HasPrefix(path, filter+"/")
}

// fileBlock formats one synthetic hunk adding every line of content.
// A single trailing newline does not count as an extra empty line.
func fileBlock(path, content string) string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- /dev/null\n+++ b/%s\n@@ -0,0 +1,%d @@\n", path, len(lines))
	for _, line := range lines {
		b.WriteString("+")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
