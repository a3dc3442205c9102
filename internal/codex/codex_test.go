package codex

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestBuildArgs_Defaults(t *testing.T) {
	t.Parallel()
	args := buildArgs(Request{Prompt: "review this", Dir: "/work"}, "/tmp/out.md")

	if args[0] != "exec" {
		t.Errorf("args[0] = %q, want %q", args[0], "exec")
	}
	if args[len(args)-1] != "review this" {
		t.Errorf("prompt must be the trailing positional argument, got %q", args[len(args)-1])
	}

	pairs := map[string]string{
		"--cd":                  "/work",
		"--sandbox":             "read-only",
		"--output-last-message": "/tmp/out.md",
		"--color":               "never",
	}
	for flag, want := range pairs {
		if got := flagValue(args, flag); got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}

	for _, absent := range []string{"--model", "--skip-git-repo-check"} {
		if hasFlag(args, absent) {
			t.Errorf("expected %s to be absent by default", absent)
		}
	}
}

func TestBuildArgs_ModelAndRepoCheck(t *testing.T) {
	t.Parallel()
	args := buildArgs(Request{
		Prompt:        "p",
		Dir:           "/work",
		Model:         "gpt-5-codex",
		SkipRepoCheck: true,
	}, "/tmp/out.md")

	if got := flagValue(args, "--model"); got != "gpt-5-codex" {
		t.Errorf("--model = %q, want %q", got, "gpt-5-codex")
	}
	if !hasFlag(args, "--skip-git-repo-check") {
		t.Error("expected --skip-git-repo-check when SkipRepoCheck is set")
	}
	if args[len(args)-1] != "p" {
		t.Errorf("prompt not last: %v", args)
	}
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// fakeCodex writes an executable shell script standing in for the codex CLI
// and returns its path. Tests using it are skipped on Windows.
func fakeCodex(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "codex")
	full := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(full), 0o755); err != nil {
		t.Fatalf("writing fake codex: %v", err)
	}
	return path
}

// writeOutputScript locates the --output-last-message argument and writes
// body to it.
const writeOutputScript = `out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output-last-message" ]; then out="$a"; fi
  prev="$a"
done
`

// tempReviewFiles counts leftover review capture files in the OS temp dir.
func tempReviewFiles(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "codexreview-*.md"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return len(matches)
}

func TestReview_ReadsFinalMessage(t *testing.T) {
	inv := &Invoker{CodexPath: fakeCodex(t, writeOutputScript+`printf 'LGTM' > "$out"`)}

	before := tempReviewFiles(t)
	text, err := inv.Review(context.Background(), Request{Prompt: "p", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if text != "LGTM" {
		t.Errorf("Review = %q, want %q", text, "LGTM")
	}
	if after := tempReviewFiles(t); after > before {
		t.Errorf("temp review files leaked: %d before, %d after", before, after)
	}
}

func TestReview_FailureRemovesTempFile(t *testing.T) {
	inv := &Invoker{CodexPath: fakeCodex(t, `echo "boom" >&2; exit 1`)}

	before := tempReviewFiles(t)
	_, err := inv.Review(context.Background(), Request{Prompt: "p", Dir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error from failing codex")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry stderr", err)
	}
	if after := tempReviewFiles(t); after > before {
		t.Errorf("temp review files leaked: %d before, %d after", before, after)
	}
}

func TestReview_Timeout(t *testing.T) {
	inv := &Invoker{
		CodexPath: fakeCodex(t, `sleep 5`),
		Timeout:   100 * time.Millisecond,
	}

	before := tempReviewFiles(t)
	start := time.Now()
	_, err := inv.Review(context.Background(), Request{Prompt: "p", Dir: t.TempDir()})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout message", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Review took %s, expected the timeout to cut it short", elapsed)
	}
	if after := tempReviewFiles(t); after > before {
		t.Errorf("temp review files leaked: %d before, %d after", before, after)
	}
}

func TestReview_TimeoutKillsDescendants(t *testing.T) {
	// Background children inherit the stderr pipe; if only the direct child
	// were killed, Wait would block until they exit on their own.
	script := `sleep 5 &
sleep 5 &
wait`
	inv := &Invoker{
		CodexPath: fakeCodex(t, script),
		Timeout:   100 * time.Millisecond,
	}

	start := time.Now()
	_, err := inv.Review(context.Background(), Request{Prompt: "p", Dir: t.TempDir()})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout message", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Review took %s; descendant processes held the call open", elapsed)
	}
}

func TestValidate_MissingBinary(t *testing.T) {
	t.Parallel()
	inv := &Invoker{CodexPath: "definitely-not-a-real-codex-binary"}
	if err := inv.Validate(); err == nil {
		t.Error("expected error for missing codex binary")
	}
}
