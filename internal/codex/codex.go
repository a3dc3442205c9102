// Package codex invokes the codex CLI in non-interactive, read-only mode to
// produce review text. The final message is captured through a temporary
// file that is removed on every exit path.
package codex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the wall-clock limit for a single review invocation.
const DefaultTimeout = 5 * time.Minute

// Invoker runs the codex CLI.
type Invoker struct {
	// CodexPath is the codex executable. Empty means "codex" from PATH.
	CodexPath string
	// Timeout bounds a single invocation. Zero uses DefaultTimeout.
	Timeout time.Duration
	Verbose bool
}

// Request describes one review invocation.
type Request struct {
	Prompt string
	// Dir is the directory codex is pointed at.
	Dir string
	// Model overrides the default model when non-empty.
	Model string
	// SkipRepoCheck is set exactly when Dir is not a git working tree.
	SkipRepoCheck bool
}

func (inv *Invoker) codexPath() string {
	if inv.CodexPath != "" {
		return inv.CodexPath
	}
	return "codex"
}

func (inv *Invoker) timeout() time.Duration {
	if inv.Timeout > 0 {
		return inv.Timeout
	}
	return DefaultTimeout
}

// buildArgs constructs the CLI arguments for a codex exec invocation. The
// prompt is the trailing positional argument.
func buildArgs(req Request, outputFile string) []string {
	args := []string{
		"exec",
		"--cd", req.Dir,
		"--sandbox", "read-only",
		"--output-last-message", outputFile,
		"--color", "never",
	}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.SkipRepoCheck {
		args = append(args, "--skip-git-repo-check")
	}
	return append(args, req.Prompt)
}

// Review runs codex against req and returns the final message text. The
// invocation is bounded by the configured timeout; no retry is attempted.
func (inv *Invoker) Review(ctx context.Context, req Request) (string, error) {
	tmp, err := os.CreateTemp("", "codexreview-*.md")
	if err != nil {
		return "", fmt.Errorf("creating review output file: %w", err)
	}
	outputFile := tmp.Name()
	tmp.Close()
	// Removal failures are ignored: the file lives in the OS temp dir.
	defer os.Remove(outputFile)

	ctx, cancel := context.WithTimeout(ctx, inv.timeout())
	defer cancel()

	args := buildArgs(req, outputFile)
	cmd := exec.CommandContext(ctx, inv.codexPath(), args...)
	cmd.SysProcAttr = sessionAttr()
	// Killing only the direct child leaves codex's own subprocesses holding
	// the stderr pipe, and Wait would block until they exit. Kill the whole
	// session on expiry, and cap Wait in case anything escapes the group.
	cmd.Cancel = func() error { return terminate(cmd) }
	cmd.WaitDelay = 2 * time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if inv.Verbose {
		fmt.Fprintf(os.Stderr, "[codex] running: %s %s\n", inv.codexPath(), strings.Join(args[:len(args)-1], " "))
	}

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("codex review timed out after %s", inv.timeout())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("codex invocation failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("codex invocation failed: %w", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return "", fmt.Errorf("reading review output: %w", err)
	}
	return string(data), nil
}

// Validate checks that the codex CLI is runnable.
func (inv *Invoker) Validate() error {
	out, err := exec.Command(inv.codexPath(), "--version").Output()
	if err != nil {
		return fmt.Errorf("codex CLI not found at %q: %w", inv.codexPath(), err)
	}
	if inv.Verbose {
		fmt.Fprintf(os.Stderr, "[codex] version: %s", string(out))
	}
	return nil
}
