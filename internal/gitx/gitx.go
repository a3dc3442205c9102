// Package gitx wraps the git CLI for diff-source resolution. It decides
// which comparison is meaningful for a requested change scope and runs the
// resolved invocation, treating non-repository directories as a normal
// outcome rather than an error.
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RepoState is the outcome of the working-tree probe.
type RepoState int

const (
	// RepoYes means the directory is inside a git working tree.
	RepoYes RepoState = iota
	// RepoNo means git answered and the directory is not a working tree.
	RepoNo
	// RepoIndeterminate means the probe itself failed (git absent,
	// permission error). Callers treat it the same as RepoNo.
	RepoIndeterminate
)

// Client runs git subprocesses against a target directory.
type Client struct {
	// GitPath is the git executable. Empty means "git" from PATH.
	GitPath string
}

func (c *Client) gitPath() string {
	if c.GitPath != "" {
		return c.GitPath
	}
	return "git"
}

// Probe reports whether dir is inside a git working tree. It never returns
// an error: a failed probe is RepoIndeterminate, which downstream logic
// treats as a plain directory.
func (c *Client) Probe(ctx context.Context, dir string) RepoState {
	if _, err := exec.LookPath(c.gitPath()); err != nil {
		return RepoIndeterminate
	}
	cmd := exec.CommandContext(ctx, c.gitPath(), "-C", dir, "rev-parse", "--is-inside-work-tree")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return RepoNo
		}
		return RepoIndeterminate
	}
	if strings.TrimSpace(stdout.String()) == "true" {
		return RepoYes
	}
	return RepoNo
}

// EmptyTreeHash returns the hash of the canonical empty tree object,
// computed via git so it stays correct across object formats.
func (c *Client) EmptyTreeHash(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, c.gitPath(), "-C", dir, "hash-object", "-t", "tree", "--stdin")
	cmd.Stdin = strings.NewReader("")
	out, err := c.runCapture(cmd)
	if err != nil {
		return "", fmt.Errorf("hashing empty tree: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// HasParent reports whether HEAD~1 resolves in dir, i.e. whether HEAD has a
// parent commit. Any failure means no parent.
func (c *Client) HasParent(ctx context.Context, dir string) bool {
	cmd := exec.CommandContext(ctx, c.gitPath(), "-C", dir, "rev-parse", "--verify", "HEAD~1")
	return cmd.Run() == nil
}

// Run executes the resolved command in dir and returns its stdout verbatim.
// Failures carry git's stderr in the error message.
func (c *Client) Run(ctx context.Context, dir string, command *Command) (string, error) {
	if command == nil {
		return "", fmt.Errorf("gitx: no command to run for a plain directory")
	}
	args := append([]string{"-C", dir}, command.Args...)
	cmd := exec.CommandContext(ctx, c.gitPath(), args...)
	out, err := c.runCapture(cmd)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(command.Args, " "), err)
	}
	return out, nil
}

// runCapture runs cmd, returning stdout and folding trimmed stderr into the
// error on failure.
func (c *Client) runCapture(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
