package gitx

import (
	"context"
	"fmt"
)

// Scope selects which comparison window a diff or listing targets.
type Scope string

const (
	// ScopeUnstaged compares the working tree against the index.
	ScopeUnstaged Scope = "unstaged"
	// ScopeStaged compares the index against the last commit.
	ScopeStaged Scope = "staged"
	// ScopeLastCommit compares the last commit against its parent, or
	// against the empty tree when no parent exists.
	ScopeLastCommit Scope = "last_commit"
)

// ParseScope validates a wire-level scope string. The empty string defaults
// to unstaged; anything else unknown is rejected with an error naming the
// valid values.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopeUnstaged, nil
	case ScopeUnstaged, ScopeStaged, ScopeLastCommit:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid type %q: must be one of %q, %q, %q",
		s, ScopeUnstaged, ScopeStaged, ScopeLastCommit)
}

// Label returns the human-readable name of the scope, used only in message
// and prompt text.
func (s Scope) Label() string {
	switch s {
	case ScopeStaged:
		return "staged"
	case ScopeLastCommit:
		return "last commit"
	default:
		return "unstaged"
	}
}

// Command is a resolved git invocation: the argument list after "git -C dir"
// plus a human-readable description of the comparison. A nil *Command is the
// plain-directory sentinel: no version-control comparison applies and
// callers fall back to full-tree enumeration.
type Command struct {
	Args  []string
	Label string
}

// Resolve maps (dir, scope, nameOnly, pathFilter) to a single deterministic
// git invocation, or to the nil sentinel when dir is not a working tree.
// Resolution itself never fails; only running the resolved command can.
func (c *Client) Resolve(ctx context.Context, dir string, scope Scope, nameOnly bool, pathFilter string) (*Command, error) {
	if c.Probe(ctx, dir) != RepoYes {
		return nil, nil
	}

	args := []string{"diff"}
	if nameOnly {
		args = append(args, "--name-status")
	}

	label := scope.Label() + " changes"
	switch scope {
	case ScopeStaged:
		args = append(args, "--cached")
	case ScopeLastCommit:
		if c.HasParent(ctx, dir) {
			args = append(args, "HEAD~1", "HEAD")
		} else {
			// Initial commit: HEAD~1 is undefined, so diff the
			// canonical empty tree against HEAD instead.
			empty, err := c.EmptyTreeHash(ctx, dir)
			if err != nil {
				return nil, err
			}
			args = append(args, empty, "HEAD")
			label = "last commit (initial) changes"
		}
	}

	if pathFilter != "" {
		args = append(args, "--", pathFilter)
	}

	return &Command{Args: args, Label: label}, nil
}
