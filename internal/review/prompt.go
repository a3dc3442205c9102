package review

import (
	"fmt"
	"strings"

	"github.com/signal-slot/mcp-codexreview/internal/gitx"
)

// rubric is the fixed set of review dimensions, in presentation order.
var rubric = []struct {
	name string
	hint string
}{
	{"correctness", "bugs, logic errors, unhandled edge cases"},
	{"style", "readability, naming, idiomatic usage"},
	{"performance", "unnecessary work, wasteful allocations, blocking calls"},
	{"security", "injection risks, unsafe input handling, leaked secrets"},
}

// BuildPrompt assembles the review prompt. command describes the resolved
// comparison; nil means the target is a plain directory and the tool is told
// to read all source files directly. Profile focus narrows the rubric;
// caller instructions are appended verbatim after any profile instructions.
func BuildPrompt(command *gitx.Command, profile ReviewProfile, instructions string) string {
	var b strings.Builder

	if command != nil {
		fmt.Fprintf(&b, "Review the %s in this repository, as shown by `git %s`.\n",
			command.Label, strings.Join(command.Args, " "))
	} else {
		b.WriteString("This directory is not under version control. Read all source files directly and review them as if newly added.\n")
	}

	b.WriteString("\nEvaluate:\n")
	focus := profile.Focus
	for _, r := range rubric {
		if len(focus) > 0 && !contains(focus, r.name) {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.name, r.hint)
	}
	b.WriteString("\nConclude with concrete improvement suggestions.\n")

	if profile.Instructions != "" {
		b.WriteString("\n")
		b.WriteString(profile.Instructions)
		b.WriteString("\n")
	}
	if instructions != "" {
		b.WriteString("\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
