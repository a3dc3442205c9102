package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signal-slot/mcp-codexreview/internal/codex"
	"github.com/signal-slot/mcp-codexreview/internal/config"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
	"github.com/signal-slot/mcp-codexreview/internal/review"
	"github.com/signal-slot/mcp-codexreview/internal/ui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [instructions...]",
	Short: "Run an AI code review over a change scope",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringP("type", "t", "", "change scope: unstaged, staged, or last_commit")
	reviewCmd.Flags().StringP("model", "m", "", "model override")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, &cfg)
	printer := ui.New()

	scopeArg, _ := cmd.Flags().GetString("type")
	scope, err := gitx.ParseScope(scopeArg)
	if err != nil {
		return err
	}

	dir, err := resolveWorkDir(cfg.WorkDir)
	if err != nil {
		return err
	}

	git := &gitx.Client{GitPath: cfg.GitPath}
	invoker := &codex.Invoker{CodexPath: cfg.CodexPath, Timeout: cfg.ReviewTimeout, Verbose: cfg.Verbose}
	if err := invoker.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	command, err := git.Resolve(ctx, dir, scope, false, "")
	if err != nil {
		return err
	}
	if command == nil {
		printer.Warn("not a git repository; reviewing all files")
	}

	profile, err := review.LoadProfile(dir)
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = profile.Review.Model
	}
	if model == "" {
		model = cfg.Model
	}

	instructions := strings.Join(args, " ")

	printer.Step(fmt.Sprintf("reviewing %s changes...", scope.Label()))
	text, err := invoker.Review(ctx, codex.Request{
		Prompt:        review.BuildPrompt(command, profile.Review, instructions),
		Dir:           dir,
		Model:         model,
		SkipRepoCheck: command == nil,
	})
	if err != nil {
		return err
	}

	printer.Done("review complete")
	fmt.Println(text)
	return nil
}
