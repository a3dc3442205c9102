package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signal-slot/mcp-codexreview/internal/config"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Print the diff for a change scope",
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringP("type", "t", "", "change scope: unstaged, staged, or last_commit")
	diffCmd.Flags().StringP("path", "p", "", "restrict the diff to this path")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, &cfg)

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
	pathFilter, _ := cmd.Flags().GetString("path")

	ctx := cmd.Context()
	command, err := git.Resolve(ctx, dir, scope, false, pathFilter)
	if err != nil {
		return err
	}

	var diff string
	if command == nil {
		diff, err = gitx.SynthesizeDiff(ctx, dir, pathFilter)
	} else {
		diff, err = git.Run(ctx, dir, command)
	}
	if err != nil {
		return err
	}

	fmt.Print(diff)
	return nil
}
