package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signal-slot/mcp-codexreview/internal/config"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List changed files for a change scope",
	RunE:  runChanges,
}

func init() {
	changesCmd.Flags().StringP("type", "t", "", "change scope: unstaged, staged, or last_commit")

	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, _ []string) error {
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

	ctx := cmd.Context()
	command, err := git.Resolve(ctx, dir, scope, true, "")
	if err != nil {
		return err
	}

	var files string
	if command == nil {
		files, err = gitx.SynthesizeStatus(ctx, dir)
	} else {
		files, err = git.Run(ctx, dir, command)
	}
	if err != nil {
		return err
	}

	fmt.Print(files)
	return nil
}
