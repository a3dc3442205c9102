package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signal-slot/mcp-codexreview/internal/config"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
	"github.com/signal-slot/mcp-codexreview/internal/ui"
	"github.com/signal-slot/mcp-codexreview/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the working tree and reprint changed files on edits",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("type", "t", "", "change scope: unstaged, staged, or last_commit")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
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

	w, err := watch.NewWatcher(dir)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	ctx, cancel := setupSignalContext(printer)
	defer cancel()
	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	printer.Info(fmt.Sprintf("watching %s for %s changes (ctrl-c to stop)", dir, scope.Label()))
	git := &gitx.Client{GitPath: cfg.GitPath}

	printListing := func() {
		command, err := git.Resolve(ctx, dir, scope, true, "")
		if err != nil {
			printer.Error(err.Error())
			return
		}
		var files string
		if command == nil {
			files, err = gitx.SynthesizeStatus(ctx, dir)
		} else {
			files, err = git.Run(ctx, dir, command)
		}
		if err != nil {
			printer.Error(err.Error())
			return
		}
		fmt.Fprint(os.Stdout, files)
	}

	printListing()
	for change := range w.Changes {
		printer.Step("changed: " + change.Path)
		printListing()
	}
	return nil
}
