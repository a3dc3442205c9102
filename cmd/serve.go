package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signal-slot/mcp-codexreview/internal/codex"
	"github.com/signal-slot/mcp-codexreview/internal/config"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
	"github.com/signal-slot/mcp-codexreview/internal/review"
	"github.com/signal-slot/mcp-codexreview/internal/telemetry"
	"github.com/signal-slot/mcp-codexreview/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (stdio by default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "serve over SSE/HTTP on this port instead of stdio")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, &cfg)
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}

	workDir, err := resolveWorkDir(cfg.WorkDir)
	if err != nil {
		return err
	}

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	srv := review.NewServer(review.Config{
		Git:       &gitx.Client{GitPath: cfg.GitPath},
		Invoker:   &codex.Invoker{CodexPath: cfg.CodexPath, Timeout: cfg.ReviewTimeout, Verbose: cfg.Verbose},
		WorkDir:   workDir,
		Model:     cfg.Model,
		Telemetry: emitter,
		Port:      cfg.Serve.Port,
	})

	ctx, cancel := setupSignalContext(ui.New())
	defer cancel()

	_ = emitter.Emit(telemetry.Event{Timestamp: time.Now(), Kind: telemetry.KindServeStart})
	defer func() {
		_ = emitter.Emit(telemetry.Event{Timestamp: time.Now(), Kind: telemetry.KindServeStop})
	}()

	if cfg.Serve.Port > 0 {
		if err := srv.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "codexreview: listening on %s\n", srv.Addr())
		<-ctx.Done()

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		return srv.Stop(shutCtx)
	}

	return srv.Run(ctx)
}

// applyFlagOverrides copies persistent root flags into the config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	if cwd, _ := cmd.Flags().GetString("cwd"); cwd != "" {
		cfg.WorkDir = cwd
	}
}

// resolveWorkDir returns an absolute working directory path.
func resolveWorkDir(workDir string) (string, error) {
	if workDir != "" && workDir != "." {
		return workDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// setupSignalContext returns a context that is canceled on SIGINT or
// SIGTERM. The hook runs at most once; a second signal falls through to the
// default handler.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		signal.Stop(sigCh)
		printer.Info("shutting down...")
		cancel()
	}()
	return ctx, cancel
}
