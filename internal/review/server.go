// Package review is the MCP server that exposes git-backed change review
// tools: review_changes, get_diff, and get_changed_files. The server is
// stateless across calls; each request is resolved, executed, and formatted
// independently.
package review

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/signal-slot/mcp-codexreview/internal/codex"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
	"github.com/signal-slot/mcp-codexreview/internal/telemetry"
)

// Version is the server version reported to MCP clients.
const Version = "0.1.0"

// Config holds the collaborators and defaults for a Server.
type Config struct {
	// Git runs version-control subprocesses. Nil uses a default client.
	Git *gitx.Client
	// Invoker runs the codex CLI. Nil uses a default invoker.
	Invoker *codex.Invoker
	// WorkDir is the default target directory when a call omits cwd.
	WorkDir string
	// Model is the default model when neither the call nor the project
	// profile names one.
	Model string
	// Telemetry records tool invocations. Nil disables recording.
	Telemetry *telemetry.Emitter
	// Port is the SSE/HTTP listen port; only used by Start.
	Port int
}

// Server exposes the review tools over MCP. It serves either on stdio (Run)
// or over SSE/HTTP (Start/Stop).
type Server struct {
	git       *gitx.Client
	invoker   *codex.Invoker
	workDir   string
	model     string
	telemetry *telemetry.Emitter

	mcp  *mcp.Server
	port int
	srv  *http.Server
	ln   net.Listener
}

// NewServer creates the MCP server and registers the review tools.
func NewServer(cfg Config) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "codexreview",
			Version: Version,
		},
		nil,
	)

	git := cfg.Git
	if git == nil {
		git = &gitx.Client{}
	}
	invoker := cfg.Invoker
	if invoker == nil {
		invoker = &codex.Invoker{}
	}
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}

	s := &Server{
		git:       git,
		invoker:   invoker,
		workDir:   workDir,
		model:     cfg.Model,
		telemetry: cfg.Telemetry,
		mcp:       mcpServer,
		port:      cfg.Port,
	}

	s.registerTools()

	return s
}

// Run serves MCP over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Start begins serving the MCP server over SSE/HTTP on the configured port.
// It returns once the listener is accepting connections.
func (s *Server) Start(ctx context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	})

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("review: listen on port %d: %w", s.port, err)
	}
	s.ln = ln

	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "review: serve error: %v\n", err)
		}
	}()

	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server. It is a no-op when the server
// was never started.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
