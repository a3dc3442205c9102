package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/signal-slot/mcp-codexreview/internal/codex"
	"github.com/signal-slot/mcp-codexreview/internal/gitx"
	"github.com/signal-slot/mcp-codexreview/internal/telemetry"
)

// reviewChangesInput is the input for the review_changes tool.
type reviewChangesInput struct {
	Type         string `json:"type,omitempty"`
	Cwd          string `json:"cwd,omitempty"`
	Model        string `json:"model,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// reviewChangesOutput is the output schema for the review_changes tool.
type reviewChangesOutput struct {
	Review string `json:"review"`
}

// getDiffInput is the input for the get_diff tool.
type getDiffInput struct {
	Type string `json:"type,omitempty"`
	Path string `json:"path,omitempty"`
	Cwd  string `json:"cwd,omitempty"`
}

// getDiffOutput is the output schema for the get_diff tool.
type getDiffOutput struct {
	Diff string `json:"diff"`
}

// getChangedFilesInput is the input for the get_changed_files tool.
type getChangedFilesInput struct {
	Type string `json:"type,omitempty"`
	Cwd  string `json:"cwd,omitempty"`
}

// getChangedFilesOutput is the output schema for the get_changed_files tool.
type getChangedFilesOutput struct {
	Files string `json:"files"`
}

// scopeSchema constrains the "type" argument to the valid scopes, so a bad
// value is rejected as an invalid-parameters fault before the handler runs.
func scopeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Change scope (default unstaged)",
		Enum: []any{
			string(gitx.ScopeUnstaged),
			string(gitx.ScopeStaged),
			string(gitx.ScopeLastCommit),
		},
	}
}

func cwdSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Target directory (default: server working directory)",
	}
}

// registerTools registers the three review tools with the MCP server.
// Input schemas are written out rather than inferred so the scope enum is
// enforced at the protocol layer.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "review_changes",
		Description: "Run an AI code review over the selected change scope",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"type":         scopeSchema(),
				"cwd":          cwdSchema(),
				"model":        {Type: "string", Description: "Model override for the review"},
				"instructions": {Type: "string", Description: "Extra review instructions, appended verbatim"},
			},
		},
	}, s.handleReviewChanges)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_diff",
		Description: "Get the diff for the selected change scope",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"type": scopeSchema(),
				"path": {Type: "string", Description: "Restrict the diff to this path"},
				"cwd":  cwdSchema(),
			},
		},
	}, s.handleGetDiff)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_changed_files",
		Description: "List changed files for the selected change scope",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"type": scopeSchema(),
				"cwd":  cwdSchema(),
			},
		},
	}, s.handleGetChangedFiles)
}

// targetDir resolves the effective directory for a call.
func (s *Server) targetDir(cwd string) string {
	if cwd != "" {
		return cwd
	}
	return s.workDir
}

// textResult wraps text as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a downstream failure as an error-flagged tool result.
// The call itself still succeeds at the protocol level; clients render the
// message without special-casing transport faults.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// record emits a telemetry event for a tool call. Safe on a nil emitter.
func (s *Server) record(kind, tool, requestID string, data any) {
	_ = s.telemetry.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      kind,
		Tool:      tool,
		RequestID: requestID,
		Data:      data,
	})
}

func (s *Server) handleReviewChanges(ctx context.Context, _ *mcp.CallToolRequest, input reviewChangesInput) (*mcp.CallToolResult, reviewChangesOutput, error) {
	scope, err := gitx.ParseScope(input.Type)
	if err != nil {
		return nil, reviewChangesOutput{}, err
	}

	requestID := uuid.NewString()
	dir := s.targetDir(input.Cwd)
	s.record(telemetry.KindToolCall, "review_changes", requestID, map[string]string{"scope": string(scope), "dir": dir})

	command, err := s.git.Resolve(ctx, dir, scope, false, "")
	if err != nil {
		s.record(telemetry.KindToolError, "review_changes", requestID, err.Error())
		return errorResult("Error resolving %s changes: %v", scope.Label(), err), reviewChangesOutput{}, nil
	}

	profile, err := LoadProfile(dir)
	if err != nil {
		s.record(telemetry.KindToolError, "review_changes", requestID, err.Error())
		return errorResult("Error loading review profile: %v", err), reviewChangesOutput{}, nil
	}

	model := input.Model
	if model == "" {
		model = profile.Review.Model
	}
	if model == "" {
		model = s.model
	}

	prompt := BuildPrompt(command, profile.Review, input.Instructions)

	s.record(telemetry.KindReviewStart, "review_changes", requestID, map[string]string{"model": model})
	text, err := s.invoker.Review(ctx, codex.Request{
		Prompt:        prompt,
		Dir:           dir,
		Model:         model,
		SkipRepoCheck: command == nil,
	})
	if err != nil {
		s.record(telemetry.KindToolError, "review_changes", requestID, err.Error())
		return errorResult("Error reviewing %s changes: %v", scope.Label(), err), reviewChangesOutput{}, nil
	}
	s.record(telemetry.KindReviewDone, "review_changes", requestID, nil)

	return textResult(text), reviewChangesOutput{Review: text}, nil
}

func (s *Server) handleGetDiff(ctx context.Context, _ *mcp.CallToolRequest, input getDiffInput) (*mcp.CallToolResult, getDiffOutput, error) {
	scope, err := gitx.ParseScope(input.Type)
	if err != nil {
		return nil, getDiffOutput{}, err
	}

	requestID := uuid.NewString()
	dir := s.targetDir(input.Cwd)
	s.record(telemetry.KindToolCall, "get_diff", requestID, map[string]string{"scope": string(scope), "dir": dir})

	command, err := s.git.Resolve(ctx, dir, scope, false, input.Path)
	if err != nil {
		s.record(telemetry.KindToolError, "get_diff", requestID, err.Error())
		return errorResult("Error getting %s diff: %v", scope.Label(), err), getDiffOutput{}, nil
	}

	var diff string
	if command == nil {
		diff, err = gitx.SynthesizeDiff(ctx, dir, input.Path)
	} else {
		diff, err = s.git.Run(ctx, dir, command)
	}
	if err != nil {
		s.record(telemetry.KindToolError, "get_diff", requestID, err.Error())
		return errorResult("Error getting %s diff: %v", scope.Label(), err), getDiffOutput{}, nil
	}

	s.record(telemetry.KindToolDone, "get_diff", requestID, nil)
	return textResult(diff), getDiffOutput{Diff: diff}, nil
}

func (s *Server) handleGetChangedFiles(ctx context.Context, _ *mcp.CallToolRequest, input getChangedFilesInput) (*mcp.CallToolResult, getChangedFilesOutput, error) {
	scope, err := gitx.ParseScope(input.Type)
	if err != nil {
		return nil, getChangedFilesOutput{}, err
	}

	requestID := uuid.NewString()
	dir := s.targetDir(input.Cwd)
	s.record(telemetry.KindToolCall, "get_changed_files", requestID, map[string]string{"scope": string(scope), "dir": dir})

	command, err := s.git.Resolve(ctx, dir, scope, true, "")
	if err != nil {
		s.record(telemetry.KindToolError, "get_changed_files", requestID, err.Error())
		return errorResult("Error listing %s files: %v", scope.Label(), err), getChangedFilesOutput{}, nil
	}

	var files string
	if command == nil {
		files, err = gitx.SynthesizeStatus(ctx, dir)
	} else {
		files, err = s.git.Run(ctx, dir, command)
	}
	if err != nil {
		s.record(telemetry.KindToolError, "get_changed_files", requestID, err.Error())
		return errorResult("Error listing %s files: %v", scope.Label(), err), getChangedFilesOutput{}, nil
	}

	s.record(telemetry.KindToolDone, "get_changed_files", requestID, nil)
	return textResult(files), getChangedFilesOutput{Files: files}, nil
}
