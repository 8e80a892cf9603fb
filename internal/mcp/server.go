package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/infratrack/internal/config"
	"github.com/a3tai/infratrack/internal/descriptions"
	"github.com/a3tai/infratrack/internal/document"
	"github.com/a3tai/infratrack/internal/export"
	"github.com/a3tai/infratrack/internal/extract"
	"github.com/a3tai/infratrack/internal/service"
)

// Tool names
const (
	ToolExtractFile      = "project_extract_file"
	ToolExtractContent   = "project_extract_content"
	ToolExtractDirectory = "project_extract_directory"
	ToolServerInfo       = "project_server_info"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *service.Service
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   svc,
		logger:    logger,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the report (.pdf or .json), absolute or relative to the report directory"),
		),
	), s.handleExtractFile)

	s.mcpServer.AddTool(mcp.NewTool(
		ToolExtractContent,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractContent)),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description(`Decoded document as a JSON object string: {"text": "...", "tables": [[["cell", null]]]}`),
		),
	), s.handleExtractContent)

	s.mcpServer.AddTool(mcp.NewTool(
		ToolExtractDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the report directory if empty)"),
		),
	), s.handleExtractDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolServerInfo)),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}

	body, err := export.MarshalEntry(result.Entry())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRecord(result.Record, body)), nil
}

func (s *Server) handleExtractContent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.service.ExtractContentJSON([]byte(content))
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}

	body, err := export.MarshalEntry(export.Entry{Record: rec})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRecord(rec, body)), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.service.Directory()
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	batch, err := s.service.ExtractDirectory(ctx, directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := formatBatch(directory, batch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func formatRecord(rec extract.Record, body []byte) string {
	var b strings.Builder
	b.WriteString(service.Summary(rec))
	b.WriteString("\n")
	if missing := service.Missing(rec); len(missing) > 0 && len(missing) < len(extract.Fields()) {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = string(k)
		}
		fmt.Fprintf(&b, "Missing: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")
	b.Write(body)
	return b.String()
}

func formatBatch(directory string, batch *service.Batch) (string, error) {
	body, err := export.MarshalEntries(batch.Entries())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	total := len(batch.Results) + len(batch.Failures)
	if total == 0 {
		fmt.Fprintf(&b, "No PDF or JSON reports found in directory: %s\n", directory)
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Extracted %d of %d report(s) in directory: %s\n", len(batch.Results), total, directory)
	for _, r := range batch.Results {
		fmt.Fprintf(&b, "- %s\n", service.Summary(r.Record))
	}
	if len(batch.Failures) > 0 {
		fmt.Fprintf(&b, "\nFailed (%d):\n", len(batch.Failures))
		for _, f := range batch.Failures {
			fmt.Fprintf(&b, "- %s: %s\n", f.Path, describeError(f.Err))
		}
	}
	b.WriteString("\nRecords:\n")
	b.Write(body)
	return b.String(), nil
}

func (s *Server) formatServerInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server: %s\n", s.config.ServerName)
	fmt.Fprintf(&b, "Version: %s\n", s.config.Version)
	directory := s.service.Directory()
	if directory == "" {
		directory = "(unbounded)"
	}
	fmt.Fprintf(&b, "Report directory: %s\n", directory)
	fmt.Fprintf(&b, "Supported inputs: %s\n", strings.Join(document.SupportedExtensions(), ", "))

	b.WriteString("\nExtracted fields:\n")
	for _, col := range export.Columns() {
		fmt.Fprintf(&b, "- %s\n", col)
	}

	fmt.Fprintf(&b, "\nStatus flags: %s\n", strings.Join(extract.StatusFlags(), ", "))

	b.WriteString("\nAvailable tools:\n")
	for _, name := range descriptions.GetAllToolNames() {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}

// describeError adds a hint for the errors a caller can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, document.ErrNoContent):
		return err.Error() + " (the document has no extractable text or tables; scanned reports need OCR first)"
	default:
		return err.Error()
	}
}

// Run serves MCP over stdin and stdout until ctx is done or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("server.started",
		zap.String("mode", s.config.Mode),
		zap.String("directory", s.service.Directory()),
		zap.String("version", s.config.Version),
	)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
