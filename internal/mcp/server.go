// Package mcp exposes the form pipeline as MCP tools over standard I/O.
package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/pdf-form-read/internal/config"
	"github.com/a3tai/pdf-form-read/internal/descriptions"
	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
	"github.com/a3tai/pdf-form-read/internal/logging"
	"github.com/a3tai/pdf-form-read/internal/pipeline"
	"github.com/a3tai/pdf-form-read/internal/security"
)

const defaultUploadName = "upload.pdf"

// Server represents the MCP server instance
type Server struct {
	config        *config.Config
	pipeline      *pipeline.Pipeline
	pathValidator *security.PathValidator
	logger        *slog.Logger
	mcpServer     *server.MCPServer
}

// NewServer creates a new MCP server instance. A nil logger discards output.
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	pathValidator, err := security.NewPathValidator(cfg.PDFDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:        cfg,
		pipeline:      p,
		pathValidator: pathValidator,
		logger:        logger.With("component", "mcp"),
		mcpServer:     mcpServer,
	}

	s.registerTools()

	return s, nil
}

// uploadArguments are shared by the tools that read a form
func uploadArguments() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path",
			mcp.Description("Path to the PDF form, absolute or relative to the configured directory"),
		),
		mcp.WithString("content",
			mcp.Description("Base64-encoded PDF content, used instead of path"),
		),
		mcp.WithString("name",
			mcp.Description("File name reported for base64 content"),
		),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	verifyTool := mcp.NewTool("form_verify",
		append([]mcp.ToolOption{mcp.WithDescription(descriptions.GetToolDescription("form_verify"))},
			uploadArguments()...)...,
	)
	s.mcpServer.AddTool(verifyTool, s.handleFormVerify)

	fieldsTool := mcp.NewTool("form_fields",
		append([]mcp.ToolOption{mcp.WithDescription(descriptions.GetToolDescription("form_fields"))},
			uploadArguments()...)...,
	)
	s.mcpServer.AddTool(fieldsTool, s.handleFormFields)

	infoTool := mcp.NewTool("form_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("form_server_info")),
	)
	s.mcpServer.AddTool(infoTool, s.handleFormServerInfo)
}

func (s *Server) handleFormVerify(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	upload, err := s.loadUpload(request)
	if err != nil {
		return s.failure("form_verify", err), nil
	}

	table, err := s.pipeline.Process(upload)
	if err != nil {
		return s.failure("form_verify", err), nil
	}

	text, err := s.pipeline.Render(table)
	if err != nil {
		return s.failure("form_verify", err), nil
	}

	s.logger.Info("form verified", "upload", upload.String(), "rows", len(table.Rows))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFormFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	upload, err := s.loadUpload(request)
	if err != nil {
		return s.failure("form_fields", err), nil
	}

	fields, err := s.pipeline.Fields(upload)
	if err != nil {
		return s.failure("form_fields", err), nil
	}

	return mcp.NewToolResultText(pipeline.FormatFields(upload.Files[0].Name, fields)), nil
}

func (s *Server) handleFormServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := listPDFs(s.config.PDFDirectory)
	if err != nil {
		s.logger.Warn("failed to list directory", "dir", s.config.PDFDirectory, "error", err)
	}
	return mcp.NewToolResultText(s.formatServerInfo(files)), nil
}

// loadUpload builds the upload from either the path or the content argument
func (s *Server) loadUpload(request mcp.CallToolRequest) (pipeline.Upload, error) {
	args := request.GetArguments()
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)

	switch {
	case path != "" && content != "":
		return pipeline.Upload{}, ferrors.New(ferrors.ErrorTypeInvalidUpload, "provide either path or content, not both")

	case content != "":
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return pipeline.Upload{}, ferrors.Wrap(ferrors.ErrorTypeInvalidUpload, err, "content is not valid base64")
		}
		if int64(len(data)) > s.config.MaxFileSize {
			return pipeline.Upload{}, ferrors.Newf(ferrors.ErrorTypeInvalidUpload,
				"file too large (max: %d bytes)", s.config.MaxFileSize)
		}
		name, _ := args["name"].(string)
		if name == "" {
			name = defaultUploadName
		}
		return pipeline.NewUpload(filepath.Base(name), data), nil

	case path != "":
		resolved, err := s.pathValidator.NormalizePath(path)
		if err != nil {
			return pipeline.Upload{}, ferrors.Wrap(ferrors.ErrorTypeInvalidUpload, err, "access denied")
		}
		return pipeline.UploadFromFile(resolved, s.config.MaxFileSize)

	default:
		return pipeline.Upload{}, ferrors.New(ferrors.ErrorTypeInvalidUpload, "either path or content is required")
	}
}

// failure reports err the same way the command line does: guidance first,
// then the error
func (s *Server) failure(tool string, err error) *mcp.CallToolResult {
	s.logger.Error("tool failed", "tool", tool, "error_type", ferrors.TypeOf(err).String(), "error", err)

	var b strings.Builder
	pipeline.Report(&b, err)
	return mcp.NewToolResultError(b.String())
}

type pdfFile struct {
	Name string
	Size int64
}

// listPDFs returns the PDF files directly inside dir, sorted by name
func listPDFs(dir string) ([]pdfFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []pdfFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, pdfFile{Name: entry.Name(), Size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *Server) formatServerInfo(files []pdfFile) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🧾 Output Format: %s\n\n", s.config.Format)

	if len(files) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(files))
		for i, file := range files {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(files)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("• %s: %s\n", name, summary)
	}

	return text
}

// Run serves MCP over standard I/O until stdin closes
func (s *Server) Run(_ context.Context) error {
	s.logger.Info("starting MCP server in stdio mode", "dir", s.config.PDFDirectory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
