package mcp

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-form-read/internal/config"
	"github.com/a3tai/pdf-form-read/internal/form/formtest"
	"github.com/a3tai/pdf-form-read/internal/pipeline"
	"github.com/a3tai/pdf-form-read/internal/record"
)

func testForm() []byte {
	return formtest.Build(
		formtest.Text("header_nome", "ana silva"),
		formtest.Text("header_cpf", "111.444.777-35"),
		formtest.Radio("q1_radio_group", "C3"),
		formtest.Text("q2_num", "7"),
	)
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio
	cfg.PDFDirectory = dir
	cfg.Format = record.FormatCSV
	cfg.MaxFileSize = 1024 * 1024

	p, err := pipeline.New(pipeline.Options{MaxFileSize: cfg.MaxFileSize, Format: cfg.Format})
	require.NoError(t, err)

	s, err := NewServer(cfg, p, nil)
	require.NoError(t, err)
	return s, dir
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	cfg := config.DefaultConfig()
	p, err := pipeline.New(pipeline.Options{})
	require.NoError(t, err)

	_, err = NewServer(nil, p, nil)
	assert.Error(t, err)

	_, err = NewServer(cfg, nil, nil)
	assert.Error(t, err)

	cfg.PDFDirectory = ""
	_, err = NewServer(cfg, p, nil)
	assert.Error(t, err)

	cfg.PDFDirectory = t.TempDir()
	s, err := NewServer(cfg, p, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
	assert.Equal(t, cfg.PDFDirectory, s.pathValidator.GetConfiguredDirectory())
}

func TestHandleFormVerify(t *testing.T) {
	s, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prova.pdf"), testForm(), 0o600))

	want := "Item,Resposta\nNome,Ana Silva\nCPF,111.444.777-35\nQuestão 1,C\nQuestão 2,7\n"

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "relative path", args: map[string]any{"path": "prova.pdf"}},
		{name: "absolute path", args: map[string]any{"path": filepath.Join(dir, "prova.pdf")}},
		{name: "base64 content", args: map[string]any{
			"content": base64.StdEncoding.EncodeToString(testForm()),
			"name":    "prova.pdf",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleFormVerify(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			require.False(t, result.IsError, extractTextFromResult(result))
			assert.Equal(t, want, extractTextFromResult(result))
		})
	}
}

func TestHandleFormVerify_Failures(t *testing.T) {
	s, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "printed.pdf"), formtest.BuildWithoutForm(), 0o600))

	tests := []struct {
		name     string
		args     map[string]any
		contains string
	}{
		{name: "no arguments", args: map[string]any{}, contains: "either path or content is required"},
		{name: "both arguments", args: map[string]any{"path": "a.pdf", "content": "eA=="}, contains: "not both"},
		{name: "bad base64", args: map[string]any{"content": "!!"}, contains: "not valid base64"},
		{name: "outside directory", args: map[string]any{"path": "../../etc/passwd"}, contains: "access denied"},
		{name: "missing file", args: map[string]any{"path": "missing.pdf"}, contains: "failed to open file"},
		{name: "printed document", args: map[string]any{"path": "printed.pdf"}, contains: "[FORM_READ]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleFormVerify(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			require.True(t, result.IsError)

			text := extractTextFromResult(result)
			assert.Contains(t, text, pipeline.GuidanceMessage)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestHandleFormFields(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleFormFields(context.Background(), callRequest(map[string]any{
		"content": base64.StdEncoding.EncodeToString(testForm()),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "Form fields in upload.pdf (4):\n"+
		"  header_nome = ana silva\n"+
		"  header_cpf = 111.444.777-35\n"+
		"  q1_radio_group = /C3\n"+
		"  q2_num = 7\n", extractTextFromResult(result))
}

func TestHandleFormServerInfo(t *testing.T) {
	s, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("%PDF-1.7"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.PDF"), []byte("%PDF-1.7"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	result, err := s.handleFormServerInfo(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "pdf-form-read v1.0.0")
	assert.Contains(t, text, "2 PDF files found")
	assert.Contains(t, text, "1. a.PDF (8 bytes)")
	assert.Contains(t, text, "2. b.pdf (8 bytes)")
	assert.NotContains(t, text, "notes.txt")
	assert.Contains(t, text, "• form_verify:")
	assert.Contains(t, text, "Output Format: csv")
}

// extractTextFromResult returns the first text content of a result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
