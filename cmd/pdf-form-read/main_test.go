package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-form-read/internal/form/formtest"
	"github.com/a3tai/pdf-form-read/internal/pipeline"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func writeForm(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prova.pdf")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestRun(t *testing.T) {
	form := writeForm(t, formtest.Build(
		formtest.Text("header_nome", "joão"),
		formtest.Text("header_cpf", "00000000604"),
		formtest.Radio("q1_radio_group", "A1"),
	))
	printed := writeForm(t, formtest.BuildWithoutForm())

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		contains   string
	}{
		{
			name:     "version",
			args:     []string{"--version"},
			contains: "Version: dev",
		},
		{
			name:     "help",
			args:     []string{"--help"},
			wantCode: 0,
		},
		{
			name:     "missing input",
			args:     []string{},
			wantCode: 2,
		},
		{
			name:       "csv table",
			args:       []string{"--format=csv", form},
			wantStdout: "Item,Resposta\nNome,João\nCPF,000.000.006-04\nQuestão 1,A\n",
		},
		{
			name:     "fields dump",
			args:     []string{"--fields", form},
			contains: "q1_radio_group = /A1",
		},
		{
			name:     "printed document",
			args:     []string{printed},
			wantCode: 1,
			contains: pipeline.GuidanceMessage,
		},
		{
			name:     "fields dump of printed document",
			args:     []string{"--fields", printed},
			wantCode: 1,
			contains: "Erro: [FORM_READ]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			if tt.wantStdout != "" {
				assert.Equal(t, tt.wantStdout, stdout.String())
			}
			if tt.contains != "" {
				assert.Contains(t, stdout.String(), tt.contains)
			}
		})
	}
}

func TestHasVersionFlag(t *testing.T) {
	assert.True(t, hasVersionFlag([]string{"prova.pdf", "-v"}))
	assert.False(t, hasVersionFlag([]string{"--verbose"}))
}

func TestRun_DebugLogsConfiguration(t *testing.T) {
	form := writeForm(t, formtest.Build(
		formtest.Text("header_nome", "ana"),
		formtest.Text("header_cpf", "52998224725"),
	))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"--loglevel=debug", form}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "configuration loaded")

	stdout.Reset()
	stderr.Reset()
	require.Equal(t, 0, run([]string{form}, &stdout, &stderr))
	assert.NotContains(t, stderr.String(), "configuration loaded")
}
