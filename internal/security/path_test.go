package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("Expected error for empty directory")
	}

	validator, err := NewPathValidator("/non/existent/path")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if validator.GetConfiguredDirectory() != "/non/existent/path" {
		t.Errorf("GetConfiguredDirectory() = %s", validator.GetConfiguredDirectory())
	}
}

func TestValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	outsideDir := t.TempDir()

	inside := filepath.Join(tempDir, "prova.pdf")
	if err := os.WriteFile(inside, []byte("%PDF-1.7"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	outside := filepath.Join(outsideDir, "other.pdf")
	if err := os.WriteFile(outside, []byte("%PDF-1.7"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	link := filepath.Join(tempDir, "link.pdf")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "file inside directory", path: inside},
		{name: "directory itself", path: tempDir},
		{name: "not yet existing file inside", path: filepath.Join(tempDir, "new.pdf")},
		{name: "empty path", path: "", wantError: true},
		{name: "file outside directory", path: outside, wantError: true},
		{name: "parent traversal", path: filepath.Join(tempDir, "..", filepath.Base(outsideDir), "other.pdf"), wantError: true},
		{name: "symlink escaping directory", path: link, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePath(tt.path)
			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tempDir := t.TempDir()
	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	got, err := validator.NormalizePath("prova.pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != filepath.Join(tempDir, "prova.pdf") {
		t.Errorf("NormalizePath() = %s", got)
	}

	if _, err := validator.NormalizePath("../escape.pdf"); err == nil {
		t.Error("Expected error for traversal outside directory")
	}

	if _, err := validator.NormalizePath("\x00"); err == nil {
		t.Error("Expected error for path made of null bytes")
	}

	if _, err := validator.NormalizePath("."); err == nil {
		t.Error("Expected error for directory path")
	}
}
