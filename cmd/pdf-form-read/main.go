package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/pflag"

	"github.com/a3tai/pdf-form-read/internal/config"
	"github.com/a3tai/pdf-form-read/internal/logging"
	"github.com/a3tai/pdf-form-read/internal/mcp"
	"github.com/a3tai/pdf-form-read/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// pdfcpu would otherwise create its configuration directory on first use
	api.DisableConfigDir()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	if hasVersionFlag(args) {
		printVersion(stdout)
		return 0
	}

	cfg, err := config.Load(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 2
	}

	if version != "dev" {
		cfg.Version = version
	}

	// Logs always go to stderr so they never mix with the table or the
	// MCP protocol on stdout
	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.IsDebug() {
		logger.Debug("configuration loaded", "config", cfg.String())
	}

	p, err := pipeline.New(pipeline.Options{
		MaxFileSize: cfg.MaxFileSize,
		Format:      cfg.Format,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create pipeline: %v\n", err)
		return 1
	}

	if cfg.IsStdioMode() {
		return runStdioMode(cfg, p, logger)
	}

	if cfg.ShowFields {
		return runFieldsDump(stdout, p, cfg)
	}

	if !p.RunFile(stdout, cfg.InputPath, cfg.MaxFileSize) {
		return 1
	}
	return 0
}

// runFieldsDump prints the raw form fields of the input file
func runFieldsDump(w io.Writer, p *pipeline.Pipeline, cfg *config.Config) int {
	upload, err := pipeline.UploadFromFile(cfg.InputPath, cfg.MaxFileSize)
	if err != nil {
		pipeline.Report(w, err)
		return 1
	}

	fields, err := p.Fields(upload)
	if err != nil {
		pipeline.Report(w, err)
		return 1
	}

	fmt.Fprint(w, pipeline.FormatFields(upload.Files[0].Name, fields))
	return 0
}

// runStdioMode serves MCP until stdin closes or a signal arrives
func runStdioMode(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) int {
	server, err := mcp.NewServer(cfg, p, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		return 0
	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
	}
	return 0
}

func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "PDF Form Read\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
