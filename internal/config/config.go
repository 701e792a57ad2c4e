package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/pdf-form-read/internal/record"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultMode        = ModeCLI
	DefaultFormat      = record.FormatText
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultMaxFileSize = 20 * 1024 * 1024 // 20MB

	// EnvPrefix prefixes every environment variable, e.g. PDF_FORM_FORMAT
	EnvPrefix = "PDF_FORM"
)

// Config holds all configuration for the form reader
type Config struct {
	Mode string // "cli" or "stdio"

	// CLI configuration
	InputPath  string
	Format     string
	ShowFields bool

	// MCP configuration
	PDFDirectory string
	ServerName   string

	// Application configuration
	Version     string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         DefaultMode,
		Format:       DefaultFormat,
		PDFDirectory: currentDir,
		ServerName:   "pdf-form-read",
		Version:      "1.0.0",
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// Load parses args and PDF_FORM_* environment variables into a validated
// configuration. Flags win over environment, environment over defaults.
func Load(args []string, usage io.Writer) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	flags := pflag.NewFlagSet("pdf-form-read", pflag.ContinueOnError)
	flags.SetOutput(usage)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(flags, cfg)
	setupUsageMessage(flags, usage)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)
	cfg.InputPath = flags.Arg(0)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("fields", cfg.ShowFields)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Run mode: 'cli' to process one file, 'stdio' for an MCP server on standard I/O")
	flags.String("format", cfg.Format, "Output format: text, csv, json")
	flags.Bool("fields", cfg.ShowFields, "Print the raw form fields instead of the summary table")
	flags.String("dir", cfg.PDFDirectory, "Directory the MCP server may read PDF files from (stdio mode only)")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("logformat", cfg.LogFormat, "Log format (text, json)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(flags *pflag.FlagSet, w io.Writer) {
	flags.Usage = func() {
		fmt.Fprintf(w, "Usage: pdf-form-read [OPTIONS] <form.pdf>\n")
		fmt.Fprintf(w, "\nReads a filled-in exam form and prints its answers as a table.\n\n")
		fmt.Fprintf(w, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  pdf-form-read prova.pdf                     # text table\n")
		fmt.Fprintf(w, "  pdf-form-read --format=csv prova.pdf        # CSV export\n")
		fmt.Fprintf(w, "  pdf-form-read --fields prova.pdf            # raw field dump\n")
		fmt.Fprintf(w, "  pdf-form-read --mode=stdio --dir=/uploads   # MCP server\n")
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		fmt.Fprintf(w, "  PDF_FORM_MODE         Run mode\n")
		fmt.Fprintf(w, "  PDF_FORM_FORMAT       Output format\n")
		fmt.Fprintf(w, "  PDF_FORM_FIELDS       Print raw fields\n")
		fmt.Fprintf(w, "  PDF_FORM_DIR          MCP PDF directory\n")
		fmt.Fprintf(w, "  PDF_FORM_LOGLEVEL     Log level\n")
		fmt.Fprintf(w, "  PDF_FORM_LOGFORMAT    Log format\n")
		fmt.Fprintf(w, "  PDF_FORM_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Format = v.GetString("format")
	cfg.ShowFields = v.GetBool("fields")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI && c.InputPath == "" {
		return errors.New("a PDF file path is required in cli mode")
	}

	if c.Mode == ModeStdio && c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	switch c.Format {
	case record.FormatText, record.FormatCSV, record.FormatJSON:
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, csv, json)", c.Format)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be one of: text, json)", c.LogFormat)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if the MCP server runs on standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputPath: %s, Format: %s, ShowFields: %t, PDFDirectory: %s, "+
		"LogLevel: %s, LogFormat: %s, MaxFileSize: %d}",
		c.Mode, c.InputPath, c.Format, c.ShowFields, c.PDFDirectory, c.LogLevel, c.LogFormat, c.MaxFileSize)
}
