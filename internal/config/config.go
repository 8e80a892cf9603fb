package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/infratrack/internal/export"
	"github.com/a3tai/infratrack/internal/logging"
)

const (
	// Mode constants
	ModeStdio   = "stdio"
	ModeExtract = "extract"

	// Default values
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logging.FormatJSON
	DefaultFormat      = string(export.FormatJSON)
	DefaultWorkers     = 4
	MaxWorkers         = 64
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "INFRATRACK"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the progress report extractor
type Config struct {
	Mode string // "stdio" or "extract"

	// Directory bounds the files the MCP tools may open. In extract mode
	// it is the input when no positional arguments are given.
	Directory string

	// Extract mode output
	Format string
	Output string // empty means stdout
	Inputs []string

	Workers     int
	MaxFileSize int64

	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:        ModeStdio,
		Directory:   currentDir,
		Format:      DefaultFormat,
		Workers:     DefaultWorkers,
		MaxFileSize: DefaultMaxFileSize,
		Version:     "1.0.0",
		ServerName:  "infratrack",
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if checkVersionFlag() {
		return nil, ErrVersionRequested
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Inputs = pflag.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' for the MCP server, 'extract' to process files and exit")
	pflag.String("dir", cfg.Directory, "Directory containing progress reports")
	pflag.String("format", cfg.Format, "Export format in extract mode (json, csv, xlsx)")
	pflag.StringP("output", "o", cfg.Output, "Output file in extract mode (default stdout)")
	pflag.Int("workers", cfg.Workers, "Documents processed concurrently in batch extraction")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum report file size in bytes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (json, console)")
}

func bindFlagsToViper() {
	for _, name := range []string{"mode", "dir", "format", "output", "workers", "maxfilesize", "loglevel", "logformat"} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ninfratrack - structured data extraction from infrastructure progress reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                        "+
			"# MCP stdio server, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/reports                     "+
			"# MCP stdio server over a report directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=extract metro.pdf highway.json  # extract two reports as JSON\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=extract --format=xlsx -o out.xlsx /srv/reports\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_DIR         Report directory\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_FORMAT      Export format\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_OUTPUT      Output file\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_WORKERS     Batch concurrency\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_MAXFILESIZE Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  INFRATRACK_LOGFORMAT   Log format\n")
	}
}

func checkVersionFlag() bool {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Directory = viper.GetString("dir")
	cfg.Format = strings.ToLower(viper.GetString("format"))
	cfg.Output = viper.GetString("output")
	cfg.Workers = viper.GetInt("workers")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
}

// Validate checks if the configuration is valid. In stdio mode a missing
// report directory is created.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeExtract {
		return errors.New("mode must be either 'stdio' or 'extract'")
	}

	if c.Directory == "" {
		return errors.New("report directory cannot be empty")
	}

	if c.Mode == ModeStdio {
		if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
			if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create report directory %s: %w", c.Directory, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access report directory %s: %w", c.Directory, err)
		}
	}

	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %s (must be one of: json, csv, xlsx)", c.Format)
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", MaxWorkers)
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

	if c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatConsole {
		return fmt.Errorf("invalid log format: %s (must be one of: json, console)", c.LogFormat)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP stdio server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsExtractMode returns true when running as a one-shot extractor
func (c *Config) IsExtractMode() bool {
	return c.Mode == ModeExtract
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Directory: %s, Format: %s, Output: %s, Workers: %d, "+
		"MaxFileSize: %d, LogLevel: %s, LogFormat: %s}",
		c.Mode, c.Directory, c.Format, c.Output, c.Workers, c.MaxFileSize, c.LogLevel, c.LogFormat)
}
