package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/infratrack/internal/config"
	"github.com/a3tai/infratrack/internal/export"
	"github.com/a3tai/infratrack/internal/logging"
	"github.com/a3tai/infratrack/internal/mcp"
	"github.com/a3tai/infratrack/internal/service"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// errNothingExtracted is returned when every input of an extract run failed.
var errNothingExtracted = errors.New("no report could be extracted")

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logging.Sync(logger) }()

	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	svc, err := service.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to create service", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsExtractMode() {
		err = runExtract(ctx, cfg, svc, logger, os.Stdout)
	} else {
		err = runStdio(ctx, cfg, svc, logger)
	}
	if err != nil {
		logger.Error("run failed", zap.String("mode", cfg.Mode), zap.Error(err))
		_ = logging.Sync(logger)
		os.Exit(1)
	}
}

// runStdio serves MCP on stdin/stdout until the client disconnects or a
// signal arrives.
func runStdio(ctx context.Context, cfg *config.Config, svc *service.Service, logger *zap.Logger) error {
	server, err := mcp.NewServer(cfg, svc, logger)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// runExtract processes the configured inputs and writes one export to the
// output file, or to stdout when none is set.
func runExtract(ctx context.Context, cfg *config.Config, svc *service.Service, logger *zap.Logger, stdout io.Writer) error {
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	inputs := cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{cfg.Directory}
	}

	batch, err := svc.ExtractPaths(ctx, inputs)
	if err != nil {
		return err
	}
	for _, f := range batch.Failures {
		logger.Warn("report skipped", zap.String("path", f.Path), zap.Error(f.Err))
	}
	if len(batch.Results) == 0 && len(batch.Failures) > 0 {
		return errNothingExtracted
	}

	if err := writeExport(cfg.Output, stdout, format, batch.Entries()); err != nil {
		return err
	}
	logger.Info("export written",
		zap.String("format", string(format)),
		zap.Int("records", len(batch.Results)),
		zap.Int("failed", len(batch.Failures)),
	)
	return nil
}

// writeExport writes entries to the named file, or to stdout when name is
// empty. Write and close errors are both returned.
func writeExport(name string, stdout io.Writer, format export.Format, entries []export.Entry) (err error) {
	if name == "" {
		return export.Write(stdout, format, entries)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	return export.Write(f, format, entries)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "infratrack\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
