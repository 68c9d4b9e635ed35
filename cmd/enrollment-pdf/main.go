package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/config"
	"github.com/a3tai/mcp-enrollment-pdf/internal/httpapi"
	"github.com/a3tai/mcp-enrollment-pdf/internal/logging"
	"github.com/a3tai/mcp-enrollment-pdf/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, logging.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("Starting with configuration", zap.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cfg, app, logger)
	} else {
		err = runStdioMode(ctx, cfg, app, logger)
	}
	if err != nil {
		logger.Error("Server error", zap.Error(err))
		os.Exit(1)
	}
}

// runServerMode serves the HTTP API until a shutdown signal arrives
func runServerMode(ctx context.Context, cfg *config.Config, app *app, logger *zap.Logger) error {
	server := httpapi.NewServer(app.service, logger)
	if err := server.ListenAndServe(ctx, cfg.Address()); err != nil {
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}

// runStdioMode serves MCP on stdin/stdout; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, cfg *config.Config, app *app, logger *zap.Logger) error {
	server, err := mcp.NewServer(cfg, app.service, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Enrollment PDF\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
