package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iudanet/liveview/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", envOrDefault("LIVEVIEW_ADDR", ":8080"), "HTTP listen address")
	dbPath := flag.String("db", envOrDefault("LIVEVIEW_DB", "liveview.db"), "Path to SQLite database")
	jwtSecret := flag.String("jwt-secret", os.Getenv("LIVEVIEW_JWT_SECRET"), "Secret for signing access tokens")
	logLevel := flag.String("log-level", envOrDefault("LIVEVIEW_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	tokenTTL := flag.Duration("token-ttl", 8*time.Hour, "Access token lifetime")
	operator := flag.String("operator", os.Getenv("LIVEVIEW_OPERATOR"), "Operator username to create on startup (optional)")
	operatorPassword := flag.String("operator-password", os.Getenv("LIVEVIEW_OPERATOR_PASSWORD"), "Password for the seeded operator")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "jwt secret is required: pass -jwt-secret or set LIVEVIEW_JWT_SECRET")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))

	// Контекст отменяется по SIGINT/SIGTERM, сервер завершается gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := server.Config{
		Addr:           *addr,
		DatabasePath:   *dbPath,
		JWTSecret:      *jwtSecret,
		Version:        Version,
		AccessTokenTTL: *tokenTTL,
	}

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Failed to close server", "error", err)
		}
	}()

	// Создаем стартового оператора, если задан
	if *operator != "" {
		if err := srv.EnsureOperator(ctx, *operator, *operatorPassword); err != nil {
			logger.Error("Failed to create operator", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Starting server", "version", Version, "addr", *addr)

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printVersion() {
	fmt.Printf("LiveView Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
