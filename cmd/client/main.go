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

	"github.com/iudanet/liveview/internal/client/api"
	"github.com/iudanet/liveview/internal/client/auth"
	"github.com/iudanet/liveview/internal/client/cli"
	"github.com/iudanet/liveview/internal/client/iocli"
	"github.com/iudanet/liveview/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOrDefault("LIVEVIEW_SERVER", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", envOrDefault("LIVEVIEW_CLIENT_DB", "liveview-client.db"), "Path to local session database")
	password := flag.String("password", "", "Operator password (not recommended, use LIVEVIEW_PASSWORD or --password-file)")
	passwordFile := flag.String("password-file", "", "Path to file containing operator password")
	logLevel := flag.String("log-level", envOrDefault("LIVEVIEW_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		stdio.Println(usageHint())
		os.Exit(1)
	}
	command := args[0]

	// Контекст отменяется по Ctrl+C, что завершает watch аккуратно
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Локальное хранилище сессии
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// API клиент подписывает запросы токеном сохраненной сессии
	tokens := auth.NewSessionProvider(boltStorage)
	apiClient := api.NewClient(*serverURL, tokens)

	c := cli.New(stdio, logger, apiClient, boltStorage, *serverURL, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usageHint() string {
	return "Usage: liveview [OPTIONS] COMMAND\nRun 'liveview help' to list commands."
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
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func printVersion() {
	fmt.Printf("LiveView Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
