package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/liveview/internal/crypto"
	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/internal/server/feed"
	"github.com/iudanet/liveview/internal/server/handlers"
	"github.com/iudanet/liveview/internal/server/jwt"
	"github.com/iudanet/liveview/internal/server/middleware"
	"github.com/iudanet/liveview/internal/server/storage"
	"github.com/iudanet/liveview/internal/server/storage/sqlite"
	"github.com/iudanet/liveview/internal/validation"

	"github.com/google/uuid"
)

const (
	// Жесткий лимит на логин против перебора паролей
	loginRateLimit  = 5
	loginRateWindow = time.Minute

	// Общий лимит на остальные эндпоинты
	defaultRateLimit  = 120
	defaultRateWindow = time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config задает параметры HTTP сервера
type Config struct {
	Addr           string
	DatabasePath   string
	JWTSecret      string
	Version        string
	AccessTokenTTL time.Duration
}

// Server объединяет хранилище, feed hub и HTTP обработчики
type Server struct {
	logger     *slog.Logger
	storage    *sqlite.Storage
	hub        *feed.Hub
	httpServer *http.Server
}

// New создает сервер: открывает хранилище, собирает обработчики и роутер
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	hub := feed.NewHub(logger)
	jwtSvc := jwt.NewService(cfg.JWTSecret, cfg.AccessTokenTTL)

	authHandler := handlers.NewAuthHandler(logger, store, jwtSvc)
	recordsHandler := handlers.NewRecordsHandler(logger, store, hub)
	feedHandler := handlers.NewFeedHandler(logger, hub)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version)

	router := buildRoutes(logger, jwtSvc, authHandler, recordsHandler, feedHandler, healthHandler)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger:     logger,
		storage:    store,
		hub:        hub,
		httpServer: httpServer,
	}, nil
}

// buildRoutes собирает роутер и цепочку middleware.
// Защищенные эндпоинты оборачиваются в auth, логин получает жесткий
// rate limit, health check не логируется.
func buildRoutes(
	logger *slog.Logger,
	jwtSvc *jwt.Service,
	authHandler *handlers.AuthHandler,
	recordsHandler *handlers.RecordsHandler,
	feedHandler *handlers.FeedHandler,
	healthHandler *handlers.HealthHandler,
) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.AuthMiddleware(logger, jwtSvc)

	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/records", auth(http.HandlerFunc(recordsHandler.List)))
	mux.Handle("POST /api/v1/records", auth(http.HandlerFunc(recordsHandler.Create)))
	mux.Handle("PATCH /api/v1/records/{id}", auth(http.HandlerFunc(recordsHandler.UpdateFields)))
	mux.Handle("POST /api/v1/records/{id}/status", auth(http.HandlerFunc(recordsHandler.ChangeStatus)))
	mux.Handle("GET /api/v1/feed", auth(http.HandlerFunc(feedHandler.Serve)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	limits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/login", Requests: loginRateLimit, Window: loginRateWindow},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitByPathMiddleware(limits, defaultRateLimit, defaultRateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}

// Handler возвращает собранный HTTP handler (используется в тестах)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// EnsureOperator создает учетную запись оператора, если ее еще нет.
// Повторный вызов с существующим username не считается ошибкой.
func (s *Server) EnsureOperator(ctx context.Context, username, password string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	operator := &models.Operator{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.storage.CreateOperator(ctx, operator); err != nil {
		if errors.Is(err, storage.ErrOperatorAlreadyExists) {
			s.logger.InfoContext(ctx, "Operator already exists", slog.String("username", username))
			return nil
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}

	s.logger.InfoContext(ctx, "Operator created", slog.String("username", username))
	return nil
}

// Run запускает HTTP сервер и блокируется до отмены контекста.
// Контекст запуска становится базовым для всех запросов: при
// остановке сервера долгоживущие feed соединения завершаются сами.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer.BaseContext = func(net.Listener) context.Context {
		return ctx
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "Server listening", slog.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.WarnContext(ctx, "Graceful shutdown did not complete, forcing close", slog.Any("error", err))
		_ = s.httpServer.Close()
	}

	// Дожидаемся завершения ListenAndServe
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Close освобождает ресурсы сервера
func (s *Server) Close() error {
	return s.storage.Close()
}
