package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/liveview/internal/crypto"
	"github.com/iudanet/liveview/internal/server/jwt"
	"github.com/iudanet/liveview/internal/server/storage"
	"github.com/iudanet/liveview/internal/validation"
	"github.com/iudanet/liveview/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации операторов
type AuthHandler struct {
	logger    *slog.Logger
	operators storage.OperatorStorage
	jwtSvc    *jwt.Service
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, operators storage.OperatorStorage, jwtSvc *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		operators: operators,
		jwtSvc:    jwtSvc,
	}
}

// Login обрабатывает POST /api/v1/auth/login
// Аутентификация оператора по username и паролю
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация username
	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		sendError(h.logger, w, "password is required", http.StatusBadRequest)
		return
	}

	// Получаем оператора из БД
	operator, err := h.operators.GetOperatorByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrOperatorNotFound) {
			h.logger.WarnContext(ctx, "login failed: operator not found", slog.String("username", req.Username))
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get operator", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Проверяем пароль против argon2id хеша
	if err := crypto.VerifyPassword(req.Password, operator.PasswordHash); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", req.Username))
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to verify password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Генерируем JWT access token
	accessToken, expiresIn, err := h.jwtSvc.GenerateAccessToken(operator.ID, operator.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "operator logged in successfully",
		slog.String("username", operator.Username),
		slog.String("operator_id", operator.ID))

	resp := api.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
