package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/liveview/internal/server/handlers"
	"github.com/iudanet/liveview/internal/server/jwt"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Токен принимается из заголовка Authorization (Bearer) либо из
// query-параметра access_token: браузерный WebSocket не умеет
// выставлять заголовки при handshake живого канала.
func AuthMiddleware(logger *slog.Logger, jwtSvc *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractToken(r)
			if !ok {
				logger.Warn("Missing or malformed credentials", "path", r.URL.Path)
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Валидируем токен
			claims, err := jwtSvc.ValidateAccessToken(tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			// Добавляем данные из токена в контекст
			ctx := context.WithValue(r.Context(), handlers.OperatorIDKey, claims.OperatorID)
			ctx = context.WithValue(ctx, handlers.UsernameKey, claims.Username)

			logger.Debug("Operator authenticated", "operator_id", claims.OperatorID, "username", claims.Username)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken достает access token из запроса.
// Приоритет у заголовка Authorization; query-параметр — запасной
// путь для WebSocket handshake.
func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Ожидаем формат: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, true
	}

	return "", false
}
