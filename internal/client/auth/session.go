package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/liveview/internal/client/storage"
)

// SessionProvider читает токен из локального хранилища сессии,
// заполненного командой login.
type SessionProvider struct {
	store storage.SessionStorage
}

// NewSessionProvider создает провайдер поверх хранилища сессии
func NewSessionProvider(store storage.SessionStorage) *SessionProvider {
	return &SessionProvider{store: store}
}

// Token возвращает токен сохранённой сессии.
// Возвращает ErrAuthUnavailable, если сессии нет или она истекла:
// в этом случае оператору нужно выполнить login заново.
func (p *SessionProvider) Token(ctx context.Context) (Token, error) {
	session, err := p.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return Token{}, ErrAuthUnavailable
		}
		return Token{}, fmt.Errorf("read session: %w", err)
	}

	if session.AccessToken == "" {
		return Token{}, ErrAuthUnavailable
	}

	expiresAt := expiryHint(session)
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		return Token{}, fmt.Errorf("session expired at %s: %w",
			expiresAt.Format(time.RFC3339), ErrAuthUnavailable)
	}

	return Token{Value: session.AccessToken, ExpiresAt: expiresAt}, nil
}

// expiryHint определяет время истечения токена: явное поле сессии
// либо клейм exp из самого токена. Подпись не проверяется — это
// подсказка для планирования переподключений, авторизацию решает
// сервер.
func expiryHint(session *storage.Session) time.Time {
	if session.ExpiresAt > 0 {
		return time.Unix(session.ExpiresAt, 0)
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, &claims); err == nil {
		if claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time
		}
	}

	return time.Time{}
}
