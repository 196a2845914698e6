package storage

import (
	"context"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage defines interface for storing the operator session on
// the client. Это нижний слой хранения: работает с данными как есть,
// без сетевых вызовов и без проверки подписи токена.
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session.
	// Returns ErrSessionNotFound if no session exists.
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error

	// IsActive checks if a stored session exists and has not expired
	IsActive(ctx context.Context) (bool, error)
}

// Session represents a logged-in operator session persisted between
// CLI invocations.
type Session struct {
	Username    string `json:"username"`     // username оператора
	AccessToken string `json:"access_token"` // JWT access token
	ServerURL   string `json:"server_url"`   // адрес сервера, выдавшего сессию
	ExpiresAt   int64  `json:"expires_at"`   // unix-время истечения токена (0 = неизвестно)
}
