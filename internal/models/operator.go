package models

import "time"

// Operator представляет оператора админ-панели на стороне сервера
type Operator struct {
	ID           string    `json:"id"`            // UUID оператора
	Username     string    `json:"username"`      // уникальный username
	PasswordHash string    `json:"password_hash"` // argon2id хеш пароля (encoded форма)
	CreatedAt    time.Time `json:"created_at"`    // время создания
}
