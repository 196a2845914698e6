package channel

import "context"

//go:generate moq -out conn_mock.go . Conn

// Conn представляет одно установленное соединение живого канала.
// Реализация поверх WebSocket находится в websocket.go; тесты
// подставляют свою.
type Conn interface {
	// Read блокируется до следующего кадра с сервера.
	// Возвращает ошибку при обрыве соединения или отмене контекста.
	Read(ctx context.Context) ([]byte, error)

	// Close закрывает соединение. Безопасен при повторном вызове.
	Close() error
}

// DialFunc открывает новое соединение живого канала.
// token передается серверу при рукопожатии.
type DialFunc func(ctx context.Context, url, token string) (Conn, error)
