package auth

import (
	"context"
	"errors"
	"time"
)

//go:generate moq -out provider_mock.go . TokenProvider

// ErrAuthUnavailable означает, что учётных данных нет или сессия
// истекла. Для менеджера соединения ошибка фатальна только для
// текущей попытки: следующая по расписанию попытка запросит токен
// заново.
var ErrAuthUnavailable = errors.New("auth credentials unavailable")

// Token непрозрачный токен доступа с необязательной подсказкой
// о времени истечения
type Token struct {
	ExpiresAt time.Time // нулевое значение = подсказка неизвестна
	Value     string
}

// TokenProvider выдаёт действующий токен доступа. Менеджер соединения
// вызывает Token перед каждой попыткой подключения и никогда не
// кеширует результат между попытками.
type TokenProvider interface {
	// Token возвращает текущий токен доступа.
	// Возвращает ErrAuthUnavailable, если учётных данных нет.
	Token(ctx context.Context) (Token, error)
}
