package auth

import "context"

// StaticProvider отдаёт фиксированный токен, переданный флагом или
// переменной окружения. Удобен для интеграционных тестов и скриптов.
type StaticProvider struct {
	token string
}

// NewStatic создает провайдер с фиксированным токеном
func NewStatic(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// Token возвращает заданный токен без подсказки об истечении
func (p *StaticProvider) Token(ctx context.Context) (Token, error) {
	if p.token == "" {
		return Token{}, ErrAuthUnavailable
	}
	return Token{Value: p.token}, nil
}
