package models

import "fmt"

// Action тип события об изменении записи, присланного по живому каналу
type Action string

// Action константы для типов событий
const (
	ActionCreated       Action = "created"        // создана новая запись
	ActionUpdated       Action = "updated"        // изменены поля существующей записи
	ActionStatusChanged Action = "status_changed" // изменён статус записи
)

// UpdateEvent представляет одно типизированное событие живого канала.
// Sequence — монотонно растущий счётчик в рамках канала, назначается
// сервером; используется для отсечения дубликатов и обнаружения
// пропусков.
type UpdateEvent struct {
	Record   *Record `json:"record"`
	Action   Action  `json:"action"`
	Sequence int64   `json:"sequence"`
}

// ConnectionState состояние жизненного цикла живого канала
type ConnectionState string

// ConnectionState константы
const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFailed       ConnectionState = "failed"
)

// ConnectionStatus представляет текущее состояние соединения,
// публикуемое менеджером соединения подписчикам. Attempt заполняется
// только в состоянии Reconnecting, Err — только в состоянии Failed
// (терминальная ошибка, снимается ручным повтором).
type ConnectionStatus struct {
	Err     error           `json:"-"`
	State   ConnectionState `json:"state"`
	Attempt int             `json:"attempt,omitempty"`
}

// String возвращает человекочитаемое представление статуса
func (s ConnectionStatus) String() string {
	if s.State == StateReconnecting {
		return fmt.Sprintf("%s(%d)", s.State, s.Attempt)
	}
	if s.State == StateFailed && s.Err != nil {
		return fmt.Sprintf("%s: %v", s.State, s.Err)
	}
	return string(s.State)
}
