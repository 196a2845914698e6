package api

// Действия кадров живого канала. Кадры с неизвестным действием
// клиент молча отбрасывает.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionPing          = "ping" // keepalive, без record и sequence
)

// Frame представляет один кадр живого канала (JSON text message).
// Для действий created/updated/status_changed обязательны record.id
// и sequence > 0; ping не несёт ни того, ни другого.
type Frame struct {
	Record   *Record `json:"record,omitempty"`
	Action   string  `json:"action"`
	Sequence int64   `json:"sequence,omitempty"`
}
