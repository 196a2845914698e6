package models

import "time"

// Record представляет одну запись административной коллекции
// (например, транзакцию). Записи с одинаковым ID — одна и та же
// логическая сущность; авторитетна самая свежая версия по UpdatedAt,
// при равных временах выигрывает более поздняя по порядку поступления.
type Record struct {
	CreatedAt time.Time         `json:"created_at"`       // CreatedAt время создания записи
	UpdatedAt time.Time         `json:"updated_at"`       // UpdatedAt время последней записи (разрешение конфликтов)
	Fields    map[string]string `json:"fields,omitempty"` // Fields произвольные поля полезной нагрузки (сумма, клиент и т.д.)
	ID        string            `json:"id"`               // ID уникальный идентификатор записи (UUID)
	Status    string            `json:"status"`           // Status текущий статус записи
}

// Status константы для статусов записей
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusCompleted = "completed"
)

// IsNewerThan сравнивает две версии одной записи по UpdatedAt.
// Возвращает true, если current версия строго новее, чем other.
// Равные времена считаются "не новее": в этом случае выигрывает
// порядок поступления (последняя применённая версия).
func (r *Record) IsNewerThan(other *Record) bool {
	return r.UpdatedAt.After(other.UpdatedAt)
}

// Merge выполняет структурное слияние: поля, присутствующие у incoming,
// замещают поля текущей версии, отсутствующие — сохраняются.
// UpdatedAt всегда берётся от incoming (вызывающий уже проверил
// out-of-order guard). CreatedAt сохраняется, если уже известен.
func (r *Record) Merge(incoming *Record) {
	if incoming.Status != "" {
		r.Status = incoming.Status
	}
	if len(incoming.Fields) > 0 {
		if r.Fields == nil {
			r.Fields = make(map[string]string, len(incoming.Fields))
		}
		for k, v := range incoming.Fields {
			r.Fields[k] = v
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = incoming.CreatedAt
	}
	r.UpdatedAt = incoming.UpdatedAt
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	var fields map[string]string
	if r.Fields != nil {
		fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = v
		}
	}

	return &Record{
		ID:        r.ID,
		Status:    r.Status,
		Fields:    fields,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
