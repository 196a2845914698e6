package api

import "time"

// Record представляет запись коллекции в wire-формате
type Record struct {
	CreatedAt time.Time         `json:"created_at"`       // время создания записи
	UpdatedAt time.Time         `json:"updated_at"`       // время последнего изменения
	Fields    map[string]string `json:"fields,omitempty"` // произвольные поля полезной нагрузки
	ID        string            `json:"id"`               // UUID записи
	Status    string            `json:"status"`           // текущий статус
}

// ListRecordsResponse представляет страницу коллекции с эхом параметров
// запроса. AsOfSequence — номер последнего события живого канала,
// учтённого в этом срезе; клиент использует его как стартовую точку
// фильтрации дубликатов.
type ListRecordsResponse struct {
	Items        []Record `json:"items"`          // записи страницы
	Sort         string   `json:"sort"`           // применённое поле сортировки
	Order        string   `json:"order"`          // применённое направление
	TotalCount   int      `json:"total_count"`    // общее число записей под фильтром
	AsOfSequence int64    `json:"as_of_sequence"` // sequence, по которое срез актуален
	Page         int      `json:"page"`           // номер страницы
	PageSize     int      `json:"page_size"`      // размер страницы
}

// CreateRecordRequest представляет запрос на создание записи.
// ID и времена назначает сервер.
type CreateRecordRequest struct {
	Fields map[string]string `json:"fields"`           // поля полезной нагрузки
	Status string            `json:"status,omitempty"` // начальный статус ("" = pending)
}

// UpdateRecordRequest представляет частичное изменение полей записи
type UpdateRecordRequest struct {
	Fields map[string]string `json:"fields"` // поля для слияния
}

// ChangeStatusRequest представляет смену статуса записи
type ChangeStatusRequest struct {
	Status string `json:"status"` // новый статус
}

// RecordResponse представляет ответ на мутацию одной записи
type RecordResponse struct {
	Record   Record `json:"record"`   // итоговое состояние записи
	Sequence int64  `json:"sequence"` // номер события канала, порождённого мутацией
}
