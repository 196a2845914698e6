package models

// Параметры запроса коллекции и производные представления.

// Sort и Order константы для запроса коллекции
const (
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortStatus    = "status"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Query описывает один запрос к сервису коллекции:
// фильтр по статусу, полнотекстовый поиск, сортировка и страница.
type Query struct {
	Status   string `json:"status,omitempty"` // Status фильтр по статусу ("" = все)
	Search   string `json:"search,omitempty"` // Search подстрока для поиска по полям
	Sort     string `json:"sort"`             // Sort поле сортировки
	Order    string `json:"order"`            // Order направление сортировки
	Page     int    `json:"page"`             // Page номер страницы, с 1
	PageSize int    `json:"page_size"`        // PageSize размер страницы
}

// Normalize заполняет значения по умолчанию и обрезает границы.
// Возвращает копию, исходный Query не меняется.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Sort == "" {
		q.Sort = SortCreatedAt
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	return q
}

// IsRecencyFirstPage сообщает, показывает ли запрос первую страницу,
// отсортированную так же, как сервер вставляет новые записи
// (свежие сверху). Только в этом случае событие Created вставляется
// в представление напрямую.
func (q Query) IsRecencyFirstPage() bool {
	if q.Page != 1 || q.Order != OrderDesc {
		return false
	}
	return q.Sort == SortCreatedAt || q.Sort == SortUpdatedAt
}

// Snapshot представляет базовый срез коллекции, возвращённый сервисом
// запросов для конкретного Query. Неизменяем после получения;
// полностью замещается следующим срезом.
type Snapshot struct {
	Query        Query     `json:"query"`
	Items        []*Record `json:"items"`
	TotalCount   int       `json:"total_count"`
	AsOfSequence int64     `json:"as_of_sequence"` // номер последнего события канала, учтённого в срезе (0 = неизвестен)
}

// ReconciledView представляет согласованное представление: базовый
// срез с наложенными поверх событиями канала. Инварианты:
// нет двух записей с одним ID; длина не превышает размер страницы,
// кроме вставки Created на первую страницу.
type ReconciledView struct {
	Query         Query     `json:"query"`
	Items         []*Record `json:"items"`
	TotalCount    int       `json:"total_count"`
	PossiblyStale bool      `json:"possibly_stale"` // замечен пропуск sequence, рекомендован refresh
}
