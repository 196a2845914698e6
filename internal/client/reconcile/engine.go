// Package reconcile накладывает поток событий живого канала на базовый
// срез коллекции, сохраняя инварианты пагинации, фильтра и сортировки.
package reconcile

import (
	"log/slog"

	"github.com/iudanet/liveview/internal/models"
)

// Engine владеет согласованным представлением коллекции.
// Engine не потокобезопасен: все вызовы обязаны приходить из одной
// горутины — потребителя сериализованной очереди (см. view.Service).
// Блокировки не нужны именно поэтому.
type Engine struct {
	logger  *slog.Logger
	items   []*models.Record
	query   models.Query
	total   int
	highest int64 // наибольший применённый sequence (0 = применять все)
	pending int   // созданные записи, не показанные на текущей странице
	stale   bool  // замечен пропуск sequence, рекомендован refresh
}

// ApplyResult описывает видимый эффект одного события
type ApplyResult struct {
	ViewChanged    bool // представление изменилось, нужно публиковать
	PendingChanged bool // изменился счётчик "new items available"
	GapDetected    bool // обнаружен пропуск sequence (advisory)
}

// NewEngine создает движок с пустым представлением
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "reconcile"),
		items:  []*models.Record{},
	}
}

// ApplyBaseline замещает представление целиком новым базовым срезом.
// Счётчик highest сбрасывается в AsOfSequence среза (0 = неизвестен,
// применять все последующие события), счётчик отложенных созданий и
// флаг устаревания снимаются.
func (e *Engine) ApplyBaseline(snap *models.Snapshot) {
	items := make([]*models.Record, 0, len(snap.Items))
	for _, rec := range snap.Items {
		items = append(items, rec.Clone())
	}

	e.items = items
	e.query = snap.Query
	e.total = snap.TotalCount
	e.highest = snap.AsOfSequence
	e.pending = 0
	e.stale = false

	e.logger.Debug("baseline applied",
		"items", len(items),
		"total", snap.TotalCount,
		"as_of_sequence", snap.AsOfSequence,
	)
}

// ApplyEvent накладывает одно событие канала на представление.
// Порядок проверок:
//  1. sequence <= highest — дубликат или устаревший повтор, отбросить;
//  2. sequence > highest+1 — пропуск, пометить представление устаревшим;
//  3. применить действие (created / updated / status_changed);
//  4. продвинуть highest — даже если видимого эффекта не было, иначе
//     молча отброшенное событие выглядело бы как пропуск для следующего.
func (e *Engine) ApplyEvent(ev *models.UpdateEvent) ApplyResult {
	var res ApplyResult

	if ev.Sequence <= e.highest {
		e.logger.Debug("stale event discarded", "sequence", ev.Sequence, "highest", e.highest)
		return res
	}

	if e.highest > 0 && ev.Sequence > e.highest+1 && !e.stale {
		e.stale = true
		res.GapDetected = true
		res.ViewChanged = true
		e.logger.Warn("sequence gap detected", "sequence", ev.Sequence, "highest", e.highest)
	}

	switch ev.Action {
	case models.ActionCreated:
		e.applyCreated(ev, &res)
	case models.ActionUpdated, models.ActionStatusChanged:
		e.applyMerge(ev, &res)
	default:
		// неизвестные действия отсеивает декодер
		e.logger.Debug("event with unexpected action ignored", "action", ev.Action)
	}

	e.highest = ev.Sequence
	return res
}

// applyCreated вставляет новую запись на первую страницу, если она
// отсортирована по свежести, иначе учитывает её в счётчике отложенных.
// Запись, не проходящая активный фильтр статуса, не относится к этому
// представлению вовсе.
func (e *Engine) applyCreated(ev *models.UpdateEvent, res *ApplyResult) {
	if idx := e.indexOf(ev.Record.ID); idx >= 0 {
		// повтор создания с новым sequence: запись уже видна,
		// сливаем как обновление ради инварианта уникальности ID
		e.mergeAt(idx, ev, res)
		return
	}

	if e.query.Status != "" && ev.Record.Status != e.query.Status {
		e.logger.Debug("created record filtered out", "id", ev.Record.ID, "status", ev.Record.Status)
		return
	}

	// При активном поиске принадлежность записи выборке знает только
	// сервер — не вставляем, а советуем обновиться.
	if e.query.Search == "" && e.query.IsRecencyFirstPage() {
		// первая страница по свежести: вставка сверху, допускается
		// единственное превышение размера страницы
		e.items = append([]*models.Record{ev.Record.Clone()}, e.items...)
		e.total++
		res.ViewChanged = true
		return
	}

	e.pending++
	res.PendingChanged = true
}

// applyMerge сливает updated/status_changed в уже показанную запись.
// Запись с другой страницы пропускается молча: её отразит следующий
// базовый срез.
func (e *Engine) applyMerge(ev *models.UpdateEvent, res *ApplyResult) {
	idx := e.indexOf(ev.Record.ID)
	if idx < 0 {
		e.logger.Debug("event for record outside current page", "id", ev.Record.ID)
		return
	}
	e.mergeAt(idx, ev, res)
}

func (e *Engine) mergeAt(idx int, ev *models.UpdateEvent, res *ApplyResult) {
	current := e.items[idx]
	if current.IsNewerThan(ev.Record) {
		// out-of-order guard: пришла более старая версия
		e.logger.Debug("out-of-order event discarded",
			"id", ev.Record.ID,
			"held", current.UpdatedAt,
			"incoming", ev.Record.UpdatedAt,
		)
		return
	}

	current.Merge(ev.Record)
	res.ViewChanged = true
}

func (e *Engine) indexOf(id string) int {
	for i, rec := range e.items {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// View возвращает защитную копию согласованного представления
func (e *Engine) View() *models.ReconciledView {
	items := make([]*models.Record, 0, len(e.items))
	for _, rec := range e.items {
		items = append(items, rec.Clone())
	}

	return &models.ReconciledView{
		Query:         e.query,
		Items:         items,
		TotalCount:    e.total,
		PossiblyStale: e.stale,
	}
}

// PendingCreated возвращает число созданных записей, о которых знает
// движок, но которые не показаны на текущей странице
func (e *Engine) PendingCreated() int {
	return e.pending
}

// HighestApplied возвращает наибольший применённый sequence
func (e *Engine) HighestApplied() int64 {
	return e.highest
}
