// Package dispatch раздаёт обновления согласованного представления и
// статуса соединения подписчикам слоя представления.
package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/liveview/internal/models"
)

// UpdateKind вид обновления в канале подписчика
type UpdateKind int

const (
	// KindStatus изменился статус соединения
	KindStatus UpdateKind = iota
	// KindView изменилось согласованное представление
	KindView
	// KindNewItems изменился счётчик "доступны новые записи"
	KindNewItems
	// KindError возникла показываемая пользователю ошибка (например, QueryFailed)
	KindError
)

// Update одно обновление для подписчика. Поле, соответствующее Kind,
// заполнено, остальные — нулевые. View после публикации только для
// чтения: все подписчики получают один и тот же экземпляр.
type Update struct {
	Err      error
	View     *models.ReconciledView
	Status   models.ConnectionStatus
	Kind     UpdateKind
	NewItems int
}

// размер буфера канала подписчика; отстающий подписчик теряет
// промежуточные обновления, но не блокирует остальных
const subscriberBuffer = 32

// Config параметры жизненного цикла подписок
type Config struct {
	OnActive  func()        // вызывается при появлении первого подписчика
	OnIdle    func()        // вызывается, когда подписчиков не осталось (после IdleGrace)
	IdleGrace time.Duration // пауза перед OnIdle, гасит дребезг при перемонтировании UI
}

// Hub потокобезопасный диспетчер подписок с семантикой replay-latest:
// новый подписчик синхронно получает последние известные статус,
// представление и счётчик новых записей, затем — инкрементальные
// обновления. Ошибки не реплеятся: они одноразовые.
type Hub struct {
	logger *slog.Logger
	cfg    Config

	mu          sync.Mutex
	subscribers []chan Update
	lastStatus  *models.ConnectionStatus
	lastView    *models.ReconciledView
	lastPending int
	idleTimer   *time.Timer
	closed      bool
}

// NewHub создает диспетчер подписок
func NewHub(logger *slog.Logger, cfg Config) *Hub {
	return &Hub{
		logger: logger.With("component", "dispatch"),
		cfg:    cfg,
	}
}

// Subscribe регистрирует подписчика и возвращает его канал.
// Канал закрывается при Unsubscribe или Close.
func (h *Hub) Subscribe() <-chan Update {
	ch := make(chan Update, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}

	if h.idleTimer != nil {
		h.idleTimer.Stop()
		h.idleTimer = nil
	}

	first := len(h.subscribers) == 0
	h.subscribers = append(h.subscribers, ch)

	// replay-latest: буфер пуст, отправки не блокируют
	if h.lastStatus != nil {
		ch <- Update{Kind: KindStatus, Status: *h.lastStatus}
	}
	if h.lastView != nil {
		ch <- Update{Kind: KindView, View: h.lastView}
	}
	if h.lastPending > 0 {
		ch <- Update{Kind: KindNewItems, NewItems: h.lastPending}
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Debug("subscriber added", "total", total)

	if first && h.cfg.OnActive != nil {
		h.cfg.OnActive()
	}
	return ch
}

// Unsubscribe снимает подписку и закрывает её канал. Повторный вызов
// для того же канала безопасен. Когда подписчиков не остаётся,
// по истечении IdleGrace вызывается OnIdle.
func (h *Hub) Unsubscribe(ch <-chan Update) {
	h.mu.Lock()
	for i, sub := range h.subscribers {
		if sub == ch {
			h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
			close(sub)
			break
		}
	}

	if len(h.subscribers) == 0 && !h.closed && h.cfg.OnIdle != nil && h.idleTimer == nil {
		h.idleTimer = time.AfterFunc(h.cfg.IdleGrace, h.fireIdle)
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Debug("subscriber removed", "total", total)
}

// fireIdle срабатывает по таймеру простоя; условие перепроверяется,
// потому что подписчик мог успеть появиться
func (h *Hub) fireIdle() {
	h.mu.Lock()
	idle := !h.closed && len(h.subscribers) == 0 && h.idleTimer != nil
	h.idleTimer = nil
	h.mu.Unlock()

	if idle {
		h.logger.Debug("no subscribers left, signalling idle")
		h.cfg.OnIdle()
	}
}

// PublishStatus рассылает новый статус соединения
func (h *Hub) PublishStatus(status models.ConnectionStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.lastStatus = &status
	h.broadcast(Update{Kind: KindStatus, Status: status})
}

// PublishView рассылает новое согласованное представление
func (h *Hub) PublishView(view *models.ReconciledView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.lastView = view
	h.broadcast(Update{Kind: KindView, View: view})
}

// PublishNewItems рассылает счётчик созданных, но не показанных записей
func (h *Hub) PublishNewItems(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.lastPending = count
	h.broadcast(Update{Kind: KindNewItems, NewItems: count})
}

// PublishError рассылает показываемую пользователю ошибку
func (h *Hub) PublishError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.broadcast(Update{Kind: KindError, Err: err})
}

// broadcast рассылает обновление без блокировки; вызывается под h.mu
func (h *Hub) broadcast(upd Update) {
	for _, sub := range h.subscribers {
		select {
		case sub <- upd:
		default:
			// подписчик не успевает; он дочитает актуальное состояние
			// из последующих обновлений
			h.logger.Warn("subscriber is slow, update dropped", "kind", upd.Kind)
		}
	}
}

// Subscribers возвращает текущее число подписчиков
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close закрывает все подписки; дальнейшие публикации игнорируются
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.idleTimer != nil {
		h.idleTimer.Stop()
		h.idleTimer = nil
	}
	for _, sub := range h.subscribers {
		close(sub)
	}
	h.subscribers = nil
}
