package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/pkg/api"
)

// clientBuffer - размер буфера кадров на одного подключённого клиента.
// Клиент, не успевающий читать, теряет кадры (и узнаёт об этом по
// пропуску sequence на своей стороне).
const clientBuffer = 32

// Hub раздаёт события живого канала подключённым клиентам.
// Каждому событию назначается сквозной монотонный sequence;
// он же отдаётся query-сервису как as_of_sequence среза.
type Hub struct {
	logger   *slog.Logger
	clients  map[*Client]struct{}
	sequence atomic.Int64
	mu       sync.RWMutex
}

// Client представляет одного подключённого получателя кадров
type Client struct {
	frames chan []byte
}

// Frames возвращает канал исходящих кадров клиента.
// Канал закрывается при Unregister.
func (c *Client) Frames() <-chan []byte {
	return c.frames
}

// NewHub создает новый Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "feed"),
		clients: make(map[*Client]struct{}),
	}
}

// CurrentSequence возвращает номер последнего разданного события.
// Query-сервис читает его ДО чтения страницы из базы: события,
// проскочившие между этими двумя чтениями, получат sequence больше
// as_of_sequence и будут применены клиентом поверх среза.
func (h *Hub) CurrentSequence() int64 {
	return h.sequence.Load()
}

// Clients возвращает число подключённых клиентов
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register подключает нового клиента
func (h *Hub) Register() *Client {
	client := &Client{frames: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("feed client registered", "clients", count)
	return client
}

// Unregister отключает клиента и закрывает его канал кадров.
// Повторный вызов безопасен.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(client.frames)
		h.logger.Debug("feed client unregistered", "clients", count)
	}
}

// Broadcast назначает событию следующий sequence и раздаёт кадр всем
// подключённым клиентам. Возвращает назначенный номер.
// Вызывается ПОСЛЕ фиксации изменения в хранилище, чтобы срез,
// прочитавший CurrentSequence до события, гарантированно не содержал
// само изменение.
func (h *Hub) Broadcast(action string, record *models.Record) int64 {
	seq := h.sequence.Add(1)

	frame := api.Frame{
		Action:   action,
		Sequence: seq,
		Record:   wireRecord(record),
	}

	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to marshal frame", "action", action, "sequence", seq, "error", err)
		return seq
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.frames <- data:
		default:
			// Медленный клиент: кадр теряется, клиент обнаружит пропуск
			// sequence и запросит свежий срез
			h.logger.Warn("feed client too slow, dropping frame", "sequence", seq)
		}
	}

	return seq
}

func wireRecord(record *models.Record) *api.Record {
	if record == nil {
		return nil
	}
	return &api.Record{
		ID:        record.ID,
		Status:    record.Status,
		Fields:    record.Fields,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
