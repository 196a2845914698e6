package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/iudanet/liveview/internal/server/feed"
)

const (
	// defaultPingInterval - период keepalive-кадров сервера.
	// Должен быть заметно меньше heartbeat-окна клиента (45s),
	// иначе клиент посчитает тихое соединение мертвым.
	defaultPingInterval = 20 * time.Second

	// writeTimeout - максимальное время записи одного кадра
	writeTimeout = 5 * time.Second
)

// pingFrame - keepalive кадр; не несет record и sequence
var pingFrame = []byte(`{"action":"ping"}`)

// FeedHandler обрабатывает WebSocket подключения живого канала
type FeedHandler struct {
	logger       *slog.Logger
	hub          *feed.Hub
	pingInterval time.Duration
}

// NewFeedHandler создает новый handler живого канала
func NewFeedHandler(logger *slog.Logger, hub *feed.Hub) *FeedHandler {
	return &FeedHandler{
		logger:       logger,
		hub:          hub,
		pingInterval: defaultPingInterval,
	}
}

// Serve обрабатывает GET /api/v1/feed
// Upgrade до WebSocket и трансляция кадров клиенту до отключения.
// Аутентификация уже выполнена middleware (access_token query parameter).
func (h *FeedHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, _ := GetUsername(ctx)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket accept failed",
			slog.String("username", username),
			slog.Any("error", err))
		return
	}

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	h.logger.InfoContext(ctx, "feed client connected", slog.String("username", username))

	// Входящие данные не используются; CloseRead следит за закрытием
	// соединения клиентом и отменяет контекст
	readCtx := conn.CloseRead(ctx)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-readCtx.Done():
			h.logger.InfoContext(ctx, "feed client disconnected", slog.String("username", username))
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return

		case data, ok := <-client.Frames():
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if err := h.writeFrame(readCtx, conn, data); err != nil {
				h.logger.WarnContext(ctx, "failed to write frame",
					slog.String("username", username),
					slog.Any("error", err))
				return
			}

		case <-ticker.C:
			if err := h.writeFrame(readCtx, conn, pingFrame); err != nil {
				h.logger.WarnContext(ctx, "failed to write ping",
					slog.String("username", username),
					slog.Any("error", err))
				return
			}
		}
	}
}

func (h *FeedHandler) writeFrame(ctx context.Context, conn *websocket.Conn, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
