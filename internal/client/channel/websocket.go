package channel

import (
	"context"
	"fmt"
	"net/url"

	"nhooyr.io/websocket"
)

// maxFrameSize ограничивает размер одного кадра живого канала
const maxFrameSize = 1 << 20 // 1 MiB

// Dial открывает живой канал поверх WebSocket. Токен передается
// query-параметром access_token: исходный потребитель канала —
// браузер, который не умеет ставить заголовки на WebSocket рукопожатие,
// поэтому сервер ожидает токен именно там.
func Dial(ctx context.Context, rawURL, token string) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse channel url: %w", err)
	}

	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	ws.SetReadLimit(maxFrameSize)

	return &wsConn{ws: ws}, nil
}

// wsConn адаптирует websocket.Conn к интерфейсу Conn
type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *wsConn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}
