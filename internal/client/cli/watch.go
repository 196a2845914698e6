package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/iudanet/liveview/internal/client/auth"
	"github.com/iudanet/liveview/internal/client/channel"
	"github.com/iudanet/liveview/internal/client/dispatch"
	"github.com/iudanet/liveview/internal/client/view"
	"github.com/iudanet/liveview/internal/models"
)

// liveView часть view.Service, которой управляет цикл наблюдения
type liveView interface {
	Start()
	Subscribe() <-chan dispatch.Update
	Unsubscribe(ch <-chan dispatch.Update)
	Refresh()
	Retry()
	Close()
}

func (c *Cli) runWatch(ctx context.Context, args []string) error {
	query, err := parseQueryFlags("watch", args)
	if err != nil {
		return err
	}

	feed, err := feedURL(c.serverURL)
	if err != nil {
		return err
	}

	provider := auth.NewSessionProvider(c.sessions)
	manager := channel.NewManager(feed, provider, channel.Dial, channel.DefaultConfig(), c.logger)
	service := view.NewService(c.service, manager, view.Config{InitialQuery: query}, c.logger)
	defer service.Close()

	c.io.Println("Watching collection. Enter = refresh, r = retry, q = quit.")
	c.io.Println()

	return c.watchLoop(ctx, service)
}

// watchLoop подписывается на обновления представления и рендерит их,
// пока контекст не отменён или пользователь не вышел.
func (c *Cli) watchLoop(ctx context.Context, service liveView) error {
	service.Start()
	updates := service.Subscribe()
	defer service.Unsubscribe(updates)

	input := make(chan string)
	go c.readCommands(ctx, input)

	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-input:
			if !ok {
				// stdin закрыт, остаёмся в режиме наблюдения до отмены контекста
				input = nil
				continue
			}
			switch strings.ToLower(line) {
			case "":
				service.Refresh()
			case "r", "retry":
				service.Retry()
			case "q", "quit", "exit":
				return nil
			default:
				c.io.Println("Commands: Enter = refresh, r = retry, q = quit")
			}

		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			c.renderUpdate(upd)
		}
	}
}

// renderUpdate печатает одно обновление подписки
func (c *Cli) renderUpdate(upd dispatch.Update) {
	switch upd.Kind {
	case dispatch.KindStatus:
		c.io.Printf("-- connection: %s\n", upd.Status)
		if upd.Status.State == models.StateFailed {
			c.io.Println("   automatic reconnects exhausted, press 'r' to retry")
		}
	case dispatch.KindView:
		data := newPageData(upd.View.Query, upd.View.Items, upd.View.TotalCount, upd.View.PossiblyStale)
		if err := renderPage(c.io, data); err != nil {
			c.io.Printf("render error: %v\n", err)
		}
	case dispatch.KindNewItems:
		if upd.NewItems > 0 {
			c.io.Printf("-- %d new record(s) available, press Enter to refresh\n", upd.NewItems)
		}
	case dispatch.KindError:
		c.io.Printf("-- error: %v\n", upd.Err)
	}
}

// readCommands читает строки ввода и передаёт их циклу наблюдения.
// При ошибке чтения (EOF) канал закрывается.
func (c *Cli) readCommands(ctx context.Context, out chan<- string) {
	defer close(out)
	for {
		line, err := c.io.ReadInput("")
		if err != nil {
			return
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}

// feedURL преобразует базовый адрес сервера в адрес живого канала
func feedURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/feed"
	return u.String(), nil
}
