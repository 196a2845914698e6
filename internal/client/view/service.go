package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/liveview/internal/client/api"
	"github.com/iudanet/liveview/internal/client/decode"
	"github.com/iudanet/liveview/internal/client/dispatch"
	"github.com/iudanet/liveview/internal/client/reconcile"
	"github.com/iudanet/liveview/internal/models"
)

const (
	commandsBuffer  = 16
	baselinesBuffer = 4
)

// Config параметры фасада представления
type Config struct {
	InitialQuery      models.Query
	IdleGrace         time.Duration // пауза перед отключением канала без подписчиков
	StaleRefreshEvery time.Duration // минимальный интервал автоматических refresh по пропуску sequence
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		IdleGrace:         30 * time.Second,
		StaleRefreshEvery: 5 * time.Second,
	}
}

type commandKind int

const (
	commandSetQuery commandKind = iota
	commandRefresh
	commandRetry
)

type command struct {
	query models.Query
	kind  commandKind
}

type baselineResult struct {
	snapshot *models.Snapshot
	err      error
	fetchID  int64
}

// Service — фасад живого представления коллекции. Владеет единственной
// сериализованной очередью: кадры канала, статусы соединения, команды
// пользователя и результаты базовых срезов обрабатываются одной
// горутиной, поэтому состояние движка согласования никогда не
// мутируется конкурентно.
//
// Канал поднимается при первом подписчике и гасится, когда подписчиков
// не осталось (после паузы IdleGrace).
type Service struct {
	logger  *slog.Logger
	queries api.QueryService
	channel Channel
	hub     *dispatch.Hub
	engine  *reconcile.Engine
	limiter *rate.Limiter

	commands  chan command
	baselines chan baselineResult
	done      chan struct{}

	// поля ниже принадлежат горутине run
	query       models.Query
	fetchCancel context.CancelFunc
	fetchSeq    int64
	hadSession  bool

	mu        sync.Mutex
	cancel    context.CancelFunc
	closeOnce sync.Once
	started   bool
}

// NewService создает фасад представления. Нулевые поля cfg заменяются
// значениями по умолчанию.
func NewService(queries api.QueryService, ch Channel, cfg Config, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.IdleGrace <= 0 {
		cfg.IdleGrace = def.IdleGrace
	}
	if cfg.StaleRefreshEvery <= 0 {
		cfg.StaleRefreshEvery = def.StaleRefreshEvery
	}

	s := &Service{
		logger:    logger.With("component", "view"),
		queries:   queries,
		channel:   ch,
		engine:    reconcile.NewEngine(logger),
		limiter:   rate.NewLimiter(rate.Every(cfg.StaleRefreshEvery), 1),
		commands:  make(chan command, commandsBuffer),
		baselines: make(chan baselineResult, baselinesBuffer),
		done:      make(chan struct{}),
		query:     cfg.InitialQuery.Normalize(),
	}

	s.hub = dispatch.NewHub(logger, dispatch.Config{
		OnActive:  ch.Connect,
		OnIdle:    ch.Close,
		IdleGrace: cfg.IdleGrace,
	})

	return s
}

// Start запускает цикл обработки и первый запрос базового среза.
// Повторный вызов ничего не делает.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = true

	go s.run(ctx)
}

// Subscribe регистрирует подписчика на обновления представления.
// Новый подписчик синхронно получает последние известные статус
// соединения, представление и счетчик новых записей.
func (s *Service) Subscribe() <-chan dispatch.Update {
	return s.hub.Subscribe()
}

// Unsubscribe снимает подписку и закрывает ее канал
func (s *Service) Unsubscribe(ch <-chan dispatch.Update) {
	s.hub.Unsubscribe(ch)
}

// Subscribers возвращает число активных подписчиков
func (s *Service) Subscribers() int {
	return s.hub.Subscribers()
}

// SetQuery меняет параметры представления: фильтр, поиск, сортировку
// или страницу. Базовый срез перечитывается; если предыдущая смена
// еще не завершилась, ее результат отбрасывается — применяется
// только последний запрос.
func (s *Service) SetQuery(query models.Query) {
	s.send(command{kind: commandSetQuery, query: query})
}

// Refresh перечитывает базовый срез для текущих параметров
func (s *Service) Refresh() {
	s.send(command{kind: commandRefresh})
}

// Retry выводит соединение из терминального состояния Failed
func (s *Service) Retry() {
	s.send(command{kind: commandRetry})
}

// Close останавливает цикл обработки, канал и всех подписчиков.
// Безопасен при повторном вызове.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		started, cancel := s.started, s.cancel
		s.mu.Unlock()

		if started {
			cancel()
			<-s.done
		}
		s.channel.Close()
		s.hub.Close()
	})
}

func (s *Service) send(cmd command) {
	select {
	case s.commands <- cmd:
	case <-s.done:
	}
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	// стартовый срез не ждет подписчиков: к их появлению данные уже есть
	s.startBaselineFetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-s.channel.Frames():
			s.handleFrame(ctx, frame)
		case status := <-s.channel.Status():
			s.handleStatus(ctx, status)
		case cmd := <-s.commands:
			s.handleCommand(ctx, cmd)
		case res := <-s.baselines:
			s.handleBaseline(res)
		}
	}
}

// handleFrame декодирует кадр и применяет событие к представлению.
// Некорректные кадры логируются и отбрасываются, поток не прерывают.
func (s *Service) handleFrame(ctx context.Context, data []byte) {
	frame, err := decode.Decode(data)
	if err != nil {
		s.logger.Warn("malformed frame dropped", "error", err)
		return
	}
	if frame.Kind == decode.KindPing {
		return
	}

	res := s.engine.ApplyEvent(frame.Event)
	if res.ViewChanged {
		s.hub.PublishView(s.engine.View())
	}
	if res.PendingChanged {
		s.hub.PublishNewItems(s.engine.PendingCreated())
	}
	if res.GapDetected {
		s.logger.Warn("sequence gap detected, view possibly stale",
			"sequence", frame.Event.Sequence,
		)
		// автоматический refresh ограничен по частоте: при шторме
		// пропусков пересборку среза запрашиваем не чаще лимита,
		// пометка possibly-stale остается до успешного среза
		if s.limiter.Allow() {
			s.startBaselineFetch(ctx)
		}
	}
}

func (s *Service) handleStatus(ctx context.Context, status models.ConnectionStatus) {
	s.hub.PublishStatus(status)

	if status.State != models.StateConnected {
		return
	}
	if s.hadSession {
		// события, отправленные во время обрыва, потеряны навсегда —
		// после восстановления срез обязателен
		s.logger.Info("live channel restored, refreshing baseline")
		s.startBaselineFetch(ctx)
	}
	s.hadSession = true
}

func (s *Service) handleCommand(ctx context.Context, cmd command) {
	switch cmd.kind {
	case commandSetQuery:
		s.query = cmd.query.Normalize()
		s.startBaselineFetch(ctx)
	case commandRefresh:
		s.startBaselineFetch(ctx)
	case commandRetry:
		s.channel.Retry()
	}
}

// startBaselineFetch запускает асинхронный запрос базового среза для
// текущих параметров. Предыдущий незавершенный запрос отменяется:
// применяется только результат последнего (last-request-wins).
func (s *Service) startBaselineFetch(ctx context.Context) {
	if s.fetchCancel != nil {
		s.fetchCancel()
	}

	s.fetchSeq++
	fetchID := s.fetchSeq
	query := s.query

	fetchCtx, cancel := context.WithCancel(ctx)
	s.fetchCancel = cancel

	go func() {
		snapshot, err := s.queries.Query(fetchCtx, query)
		select {
		case s.baselines <- baselineResult{fetchID: fetchID, snapshot: snapshot, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *Service) handleBaseline(res baselineResult) {
	if res.fetchID != s.fetchSeq {
		// результат пережил собственную отмену, но его уже заменили
		s.logger.Debug("stale baseline discarded", "fetch_id", res.fetchID)
		return
	}

	if res.err != nil {
		// представление не очищается: показываем последние хорошие
		// данные, наружу уходит только ошибка
		s.logger.Warn("baseline fetch failed", "error", res.err)
		s.hub.PublishError(fmt.Errorf("baseline fetch failed: %w", res.err))
		return
	}

	s.engine.ApplyBaseline(res.snapshot)
	s.hub.PublishView(s.engine.View())
	s.hub.PublishNewItems(0)
}
