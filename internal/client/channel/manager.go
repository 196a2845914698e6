package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/liveview/internal/client/auth"
	"github.com/iudanet/liveview/internal/models"
)

const (
	framesBuffer = 64 // буфер принятых кадров между каналом и потребителем
	statusBuffer = 16 // буфер статусов соединения

	backoffJitterPercent = 20
)

// Config задает политику жизненного цикла живого канала
type Config struct {
	HeartbeatIdle time.Duration // максимальная тишина от сервера до принудительного реконнекта
	BaseDelay     time.Duration // стартовая задержка бэкоффа
	MaxDelay      time.Duration // потолок задержки бэкоффа
	DialTimeout   time.Duration // лимит на одно рукопожатие
	MaxAttempts   uint64        // попыток до Failed, 0 = без ограничения
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		HeartbeatIdle: 45 * time.Second,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		DialTimeout:   10 * time.Second,
		MaxAttempts:   0,
	}
}

// Manager владеет жизненным циклом одного живого канала: соединение,
// аутентификация, heartbeat, реконнект с бэкоффом, остановка.
//
// Принятые кадры публикуются в Frames() в порядке получения, переходы
// состояния — в Status(). Manager никогда не мутирует представление
// сам: это забота потребителя кадров.
type Manager struct {
	logger *slog.Logger
	tokens auth.TokenProvider
	dial   DialFunc

	frames   chan []byte
	statusCh chan models.ConnectionStatus
	retryCh  chan struct{}

	cancel  context.CancelFunc
	done    chan struct{}
	url     string
	cfg     Config
	mu      sync.Mutex
	running bool
}

// NewManager создает менеджер живого канала. Нулевые поля cfg
// заменяются значениями по умолчанию.
func NewManager(url string, tokens auth.TokenProvider, dial DialFunc, cfg Config, logger *slog.Logger) *Manager {
	def := DefaultConfig()
	if cfg.HeartbeatIdle <= 0 {
		cfg.HeartbeatIdle = def.HeartbeatIdle
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}

	return &Manager{
		logger:   logger.With("component", "channel"),
		tokens:   tokens,
		dial:     dial,
		url:      url,
		cfg:      cfg,
		frames:   make(chan []byte, framesBuffer),
		statusCh: make(chan models.ConnectionStatus, statusBuffer),
		retryCh:  make(chan struct{}, 1),
	}
}

// Frames возвращает канал принятых кадров. Канал общий для всех
// сессий соединения и не закрывается при реконнекте.
func (m *Manager) Frames() <-chan []byte {
	return m.frames
}

// Status возвращает канал переходов состояния соединения
func (m *Manager) Status() <-chan models.ConnectionStatus {
	return m.statusCh
}

// Connect запускает цикл соединения. Повторный вызов во время работы
// ничего не делает. После Close можно вызывать снова.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx, m.done)
}

// Retry запускает новую серию попыток из терминального состояния
// Failed. Вне этого состояния вызов ничего не делает.
func (m *Manager) Retry() {
	select {
	case m.retryCh <- struct{}{}:
	default:
	}
}

// Close останавливает цикл соединения и дожидается его завершения.
// Безопасен при повторном вызове.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	afterDrop := false
	for {
		conn, err := m.acquire(ctx, afterDrop)
		if err != nil {
			if ctx.Err() != nil {
				m.publish(models.ConnectionStatus{State: models.StateDisconnected})
				return
			}

			// Попытки исчерпаны: терминальное состояние до ручного повтора.
			// Застрявший с прошлых времен сигнал повтора сбрасываем,
			// выйти из Failed должен только явный Retry после него.
			m.drainRetry()
			m.publish(models.ConnectionStatus{State: models.StateFailed, Err: err})
			m.logger.Error("live channel gave up", "error", err)

			select {
			case <-ctx.Done():
				m.publish(models.ConnectionStatus{State: models.StateDisconnected})
				return
			case <-m.retryCh:
				afterDrop = false
				continue
			}
		}

		m.publish(models.ConnectionStatus{State: models.StateConnected})
		m.logger.Info("live channel connected")

		readErr := m.readLoop(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			m.publish(models.ConnectionStatus{State: models.StateDisconnected})
			return
		}

		m.logger.Warn("live channel dropped", "error", readErr)
		afterDrop = true
	}
}

// acquire устанавливает соединение с экспоненциальным бэкоффом.
// Возвращает ошибку при отмене контекста или исчерпании попыток.
func (m *Manager) acquire(ctx context.Context, afterDrop bool) (Conn, error) {
	b := retry.NewExponential(m.cfg.BaseDelay)
	b = retry.WithCappedDuration(m.cfg.MaxDelay, b)
	b = retry.WithJitterPercent(backoffJitterPercent, b)
	if m.cfg.MaxAttempts > 0 {
		b = retry.WithMaxRetries(m.cfg.MaxAttempts-1, b)
	}

	var conn Conn
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		m.publish(m.attemptStatus(attempt, afterDrop))

		// Токен запрашивается заново перед каждой попыткой:
		// между попытками он мог быть обновлен или отозван
		token, err := m.tokens.Token(ctx)
		if err != nil {
			m.logger.Warn("token unavailable", "attempt", attempt, "error", err)
			return retry.RetryableError(fmt.Errorf("obtain token: %w", err))
		}

		dialCtx, cancel := context.WithTimeout(ctx, m.cfg.DialTimeout)
		defer cancel()

		c, err := m.dial(dialCtx, m.url, token.Value)
		if err != nil {
			m.logger.Warn("dial failed", "attempt", attempt, "error", err)
			return retry.RetryableError(fmt.Errorf("open channel: %w", err))
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop читает кадры до обрыва соединения. Каждое чтение ограничено
// окном heartbeat: сервер обязан присылать хоть что-то (данные или
// ping) чаще этого окна, иначе соединение признается мертвым.
func (m *Manager) readLoop(ctx context.Context, conn Conn) error {
	for {
		readCtx, cancel := context.WithTimeout(ctx, m.cfg.HeartbeatIdle)
		data, err := conn.Read(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("no frames for %s, assuming dead connection", m.cfg.HeartbeatIdle)
			}
			return err
		}

		select {
		case m.frames <- data:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// attemptStatus вычисляет статус для начала очередной попытки.
// Свежее соединение начинается с Connecting, после обрыва или неудачи
// счетчик попыток виден подписчикам.
func (m *Manager) attemptStatus(attempt int, afterDrop bool) models.ConnectionStatus {
	if !afterDrop && attempt == 1 {
		return models.ConnectionStatus{State: models.StateConnecting}
	}
	n := attempt - 1
	if afterDrop {
		n = attempt
	}
	return models.ConnectionStatus{State: models.StateReconnecting, Attempt: n}
}

func (m *Manager) publish(status models.ConnectionStatus) {
	select {
	case m.statusCh <- status:
	default:
		m.logger.Warn("status update dropped, subscriber not keeping up", "status", status.String())
	}
}

func (m *Manager) drainRetry() {
	select {
	case <-m.retryCh:
	default:
	}
}
