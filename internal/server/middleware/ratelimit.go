package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает частоту запросов по ключу (IP адрес).
// Для каждого ключа поддерживается отдельный token bucket x/time/rate.
type RateLimiter struct {
	entries  map[string]*limiterEntry
	logger   *slog.Logger
	cleanupC chan struct{}
	limit    rate.Limit
	burst    int
	window   time.Duration
	mu       sync.Mutex
}

// limiterEntry хранит limiter и время последнего обращения для cleanup
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает новый rate limiter
// requests - максимальное количество запросов в пределах window
// window - временное окно (например, 1 минута)
func NewRateLimiter(requests int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		entries:  make(map[string]*limiterEntry),
		logger:   logger,
		cleanupC: make(chan struct{}),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
	}

	// Запускаем периодическую очистку неактивных ключей
	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные записи для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldEntries()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldEntries удаляет ключи, не встречавшиеся дольше 2*window
func (rl *RateLimiter) cleanupOldEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, entry := range rl.entries {
		if now.Sub(entry.lastSeen) > rl.window*2 {
			delete(rl.entries, key)
		}
	}
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.cleanupC)
}

// Allow проверяет, разрешен ли запрос для данного ключа (обычно IP адрес)
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, exists := rl.entries[key]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rl.limit, rl.burst),
		}
		rl.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// limitedHandler оборачивает next проверкой лимита; pick выбирает
// limiter для конкретного запроса
func limitedHandler(next http.Handler, pick func(r *http.Request) *RateLimiter, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Используем IP адрес как ключ
		key := getClientIP(r)

		if !pick(r).Allow(key) {
			logger.Warn("Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded, please try again later"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware создает middleware с единым лимитом для всех путей
// requests - максимальное количество запросов
// window - временное окно (например, 1 минута)
func RateLimitMiddleware(requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(requests, window, logger)

	return func(next http.Handler) http.Handler {
		return limitedHandler(next, func(*http.Request) *RateLimiter { return limiter }, logger)
	}
}

// PathRateLimit задает отдельный лимит для конкретного пути
type PathRateLimit struct {
	Path     string
	Requests int
	Window   time.Duration
}

// RateLimitByPathMiddleware создает middleware с кастомными лимитами для путей.
// Логин получает жесткий лимит против перебора паролей, остальные
// эндпоинты — общий.
func RateLimitByPathMiddleware(limits []PathRateLimit, defaultRequests int, defaultWindow time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	limiters := make(map[string]*RateLimiter, len(limits))
	for _, limit := range limits {
		limiters[limit.Path] = NewRateLimiter(limit.Requests, limit.Window, logger)
	}

	// Дефолтный limiter для всех остальных путей
	defaultLimiter := NewRateLimiter(defaultRequests, defaultWindow, logger)

	pick := func(r *http.Request) *RateLimiter {
		if limiter, ok := limiters[r.URL.Path]; ok {
			return limiter
		}
		return defaultLimiter
	}

	return func(next http.Handler) http.Handler {
		return limitedHandler(next, pick, logger)
	}
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	// Проверяем X-Forwarded-For (для прокси/load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Берем первый IP из списка (реальный клиент)
		for idx := 0; idx < len(xff); idx++ {
			if xff[idx] == ',' {
				return xff[:idx]
			}
		}
		return xff
	}

	// Проверяем X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Используем RemoteAddr
	return r.RemoteAddr
}
