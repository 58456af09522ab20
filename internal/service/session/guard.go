package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/metrics"
)

const defaultCheckInterval = 30 * time.Second

// GuardOptions задаёт параметры стража сессии.
type GuardOptions struct {
	Logger        *log.Entry
	Metrics       *metrics.SessionMetrics
	CheckInterval time.Duration
	Clock         func() time.Time
}

// Option настраивает Guard.
type Option func(*GuardOptions)

// WithLogger задаёт logger для стража.
func WithLogger(logger *log.Entry) Option {
	return func(opts *GuardOptions) {
		opts.Logger = logger
	}
}

// WithMetrics подключает метрики проверок сессии.
func WithMetrics(m *metrics.SessionMetrics) Option {
	return func(opts *GuardOptions) {
		opts.Metrics = m
	}
}

// WithCheckInterval задаёт период фоновой проверки.
func WithCheckInterval(interval time.Duration) Option {
	return func(opts *GuardOptions) {
		opts.CheckInterval = interval
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(clock func() time.Time) Option {
	return func(opts *GuardOptions) {
		opts.Clock = clock
	}
}

// Guard — сторожевой таймер локальной сессии. Он не продлевает и не обновляет
// учётные данные: авторитет — тот, кто выдал исходную метку истечения. Задача
// стража — вовремя заметить истечение, очистить локальные ключи и дёрнуть
// onExpire (аналог редиректа на вход с заменой истории).
type Guard struct {
	store    domain.SessionStore
	onExpire func()
	logger   *log.Entry
	metrics  *metrics.SessionMetrics
	interval time.Duration
	now      func() time.Time
}

// NewGuard создаёт страж сессии поверх локального хранилища.
func NewGuard(store domain.SessionStore, onExpire func(), options ...Option) *Guard {
	opts := GuardOptions{
		CheckInterval: defaultCheckInterval,
		Clock:         time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "session-guard")
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = defaultCheckInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Guard{
		store:    store,
		onExpire: onExpire,
		logger:   logger,
		metrics:  opts.Metrics,
		interval: opts.CheckInterval,
		now:      opts.Clock,
	}
}

// CheckExpiry возвращает true, если сессия действительна. Отсутствие учётных
// данных, нечитаемая метка истечения и прошедший срок равнозначны: локальные
// ключи очищаются и вызывается onExpire.
func (g *Guard) CheckExpiry() bool {
	expiry, err := g.expiryTime()
	if err == nil && g.now().Before(expiry) {
		if g.metrics != nil {
			g.metrics.RecordCheck(metrics.SessionCheckValid)
		}
		return true
	}

	if g.metrics != nil {
		g.metrics.RecordCheck(metrics.SessionCheckExpired)
	}
	if err != nil {
		g.logout("credential unreadable", err)
	} else {
		g.logout("credential expired", nil)
	}
	return false
}

// Logout явно завершает сессию: очищает все локальные ключи и вызывает onExpire.
func (g *Guard) Logout(reason string) {
	g.logout(reason, nil)
}

// Run выполняет немедленную проверку, затем проверяет сессию каждые interval
// и дополнительно будит одноразовый таймер точно в момент истечения, чтобы
// выход не задерживался до следующего тика. После принудительного логаута
// цикл завершается: сессии больше нет, повторные проверки лишь дёргали бы
// onExpire заново. Оба таймера освобождаются при выходе.
func (g *Guard) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(g.untilDeadline())
	defer deadline.Stop()

	if !g.CheckExpiry() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !g.CheckExpiry() {
				return
			}
		case <-deadline.C:
			if !g.CheckExpiry() {
				return
			}
		}
		resetTimer(deadline, g.untilDeadline())
	}
}

// untilDeadline возвращает время до момента истечения текущей учётной записи.
// Без читаемой метки одноразовый таймер совпадает с периодической проверкой.
func (g *Guard) untilDeadline() time.Duration {
	expiry, err := g.expiryTime()
	if err != nil {
		return g.interval
	}
	until := expiry.Sub(g.now())
	if until <= 0 {
		return g.interval
	}
	return until
}

// expiryTime читает метку истечения: сначала явный ключ, затем exp-claim
// самого токена. Подпись здесь не проверяется — страж только наблюдает срок.
func (g *Guard) expiryTime() (time.Time, error) {
	if raw, err := g.store.Get(domain.SessionKeyTokenExpiry); err == nil {
		expiry, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(raw))
		if parseErr != nil {
			return time.Time{}, fmt.Errorf("parse expiry timestamp: %w", parseErr)
		}
		return expiry, nil
	}

	token, err := g.store.Get(domain.SessionKeyToken)
	if err != nil {
		return time.Time{}, domain.ErrSessionExpired
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token claims: %w", err)
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, domain.ErrSessionExpired
	}
	return expiry.Time, nil
}

func (g *Guard) logout(reason string, cause error) {
	entry := g.logger.WithField("reason", reason)
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Warn("session terminated, clearing local keys")

	if err := g.store.Clear(); err != nil {
		g.logger.WithError(err).Warn("failed to clear session store")
	}
	if g.metrics != nil {
		g.metrics.RecordForcedLogout()
	}
	if g.onExpire != nil {
		g.onExpire()
	}
}

// resetTimer перезапускает таймер, предварительно осушив его канал.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
