package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/metrics"
)

// state — фаза конечного автомата координатора.
type state int

const (
	stateIdle state = iota
	stateFetching
)

// Coordinator сериализует сетевые выборки заказов: в полёте не больше одного
// запроса, а конфигурация, совпадающая с последней успешно применённой,
// повторную выборку не запускает.
//
// Триггер, пришедший во время активной выборки, не отменяет её и не ставится
// в очередь: по завершении выборки текущая желаемая конфигурация
// перепроверяется заново. Ответ, чья конфигурация к моменту завершения уже
// не актуальна, отбрасывается и в dedup-мемо не попадает.
type Coordinator struct {
	gateway domain.OrderGateway
	sink    domain.FetchSink
	logger  *log.Entry
	metrics *metrics.FetchMetrics

	mu       sync.Mutex
	state    state
	deferred bool
	current  domain.FetchConfig
	hasCfg   bool
	lastDone *domain.FetchConfig
}

// NewCoordinator создаёт рабочий координатор с метриками в default registry.
func NewCoordinator(gateway domain.OrderGateway, sink domain.FetchSink, logger *log.Entry) *Coordinator {
	c := newCoordinator(gateway, sink, logger)
	c.metrics = metrics.NewFetchMetrics()
	return c
}

// NewCoordinatorWithoutMetrics создаёт координатор без метрик (для тестов).
func NewCoordinatorWithoutMetrics(gateway domain.OrderGateway, sink domain.FetchSink, logger *log.Entry) *Coordinator {
	return newCoordinator(gateway, sink, logger)
}

func newCoordinator(gateway domain.OrderGateway, sink domain.FetchSink, logger *log.Entry) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "fetch-coordinator")
	}
	return &Coordinator{
		gateway: gateway,
		sink:    sink,
		logger:  logger,
	}
}

// Set объявляет новую желаемую конфигурацию и при необходимости запускает выборку.
// Смена филиала немедленно сбрасывает dedup-мемо: первая выборка нового филиала
// не должна быть принята за дубликат, даже если предыдущий запрос ещё в полёте.
func (c *Coordinator) Set(ctx context.Context, cfg domain.FetchConfig) error {
	if cfg.BranchID == "" {
		return domain.ErrBranchRequired
	}
	if !cfg.Mode.IsValid() {
		return domain.ErrInvalidViewMode
	}
	if cfg.Mode == domain.ViewModeBranch {
		if cfg.Page < 1 {
			cfg.Page = 1
		}
		if cfg.PageSize < 1 {
			cfg.PageSize = 1
		}
	} else {
		// Pending-список не пагинируется сервером: страница в ключ не входит.
		cfg.Page = 0
		cfg.PageSize = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasCfg && cfg.BranchID != c.current.BranchID {
		c.invalidateLocked()
	}
	c.current = cfg
	c.hasCfg = true
	c.evaluateLocked(ctx)
	return nil
}

// Refresh принудительно сбрасывает dedup-мемо и перепроверяет текущую
// конфигурацию. Используется после успешных действий над заказами и
// периодическим автообновлением.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasCfg {
		return
	}
	c.invalidateLocked()
	c.evaluateLocked(ctx)
}

// Idle сообщает, что выборка сейчас не выполняется.
func (c *Coordinator) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateIdle
}

// LastCompleted возвращает последнюю успешно применённую конфигурацию.
func (c *Coordinator) LastCompleted() (domain.FetchConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastDone == nil {
		return domain.FetchConfig{}, false
	}
	return *c.lastDone, true
}

func (c *Coordinator) invalidateLocked() {
	if c.lastDone == nil {
		return
	}
	c.lastDone = nil
	if c.metrics != nil {
		c.metrics.RecordMemoReset()
	}
}

// evaluateLocked решает, нужна ли выборка для текущей конфигурации.
// Вызывается только под c.mu.
func (c *Coordinator) evaluateLocked(ctx context.Context) {
	if !c.hasCfg {
		return
	}
	if c.state == stateFetching {
		// Триггер не теряется: завершение выборки перепроверит конфигурацию.
		c.deferred = true
		if c.metrics != nil {
			c.metrics.RecordDeferredTrigger()
		}
		c.logger.WithFields(log.Fields{
			"branch_id": c.current.BranchID,
			"mode":      c.current.Mode,
		}).Debug("fetch in flight, trigger deferred")
		return
	}
	if c.lastDone != nil && c.lastDone.Equal(c.current) {
		if c.metrics != nil {
			c.metrics.RecordDedupSkip()
		}
		c.logger.WithFields(log.Fields{
			"branch_id": c.current.BranchID,
			"mode":      c.current.Mode,
			"page":      c.current.Page,
		}).Debug("configuration already fetched, skipping")
		return
	}

	cfg := c.current
	requestID := uuid.NewString()
	c.state = stateFetching
	c.deferred = false
	if c.metrics != nil {
		c.metrics.RecordFetchStarted()
	}

	go c.fetch(ctx, cfg, requestID)
}

// fetch выполняет один сетевой запрос и коммитит результат, если конфигурация
// всё ещё актуальна. Только успешно применённая конфигурация попадает в мемо:
// неудача оставляет возможность повторить идентичную конфигурацию.
func (c *Coordinator) fetch(ctx context.Context, cfg domain.FetchConfig, requestID string) {
	started := time.Now()
	fetchLogger := c.logger.WithFields(log.Fields{
		"request_id": requestID,
		"branch_id":  cfg.BranchID,
		"mode":       cfg.Mode,
		"page":       cfg.Page,
		"page_size":  cfg.PageSize,
	})
	fetchLogger.Debug("fetch started")

	var (
		pendingOrders []domain.Order
		branchPage    domain.BranchPage
		err           error
	)
	switch cfg.Mode {
	case domain.ViewModeBranch:
		branchPage, err = c.gateway.FetchBranchPage(ctx, cfg.BranchID, cfg.Page, cfg.PageSize)
	default:
		pendingOrders, err = c.gateway.FetchPending(ctx, cfg.BranchID)
	}
	duration := time.Since(started)

	c.mu.Lock()
	stale := !cfg.Equal(c.current)
	if err == nil && !stale {
		done := cfg
		c.lastDone = &done
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordFetchFinished()
	}

	switch {
	case err != nil:
		if c.metrics != nil {
			c.metrics.RecordFetch(metrics.FetchResultError, duration)
		}
		fetchLogger.WithError(err).Warn("fetch failed")
		c.sink.FetchFailed(cfg, err)
	case stale:
		if c.metrics != nil {
			c.metrics.RecordFetch(metrics.FetchResultStaleDiscarded, duration)
		}
		fetchLogger.Debug("fetch completed for outdated configuration, response discarded")
	default:
		if c.metrics != nil {
			c.metrics.RecordFetch(metrics.FetchResultOK, duration)
		}
		if cfg.Mode == domain.ViewModeBranch {
			fetchLogger.WithField("total_items", branchPage.TotalItems).Debug("branch page applied")
			c.sink.ApplyBranchPage(cfg, branchPage)
		} else {
			fetchLogger.WithField("orders", len(pendingOrders)).Debug("pending list applied")
			c.sink.ApplyPending(cfg, pendingOrders)
		}
	}

	// В Idle возвращаемся только после доставки результата приёмнику:
	// Idle() гарантирует, что применённые данные уже видны.
	// Перепроверяем конфигурацию, если она сменилась в полёте либо в полёте
	// пришёл отложенный триггер: после успеха с той же конфигурацией его
	// погасит мемо, а после неудачи он обязан породить повторную выборку.
	// Без триггера неудача повторную попытку не запускает, иначе неисправный
	// апстрим превратил бы цикл в горячий ретрай.
	c.mu.Lock()
	c.state = stateIdle
	retrigger := c.deferred
	c.deferred = false
	if retrigger || !cfg.Equal(c.current) {
		c.evaluateLocked(ctx)
	}
	c.mu.Unlock()
}
