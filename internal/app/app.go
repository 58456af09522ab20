package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/gateway/upstream"
	healthcheck "github.com/vladislavdragonenkov/omd/internal/health"
	"github.com/vladislavdragonenkov/omd/internal/metrics"
	"github.com/vladislavdragonenkov/omd/internal/service/fetch"
	"github.com/vladislavdragonenkov/omd/internal/service/orders"
	sessionguard "github.com/vladislavdragonenkov/omd/internal/service/session"
	"github.com/vladislavdragonenkov/omd/internal/storage/file"
	"github.com/vladislavdragonenkov/omd/internal/storage/memory"
	"github.com/vladislavdragonenkov/omd/internal/version"
)

// Run собирает демона панели заказов и блокируется до остановки.
// Демон завершается по сигналу (ctx) или принудительным логаутом
// при истечении сессии.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := log.WithField("component", "app")

	sessionStore, err := file.NewSessionStore(cfg.SessionFile)
	if err != nil {
		return err
	}

	gateway := upstream.NewClient(cfg.UpstreamBaseURL, sessionStore,
		upstream.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		upstream.WithLogger(log.WithField("component", "upstream-client")),
	)

	store := memory.NewOrderStore()
	manager := orders.NewManager(store, gateway, logger)
	coordinator := fetch.NewCoordinator(gateway, manager, log.WithField("component", "fetch-coordinator"))
	manager.BindCoordinator(coordinator)

	// Истечение сессии гасит весь демон: без токена данных не будет.
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	guard := sessionguard.NewGuard(sessionStore, stop,
		sessionguard.WithLogger(log.WithField("component", "session-guard")),
		sessionguard.WithMetrics(metrics.NewSessionMetrics()),
		sessionguard.WithCheckInterval(cfg.SessionCheckInterval),
	)

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.Register("session", func() error {
		_, err := sessionStore.Get(domain.SessionKeyToken)
		return err
	})

	metricsSrv := startMetricsServer(runCtx, cfg.MetricsAddr, logger, healthHandler)
	defer shutdownHTTP(metricsSrv, logger)

	go guard.Run(runCtx)

	if err := applyInitialState(runCtx, manager, cfg); err != nil {
		return err
	}

	if cfg.AutoRefreshInterval > 0 {
		go runAutoRefresh(runCtx, manager, cfg.AutoRefreshInterval, logger)
	}

	<-runCtx.Done()
	if ctx.Err() != nil {
		logger.Info("получен сигнал остановки")
		return ctx.Err()
	}
	logger.Warn("сессия истекла, демон остановлен")
	return domain.ErrSessionExpired
}

// applyInitialState выставляет филиал, режим и размер страницы из конфигурации.
func applyInitialState(ctx context.Context, manager *orders.Manager, cfg Config) error {
	if cfg.PageSize > 0 {
		if err := manager.ChangeItemsPerPage(ctx, cfg.PageSize); err != nil {
			return err
		}
	}
	if cfg.ViewMode != domain.ViewModePending {
		if err := manager.SetViewMode(ctx, cfg.ViewMode); err != nil {
			return err
		}
	}
	if cfg.BranchID != "" {
		if err := manager.SelectBranch(ctx, cfg.BranchID); err != nil {
			return err
		}
	}
	return nil
}

// runAutoRefresh периодически перечитывает активный список.
func runAutoRefresh(ctx context.Context, manager *orders.Manager, interval time.Duration, logger *log.Entry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.WithField("interval", interval).Info("auto refresh enabled")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.Refresh(ctx)
		}
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.Liveness)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
