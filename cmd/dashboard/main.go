package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/app"
	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/version"
)

const (
	envUpstreamBaseURL      = "OMD_UPSTREAM_BASE_URL"
	envMetricsAddr          = "OMD_METRICS_ADDR"
	envSessionFile          = "OMD_SESSION_FILE"
	envBranchID             = "OMD_BRANCH_ID"
	envViewMode             = "OMD_VIEW_MODE"
	envPageSize             = "OMD_PAGE_SIZE"
	envAutoRefreshInterval  = "OMD_AUTO_REFRESH_INTERVAL"
	envSessionCheckInterval = "OMD_SESSION_CHECK_INTERVAL"
	envHTTPTimeout          = "OMD_HTTP_TIMEOUT"
)

// envLookup абстрагирует os.LookupEnv для тестов.
type envLookup func(string) (string, bool)

// mapLookup строит envLookup поверх карты.
func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// setupLogger настраивает формат и уровень логирования демона.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if v := os.Getenv("OMD_LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			log.WithField("value", v).Warn("unknown log level, keeping info")
			return
		}
		log.SetLevel(level)
	}
}

// readConfigFromEnv формирует конфигурацию из переменных окружения.
// Некорректные значения не роняют запуск: поле остаётся со значением
// по умолчанию, а причина возвращается предупреждением.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookup(envUpstreamBaseURL); ok && strings.TrimSpace(v) != "" {
		cfg.UpstreamBaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envSessionFile); ok && strings.TrimSpace(v) != "" {
		cfg.SessionFile = strings.TrimSpace(v)
	}
	if v, ok := lookup(envBranchID); ok {
		cfg.BranchID = strings.TrimSpace(v)
	}
	if v, ok := lookup(envViewMode); ok {
		mode := domain.ViewMode(strings.ToLower(strings.TrimSpace(v)))
		if mode.IsValid() {
			cfg.ViewMode = mode
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: unknown view mode %q", envViewMode, v))
		}
	}
	if v, ok := lookup(envPageSize); ok {
		if n, err := parsePositiveInt(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envPageSize, err))
		} else {
			cfg.PageSize = n
		}
	}
	if v, ok := lookup(envAutoRefreshInterval); ok {
		if d, err := parseInterval(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envAutoRefreshInterval, err))
		} else {
			cfg.AutoRefreshInterval = d
		}
	}
	if v, ok := lookup(envSessionCheckInterval); ok {
		if d, err := parsePositiveInterval(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envSessionCheckInterval, err))
		} else {
			cfg.SessionCheckInterval = d
		}
	}
	if v, ok := lookup(envHTTPTimeout); ok {
		if d, err := parsePositiveInterval(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envHTTPTimeout, err))
		} else {
			cfg.HTTPTimeout = d
		}
	}

	return cfg, warnings
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// parseInterval допускает ноль: так отключается автообновление.
func parseInterval(value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("not a duration: %q", value)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", d)
	}
	return d, nil
}

func parsePositiveInterval(value string) (time.Duration, error) {
	d, err := parseInterval(value)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func main() {
	// .env удобен для локальной разработки, в проде его просто нет.
	_ = godotenv.Load()
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"upstream":     cfg.UpstreamBaseURL,
		"metrics_addr": cfg.MetricsAddr,
		"branch_id":    cfg.BranchID,
		"view_mode":    cfg.ViewMode,
		"version":      version.String(),
	}).Info("запускаем панель заказов")

	err := app.Run(ctx, cfg)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, domain.ErrSessionExpired):
		log.Warn("сессия истекла, войдите заново")
		os.Exit(1)
	default:
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("панель заказов остановлена")
}
