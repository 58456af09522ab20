package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

// Config описывает настройки запуска демона панели заказов.
type Config struct {
	// UpstreamBaseURL — адрес API заказов.
	UpstreamBaseURL string
	// MetricsAddr — адрес HTTP-сервера метрик и health-проверок.
	MetricsAddr string
	// SessionFile — путь к файлу локальной сессии.
	SessionFile string

	// BranchID и ViewMode задают начальное состояние панели.
	BranchID string
	ViewMode domain.ViewMode
	// PageSize — размер страницы; ноль оставляет значение по умолчанию.
	PageSize int

	// AutoRefreshInterval — период фонового обновления активного списка.
	// Ноль отключает автообновление.
	AutoRefreshInterval time.Duration
	// SessionCheckInterval — период проверки срока жизни сессии.
	SessionCheckInterval time.Duration
	// HTTPTimeout — таймаут запросов к апстриму.
	HTTPTimeout time.Duration
}

// DefaultConfig возвращает настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		UpstreamBaseURL:      "http://localhost:8080",
		MetricsAddr:          ":9090",
		SessionFile:          defaultSessionFile(),
		ViewMode:             domain.ViewModePending,
		AutoRefreshInterval:  time.Minute,
		SessionCheckInterval: 30 * time.Second,
		HTTPTimeout:          15 * time.Second,
	}
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	if !c.ViewMode.IsValid() {
		return domain.ErrInvalidViewMode
	}
	return nil
}

// defaultSessionFile кладёт сессию в домашний каталог пользователя,
// при его отсутствии в текущий каталог.
func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "omd-session.json"
	}
	return filepath.Join(home, ".omd", "session.json")
}
