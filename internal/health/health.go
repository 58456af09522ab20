// Package health отдаёт состояние демона панели по HTTP.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — итоговое состояние компонента.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — тело ответа /healthz.
type Response struct {
	Status        Status    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version,omitempty"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Checks        []Check   `json:"checks,omitempty"`
}

type namedCheck struct {
	name string
	fn   func() error
}

// Handler агрегирует проверки и отвечает на /healthz.
// Проверки выполняются в порядке регистрации.
type Handler struct {
	mu        sync.RWMutex
	checks    []namedCheck
	version   string
	startTime time.Time
}

// NewHandler создаёт handler с меткой версии.
func NewHandler(version string) *Handler {
	return &Handler{
		version:   version,
		startTime: time.Now(),
	}
}

// Register добавляет именованную проверку. Ошибка означает StatusDown.
func (h *Handler) Register(name string, fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, namedCheck{name: name, fn: fn})
}

// ServeHTTP выполняет все проверки и отдаёт агрегированный статус.
// Любая упавшая проверка переводит ответ в 503.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make([]namedCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	response := Response{
		Status:        StatusUp,
		Timestamp:     time.Now(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	for _, check := range checks {
		started := time.Now()
		err := check.fn()
		result := Check{
			Name:       check.name,
			Status:     StatusUp,
			DurationMs: time.Since(started).Milliseconds(),
		}
		if err != nil {
			result.Status = StatusDown
			result.Message = err.Error()
			response.Status = StatusDown
		}
		response.Checks = append(response.Checks, result)
	}

	statusCode := http.StatusOK
	if response.Status == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// Liveness всегда отвечает 200: процесс жив, раз отвечает.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
