package metrics

import "github.com/prometheus/client_golang/prometheus"

// Результаты проверки сессии для лейбла result.
const (
	SessionCheckValid   = "valid"
	SessionCheckExpired = "expired"
)

// SessionMetrics содержит метрики стража сессии.
type SessionMetrics struct {
	checksTotal   *prometheus.CounterVec
	forcedLogouts prometheus.Counter
}

// NewSessionMetrics создаёт метрики стража сессии в default registry.
func NewSessionMetrics() *SessionMetrics {
	return newSessionMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSessionMetricsWithRegisterer(registerer prometheus.Registerer) *SessionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SessionMetrics{
		checksTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "omd_session_checks_total",
			Help: "Total number of credential expiry checks grouped by result.",
		}, []string{"result"}),
		forcedLogouts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "omd_session_forced_logouts_total",
			Help: "Total number of forced logouts caused by an expired or unreadable credential.",
		}),
	}
}

// RecordCheck фиксирует результат одной проверки срока действия.
func (m *SessionMetrics) RecordCheck(result string) {
	m.checksTotal.WithLabelValues(result).Inc()
}

// RecordForcedLogout увеличивает счётчик принудительных выходов.
func (m *SessionMetrics) RecordForcedLogout() {
	m.forcedLogouts.Inc()
}
