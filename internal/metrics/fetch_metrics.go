package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты выборки для лейбла result.
const (
	FetchResultOK             = "ok"
	FetchResultError          = "error"
	FetchResultStaleDiscarded = "stale_discarded"
)

// FetchMetrics содержит метрики координатора выборок.
type FetchMetrics struct {
	fetchesTotal   *prometheus.CounterVec
	dedupSkips     prometheus.Counter
	deferredEvents prometheus.Counter
	memoResets     prometheus.Counter
	fetchDuration  prometheus.Histogram
	inFlight       prometheus.Gauge
}

// NewFetchMetrics создаёт метрики координатора в default registry.
func NewFetchMetrics() *FetchMetrics {
	return newFetchMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newFetchMetricsWithRegisterer(registerer prometheus.Registerer) *FetchMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FetchMetrics{
		fetchesTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "omd_fetches_total",
			Help: "Total number of upstream fetches grouped by result.",
		}, []string{"result"}),
		dedupSkips: registerCounter(registerer, prometheus.CounterOpts{
			Name: "omd_fetch_dedup_skips_total",
			Help: "Total number of fetch triggers skipped as duplicates of the last completed configuration.",
		}),
		deferredEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "omd_fetch_deferred_triggers_total",
			Help: "Total number of triggers deferred because a fetch was already in flight.",
		}),
		memoResets: registerCounter(registerer, prometheus.CounterOpts{
			Name: "omd_fetch_memo_resets_total",
			Help: "Total number of dedup memo invalidations (branch switches and forced refreshes).",
		}),
		fetchDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "omd_fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "omd_fetches_in_flight",
			Help: "Number of fetches currently in flight (0 or 1 per coordinator).",
		}),
	}
}

// RecordFetch фиксирует завершение выборки с данным результатом.
func (m *FetchMetrics) RecordFetch(result string, duration time.Duration) {
	m.fetchesTotal.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

// RecordDedupSkip увеличивает счётчик пропущенных дублей.
func (m *FetchMetrics) RecordDedupSkip() {
	m.dedupSkips.Inc()
}

// RecordDeferredTrigger увеличивает счётчик отложенных триггеров.
func (m *FetchMetrics) RecordDeferredTrigger() {
	m.deferredEvents.Inc()
}

// RecordMemoReset увеличивает счётчик сбросов dedup-мемо.
func (m *FetchMetrics) RecordMemoReset() {
	m.memoResets.Inc()
}

// RecordFetchStarted отмечает начало выборки.
func (m *FetchMetrics) RecordFetchStarted() {
	m.inFlight.Inc()
}

// RecordFetchFinished отмечает завершение выборки.
func (m *FetchMetrics) RecordFetchFinished() {
	m.inFlight.Dec()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
