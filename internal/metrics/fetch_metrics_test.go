package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewFetchMetrics_Isolated(t *testing.T) {
	m := newFetchMetricsWithRegisterer(prometheus.NewRegistry())

	if m == nil {
		t.Fatal("newFetchMetricsWithRegisterer should not return nil")
	}
	if m.fetchesTotal == nil {
		t.Error("fetchesTotal counter vec should not be nil")
	}
	if m.dedupSkips == nil {
		t.Error("dedupSkips counter should not be nil")
	}
	if m.deferredEvents == nil {
		t.Error("deferredEvents counter should not be nil")
	}
	if m.memoResets == nil {
		t.Error("memoResets counter should not be nil")
	}
	if m.fetchDuration == nil {
		t.Error("fetchDuration histogram should not be nil")
	}
	if m.inFlight == nil {
		t.Error("inFlight gauge should not be nil")
	}
}

func TestNewFetchMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newFetchMetricsWithRegisterer(reg)
	second := newFetchMetricsWithRegisterer(reg)

	// Повторная регистрация должна вернуть существующие коллекторы, а не паниковать.
	if first.dedupSkips != second.dedupSkips {
		t.Error("expected the same counter instance on re-registration")
	}
}

func TestFetchMetrics_RecordFetch(t *testing.T) {
	m := newFetchMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordFetch(FetchResultOK, 120*time.Millisecond)
	m.RecordFetch(FetchResultError, 30*time.Millisecond)
	m.RecordFetch(FetchResultOK, 80*time.Millisecond)

	metric := &dto.Metric{}
	if err := m.fetchesTotal.WithLabelValues(FetchResultOK).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 ok fetches, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := m.fetchesTotal.WithLabelValues(FetchResultError).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 failed fetch, got %f", metric.Counter.GetValue())
	}
}

func TestFetchMetrics_InFlightGauge(t *testing.T) {
	m := newFetchMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordFetchStarted()

	metric := &dto.Metric{}
	if err := m.inFlight.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if metric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected 1 in-flight fetch, got %f", metric.Gauge.GetValue())
	}

	m.RecordFetchFinished()

	metric = &dto.Metric{}
	if err := m.inFlight.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if metric.Gauge.GetValue() != 0.0 {
		t.Errorf("expected 0 in-flight fetches, got %f", metric.Gauge.GetValue())
	}
}

func TestSessionMetrics_RecordCheck(t *testing.T) {
	m := newSessionMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCheck(SessionCheckValid)
	m.RecordCheck(SessionCheckValid)
	m.RecordCheck(SessionCheckExpired)
	m.RecordForcedLogout()

	metric := &dto.Metric{}
	if err := m.checksTotal.WithLabelValues(SessionCheckValid).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 valid checks, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := m.forcedLogouts.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 forced logout, got %f", metric.Counter.GetValue())
	}
}
