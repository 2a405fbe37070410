package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewCartMetricsWithRegisterer(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCartMetricsWithRegisterer(registry)

	if m.operations == nil || m.fallbacks == nil || m.remoteDuration == nil {
		t.Fatal("vector collectors should not be nil")
	}
	if m.lines == nil || m.units == nil {
		t.Fatal("gauges should not be nil")
	}
}

func TestNewCartMetrics_ReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewCartMetricsWithRegisterer(registry)
	second := NewCartMetricsWithRegisterer(registry)

	first.RecordPersistFailure()
	second.RecordPersistFailure()

	if got := testutil.ToFloat64(first.persistFailures); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}

func TestRecordOperation(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOperation("add", "remote", OutcomeOK)
	m.RecordOperation("add", "remote", OutcomeFallback)
	m.RecordOperation("add", "local", OutcomeOK)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("add", "remote", OutcomeOK)); got != 1 {
		t.Errorf("expected 1 remote ok op, got %v", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("add")); got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("add", "local", OutcomeOK)); got != 1 {
		t.Errorf("expected 1 local op, got %v", got)
	}
}

func TestSetCartSize(t *testing.T) {
	m := NewCartMetricsWithRegisterer(prometheus.NewRegistry())
	m.SetCartSize(2, 7)

	if got := testutil.ToFloat64(m.lines); got != 2 {
		t.Errorf("expected 2 lines, got %v", got)
	}
	if got := testutil.ToFloat64(m.units); got != 7 {
		t.Errorf("expected 7 units, got %v", got)
	}
}

func TestRecordRemoteDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCartMetricsWithRegisterer(registry)
	m.RecordRemoteDuration("remove", 120*time.Millisecond)

	if got := testutil.CollectAndCount(m.remoteDuration); got != 1 {
		t.Fatalf("expected 1 histogram series, got %d", got)
	}

	histogram, ok := m.remoteDuration.WithLabelValues("remove").(prometheus.Histogram)
	if !ok {
		t.Fatal("observer should be a histogram")
	}
	metric := &dto.Metric{}
	if err := histogram.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected 1 sample, got %d", metric.Histogram.GetSampleCount())
	}
	if sum := metric.Histogram.GetSampleSum(); sum < 0.119 || sum > 0.121 {
		t.Errorf("expected sample sum 0.12, got %f", sum)
	}
}
