package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы операции корзины для метки outcome.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// CartMetrics содержит метрики хранилища корзины.
type CartMetrics struct {
	operations      *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	persistFailures prometheus.Counter
	publishFailures prometheus.Counter

	// Текущее состояние корзины
	lines prometheus.Gauge
	units prometheus.Gauge
}

// NewCartMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewCartMetrics() *CartMetrics {
	return NewCartMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCartMetricsWithRegisterer регистрирует метрики в переданном реестре;
// повторная регистрация возвращает уже существующие коллекторы.
func NewCartMetricsWithRegisterer(registerer prometheus.Registerer) *CartMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CartMetrics{
		operations: register(registerer, "markethub_cart_operations_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "markethub_cart_operations_total",
			Help: "Cart operations by operation, strategy and outcome",
		}, []string{"op", "strategy", "outcome"})),
		fallbacks: register(registerer, "markethub_cart_fallbacks_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "markethub_cart_fallbacks_total",
			Help: "Remote cart failures masked by a local fallback mutation",
		}, []string{"op"})),
		remoteDuration: register(registerer, "markethub_cart_remote_duration_seconds", prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "markethub_cart_remote_duration_seconds",
			Help:    "Duration of remote cart API calls in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"op"})),
		persistFailures: register(registerer, "markethub_cart_persist_failures_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "markethub_cart_persist_failures_total",
			Help: "Failed writes of the cart to durable local storage",
		})),
		publishFailures: register(registerer, "markethub_cart_event_publish_failures_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "markethub_cart_event_publish_failures_total",
			Help: "Cart events that could not be published",
		})),
		lines: register(registerer, "markethub_cart_lines", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "markethub_cart_lines",
			Help: "Number of distinct line items in the cart",
		})),
		units: register(registerer, "markethub_cart_units", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "markethub_cart_units",
			Help: "Total quantity across all line items in the cart",
		})),
	}
}

func register[T prometheus.Collector](registerer prometheus.Registerer, name string, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", name))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector %q: %v", name, err))
	}
	return collector
}

// RecordOperation учитывает завершённую операцию.
func (m *CartMetrics) RecordOperation(op, strategy, outcome string) {
	m.operations.WithLabelValues(op, strategy, outcome).Inc()
	if outcome == OutcomeFallback {
		m.fallbacks.WithLabelValues(op).Inc()
	}
}

// RecordRemoteDuration записывает длительность удалённого вызова.
func (m *CartMetrics) RecordRemoteDuration(op string, duration time.Duration) {
	m.remoteDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordPersistFailure увеличивает счётчик ошибок записи.
func (m *CartMetrics) RecordPersistFailure() {
	m.persistFailures.Inc()
}

// RecordPublishFailure увеличивает счётчик неопубликованных событий.
func (m *CartMetrics) RecordPublishFailure() {
	m.publishFailures.Inc()
}

// SetCartSize обновляет gauge текущего размера корзины.
func (m *CartMetrics) SetCartSize(lines, units int) {
	m.lines.Set(float64(lines))
	m.units.Set(float64(units))
}
