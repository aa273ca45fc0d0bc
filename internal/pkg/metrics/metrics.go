// Package metrics содержит Prometheus метрики сервиса.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healmind"

// Metrics хранит собственный реестр и все метрики приложения.
type Metrics struct {
	registry *prometheus.Registry

	SamplesTracked    prometheus.Counter
	SamplesDropped    prometheus.Counter
	MessagesSent      *prometheus.CounterVec
	SamplesIngested   prometheus.Counter
	PredictionsStored *prometheus.CounterVec
	BatchDuration     prometheus.Histogram
	ActiveSessions    prometheus.Gauge
}

// New регистрирует метрики в новом реестре.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		SamplesTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_tracked_total",
			Help:      "Количество валидных измерений пульса, полученных трекером.",
		}),
		SamplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_dropped_total",
			Help:      "Количество измерений с невалидным статусом пульса.",
		}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Отправленные сообщения по результату.",
		}, []string{"result"}),
		SamplesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_ingested_total",
			Help:      "Измерения, сохранённые слушателем сообщений.",
		}),
		PredictionsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stress_predictions_total",
			Help:      "Сохранённые предсказания стресса по уровню.",
		}, []string{"level"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stress_batch_duration_seconds",
			Help:      "Длительность пакетной обработки стресса.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_tracking_sessions",
			Help:      "Количество сессий с активным трекингом.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		m.SamplesTracked,
		m.SamplesDropped,
		m.MessagesSent,
		m.SamplesIngested,
		m.PredictionsStored,
		m.BatchDuration,
		m.ActiveSessions,
	)
	return m
}

// Registry возвращает реестр метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP обработчик для /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
