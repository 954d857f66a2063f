// Package metrics holds the Prometheus collectors for the dialogue server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: source (http, ws, mqtt), status (ok, error)
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dialcore",
		Subsystem: "dialogue",
		Name:      "turns_total",
		Help:      "Dialogue turns by source and outcome",
	}, []string{"source", "status"})

	parseLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dialcore",
		Subsystem: "nlu",
		Name:      "parse_latency_seconds",
		Help:      "Time spent parsing one utterance",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
	})

	turnLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dialcore",
		Subsystem: "dialogue",
		Name:      "turn_latency_seconds",
		Help:      "Time spent running the pipeline for one turn",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// Labels: intent
	dialogueActItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dialcore",
		Subsystem: "nlu",
		Name:      "dai_total",
		Help:      "Dialogue act items emitted by intent",
	}, []string{"intent"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dialcore",
		Subsystem: "session",
		Name:      "active",
		Help:      "Live dialogue sessions",
	})

	sessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dialcore",
		Subsystem: "session",
		Name:      "expired_total",
		Help:      "Sessions dropped by the idle sweeper",
	})
)

func RecordTurn(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	turnsTotal.WithLabelValues(source, status).Inc()
}

func ObserveParse(d time.Duration, intents []string) {
	parseLatencySeconds.Observe(d.Seconds())
	for _, intent := range intents {
		dialogueActItemsTotal.WithLabelValues(intent).Inc()
	}
}

func ObserveTurn(d time.Duration, intents []string) {
	turnLatencySeconds.Observe(d.Seconds())
	for _, intent := range intents {
		dialogueActItemsTotal.WithLabelValues(intent).Inc()
	}
}

func SetActiveSessions(n int) { activeSessions.Set(float64(n)) }

func RecordExpired(n int) { sessionsExpiredTotal.Add(float64(n)) }
