package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus collectors for the board server. Counters are bumped by the
// session handler; the board gauges are refreshed after every mutating
// command. Exposed on the ops listener via promhttp.

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinboard_commands_total",
			Help: "Commands processed, by verb and outcome.",
		},
		[]string{"command", "status"},
	)

	commandSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pinboard_command_seconds",
			Help:    "Command handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pinboard_sessions_active",
		Help: "Currently connected sessions.",
	})

	notesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pinboard_notes",
		Help: "Notes currently on the board.",
	})

	pinsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pinboard_pins",
		Help: "Pins currently on the board.",
	})
)

func init() {
	prometheus.MustRegister(commandsTotal, commandSeconds, sessionsActive, notesGauge, pinsGauge)
}

// CommandHandled records one processed command and its latency.
func CommandHandled(command string, ok bool, d time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	commandsTotal.WithLabelValues(command, status).Inc()
	commandSeconds.WithLabelValues(command).Observe(d.Seconds())
}

// SessionOpened increments the active session gauge.
func SessionOpened() { sessionsActive.Inc() }

// SessionClosed decrements the active session gauge.
func SessionClosed() { sessionsActive.Dec() }

// SetBoard refreshes the note and pin gauges.
func SetBoard(notes, pins int) {
	notesGauge.Set(float64(notes))
	pinsGauge.Set(float64(pins))
}
