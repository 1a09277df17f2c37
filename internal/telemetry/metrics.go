package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EventsQueued counts events accepted onto the bus, by kind.
	EventsQueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "events_queued_total",
			Help:      "Total number of events queued on the event bus",
		},
		[]string{"kind"},
	)

	// EventsProcessed counts events drained by the worker loop, by kind.
	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "events_processed_total",
			Help:      "Total number of events processed by the worker loop",
		},
		[]string{"kind"},
	)

	// KeyCodeAttempts counts key-code entries by outcome (accepted/rejected).
	KeyCodeAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "keycode_attempts_total",
			Help:      "Total number of key-code entries received",
		},
		[]string{"result"},
	)

	// KeypadLockouts counts keypad lock commands issued by the failed-attempt
	// response engine.
	KeypadLockouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "keypad_lockouts_total",
			Help:      "Total number of keypad lockouts issued",
		},
	)

	// SensorTriggers counts sensor trigger events, by device name.
	SensorTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "sensor_triggers_total",
			Help:      "Total number of sensor trigger events published",
		},
		[]string{"device"},
	)

	// OutboundFailures counts failed outbound calls to the keypad, by reason.
	OutboundFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shedctl",
			Name:      "outbound_failures_total",
			Help:      "Total number of failed outbound keypad calls",
		},
		[]string{"route", "reason"},
	)

	// AlarmState exports the current alarm state (0=deactivated, 1=activated,
	// 2=triggered).
	AlarmState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shedctl",
			Name:      "alarm_state",
			Help:      "Current alarm state (0=deactivated, 1=activated, 2=triggered)",
		},
	)

	// LiveDevices exports the number of successfully initialised devices.
	LiveDevices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shedctl",
			Name:      "live_devices",
			Help:      "Number of live hardware device instances",
		},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call from every binary.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(EventsQueued)
		prometheus.DefaultRegisterer.Register(EventsProcessed)
		prometheus.DefaultRegisterer.Register(KeyCodeAttempts)
		prometheus.DefaultRegisterer.Register(KeypadLockouts)
		prometheus.DefaultRegisterer.Register(SensorTriggers)
		prometheus.DefaultRegisterer.Register(OutboundFailures)
		prometheus.DefaultRegisterer.Register(AlarmState)
		prometheus.DefaultRegisterer.Register(LiveDevices)
	})
}
