// Package telemetry provides optional Prometheus metrics. The bot
// works untouched when Init is never called: every helper is nil-safe.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	LinesParsed   prometheus.Counter
	CheersSeen    prometheus.Counter
	MessagesSent  prometheus.Counter
	PongsAnswered prometheus.Counter
	TimersFired   prometheus.Counter

	// Gauges
	ChannelUsersGauge prometheus.Gauge
	TimerEntriesGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinesParsed = promauto.NewCounter(prometheus.CounterOpts{Name: "squawk_lines_parsed_total", Help: "Number of protocol lines parsed"})
		CheersSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "squawk_cheers_total", Help: "Number of chat messages carrying bits"})
		MessagesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "squawk_messages_sent_total", Help: "Number of chat messages posted"})
		PongsAnswered = promauto.NewCounter(prometheus.CounterOpts{Name: "squawk_pongs_answered_total", Help: "Number of PING probes acknowledged"})
		TimersFired = promauto.NewCounter(prometheus.CounterOpts{Name: "squawk_timers_fired_total", Help: "Number of timer callbacks invoked"})
		ChannelUsersGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "squawk_channel_users", Help: "Current size of the joined-user set"})
		TimerEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "squawk_timer_entries", Help: "Current number of registered timer entries"})
	})
}

// LineParsed counts one dispatched protocol line.
func LineParsed() {
	if LinesParsed != nil {
		LinesParsed.Inc()
	}
}

// CheerSeen counts one bits-carrying chat message.
func CheerSeen() {
	if CheersSeen != nil {
		CheersSeen.Inc()
	}
}

// MessageSent counts one posted chat message.
func MessageSent() {
	if MessagesSent != nil {
		MessagesSent.Inc()
	}
}

// PongAnswered counts one acknowledged liveness probe.
func PongAnswered() {
	if PongsAnswered != nil {
		PongsAnswered.Inc()
	}
}

// TimerFired counts one invoked timer callback.
func TimerFired() {
	if TimersFired != nil {
		TimersFired.Inc()
	}
}

// SetChannelUsers records the joined-user set size.
func SetChannelUsers(n int) {
	if ChannelUsersGauge != nil {
		ChannelUsersGauge.Set(float64(n))
	}
}

// SetTimerEntries records the registered timer-entry count.
func SetTimerEntries(n int) {
	if TimerEntriesGauge != nil {
		TimerEntriesGauge.Set(float64(n))
	}
}
