package nosleep

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides operational metrics for a NoSleep controller.
// It uses Go's expvar package for exposition, which can be accessed via
// the /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
type Metrics struct {
	// Counters
	acquires        atomic.Int64
	acquireFailures atomic.Int64
	releases        atomic.Int64
	releaseFailures atomic.Int64

	// Latency tracking (stored as nanoseconds)
	acquireLatencyNs    atomic.Int64
	acquireLatencyCount atomic.Int64

	// Current state gauge
	activeSessions atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	expvar.Publish("nosleep_acquires_total", expvar.Func(func() any { return m.acquires.Load() }))
	expvar.Publish("nosleep_acquire_failures_total", expvar.Func(func() any { return m.acquireFailures.Load() }))
	expvar.Publish("nosleep_releases_total", expvar.Func(func() any { return m.releases.Load() }))
	expvar.Publish("nosleep_release_failures_total", expvar.Func(func() any { return m.releaseFailures.Load() }))
	expvar.Publish("nosleep_active_sessions", expvar.Func(func() any { return m.activeSessions.Load() }))
	expvar.Publish("nosleep_acquire_latency_avg_ms", expvar.Func(func() any {
		count := m.acquireLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.acquireLatencyNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.acquireLatencyCount.Load()
	avg := time.Duration(0)
	if count > 0 {
		avg = time.Duration(m.acquireLatencyNs.Load() / count)
	}
	return MetricsSnapshot{
		Acquires:          m.acquires.Load(),
		AcquireFailures:   m.acquireFailures.Load(),
		Releases:          m.releases.Load(),
		ReleaseFailures:   m.releaseFailures.Load(),
		ActiveSessions:    int(m.activeSessions.Load()),
		AcquireLatencyAvg: avg,
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Acquires          int64
	AcquireFailures   int64
	Releases          int64
	ReleaseFailures   int64
	ActiveSessions    int
	AcquireLatencyAvg time.Duration
}

// IncrementAcquires records a successful acquire.
func (m *Metrics) IncrementAcquires() {
	m.acquires.Add(1)
}

// IncrementAcquireFailures records a failed acquire.
func (m *Metrics) IncrementAcquireFailures() {
	m.acquireFailures.Add(1)
}

// IncrementReleases records a released token.
func (m *Metrics) IncrementReleases() {
	m.releases.Add(1)
}

// IncrementReleaseFailures records a token whose release failed.
func (m *Metrics) IncrementReleaseFailures() {
	m.releaseFailures.Add(1)
}

// SetActiveSessions updates the active-session gauge (0 or 1 per controller).
func (m *Metrics) SetActiveSessions(count int) {
	m.activeSessions.Store(int32(count))
}

// RecordAcquireLatency records the duration of one acquire call.
func (m *Metrics) RecordAcquireLatency(d time.Duration) {
	m.acquireLatencyNs.Add(int64(d))
	m.acquireLatencyCount.Add(1)
}

// Reset zeroes all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.acquires.Store(0)
	m.acquireFailures.Store(0)
	m.releases.Store(0)
	m.releaseFailures.Store(0)
	m.acquireLatencyNs.Store(0)
	m.acquireLatencyCount.Store(0)
	m.activeSessions.Store(0)
}
