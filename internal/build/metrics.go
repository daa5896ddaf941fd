package build

import (
	"sync"
	"time"
)

// Metrics tracks generation outcomes across all roots.
type Metrics struct {
	generations int64
	succeeded   int64
	failed      int64
	unchanged   int64
	total       time.Duration
	mutex       sync.RWMutex
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Generations     int64
	Succeeded       int64
	Failed          int64
	Unchanged       int64
	AverageDuration time.Duration
	TotalDuration   time.Duration
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record records a generation result in the metrics
func (m *Metrics) Record(result Result) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.generations++
	m.total += result.Duration

	switch {
	case result.Error != nil:
		m.failed++
	case !result.Written:
		m.succeeded++
		m.unchanged++
	default:
		m.succeeded++
	}
}

// Snapshot returns a copy of the current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s := MetricsSnapshot{
		Generations:   m.generations,
		Succeeded:     m.succeeded,
		Failed:        m.failed,
		Unchanged:     m.unchanged,
		TotalDuration: m.total,
	}
	if m.generations > 0 {
		s.AverageDuration = m.total / time.Duration(m.generations)
	}
	return s
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.generations = 0
	m.succeeded = 0
	m.failed = 0
	m.unchanged = 0
	m.total = 0
}

// SuccessRate returns the success rate as a percentage
func (s MetricsSnapshot) SuccessRate() float64 {
	if s.Generations == 0 {
		return 0.0
	}
	return float64(s.Succeeded) / float64(s.Generations) * 100.0
}

// UnchangedRate returns the share of generations that left the artifact
// untouched, as a percentage
func (s MetricsSnapshot) UnchangedRate() float64 {
	if s.Generations == 0 {
		return 0.0
	}
	return float64(s.Unchanged) / float64(s.Generations) * 100.0
}
