package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates in-process counters for API routes and temporal
// resolutions.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	resolved      atomic.Int64
	clarification atomic.Int64

	routes map[string]*RouteMetrics
}

// RouteMetrics holds counters for a single route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*RouteMetrics)}
}

// RecordRequest records one request on route. Status codes of 500 and above
// count as failures.
func (m *Metrics) RecordRequest(route string, status int, duration time.Duration) {
	rm := m.route(route)
	m.requestTotal.Add(1)
	rm.requestCount.Add(1)
	rm.totalDuration.Add(duration.Milliseconds())
	if status >= 500 {
		m.requestFailed.Add(1)
		rm.errorCount.Add(1)
	}
}

// RecordResolution records the outcome of one temporal resolution.
func (m *Metrics) RecordResolution(resolved bool) {
	if resolved {
		m.resolved.Add(1)
		return
	}
	m.clarification.Add(1)
}

func (m *Metrics) route(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.routes[route]
	if !ok {
		rm = &RouteMetrics{}
		m.routes[route] = rm
	}
	return rm
}

// Reset clears every counter.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.resolved.Store(0)
	m.clarification.Store(0)

	m.mu.Lock()
	m.routes = make(map[string]*RouteMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make([]RouteSnapshot, 0, len(m.routes))
	for name, rm := range m.routes {
		count := rm.requestCount.Load()
		var avg int64
		if count > 0 {
			avg = rm.totalDuration.Load() / count
		}
		routes = append(routes, RouteSnapshot{
			Route:           name,
			RequestCount:    count,
			ErrorCount:      rm.errorCount.Load(),
			AverageDuration: avg,
		})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })

	return &MetricsSnapshot{
		RequestTotal:       m.requestTotal.Load(),
		RequestFailed:      m.requestFailed.Load(),
		ResolvedTotal:      m.resolved.Load(),
		ClarificationTotal: m.clarification.Load(),
		Routes:             routes,
	}
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	RequestTotal       int64           `json:"request_total"`
	RequestFailed      int64           `json:"request_failed"`
	ResolvedTotal      int64           `json:"resolved_total"`
	ClarificationTotal int64           `json:"clarification_total"`
	Routes             []RouteSnapshot `json:"routes"`
}

// RouteSnapshot is the per-route part of a snapshot.
type RouteSnapshot struct {
	Route           string `json:"route"`
	RequestCount    int64  `json:"request_count"`
	ErrorCount      int64  `json:"error_count"`
	AverageDuration int64  `json:"avg_duration_ms"`
}

// SuccessRate returns the share of non-failed requests as a percentage.
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}

// ResolutionRate returns the share of resolutions that did not need
// clarification, as a percentage.
func (s *MetricsSnapshot) ResolutionRate() float64 {
	total := s.ResolvedTotal + s.ClarificationTotal
	if total == 0 {
		return 0
	}
	return float64(s.ResolvedTotal) / float64(total) * 100.0
}
