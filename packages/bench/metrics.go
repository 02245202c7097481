package bench

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// latencies are recorded in microseconds between 1us and 60s
const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics collects and aggregates bench metrics
type Metrics struct {
	mu sync.Mutex

	totalRequests   atomic.Int64
	successRequests atomic.Int64
	errorRequests   atomic.Int64

	histogram   *hdrhistogram.Histogram
	statusCodes map[int]int64

	startTime time.Time
	endTime   time.Time
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		histogram:   hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		statusCodes: make(map[int]int64),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.mu.Lock()
	m.endTime = time.Now()
	m.mu.Unlock()
}

// Record records one request. status is 0 when no response was received.
func (m *Metrics) Record(duration time.Duration, status int, err error) {
	m.totalRequests.Add(1)
	if err != nil {
		m.errorRequests.Add(1)
	} else {
		m.successRequests.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(latencyUs)
	if status > 0 {
		m.statusCodes[status]++
	}
	m.mu.Unlock()
}

// StatusCount is the number of responses carrying one status code.
type StatusCount struct {
	Status int
	Count  int64
}

// Summary is the final result of a run
type Summary struct {
	Duration      time.Duration
	TotalRequests int64
	SuccessCount  int64
	ErrorCount    int64

	RPS         float64
	SuccessRate float64
	ErrorRate   float64

	P50    time.Duration
	P90    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration

	// StatusCodes is sorted by status.
	StatusCodes []StatusCount
}

// GetSummary returns the metrics summary
func (m *Metrics) GetSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.totalRequests.Load()
	success := m.successRequests.Load()
	errors := m.errorRequests.Load()

	rps := float64(0)
	if duration.Seconds() > 0 {
		rps = float64(total) / duration.Seconds()
	}

	successRate := float64(0)
	errorRate := float64(0)
	if total > 0 {
		successRate = float64(success) / float64(total)
		errorRate = float64(errors) / float64(total)
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }

	summary := &Summary{
		Duration:      duration,
		TotalRequests: total,
		SuccessCount:  success,
		ErrorCount:    errors,
		RPS:           rps,
		SuccessRate:   successRate,
		ErrorRate:     errorRate,
		P50:           us(m.histogram.ValueAtQuantile(50)),
		P90:           us(m.histogram.ValueAtQuantile(90)),
		P95:           us(m.histogram.ValueAtQuantile(95)),
		P99:           us(m.histogram.ValueAtQuantile(99)),
		Min:           us(m.histogram.Min()),
		Max:           us(m.histogram.Max()),
		Mean:          time.Duration(m.histogram.Mean() * float64(time.Microsecond)),
		StdDev:        time.Duration(m.histogram.StdDev() * float64(time.Microsecond)),
	}

	for status, count := range m.statusCodes {
		summary.StatusCodes = append(summary.StatusCodes, StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.StatusCodes, func(i, j int) bool {
		return summary.StatusCodes[i].Status < summary.StatusCodes[j].Status
	})

	return summary
}
