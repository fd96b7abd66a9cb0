package stats

import (
	"math"
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// Snapshot is a point-in-time aggregate of latency samples for one route.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks recent request latencies per route within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples map[string][]sample
	maxAge  time.Duration
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make(map[string][]sample),
		maxAge:  maxAge,
	}
}

func (l *Latency) Record(route string, durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	l.samples[route] = append(l.samples[route], sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

// Snapshot aggregates every route that still has samples in the window.
func (l *Latency) Snapshot() map[string]Snapshot {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	out := make(map[string]Snapshot, len(l.samples))
	for route, samples := range l.samples {
		out[route] = aggregate(samples)
	}
	return out
}

func aggregate(samples []sample) Snapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.maxAge)
	for route, samples := range l.samples {
		writeIdx := 0
		for _, sm := range samples {
			if !sm.timestamp.Before(cutoff) {
				samples[writeIdx] = sm
				writeIdx++
			}
		}
		if writeIdx == 0 {
			delete(l.samples, route)
			continue
		}
		l.samples[route] = samples[:writeIdx]
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sortedValues []int64, pct float64) float64 {
	last := len(sortedValues) - 1
	if last < 0 {
		return 0
	}
	rank := float64(last) * math.Max(0, math.Min(100, pct)) / 100
	lo := int(rank)
	if lo >= last {
		return float64(sortedValues[last])
	}
	frac := rank - float64(lo)
	return float64(sortedValues[lo]) + float64(sortedValues[lo+1]-sortedValues[lo])*frac
}
