// Package metrics counts generated entries and replay results.
package metrics

import (
	"maps"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as exposed to Prometheus.
const (
	MetricEntriesTotal          = "curlgen_entries_generated_total"
	MetricReplayRequestsTotal   = "curlgen_replay_requests_total"
	MetricReplayErrorsTotal     = "curlgen_replay_errors_total"
	MetricReplayDurationSeconds = "curlgen_replay_duration_seconds"
)

const maxLatencies = 100000

// Collector aggregates generation and replay metrics. Every recording is
// mirrored into a private Prometheus registry.
//
// Thread Safety: Safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	entries        prometheus.Counter
	replays        *prometheus.CounterVec
	replayErrors   prometheus.Counter
	replayDuration prometheus.Histogram

	generated atomic.Int64
	replayed  atomic.Int64
	matched   atomic.Int64
	failed    atomic.Int64

	mu        sync.Mutex
	latencies []time.Duration
	statuses  map[int]int64
	start     time.Time
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEntriesTotal,
			Help: "Number of entries generated.",
		}),
		replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricReplayRequestsTotal,
			Help: "Number of replayed requests by HTTP status and whether it matched the expected status.",
		}, []string{"status", "matched"}),
		replayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricReplayErrorsTotal,
			Help: "Number of replayed requests that failed before a response arrived.",
		}),
		replayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricReplayDurationSeconds,
			Help:    "Duration of replayed requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		statuses: make(map[int]int64),
		start:    time.Now(),
	}
	c.registry.MustRegister(c.entries, c.replays, c.replayErrors, c.replayDuration)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEntry counts one generated entry.
func (c *Collector) RecordEntry() {
	c.generated.Add(1)
	c.entries.Inc()
}

// RecordReplay counts one replayed request. A non-nil err marks a call
// that produced no response.
func (c *Collector) RecordReplay(status int, matched bool, d time.Duration, err error) {
	c.replayed.Add(1)
	if matched {
		c.matched.Add(1)
	}
	if err != nil {
		c.failed.Add(1)
		c.replayErrors.Inc()
	}
	c.replays.WithLabelValues(strconv.Itoa(status), strconv.FormatBool(matched)).Inc()
	c.replayDuration.Observe(d.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[status]++
	if len(c.latencies) < maxLatencies {
		c.latencies = append(c.latencies, d)
	}
}

// Summary is a point-in-time view of a collector.
type Summary struct {
	Generated int64
	Replayed  int64
	Matched   int64
	Failed    int64
	Statuses  map[int]int64
	Elapsed   time.Duration

	MinLatency time.Duration
	AvgLatency time.Duration
	P50Latency time.Duration
	P95Latency time.Duration
	MaxLatency time.Duration
}

// MatchRate returns the share of replayed requests that matched, in
// percent. It is 0 when nothing was replayed.
func (s Summary) MatchRate() float64 {
	if s.Replayed == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Replayed) * 100
}

// Summary returns the current totals and latency distribution.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	lat := slices.Clone(c.latencies)
	statuses := maps.Clone(c.statuses)
	c.mu.Unlock()

	s := Summary{
		Generated: c.generated.Load(),
		Replayed:  c.replayed.Load(),
		Matched:   c.matched.Load(),
		Failed:    c.failed.Load(),
		Statuses:  statuses,
		Elapsed:   time.Since(c.start),
	}
	if len(lat) == 0 {
		return s
	}

	slices.Sort(lat)
	var total time.Duration
	for _, d := range lat {
		total += d
	}
	s.MinLatency = lat[0]
	s.MaxLatency = lat[len(lat)-1]
	s.AvgLatency = total / time.Duration(len(lat))
	s.P50Latency = percentile(lat, 50)
	s.P95Latency = percentile(lat, 95)
	return s
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
