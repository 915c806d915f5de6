package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	for range 3 {
		c.RecordEntry()
	}
	c.RecordReplay(200, true, 10*time.Millisecond, nil)
	c.RecordReplay(200, true, 30*time.Millisecond, nil)
	c.RecordReplay(500, false, 20*time.Millisecond, nil)
	c.RecordReplay(0, false, time.Millisecond, errors.New("refused"))

	s := c.Summary()
	assert.Equal(t, int64(3), s.Generated)
	assert.Equal(t, int64(4), s.Replayed)
	assert.Equal(t, int64(2), s.Matched)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, map[int]int64{0: 1, 200: 2, 500: 1}, s.Statuses)
	assert.InDelta(t, 50.0, s.MatchRate(), 1e-9)

	assert.Equal(t, time.Millisecond, s.MinLatency)
	assert.Equal(t, 30*time.Millisecond, s.MaxLatency)
	assert.Equal(t, 15250*time.Microsecond, s.AvgLatency)
	assert.Equal(t, 10*time.Millisecond, s.P50Latency)
	assert.Equal(t, 30*time.Millisecond, s.P95Latency)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.entries))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.replays.WithLabelValues("200", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.replays.WithLabelValues("0", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.replayErrors))
	assert.Equal(t, 3, testutil.CollectAndCount(c.replays))
}

func TestCollectorEmptySummary(t *testing.T) {
	s := NewCollector().Summary()
	assert.Zero(t, s.Replayed)
	assert.Zero(t, s.MatchRate())
	assert.Zero(t, s.P95Latency)
}

func TestCollectorConcurrentUse(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.RecordEntry()
				c.RecordReplay(201, true, time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	s := c.Summary()
	assert.Equal(t, int64(1000), s.Generated)
	assert.Equal(t, int64(1000), s.Statuses[201])
}

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(samples, 50))
	assert.Equal(t, time.Duration(10), percentile(samples, 95))
	assert.Equal(t, time.Duration(1), percentile(samples, 0))
}

func TestExporterHandler(t *testing.T) {
	c := NewCollector()
	c.RecordEntry()
	e := NewExporter(c, "127.0.0.1:0", nil)

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MetricEntriesTotal+" 1")

	rec = httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", rec.Body.String())
}

func TestExporterStartStop(t *testing.T) {
	c := NewCollector()
	e := NewExporter(c, "127.0.0.1:0", nil)
	assert.Empty(t, e.Addr())

	require.NoError(t, e.Start())
	require.NoError(t, e.Start())
	addr := e.Addr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), MetricReplayRequestsTotal)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.Stop(ctx))
	require.NoError(t, e.Stop(ctx))
	assert.NoError(t, e.LastError())
}

func TestWriteSummaryPlain(t *testing.T) {
	c := NewCollector()
	c.RecordEntry()
	c.RecordReplay(200, true, 2*time.Millisecond, nil)
	c.RecordReplay(0, false, time.Millisecond, errors.New("refused"))

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, c.Summary(), false))

	out := buf.String()
	assert.Contains(t, out, "Replay summary")
	assert.Contains(t, out, "1 (50.0%)")
	assert.Contains(t, out, "error×1  200×1")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatStatuses(t *testing.T) {
	assert.Equal(t, "-", formatStatuses(nil))
	assert.Equal(t, "201×2  404×1", formatStatuses(map[int]int64{404: 1, 201: 2}))
}
