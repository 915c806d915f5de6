// Package batch generates many entries from one request and optionally
// replays each of them against the request's endpoint.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/curlgen/internal/assembler"
	"github.com/example/curlgen/internal/client"
	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/loadctrl"
	"github.com/example/curlgen/internal/metrics"
	"github.com/example/curlgen/internal/parser"
	"github.com/example/curlgen/internal/schema"
)

// Sentinel errors.
var (
	ErrInvalidOptions  = errors.New("batch: invalid options")
	ErrUnparsedRequest = errors.New("batch: request was not parsed")
)

// Defaults.
const (
	DefaultExpectedStatus = 200
	DefaultConcurrency    = 10
)

// Strategy selects how entries are generated and replayed.
type Strategy string

const (
	// Sequential generates an entry, replays it, then moves on.
	Sequential Strategy = "sequential"

	// Concurrent generates every entry first, then replays them in
	// parallel up to the concurrency cap.
	Concurrent Strategy = "concurrent"
)

// Sender sends one replayed request. *client.Client implements it.
type Sender interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
}

// Replay configures replaying of entries.
type Replay struct {
	Enabled bool

	// ExpectedStatus is the status an outcome must have to match.
	// Zero means 200.
	ExpectedStatus int

	// Concurrency caps in-flight calls of the concurrent strategy.
	// Zero means DefaultConcurrency.
	Concurrency int

	// Capture maps names to JSONPath expressions evaluated on each
	// response body.
	Capture *jsonx.Map[string]
}

// Options configures one batch.
type Options struct {
	Count    int
	Strategy Strategy
	Configs  generator.FieldConfigs
	Replay   Replay
}

func (o *Options) normalize() error {
	if o.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidOptions, o.Count)
	}
	switch o.Strategy {
	case "":
		o.Strategy = Sequential
	case Sequential, Concurrent:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, o.Strategy)
	}
	if o.Replay.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency %d is negative", ErrInvalidOptions, o.Replay.Concurrency)
	}
	if o.Replay.ExpectedStatus == 0 {
		o.Replay.ExpectedStatus = DefaultExpectedStatus
	}
	if o.Replay.Concurrency == 0 {
		o.Replay.Concurrency = DefaultConcurrency
	}
	return nil
}

// Outcome is the result of replaying one entry.
type Outcome struct {
	Index           int           `json:"index"`
	Status          int           `json:"httpStatus"`
	MatchedExpected bool          `json:"matchedExpected"`
	ResponseBody    any           `json:"responseBody,omitempty"`
	Error           string        `json:"error,omitempty"`
	Duration        time.Duration `json:"-"`
	DurationMs      float64       `json:"durationMs"`
	Captured        *jsonx.Object `json:"captured,omitempty"`
}

// Result holds the entries of a batch and, when replay was enabled, one
// outcome per entry in entry order.
type Result struct {
	Entries  []*jsonx.Object
	Outcomes []Outcome
}

// Mismatched returns the number of outcomes that did not match.
func (r *Result) Mismatched() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.MatchedExpected {
			n++
		}
	}
	return n
}

// Runner runs batches.
//
// Thread Safety: Safe for concurrent use if its assembler is. Entries of
// one batch are always generated in order, so a seeded source yields the
// same entries under both strategies.
type Runner struct {
	assembler *assembler.Assembler
	sender    Sender
	limiter   loadctrl.Limiter
	collector *metrics.Collector
	logger    *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSender sets the replay sender.
func WithSender(s Sender) Option {
	return func(r *Runner) { r.sender = s }
}

// WithLimiter paces replay calls.
func WithLimiter(l loadctrl.Limiter) Option {
	return func(r *Runner) {
		if l != nil {
			r.limiter = l
		}
	}
}

// WithCollector records metrics into c.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) {
		if c != nil {
			r.collector = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner assembling entries with a.
func NewRunner(a *assembler.Assembler, opts ...Option) *Runner {
	r := &Runner{
		assembler: a,
		limiter:   &loadctrl.Unlimited{},
		collector: metrics.NewCollector(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collector returns the runner's metrics collector.
func (r *Runner) Collector() *metrics.Collector {
	return r.collector
}

// Run generates opts.Count entries for req. Replay failures never abort the
// batch; they are reported in the outcome of the entry. When ctx is done
// the entries produced so far are returned with ctx's error.
func (r *Runner) Run(ctx context.Context, req *parser.Request, opts Options) (*Result, error) {
	if req == nil || req.Failed() {
		return nil, ErrUnparsedRequest
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if opts.Replay.Enabled && r.sender == nil {
		return nil, fmt.Errorf("%w: replay needs a sender", ErrInvalidOptions)
	}

	start := time.Now()
	s := schema.Extract(req.Body)

	var (
		res *Result
		err error
	)
	if opts.Strategy == Concurrent {
		res, err = r.runConcurrent(ctx, req, s, opts)
	} else {
		res, err = r.runSequential(ctx, req, s, opts)
	}

	r.logger.Info("batch finished",
		zap.Int("entries", len(res.Entries)),
		zap.String("strategy", string(opts.Strategy)),
		zap.Bool("replay", opts.Replay.Enabled),
		zap.Int("mismatched", res.Mismatched()),
		zap.Duration("duration", time.Since(start)))
	return res, err
}

func (r *Runner) runSequential(ctx context.Context, req *parser.Request, s *schema.Schema, opts Options) (*Result, error) {
	res := &Result{Entries: make([]*jsonx.Object, 0, opts.Count)}
	if opts.Replay.Enabled {
		res.Outcomes = make([]Outcome, 0, opts.Count)
	}

	for i := range opts.Count {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry := r.generate(s, opts.Configs)
		res.Entries = append(res.Entries, entry)
		if opts.Replay.Enabled {
			res.Outcomes = append(res.Outcomes, r.replay(ctx, i, req, entry, opts.Replay))
		}
	}
	return res, nil
}

func (r *Runner) runConcurrent(ctx context.Context, req *parser.Request, s *schema.Schema, opts Options) (*Result, error) {
	res := &Result{Entries: make([]*jsonx.Object, opts.Count)}
	for i := range res.Entries {
		if err := ctx.Err(); err != nil {
			res.Entries = res.Entries[:i]
			return res, err
		}
		res.Entries[i] = r.generate(s, opts.Configs)
	}
	if !opts.Replay.Enabled {
		return res, nil
	}

	res.Outcomes = make([]Outcome, opts.Count)
	var g errgroup.Group
	g.SetLimit(opts.Replay.Concurrency)
	for i, entry := range res.Entries {
		g.Go(func() error {
			res.Outcomes[i] = r.replay(ctx, i, req, entry, opts.Replay)
			return nil
		})
	}
	_ = g.Wait()
	return res, ctx.Err()
}

func (r *Runner) generate(s *schema.Schema, configs generator.FieldConfigs) *jsonx.Object {
	entry := r.assembler.Assemble(s, configs)
	r.collector.RecordEntry()
	return entry
}

// replay sends entry as the query string of GET and HEAD requests and as
// a JSON body otherwise.
func (r *Runner) replay(ctx context.Context, index int, req *parser.Request, entry *jsonx.Object, rp Replay) Outcome {
	out := Outcome{Index: index}

	if err := r.limiter.Acquire(ctx); err != nil {
		out.Error = err.Error()
		r.collector.RecordReplay(0, false, 0, err)
		return out
	}

	creq := client.Request{Method: req.Method, URL: req.URL, Headers: req.Headers}
	if req.IsQueryMethod() {
		creq.Query = entry
	} else {
		creq.Body = entry
	}

	resp, err := r.sender.Do(ctx, creq)
	if resp != nil {
		out.Duration = resp.Duration
		out.DurationMs = float64(resp.Duration.Microseconds()) / 1000
	}
	if err != nil {
		out.Error = err.Error()
		r.collector.RecordReplay(0, false, out.Duration, err)
		r.logger.Warn("replay failed", zap.Int("index", index), zap.Error(err))
		return out
	}

	out.Status = resp.StatusCode
	out.MatchedExpected = resp.StatusCode == rp.ExpectedStatus
	out.ResponseBody = resp.Value()
	if rp.Capture.Len() > 0 {
		captured, cerr := resp.Capture(rp.Capture)
		out.Captured = captured
		if cerr != nil {
			r.logger.Debug("capture incomplete", zap.Int("index", index), zap.Error(cerr))
		}
	}

	r.collector.RecordReplay(out.Status, out.MatchedExpected, out.Duration, nil)
	r.logger.Debug("replayed entry",
		zap.Int("index", index),
		zap.Int("status", out.Status),
		zap.Bool("matched", out.MatchedExpected),
		zap.Duration("duration", out.Duration))
	return out
}
