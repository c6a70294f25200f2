package tracing

import (
	"context"
	"sync"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
)

// Timing wraps the server-timing library's Metric type for named timings
// collected on a servertiming.Header held in a context rather than sent as
// an HTTP response header. cmd/erplctl's --timing attaches and prints such
// a header, but no code path in this module calls StartTiming, so that
// header stays empty; --timing's figure is the HttpTimeAccumulator total.
type Timing struct {
	metric *servertiming.Metric
}

// Stop stops the timing metric.
func (m *Timing) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartTiming starts a named timing metric on the servertiming.Header
// already attached to ctx via WithTimingHeader. Returns a no-op metric
// if timing collection was not enabled for this context.
func StartTiming(ctx context.Context, name, desc string) *Timing {
	h := servertiming.FromContext(ctx)
	if h == nil {
		return &Timing{}
	}
	return &Timing{metric: h.NewMetric(name).WithDesc(desc).Start()}
}

// WithTimingHeader attaches a fresh servertiming.Header to ctx so that
// nested StartTiming calls accumulate into one report.
func WithTimingHeader(ctx context.Context) (context.Context, *servertiming.Header) {
	h := &servertiming.Header{}
	return servertiming.NewContext(ctx, h), h
}

type httpTimeAccumulatorKey struct{}

// HttpTimeAccumulator tracks total transport time during one read or
// attach operation. Safe for concurrent use.
type HttpTimeAccumulator struct {
	mu       sync.Mutex
	duration time.Duration
}

func (a *HttpTimeAccumulator) Add(d time.Duration) {
	a.mu.Lock()
	a.duration += d
	a.mu.Unlock()
}

func (a *HttpTimeAccumulator) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

func WithHttpTimeAccumulator(ctx context.Context) context.Context {
	return context.WithValue(ctx, httpTimeAccumulatorKey{}, &HttpTimeAccumulator{})
}

func HttpTimeAccumulatorFromContext(ctx context.Context) *HttpTimeAccumulator {
	val := ctx.Value(httpTimeAccumulatorKey{})
	if val == nil {
		return nil
	}
	acc, ok := val.(*HttpTimeAccumulator)
	if !ok {
		return nil
	}
	return acc
}

// AddHttpTime adds a transport operation duration to the accumulator in
// the context, a no-op if none is present.
func AddHttpTime(ctx context.Context, d time.Duration) {
	if acc := HttpTimeAccumulatorFromContext(ctx); acc != nil {
		acc.Add(d)
	}
}
