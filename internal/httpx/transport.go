package httpx

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/erpl-go/erpl/internal/tracing"
)

// transientStatuses are retried per spec.md §4.2.
var transientStatuses = map[int]bool{
	408: true, 418: true, 429: true, 503: true, 504: true,
}

// Config configures a Transport (spec.md §4.2, §6 env vars).
type Config struct {
	Retries           int
	BaseWaitMs        int
	RetryBackoff      float64
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	TLSVerify         bool // spec.md §9: "must default to verification on"
	Logger            *slog.Logger
	Tracer            *tracing.Tracer
}

// DefaultConfig returns spec.md §6's "sane defaults".
func DefaultConfig() Config {
	return Config{
		Retries:        3,
		BaseWaitMs:     200,
		RetryBackoff:   2.0,
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		TLSVerify:      true,
		Logger:         slog.Default(),
		Tracer:         tracing.NoopTracer(),
	}
}

// Transport implements spec.md §4.2's SendRequest contract: synchronous
// request/response with retries, backoff, TLS, decompression, and
// keep-alive, over net/http.
type Transport struct {
	cfg    Config
	client *http.Client
}

// NewTransport builds a Transport. Redirects are followed by the
// underlying http.Client default policy; decompression and keep-alive
// are enabled by net/http.Transport defaults (DisableCompression and
// DisableKeepAlives both default false).
func NewTransport(cfg Config) *Transport {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracing.NoopTracer()
	}
	rt := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.TLSVerify}, //nolint:gosec // toggled by cfg.TLSVerify, default on
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}
	client := &http.Client{
		Transport: rt,
		Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout + cfg.WriteTimeout,
	}
	return &Transport{cfg: cfg, client: client}
}

// SendRequest performs req with retry/backoff per spec.md §4.2: "Retry
// wait = base_wait_ms * retry_backoff^(n-2) starting on the second
// attempt; up to retries total attempts; then surface HttpError or
// IoError."
func (t *Transport) SendRequest(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := t.cfg.Tracer.StartSpan(ctx, "erpl.http.request")
	defer span.End()

	var lastErr error
	attempts := t.cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		t.cfg.Logger.Debug("erpl http request",
			"method", string(req.Method), "url", req.URL,
			"headers", req.SanitizedHeaders(), "body_size", len(req.Body), "attempt", attempt)

		callStart := time.Now()
		resp, err := t.doOnce(ctx, req)
		tracing.AddHttpTime(ctx, time.Since(callStart))
		if err == nil {
			t.cfg.Logger.Debug("erpl http response",
				"status", resp.StatusCode, "headers", len(resp.Headers),
				"body_len", len(resp.Body), "preview", resp.BodyPreview())
			if resp.IsSuccess() || !transientStatuses[resp.StatusCode] {
				if !resp.IsSuccess() {
					return resp, &httpFailure{StatusCode: resp.StatusCode, BodyPreview: resp.BodyPreview()}
				}
				return resp, nil
			}
			lastErr = &httpFailure{StatusCode: resp.StatusCode, BodyPreview: resp.BodyPreview()}
		} else {
			lastErr = &ioFailure{Message: err.Error()}
		}

		if attempt == attempts {
			break
		}
		wait := backoffDuration(t.cfg.BaseWaitMs, t.cfg.RetryBackoff, attempt)
		t.cfg.Tracer.RecordError(span, lastErr)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, &ioFailure{Message: ctx.Err().Error()}
		}
	}
	return nil, lastErr
}

// backoffDuration computes the wait after failed attempt number attempt,
// i.e. before attempt n = attempt+1: base_wait_ms * retry_backoff^(attempt-1),
// which is base_wait_ms * retry_backoff^(n-2).
func backoffDuration(baseWaitMs int, backoff float64, attempt int) time.Duration {
	exp := attempt - 1
	if exp < 0 {
		exp = 0
	}
	ms := float64(baseWaitMs) * math.Pow(backoff, float64(exp))
	return time.Duration(ms) * time.Millisecond
}

func (t *Transport) doOnce(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	headers := Header{}
	for k, v := range httpResp.Header {
		headers[k] = append([]string{}, v...)
	}

	return &Response{
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Headers:     headers,
		Body:        body,
	}, nil
}

type httpFailure struct {
	StatusCode  int
	BodyPreview string
}

func (e *httpFailure) Error() string { return "http error" }

type ioFailure struct {
	Message string
}

func (e *ioFailure) Error() string { return e.Message }

// AsHttpFailure extracts status/body from an error produced by
// SendRequest, for callers that want to build an erpl.HttpError.
func AsHttpFailure(err error) (statusCode int, bodyPreview string, ok bool) {
	if hf, is := err.(*httpFailure); is {
		return hf.StatusCode, hf.BodyPreview, true
	}
	return 0, "", false
}

// AsIoFailure extracts the message from a transport-level failure.
func AsIoFailure(err error) (message string, ok bool) {
	if iof, is := err.(*ioFailure); is {
		return iof.Message, true
	}
	return "", false
}
