// Package odataclient implements spec.md §4.4's OData client layer:
// the common ODataClient base shared by ServiceClient and
// EntitySetClient, metadata fetch-and-cache, version detection, and
// the GET-with-retrying-metadata-discovery request helper.
//
// No direct teacher precedent: the teacher is a server dispatching
// incoming requests to per-entity-set handlers (internal/service/router's
// Router resolving an EntityHandler), never an outbound client sharing a
// connection/config struct across request types. The shared-base shape
// here (ServiceClient and EntitySetClient both embedding Client) follows
// spec.md §4.4 directly rather than a teacher file.
package odataclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erpl-go/erpl/internal/auth"
	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/httpcache"
	"github.com/erpl-go/erpl/internal/httpx"
	"github.com/erpl-go/erpl/internal/tracing"
	"github.com/erpl-go/erpl/internal/urlx"
)

// Version mirrors edmmodel.Version for the detected wire version of a
// live client (as opposed to a parsed document).
type Version = edmmodel.Version

const (
	VersionUnknown Version = ""
	VersionV2      Version = edmmodel.VersionV2
	VersionV4      Version = edmmodel.VersionV4
)

// Client is the common base of spec.md §4.4's ODataClient<TResponse>:
// "owns a caching HTTP client, a URL, an optional auth params, a cached
// last response, and a detected version".
type Client struct {
	Transport *httpx.Transport
	Cache     *httpcache.HttpCache
	EdmCache  *edmmodel.Cache
	Auth      auth.Params
	Logger    *slog.Logger
	Tracer    *tracing.Tracer

	URL     string
	Version Version

	metadataContextURL string
	lastResponse        *httpx.Response
}

// New constructs a Client over a service or entity-set URL.
func New(serviceURL string, transport *httpx.Transport, cache *httpcache.HttpCache, edmCache *edmmodel.Cache, authParams auth.Params) *Client {
	return &Client{
		Transport: transport,
		Cache:     cache,
		EdmCache:  edmCache,
		Auth:      authParams,
		Logger:    slog.Default(),
		Tracer:    tracing.NoopTracer(),
		URL:       serviceURL,
	}
}

// metadataURL trims the current URL down to its `$metadata` sibling at
// the service root, the zeroth candidate in GetMetadata's progressive
// fallback search.
func metadataURL(serviceURL string) (string, error) {
	u, err := urlx.Parse(serviceURL)
	if err != nil {
		return "", err
	}
	u.Query = ""
	u.Fragment = ""
	u.Path = joinPath(u.Path, "$metadata")
	return u.String(), nil
}

// metadataURLCandidates returns the $metadata URL to try first, then up
// to two more with progressively popped trailing path segments, per
// spec.md §4.4: "retries with progressively popped path segments ...
// searches up the path up to three levels".
func metadataURLCandidates(serviceURL string) ([]string, error) {
	u, err := urlx.Parse(serviceURL)
	if err != nil {
		return nil, err
	}
	u.Query = ""
	u.Fragment = ""

	segments := splitPath(u.Path)
	var out []string
	for level := 0; level <= 2 && level <= len(segments); level++ {
		trimmed := segments
		if level > 0 {
			trimmed = segments[:len(segments)-level]
		}
		candidate := u
		candidate.Path = joinPath(pathFromSegments(trimmed), "$metadata")
		out = append(out, candidate.String())
	}
	return out, nil
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func pathFromSegments(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

func joinPath(base, leaf string) string {
	if strings.HasSuffix(base, "/") {
		return base + leaf
	}
	return base + "/" + leaf
}

// GetMetadata implements spec.md §4.4's GetMetadata(): "if metadata URL
// is already in EDM cache, return it; else fetch $metadata, parse,
// cache, return."
func (c *Client) GetMetadata(ctx context.Context) (*edmmodel.Edmx, error) {
	candidates, err := metadataURLCandidates(c.URL)
	if err != nil {
		return nil, fmt.Errorf("odataclient: resolving metadata URL: %w", err)
	}

	var lastErr error
	for _, candidate := range candidates {
		if edmx, ok := c.EdmCache.Get(candidate); ok {
			return edmx, nil
		}
		edmx, err := c.fetchAndParseMetadata(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		c.EdmCache.Set(candidate, edmx)
		c.Version = edmx.Version
		return edmx, nil
	}
	return nil, fmt.Errorf("odataclient: fetching metadata: %w", lastErr)
}

func (c *Client) fetchAndParseMetadata(ctx context.Context, metadataURL string) (*edmmodel.Edmx, error) {
	ctx, span := c.Tracer.StartMetadataFetch(ctx, metadataURL)
	defer span.End()

	resp, err := c.rawGet(ctx, metadataURL)
	if err != nil {
		return nil, err
	}
	edmx, err := edmmodel.ParseXML(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("odataclient: parsing metadata: %w", err)
	}
	return edmx, nil
}

// DetectVersion implements spec.md §4.4's DetectVersion(): "if unknown,
// fetch metadata; record version on Edmx and client."
func (c *Client) DetectVersion(ctx context.Context) (Version, error) {
	if c.Version != VersionUnknown {
		return c.Version, nil
	}
	edmx, err := c.GetMetadata(ctx)
	if err != nil {
		return VersionUnknown, err
	}
	c.Version = edmx.Version
	return c.Version, nil
}

// versionHeaders returns spec.md §4.4's "version-specific request
// headers" for the client's currently-known version, defaulting to v4
// when not yet detected (the OData v4 spec is the more permissive
// default for an unknown service).
func (c *Client) versionHeaders() httpx.Header {
	h := httpx.Header{}
	if c.Version == VersionV2 {
		h.Set("DataServiceVersion", "2.0")
		h.Set("MaxDataServiceVersion", "2.0")
		h.Set("Accept", "application/json;odata=verbose")
		return h
	}
	h.Set("OData-Version", "4.0")
	h.Set("OData-MaxVersion", "4.0")
	h.Set("Accept", "application/json;odata.metadata=minimal")
	return h
}

// DoHttpGet implements spec.md §4.4's DoHttpGet(url): "adds auth
// headers; on non-200 fails with HttpError." Responses are served from
// and stored into the cache keyed by the request's cache key.
func (c *Client) DoHttpGet(ctx context.Context, url string) (*httpx.Response, error) {
	resp, err := c.rawGet(ctx, url)
	if err != nil {
		return nil, err
	}
	c.lastResponse = resp
	return resp, nil
}

func (c *Client) rawGet(ctx context.Context, url string) (*httpx.Response, error) {
	req := httpx.NewRequest(httpx.MethodGet, url)
	for k, values := range c.versionHeaders() {
		for _, v := range values {
			req.Headers.Add(k, v)
		}
	}
	c.Auth.Apply(req)

	key := req.ToCacheKey()
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(key); ok {
			return cached, nil
		}
	}

	resp, err := c.Transport.SendRequest(ctx, req)
	if err != nil {
		if status, preview, ok := httpx.AsHttpFailure(err); ok {
			return nil, fmt.Errorf("odataclient: GET %s: %w", url, &httpFailureError{StatusCode: status, BodyPreview: preview})
		}
		return nil, fmt.Errorf("odataclient: GET %s: %w", url, err)
	}
	if c.Cache != nil {
		c.Cache.Put(key, resp)
	}
	return resp, nil
}

// httpFailureError is a thin wrapper so callers higher up the stack
// can build erpl.HttpError without importing the root package from
// here (avoiding an import cycle with erpl's public surface).
type httpFailureError struct {
	StatusCode  int
	BodyPreview string
}

func (e *httpFailureError) Error() string {
	return fmt.Sprintf("status %d", e.StatusCode)
}

// AsHttpFailure extracts status/body from an error produced by this
// package's HTTP calls.
func AsHttpFailure(err error) (statusCode int, bodyPreview string, ok bool) {
	var hf *httpFailureError
	if errors.As(err, &hf) {
		return hf.StatusCode, hf.BodyPreview, true
	}
	return 0, "", false
}

// LastResponse returns the most recently cached raw response, if any.
func (c *Client) LastResponse() *httpx.Response {
	return c.lastResponse
}
