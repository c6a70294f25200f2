// Package erpl implements an OData v2/v4 client stack for database
// extensions that expose remote entity sets as queryable tables (see
// spec.md and SPEC_FULL.md).
//
// The table-function surface spec.md §6 describes (odata_read,
// odata_attach, http_*, datasphere_*) is modeled here as plain Go
// entry points on Client, since this module has no real database host
// to register table functions with. A host binds a table function by
// calling OpenRead/Attach/Http* and driving the returned handle through
// the bind -> scan lifecycle spec.md §5 describes.
package erpl

import (
	"context"
	"log/slog"
	"time"

	"github.com/erpl-go/erpl/internal/attach"
	"github.com/erpl-go/erpl/internal/auth"
	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/httpcache"
	"github.com/erpl-go/erpl/internal/httpx"
	"github.com/erpl-go/erpl/internal/odataclient"
	"github.com/erpl-go/erpl/internal/pushdown"
	"github.com/erpl-go/erpl/internal/readbind"
	"github.com/erpl-go/erpl/internal/secretstore"
	"github.com/erpl-go/erpl/internal/tracing"
)

// Client holds the process-wide shared state a host constructs once:
// the HTTP transport, the two caches (spec.md §5: "EdmCache: process-
// wide... HttpCache: process-wide"), the auth resolver, and the
// tracing façade. Every OpenRead/Attach/Http* call reuses it.
type Client struct {
	Transport *httpx.Transport
	Cache     *httpcache.HttpCache
	EdmCache  *edmmodel.Cache
	Resolver  *auth.Resolver
	Logger    *slog.Logger
	Tracer    *tracing.Tracer
}

// Option configures a Client at construction.
type Option func(*Client)

// WithTransport overrides the default HTTP transport.
func WithTransport(t *httpx.Transport) Option {
	return func(c *Client) { c.Transport = t }
}

// WithSecretStore wires a host secret manager in place of the default
// in-memory store.
func WithSecretStore(store secretstore.Store) Option {
	return func(c *Client) { c.Resolver = auth.NewResolver(store, c.Resolver.OAuth2Source) }
}

// WithOAuth2Source wires a TokenSource (internal/oauth2x's Entra or
// Datasphere implementations) for microsoft_entra/datasphere secrets.
func WithOAuth2Source(src auth.TokenSource) Option {
	return func(c *Client) { c.Resolver = auth.NewResolver(c.Resolver.Store, src) }
}

// WithLogger overrides the default slog.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithTracer overrides the default no-op tracing façade.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Client) { c.Tracer = t }
}

// NewClient builds a Client with spec.md §6's "sane defaults": a
// retrying HTTPS transport, a one-minute HTTP response cache, an empty
// EDM cache, and no auth unless a secret store/OAuth2 source is wired
// via options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		Transport: httpx.NewTransport(httpx.DefaultConfig()),
		Cache:     httpcache.New(time.Minute, time.Minute),
		EdmCache:  edmmodel.NewCache(),
		Resolver:  auth.NewResolver(secretstore.NewMemoryStore(), nil),
		Logger:    slog.Default(),
		Tracer:    tracing.NoopTracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the Client's background resources (the HttpCache's
// sweeper goroutine).
func (c *Client) Close() {
	c.Cache.Close()
}

func (c *Client) newODataClient(serviceURL string, authParams auth.Params) *odataclient.Client {
	return odataclient.New(serviceURL, c.Transport, c.Cache, c.EdmCache, authParams)
}

// ReadHandle is the bound state of one odata_read call: the resolved
// output schema plus the readbind.Reader driving bind -> scan
// (spec.md §4.6, §5).
type ReadHandle struct {
	Columns []edmmodel.TableColumn
	reader  *readbind.Reader
}

// OpenRead implements odata_read(url): resolves the output schema for
// url (spec.md §6), ready for Init then repeated Scan calls.
func (c *Client) OpenRead(ctx context.Context, url string, override auth.Override, secretName string) (*ReadHandle, error) {
	params, err := c.Resolver.Resolve(ctx, override, secretName)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	es := odataclient.NewEntitySetClient(c.newODataClient(url, params))
	columns, err := readbind.ResolveSchema(ctx, es, url)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	reader := readbind.NewReader(es, columns)
	reader.Logger = c.Logger
	reader.Tracer = c.Tracer
	return &ReadHandle{Columns: columns, reader: reader}, nil
}

// Init activates the projected columns and pushed-down filters/limit/
// offset, then prefetches the first page (spec.md §5's
// "ActivateColumns -> AddFilters -> UpdateUrlFromPredicatePushdown ->
// PrefetchFirstPage").
func (h *ReadHandle) Init(ctx context.Context, activatedColumns []int, filters []*pushdown.Filter, limit int64, hasLimit bool, offset int64) error {
	return h.reader.Init(ctx, activatedColumns, filters, limit, hasLimit, offset)
}

// Scan fetches the next output chunk (spec.md §5's repeated
// "FetchNextResult(output)").
func (h *ReadHandle) Scan(ctx context.Context, chunkCapacity int) ([]readbind.Row, error) {
	return h.reader.Scan(ctx, chunkCapacity)
}

// HasMore reports whether a further Scan call could produce rows.
func (h *ReadHandle) HasMore() bool { return h.reader.HasMore() }

// Progress reports percent-complete, or -1 if the server never
// reported a total count (spec.md §4.6).
func (h *ReadHandle) Progress() int { return h.reader.Progress() }

// Metadata fetches and parses url's $metadata document, for tooling
// that wants the raw EDM rather than a bound table schema.
func (c *Client) Metadata(ctx context.Context, url string, override auth.Override, secretName string) (*edmmodel.Edmx, error) {
	params, err := c.Resolver.Resolve(ctx, override, secretName)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	edmx, err := c.newODataClient(url, params).GetMetadata(ctx)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	return edmx, nil
}

// Attach implements odata_attach(url): enumerates url's entity sets
// and builds one View per set not excluded by ignoreGlobs (spec.md §6,
// §4.7).
func (c *Client) Attach(ctx context.Context, url string, override auth.Override, secretName string, ignoreGlobs []string) (*attach.Result, error) {
	params, err := c.Resolver.Resolve(ctx, override, secretName)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	svc := odataclient.NewServiceClient(c.newODataClient(url, params))
	newClient := func(entitySetURL string) *odataclient.Client {
		return c.newODataClient(entitySetURL, params)
	}
	result, err := attach.Attach(ctx, svc, newClient, ignoreGlobs)
	if err != nil {
		return nil, Component("ODATA_BIND", err)
	}
	return result, nil
}
