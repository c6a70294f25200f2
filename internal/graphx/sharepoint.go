// Package graphx implements a single thin wrapper over the shared HTTP
// transport for a non-OData REST API (Microsoft Graph's SharePoint
// surface), per SPEC_FULL.md §4.4.1. It exists as a worked example that
// internal/httpx and internal/auth compose outside the OData core, not
// as a second protocol the core depends on.
//
// Grounded on original_source's graph_sharepoint_client.cpp: the same
// URL-builder-plus-thin-GET shape, carried over as Go methods on one
// client rather than a static builder type and a separate client type.
package graphx

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/erpl-go/erpl/internal/auth"
	"github.com/erpl-go/erpl/internal/httpx"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// SharePointClient performs read operations against the Graph
// SharePoint surface (sites, lists, list items) over the shared
// httpx.Transport.
type SharePointClient struct {
	Transport *httpx.Transport
	Auth      auth.Params
}

// NewSharePointClient wraps an already-configured transport and auth.
func NewSharePointClient(transport *httpx.Transport, authParams auth.Params) *SharePointClient {
	return &SharePointClient{Transport: transport, Auth: authParams}
}

// SearchSites lists sites matching query ("*" when query is empty).
func (c *SharePointClient) SearchSites(ctx context.Context, query string) (*httpx.Response, error) {
	if query == "" {
		query = "*"
	}
	return c.get(ctx, fmt.Sprintf("%s/sites?search=%s", graphBaseURL, url.QueryEscape(query)))
}

// GetFollowedSites lists the signed-in user's followed sites.
func (c *SharePointClient) GetFollowedSites(ctx context.Context) (*httpx.Response, error) {
	return c.get(ctx, graphBaseURL+"/me/followedSites")
}

// GetSite fetches one site by its Graph site ID.
func (c *SharePointClient) GetSite(ctx context.Context, siteID string) (*httpx.Response, error) {
	return c.get(ctx, fmt.Sprintf("%s/sites/%s", graphBaseURL, siteID))
}

// GetSiteByPath fetches a site addressed by hostname and server-relative path.
func (c *SharePointClient) GetSiteByPath(ctx context.Context, hostname, sitePath string) (*httpx.Response, error) {
	return c.get(ctx, sitePathURL(hostname, sitePath))
}

func sitePathURL(hostname, sitePath string) string {
	sitePath = strings.TrimPrefix(sitePath, "/")
	if sitePath == "" {
		return fmt.Sprintf("%s/sites/%s", graphBaseURL, hostname)
	}
	return fmt.Sprintf("%s/sites/%s:/%s:", graphBaseURL, hostname, sitePath)
}

// ListLists lists the lists in a site.
func (c *SharePointClient) ListLists(ctx context.Context, siteID string) (*httpx.Response, error) {
	return c.get(ctx, fmt.Sprintf("%s/sites/%s/lists", graphBaseURL, siteID))
}

// GetList fetches a single list's metadata.
func (c *SharePointClient) GetList(ctx context.Context, siteID, listID string) (*httpx.Response, error) {
	return c.get(ctx, fmt.Sprintf("%s/sites/%s/lists/%s", graphBaseURL, siteID, listID))
}

// GetListColumns fetches a list's column schema.
func (c *SharePointClient) GetListColumns(ctx context.Context, siteID, listID string) (*httpx.Response, error) {
	return c.get(ctx, fmt.Sprintf("%s/sites/%s/lists/%s/columns", graphBaseURL, siteID, listID))
}

// GetListItems fetches list items with their field values expanded,
// optionally narrowed by select and top.
func (c *SharePointClient) GetListItems(ctx context.Context, siteID, listID, selectFields string, top int) (*httpx.Response, error) {
	u := fmt.Sprintf("%s/sites/%s/lists/%s/items?expand=fields", graphBaseURL, siteID, listID)
	if selectFields != "" {
		u += "&$select=" + url.QueryEscape(selectFields)
	}
	if top > 0 {
		u += "&$top=" + strconv.Itoa(top)
	}
	return c.get(ctx, u)
}

func (c *SharePointClient) get(ctx context.Context, rawURL string) (*httpx.Response, error) {
	req := httpx.NewRequest(httpx.MethodGet, rawURL)
	req.Headers.Set("Accept", "application/json")
	c.Auth.Apply(req)
	return c.Transport.SendRequest(ctx, req)
}
