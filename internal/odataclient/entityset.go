package odataclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/erpl-go/erpl/internal/content"
	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/urlx"
)

// EntitySetClient implements spec.md §4.4's EntitySetClient: paginated
// GETs over a single entity set's URL, version detection from the
// first response body, and metadata-context resolution.
type EntitySetClient struct {
	*Client

	root       map[string]any
	hasNext    bool
	nextLink   string
}

// NewEntitySetClient wraps a Client as an EntitySetClient.
func NewEntitySetClient(c *Client) *EntitySetClient {
	return &EntitySetClient{Client: c}
}

// Get implements spec.md §4.4's Get(getNext):
//   - first call: GET the current URL, store the response, detect
//     version from the body if still unknown, capture @odata.context.
//   - getNext=true: if the cached response has a next link, advance
//     the URL and issue the next request; else return nothing
//     (pagination complete).
func (e *EntitySetClient) Get(ctx context.Context, getNext bool) (map[string]any, bool, error) {
	if getNext {
		if !e.hasNext {
			return nil, false, nil
		}
		merged, err := e.mergedNextLink()
		if err != nil {
			return nil, false, err
		}
		e.URL = merged
	}

	ctx, span := e.Tracer.StartPageFetch(ctx, e.entitySetName())
	resp, err := e.DoHttpGet(ctx, e.URL)
	if err != nil {
		e.Tracer.RecordError(span, err)
		span.End()
		return nil, false, err
	}
	e.Tracer.SetHTTPStatus(ctx, resp.StatusCode)
	span.End()

	root, err := content.ParseRoot(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("odataclient: parsing entity-set response: %w", err)
	}
	e.root = root

	if e.Version == VersionUnknown {
		detected := content.DetectVersion(root)
		if detected == content.VersionV2 {
			e.Version = VersionV2
		} else {
			e.Version = VersionV4
		}
	}

	if ctxURL, ok := content.ExtractMetadataContext(root); ok {
		e.metadataContextURL = ctxURL
	}

	contentVersion := content.VersionV4
	if e.Version == VersionV2 {
		contentVersion = content.VersionV2
	}
	if link, ok := content.ExtractNextLink(root, contentVersion); ok {
		e.nextLink = link
		e.hasNext = true
	} else {
		e.hasNext = false
	}

	return root, true, nil
}

func (e *EntitySetClient) mergedNextLink() (string, error) {
	base, err := urlx.Parse(e.URL)
	if err != nil {
		return "", err
	}
	merged, err := urlx.MergeWithBaseUrlIfRelative(base, e.nextLink)
	if err != nil {
		return "", err
	}
	return merged.String(), nil
}

// HasNext reports whether a subsequent Get(ctx, true) would fetch
// another page.
func (e *EntitySetClient) HasNext() bool {
	return e.hasNext
}

// GetMetadataContextUrl implements spec.md §4.4's three-step fallback:
//  1. an already-stored metadata context URL
//  2. @odata.context pulled from the cached response
//  3. a synthesized fallback trimming path segments and appending
//     $metadata, preferring the prefix above a /V2/ or /V4/ segment.
func (e *EntitySetClient) GetMetadataContextUrl() (string, error) {
	if e.metadataContextURL != "" {
		return e.metadataContextURL, nil
	}
	if e.root != nil {
		if ctxURL, ok := content.ExtractMetadataContext(e.root); ok {
			e.metadataContextURL = ctxURL
			return ctxURL, nil
		}
	}
	return e.synthesizeMetadataContextUrl()
}

func (e *EntitySetClient) synthesizeMetadataContextUrl() (string, error) {
	u, err := urlx.Parse(e.URL)
	if err != nil {
		return "", fmt.Errorf("odataclient: synthesizing metadata context URL: %w", err)
	}
	u.Query = ""
	u.Fragment = ""

	segments := splitPath(u.Path)
	if idx := versionSegmentIndex(segments); idx >= 0 {
		segments = segments[:idx+1]
	} else if len(segments) > 0 {
		segments = segments[:len(segments)-1]
	}
	u.Path = joinPath(pathFromSegments(segments), "$metadata")
	return u.String(), nil
}

func versionSegmentIndex(segments []string) int {
	for i, seg := range segments {
		if strings.EqualFold(seg, "V2") || strings.EqualFold(seg, "V4") {
			return i
		}
	}
	return -1
}

// entitySetName returns the entity set's name from the final path
// segment of the client's URL.
func (e *EntitySetClient) entitySetName() string {
	u, err := urlx.Parse(e.URL)
	if err != nil {
		return ""
	}
	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	if idx := strings.IndexByte(last, '('); idx >= 0 {
		last = last[:idx]
	}
	return last
}

// GetResultNames/GetResultTypes implement spec.md §4.4's projection of
// the current entity type from metadata, located via the entity set's
// final path segment.
func (e *EntitySetClient) GetResultNames(ctx context.Context) ([]string, error) {
	cols, err := e.resultColumns(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names, nil
}

func (e *EntitySetClient) GetResultTypes(ctx context.Context) ([]edmmodel.TableColumn, error) {
	return e.resultColumns(ctx)
}

func (e *EntitySetClient) resultColumns(ctx context.Context) ([]edmmodel.TableColumn, error) {
	edmx, err := e.GetMetadata(ctx)
	if err != nil {
		return nil, err
	}
	setName := e.entitySetName()
	entitySet, ok := edmmodel.FindEntitySet(edmx, setName)
	if !ok {
		return nil, fmt.Errorf("odataclient: entity set %q not found in metadata", setName)
	}
	entityType, err := edmmodel.FindEntityType(edmx, entitySet.EntityTypeName)
	if err != nil {
		return nil, fmt.Errorf("odataclient: resolving entity type for %q: %w", setName, err)
	}
	return edmmodel.ProjectEntityType(edmx, entityType)
}
