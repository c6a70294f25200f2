package odataclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erpl-go/erpl/internal/urlx"
)

// ServiceReference is one entry in a service document (spec.md §4.4's
// "list of entity-set references").
type ServiceReference struct {
	Name string
	URL  string
}

// ServiceResponse is the parsed service-document body.
type ServiceResponse struct {
	References []ServiceReference
}

// serviceDocument is the wire shape of an OData service document (both
// v2's `{"d":{"EntitySets":[...]}}` and v4's `{"value":[{"name":...,
// "url":...}]}` are handled).
type serviceDocument struct {
	Value []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
		Kind string `json:"kind"`
	} `json:"value"`
	D struct {
		EntitySets []string `json:"EntitySets"`
	} `json:"d"`
}

// ServiceClient implements spec.md §4.4's ServiceClient.
type ServiceClient struct {
	*Client
}

// NewServiceClient wraps an already-constructed Client as a ServiceClient.
func NewServiceClient(c *Client) *ServiceClient {
	return &ServiceClient{Client: c}
}

// Get performs the GET and parses the service document.
func (s *ServiceClient) Get(ctx context.Context) (*ServiceResponse, error) {
	resp, err := s.DoHttpGet(ctx, s.URL)
	if err != nil {
		return nil, err
	}

	var doc serviceDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("odataclient: parsing service document: %w", err)
	}

	var refs []ServiceReference
	for _, v := range doc.Value {
		refs = append(refs, ServiceReference{Name: v.Name, URL: v.URL})
	}
	for _, name := range doc.D.EntitySets {
		refs = append(refs, ServiceReference{Name: name, URL: name})
	}
	return &ServiceResponse{References: refs}, nil
}

// EntitySets returns the service document's entity-set references, each
// URL merged against the service URL (spec.md §4.4: "each URL merged
// against the service URL").
func (s *ServiceClient) EntitySets(ctx context.Context) ([]ServiceReference, error) {
	resp, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	base, err := urlx.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("odataclient: parsing service URL: %w", err)
	}

	out := make([]ServiceReference, 0, len(resp.References))
	for _, ref := range resp.References {
		merged, err := urlx.MergeWithBaseUrlIfRelative(base, ref.URL)
		if err != nil {
			continue
		}
		out = append(out, ServiceReference{Name: ref.Name, URL: merged.String()})
	}
	return out, nil
}
