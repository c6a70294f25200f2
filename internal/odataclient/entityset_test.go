package odataclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erpl-go/erpl/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitySetClient_FirstCallDetectsVersionAndContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"@odata.context":"https://svc/$metadata#People","value":[{"Id":1}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/People")
	es := NewEntitySetClient(c)
	root, ok, err := es.Get(context.Background(), false)
	require.NoError(t, err)
	require.True(t, ok)

	rows := content.ExtractRows(root, content.VersionV4)
	assert.Len(t, rows, 1)
	assert.Equal(t, VersionV4, es.Version)

	ctxURL, err := es.GetMetadataContextUrl()
	require.NoError(t, err)
	assert.Equal(t, "https://svc/$metadata", ctxURL)
}

func TestEntitySetClient_PaginatesViaNextLink(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"value":[{"Id":1}],"@odata.nextLink":"/People?$skip=1"}`))
			return
		}
		w.Write([]byte(`{"value":[{"Id":2}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/People")
	es := NewEntitySetClient(c)

	_, ok, err := es.Get(context.Background(), false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, es.HasNext())

	root, ok, err := es.Get(context.Background(), true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, es.HasNext())
	rows := content.ExtractRows(root, content.VersionV4)
	require.Len(t, rows, 1)
}

func TestEntitySetClient_NoNextLinkStopsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"Id":1}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/People")
	es := NewEntitySetClient(c)
	_, _, err := es.Get(context.Background(), false)
	require.NoError(t, err)

	_, ok, err := es.Get(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntitySetClient_GetResultNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/$metadata" {
			w.Write([]byte(testMetadataXML))
			return
		}
		w.Write([]byte(`{"value":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/People")
	es := NewEntitySetClient(c)
	names, err := es.GetResultNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"UserName", "Age"}, names)
}

func TestEntitySetClient_SynthesizeMetadataContextUrlPrefersVersionSegment(t *testing.T) {
	c := newTestClient(t, "https://svc.example.com/sap/V4/odata/People")
	es := NewEntitySetClient(c)
	url, err := es.synthesizeMetadataContextUrl()
	require.NoError(t, err)
	assert.Equal(t, "https://svc.example.com/sap/V4/$metadata", url)
}
