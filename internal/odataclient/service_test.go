package odataclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceClient_EntitySetsMergesAgainstServiceURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"name":"People","url":"People"},{"name":"Products","url":"Products"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")
	svc := NewServiceClient(c)
	refs, err := svc.EntitySets(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, server.URL+"/People", refs[0].URL)
	assert.Equal(t, server.URL+"/Products", refs[1].URL)
}

func TestServiceClient_V2EntitySetList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"d":{"EntitySets":["Products","Categories"]}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/")
	svc := NewServiceClient(c)
	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.References, 2)
}
