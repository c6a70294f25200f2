package auth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/erpl-go/erpl/internal/httpx"
	"github.com/erpl-go/erpl/internal/secretstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicCredentialsBase64_RoundTrip(t *testing.T) {
	p := Basic("u", "p")
	decoded, err := base64.StdEncoding.DecodeString(p.BasicCredentialsBase64())
	require.NoError(t, err)
	assert.Equal(t, "u:p", string(decoded))
}

func TestApply_Basic(t *testing.T) {
	req := httpx.NewRequest(httpx.MethodGet, "https://svc.example.com")
	Basic("u", "p").Apply(req)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("u:p")), req.Headers.Get("Authorization"))
}

func TestApply_Bearer(t *testing.T) {
	req := httpx.NewRequest(httpx.MethodGet, "https://svc.example.com")
	Bearer("tok123").Apply(req)
	assert.Equal(t, "Bearer tok123", req.Headers.Get("Authorization"))
}

func TestApply_None_NoHeader(t *testing.T) {
	req := httpx.NewRequest(httpx.MethodGet, "https://svc.example.com")
	None().Apply(req)
	assert.Empty(t, req.Headers.Get("Authorization"))
}

func TestResolve_OverrideBasic(t *testing.T) {
	r := NewResolver(secretstore.NewMemoryStore(), nil)
	p, err := r.Resolve(context.Background(), Override{Present: true, AuthType: "basic", Value: "u:p"}, "")
	require.NoError(t, err)
	assert.Equal(t, KindBasic, p.Kind)
	assert.Equal(t, "u", p.Username)
}

func TestResolve_SecretHttpBearer(t *testing.T) {
	store := secretstore.NewMemoryStore()
	store.PutSecret(context.Background(), &secretstore.Secret{
		Name: "svc1", Type: "http_bearer", Values: map[string]string{"token": "tok"},
	})
	r := NewResolver(store, nil)
	p, err := r.Resolve(context.Background(), Override{}, "svc1")
	require.NoError(t, err)
	assert.Equal(t, KindBearer, p.Kind)
	assert.Equal(t, "tok", p.Token)
}

type fakeTokenSource struct{ token string }

func (f *fakeTokenSource) GetToken(_ context.Context, _ *secretstore.Secret) (string, error) {
	return f.token, nil
}

func TestResolve_SecretMicrosoftEntraUsesOAuth2Source(t *testing.T) {
	store := secretstore.NewMemoryStore()
	store.PutSecret(context.Background(), &secretstore.Secret{
		Name: "entra1", Type: "microsoft_entra", Values: map[string]string{"tenant_id": "t"},
	})
	r := NewResolver(store, &fakeTokenSource{token: "entra-token"})
	p, err := r.Resolve(context.Background(), Override{}, "entra1")
	require.NoError(t, err)
	assert.Equal(t, KindBearer, p.Kind)
	assert.Equal(t, "entra-token", p.Token)
}

func TestResolve_NoOverrideNoSecretYieldsNone(t *testing.T) {
	r := NewResolver(secretstore.NewMemoryStore(), nil)
	p, err := r.Resolve(context.Background(), Override{}, "")
	require.NoError(t, err)
	assert.Equal(t, KindNone, p.Kind)
}
