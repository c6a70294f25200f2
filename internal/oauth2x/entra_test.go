package oauth2x

import (
	"context"
	"testing"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/confidential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpl-go/erpl/internal/secretstore"
)

type fakeConfidentialClient struct {
	result confidential.AuthResult
	err    error
}

func (f *fakeConfidentialClient) AcquireTokenByCredential(_ context.Context, _ []string) (confidential.AuthResult, error) {
	return f.result, f.err
}

func TestEntraSource_GetToken_CachedWhenStillValid(t *testing.T) {
	secret := &secretstore.Secret{Type: "microsoft_entra", Values: map[string]string{
		"access_token": "cached-token",
		"expires_at":   time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	}}
	src := &EntraSource{newClient: func(string, string, string) (confidentialClient, error) {
		t.Fatal("should not acquire a new token when cache is valid")
		return nil, nil
	}}
	token, err := src.GetToken(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
}

func TestEntraSource_GetToken_AcquiresWhenExpired(t *testing.T) {
	secret := &secretstore.Secret{Type: "microsoft_entra", Values: map[string]string{
		"tenant_id":     "t",
		"client_id":     "c",
		"client_secret": "s",
		"access_token":  "stale-token",
		"expires_at":    time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}}
	src := &EntraSource{newClient: func(authority, clientID, clientSecret string) (confidentialClient, error) {
		assert.Contains(t, authority, "t")
		return &fakeConfidentialClient{result: confidential.AuthResult{
			AccessToken: "fresh-token",
			ExpiresOn:   time.Now().Add(time.Hour),
		}}, nil
	}}
	token, err := src.GetToken(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "fresh-token", secret.Get("access_token"))
}

func TestEntraSource_GetToken_MissingFieldsErrors(t *testing.T) {
	secret := &secretstore.Secret{Type: "microsoft_entra", Values: map[string]string{}}
	src := &EntraSource{newClient: newMSALConfidentialClient}
	_, err := src.GetToken(context.Background(), secret)
	require.Error(t, err)
}
