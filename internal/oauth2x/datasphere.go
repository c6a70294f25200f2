package oauth2x

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/browser"

	"github.com/erpl-go/erpl/internal/httpx"
	"github.com/erpl-go/erpl/internal/secretstore"
)

// datasphereTokenURL returns the enterprise analytics tenant's token
// endpoint (spec.md §4.8: "https://{tenant}.authentication.{data_center}.hana.ondemand.com/oauth/token").
func datasphereTokenURL(tenantName, dataCenter string) string {
	return fmt.Sprintf("https://%s.authentication.%s.hana.ondemand.com/oauth/token", tenantName, dataCenter)
}

func datasphereAuthorizationURL(tenantName, dataCenter string) string {
	return fmt.Sprintf("https://%s.authentication.%s.hana.ondemand.com/oauth/authorize", tenantName, dataCenter)
}

// DatasphereSource acquires tokens for the enterprise-analytics
// "datasphere" secret type via an authorization-code flow with PKCE,
// using a local loopback redirect and the system browser.
type DatasphereSource struct {
	Transport *httpx.Transport
	// openBrowser is overridable in tests.
	openBrowser func(url string) error
}

// NewDatasphereSource builds a DatasphereSource over transport.
func NewDatasphereSource(transport *httpx.Transport) *DatasphereSource {
	return &DatasphereSource{Transport: transport, openBrowser: browser.OpenURL}
}

// GetToken implements spec.md §4.8's GetToken lifecycle for the
// datasphere secret type.
func (s *DatasphereSource) GetToken(ctx context.Context, secret *secretstore.Secret) (string, error) {
	if token, ok := cachedAccessToken(secret); ok {
		return token, nil
	}

	if refreshToken := secret.Get("refresh_token"); refreshToken != "" {
		if token, err := s.refreshAccessToken(ctx, secret, refreshToken); err == nil {
			return token, nil
		}
	}

	return s.authorizationCodeFlow(ctx, secret)
}

func (s *DatasphereSource) authorizationCodeFlow(ctx context.Context, secret *secretstore.Secret) (string, error) {
	tenantName := secret.Get("tenant_name")
	dataCenter := secret.Get("data_center")
	clientID := secret.Get("client_id")
	clientSecret := secret.Get("client_secret")
	if tenantName == "" || dataCenter == "" || clientID == "" {
		return "", fmt.Errorf("oauth2x: datasphere secret missing tenant_name/data_center/client_id")
	}

	verifier, err := NewCodeVerifier()
	if err != nil {
		return "", fmt.Errorf("oauth2x: generating PKCE verifier: %w", err)
	}
	challenge := CodeChallengeS256(verifier)

	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("oauth2x: generating state: %w", err)
	}

	ls, redirectURI, err := newLoopbackServer()
	if err != nil {
		return "", err
	}

	authURL := buildAuthorizationURL(datasphereAuthorizationURL(tenantName, dataCenter), clientID, redirectURI, state, challenge, secret.Get("scope"))
	if err := s.openBrowser(authURL); err != nil {
		return "", fmt.Errorf("oauth2x: opening browser for authorization: %w", err)
	}

	result, err := ls.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("oauth2x: awaiting authorization redirect: %w", err)
	}
	if result.State != state {
		return "", fmt.Errorf("oauth2x: authorization response state mismatch, possible CSRF")
	}

	return s.exchangeCode(ctx, secret, tenantName, dataCenter, clientID, clientSecret, redirectURI, result.Code, verifier)
}

func (s *DatasphereSource) exchangeCode(ctx context.Context, secret *secretstore.Secret, tenantName, dataCenter, clientID, clientSecret, redirectURI, code, verifier string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", clientID)
	form.Set("code_verifier", verifier)
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	return s.postToken(ctx, secret, datasphereTokenURL(tenantName, dataCenter), form)
}

func (s *DatasphereSource) refreshAccessToken(ctx context.Context, secret *secretstore.Secret, refreshToken string) (string, error) {
	tenantName := secret.Get("tenant_name")
	dataCenter := secret.Get("data_center")
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", secret.Get("client_id"))
	if clientSecret := secret.Get("client_secret"); clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	return s.postToken(ctx, secret, datasphereTokenURL(tenantName, dataCenter), form)
}

// tokenResponse is the standard OAuth2 token endpoint JSON response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

func (s *DatasphereSource) postToken(ctx context.Context, secret *secretstore.Secret, tokenURL string, form url.Values) (string, error) {
	req := httpx.NewRequest(httpx.MethodPost, tokenURL)
	req.ContentType = "application/x-www-form-urlencoded"
	req.Body = []byte(form.Encode())

	resp, err := s.Transport.SendRequest(ctx, req)
	if err != nil {
		return "", fmt.Errorf("oauth2x: token request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("oauth2x: token endpoint returned status %d: %s", resp.StatusCode, resp.BodyPreview())
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		return "", fmt.Errorf("oauth2x: decoding token response: %w", err)
	}
	if tok.Error != "" {
		return "", fmt.Errorf("oauth2x: %s: %s", tok.Error, tok.ErrorDesc)
	}

	secret.Set("access_token", tok.AccessToken)
	if tok.RefreshToken != "" {
		secret.Set("refresh_token", tok.RefreshToken)
	}
	if tok.TokenType != "" {
		secret.Set("token_type", tok.TokenType)
	}
	if tok.Scope != "" {
		secret.Set("scope", tok.Scope)
	}
	expiresAt := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	secret.Set("expires_at", expiresAt.UTC().Format(time.RFC3339))

	return tok.AccessToken, nil
}
