package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vincenteouswilliam/azure-ai-day-demo/cache"
	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
)

// TokenProvider issues short-lived access tokens for a scope, e.g. for
// appending to retrieved image URLs.
type TokenProvider interface {
	GetToken(ctx context.Context, scope string) (string, error)
}

// ClientCredentialsProvider fetches tokens with the OAuth2 client
// credentials flow and caches them until shortly before expiry.
type ClientCredentialsProvider struct {
	tenantID     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       *cache.Cache
}

// Tokens are dropped from the cache two minutes before they expire so a
// URL built from a cached token stays valid while the model reads it.
const tokenExpiryMargin = 2 * time.Minute

func NewClientCredentialsProvider(cfg config.AuthConfig) (*ClientCredentialsProvider, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth configuration is incomplete")
	}

	return &ClientCredentialsProvider{
		tenantID:     cfg.TenantID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: cache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (p *ClientCredentialsProvider) GetToken(ctx context.Context, scope string) (string, error) {
	if cached, found := p.tokens.Get(scope); found {
		return cached.(string), nil
	}

	endpoint := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", p.tenantID)
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"scope":         {scope},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	ttl := time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl > 0 {
		p.tokens.Set(scope, token.AccessToken, ttl)
	}

	return token.AccessToken, nil
}
