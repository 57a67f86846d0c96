package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// BearerAuth authorizes requests with access tokens from a token source.
type BearerAuth struct {
	source oauth2.TokenSource
}

// NewBearerAuth wraps src, caching its tokens until they expire.
func NewBearerAuth(src oauth2.TokenSource) *BearerAuth {
	return &BearerAuth{source: oauth2.ReuseTokenSource(nil, src)}
}

// ClientCredentials configures the OAuth2 client credentials grant.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// DefaultScopes are requested when ClientCredentials.Scopes is empty.
var DefaultScopes = []string{"openid", "profile", "email", "role", "forwarded", "offline_access"}

// NewClientCredentialsAuth creates a BearerAuth fetching tokens with the
// client credentials grant. Token requests run with ctx, which can carry
// an *http.Client under oauth2.HTTPClient.
func NewClientCredentialsAuth(ctx context.Context, cc ClientCredentials) *BearerAuth {
	scopes := cc.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	cfg := clientcredentials.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		TokenURL:     cc.TokenURL,
		Scopes:       scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return NewBearerAuth(cfg.TokenSource(ctx))
}

// Name returns the authentication scheme name.
func (a *BearerAuth) Name() string {
	return "Bearer"
}

// Token returns the current access token, fetching a new one if needed.
func (a *BearerAuth) Token() (*oauth2.Token, error) {
	return a.source.Token()
}

// Transport wraps base with the bearer Authorization header.
func (a *BearerAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &oauth2.Transport{Source: a.source, Base: base}
}

// TokenURL returns the token endpoint of an ISHAM authorization server url.
func TokenURL(authURL string) string {
	return strings.TrimRight(authURL, "/") + "/connect/token"
}
