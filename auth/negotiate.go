package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxNegotiateRetries is the maximum number of authentication legs.
const maxNegotiateRetries = 5

// NegotiateAuth implements SPNEGO authentication using a SecurityProvider
// created per request.
type NegotiateAuth struct {
	newProvider ProviderFactory
}

// NewNegotiateAuth creates a new Negotiate authenticator.
func NewNegotiateAuth(factory ProviderFactory) *NegotiateAuth {
	return &NegotiateAuth{newProvider: factory}
}

// Name returns the scheme name.
func (a *NegotiateAuth) Name() string {
	return "Negotiate"
}

// Transport wraps the base transport with Negotiate authentication logic.
func (a *NegotiateAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &negotiateRoundTripper{
		base:        base,
		newProvider: a.newProvider,
	}
}

type negotiateRoundTripper struct {
	base        http.RoundTripper
	newProvider ProviderFactory
}

func (rt *negotiateRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Buffer the body so every leg can resend it.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
	}

	provider, err := rt.newProvider()
	if err != nil {
		return nil, fmt.Errorf("negotiate provider: %w", err)
	}
	defer provider.Close()

	var clientToken []byte
	for attempt := 0; attempt < maxNegotiateRetries; attempt++ {
		reqClone := req.Clone(req.Context())
		if bodyBytes != nil {
			reqClone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			reqClone.ContentLength = int64(len(bodyBytes))
		}
		if clientToken != nil {
			reqClone.Header.Set("Authorization", "Negotiate "+base64.StdEncoding.EncodeToString(clientToken))
		}

		resp, err := rt.base.RoundTrip(reqClone)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}

		authHeader := resp.Header.Get("WWW-Authenticate")
		if !strings.Contains(strings.ToLower(authHeader), "negotiate") {
			return resp, nil
		}

		var serverToken []byte
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			if token, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1])); decodeErr == nil {
				serverToken = token
			}
		}
		_ = resp.Body.Close()

		// A bare challenge after our token means the server rejected it.
		if attempt > 0 && serverToken == nil {
			break
		}

		var continueNeeded bool
		clientToken, continueNeeded, err = provider.Step(req.Context(), serverToken)
		if err != nil {
			return nil, fmt.Errorf("negotiate step failed: %w", err)
		}
		if !continueNeeded && attempt > 0 && len(clientToken) == 0 {
			break
		}
	}

	return nil, fmt.Errorf("negotiate authentication failed after %d attempts", maxNegotiateRetries)
}
