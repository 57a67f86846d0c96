package auth

import (
	"log/slog"
	"net/http"
	"sync"
)

// BasicAuth implements HTTP Basic authentication.
type BasicAuth struct {
	creds  Credentials
	logger *slog.Logger
}

// NewBasicAuth creates a new Basic authentication handler.
func NewBasicAuth(creds Credentials) *BasicAuth {
	return &BasicAuth{creds: creds, logger: slog.Default()}
}

// WithLogger sets the logger used for the plain-text warning.
func (a *BasicAuth) WithLogger(logger *slog.Logger) *BasicAuth {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Name returns the authentication scheme name.
func (a *BasicAuth) Name() string {
	return "Basic"
}

// Transport wraps an http.RoundTripper with Basic authentication.
func (a *BasicAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &basicTransport{
		base:   base,
		creds:  a.creds,
		logger: a.logger,
	}
}

type basicTransport struct {
	base     http.RoundTripper
	creds    Credentials
	logger   *slog.Logger
	warnOnce sync.Once
}

// RoundTrip implements http.RoundTripper.
func (t *basicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		t.warnOnce.Do(func() {
			t.logger.Warn("basic authentication over non-HTTPS connection, credentials are not encrypted",
				"host", req.URL.Host)
		})
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.SetBasicAuth(t.creds.Username, t.creds.Password)
	return t.base.RoundTrip(reqCopy)
}
