package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrUnauthorized is returned when the server responds with 401 Unauthorized.
// Use errors.Is(err, ErrUnauthorized) to check for authentication failures.
var ErrUnauthorized = errors.New("transport: authentication failed (401 Unauthorized)")

// ErrForbidden is returned when the server responds with 403 Forbidden.
var ErrForbidden = errors.New("transport: access denied (403 Forbidden)")

const (
	// ContentTypeSOAP is the content type for SOAP 1.1 messages.
	ContentTypeSOAP = "text/xml; charset=utf-8"

	// ContentTypeJSON is the content type for OpenAPI requests.
	ContentTypeJSON = "application/json"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 100 * time.Second

	// defaultBufferSize is the initial size for pooled buffers.
	defaultBufferSize = 32 * 1024

	// maxErrorPreview bounds the body kept in a StatusError message.
	maxErrorPreview = 3000
)

// StatusError is returned for HTTP status codes of 400 and above other
// than 401 and 403. The body is kept so SOAP faults and problem details
// can be decoded from it.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	preview := string(e.Body)
	if len(preview) > maxErrorPreview {
		preview = preview[:maxErrorPreview] + "..."
	}
	return fmt.Sprintf("transport: HTTP %d: %s", e.StatusCode, preview)
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// readAllPooled reads from r using a pooled buffer and returns a copy of the data.
func readAllPooled(r io.Reader) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// HTTPTransport handles HTTP/HTTPS communication with the ISHWS web services.
type HTTPTransport struct {
	client    *http.Client
	logger    *slog.Logger
	userAgent string
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// NewHTTPTransport creates a new HTTP transport with the given options.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		logger:    slog.Default(),
		userAgent: "go-ishremote",
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				// NTLM binds authentication to the connection
				DisableKeepAlives:   false,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithLogger sets the logger used for transport warnings.
func WithLogger(logger *slog.Logger) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// WithInsecureSkipVerify configures TLS to skip certificate verification.
// WARNING: Only use this for testing. Never use in production.
func WithInsecureSkipVerify(skip bool) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if skip {
			t.logger.Warn("TLS certificate verification disabled")
		}
		transport := t.ensureHTTPTransport()
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
		transport.TLSClientConfig.InsecureSkipVerify = skip
	}
}

// WithTLSConfig sets a custom TLS configuration.
// MinVersion is raised to TLS 1.2 when lower.
func WithTLSConfig(cfg *tls.Config) HTTPTransportOption {
	return func(t *HTTPTransport) {
		transport := t.ensureHTTPTransport()
		if cfg.MinVersion < tls.VersionTLS12 {
			cfg.MinVersion = tls.VersionTLS12
		}
		transport.TLSClientConfig = cfg
	}
}

// WithProxy sets the HTTP proxy. An empty string keeps the environment
// proxy settings, "direct" disables proxying.
func WithProxy(proxyURL string) HTTPTransportOption {
	return func(t *HTTPTransport) {
		transport := t.ensureHTTPTransport()
		switch proxyURL {
		case "":
			transport.Proxy = http.ProxyFromEnvironment
		case "direct":
			transport.Proxy = nil
		default:
			u, err := url.Parse(proxyURL)
			if err != nil {
				t.logger.Warn("ignoring invalid proxy url", "proxy", proxyURL, "error", err)
				return
			}
			transport.Proxy = http.ProxyURL(u)
		}
	}
}

// WithRoundTripper wraps the current round tripper, typically with an
// authenticator.
func WithRoundTripper(wrap func(http.RoundTripper) http.RoundTripper) HTTPTransportOption {
	return func(t *HTTPTransport) {
		base := t.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		t.client.Transport = wrap(base)
	}
}

func (t *HTTPTransport) ensureHTTPTransport() *http.Transport {
	if t.client.Transport == nil {
		t.client.Transport = &http.Transport{}
	}
	transport, ok := t.client.Transport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
		t.client.Transport = transport
	}
	return transport
}

// PostSOAP sends a SOAP 1.1 request and returns the response body.
func (t *HTTPTransport) PostSOAP(ctx context.Context, url, soapAction string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeSOAP)
	req.Header.Set("SOAPAction", `"`+soapAction+`"`)
	return t.Do(req)
}

// Do sends req and returns the body of a successful response. Status
// codes of 400 and above become ErrUnauthorized, ErrForbidden or a
// *StatusError.
func (t *HTTPTransport) Do(req *http.Request) ([]byte, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readAllPooled(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode >= 400:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

// Client returns the underlying HTTP client for advanced configuration.
func (t *HTTPTransport) Client() *http.Client {
	return t.client
}

// CloseIdleConnections closes any idle connections in the transport.
// This forces a fresh NTLM handshake for subsequent requests.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
