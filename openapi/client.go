package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/rws/go-ishremote/transport"
)

// ContentTypeJSON is sent in the Accept header of every request.
const ContentTypeJSON = "application/json"

// Client calls the OpenAPI endpoints below an ISHWS base url.
type Client struct {
	baseURL   string
	transport *transport.HTTPTransport
	logger    *slog.Logger
}

// NewClient creates a client for wsURL (e.g. https://ish.example.com/ISHWS/).
// tr must already carry authentication.
func NewClient(wsURL string, tr *transport.HTTPTransport, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(wsURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("openapi: invalid base url %q", wsURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: u.String(), transport: tr, logger: logger}, nil
}

// URL returns the absolute url of an api/v3 path.
func (c *Client) URL(path string) string {
	return c.baseURL + "api/v3/" + strings.TrimLeft(path, "/")
}

// getJSON decodes the JSON answer of GET path into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.URL(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("openapi: create request: %w", err)
	}
	req.Header.Set("Accept", ContentTypeJSON)

	c.logger.Debug("openapi: request", "method", req.Method, "path", path)
	body, err := c.transport.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, asError(err))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

// ApplicationVersion is the answer of Application/Version.
type ApplicationVersion struct {
	Version string `json:"version"`
}

// GetApplicationVersion returns the server software version.
func (c *Client) GetApplicationVersion(ctx context.Context) (string, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "Application/Version", nil, &raw); err != nil {
		return "", err
	}
	// Older servers answer with a bare JSON string.
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, nil
	}
	var v ApplicationVersion
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("GET Application/Version: decode response: %w", err)
	}
	return v.Version, nil
}

// User is the authenticated user as reported by Users/Current.
type User struct {
	ID           string   `json:"id"`
	UserName     string   `json:"userName"`
	FullName     string   `json:"fullName"`
	EmailAddress string   `json:"emailAddress,omitempty"`
	Language     string   `json:"userLanguage,omitempty"`
	UserRoles    []string `json:"userRoles,omitempty"`
	UserGroups   []string `json:"userGroups,omitempty"`
}

// GetCurrentUser returns the user the session is authenticated as.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "Users/Current", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
