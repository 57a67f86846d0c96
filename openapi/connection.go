package openapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/transport"
)

// ConnectionConfiguration is the anonymous discovery document published
// at {ISHWS}/connectionconfiguration.xml.
type ConnectionConfiguration struct {
	XMLName         xml.Name `xml:"connectionconfiguration"`
	Version         string   `xml:"version,attr"`
	InfoShareWSURL  string   `xml:"infosharewsurl"`
	AuthURL         string   `xml:"infoshareauthurl"`
	ApplicationName string   `xml:"applicationname"`
	SoftwareVersion string   `xml:"softwareversion"`
	Issuer          Issuer   `xml:"issuer"`
}

// Issuer describes the token issuer of older servers.
type Issuer struct {
	URL                string `xml:"url"`
	AuthenticationType string `xml:"authenticationtype"`
}

// ParseConnectionConfiguration parses a connectionconfiguration.xml document.
func ParseConnectionConfiguration(data []byte) (*ConnectionConfiguration, error) {
	var cc ConnectionConfiguration
	if err := xml.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("parse connection configuration: %w", err)
	}
	cc.InfoShareWSURL = strings.TrimSpace(cc.InfoShareWSURL)
	cc.AuthURL = strings.TrimSpace(cc.AuthURL)
	cc.SoftwareVersion = strings.TrimSpace(cc.SoftwareVersion)
	return &cc, nil
}

// FetchConnectionConfiguration downloads the discovery document below
// wsURL. The document is anonymous, so tr needs no authentication.
func FetchConnectionConfiguration(ctx context.Context, tr *transport.HTTPTransport, wsURL string) (*ConnectionConfiguration, error) {
	u := strings.TrimRight(wsURL, "/") + "/connectionconfiguration.xml"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("connection configuration: %w", err)
	}
	body, err := tr.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection configuration: %w", err)
	}
	return ParseConnectionConfiguration(body)
}

// ServerVersion parses SoftwareVersion.
func (c *ConnectionConfiguration) ServerVersion() (ishobjects.Version, error) {
	return ishobjects.ParseVersion(c.SoftwareVersion)
}

// TokenAuthURL returns the ISHAM url, derived from wsURL when the
// document does not name one.
func (c *ConnectionConfiguration) TokenAuthURL(wsURL string) string {
	if c != nil && c.AuthURL != "" {
		return c.AuthURL
	}
	return DefaultAuthURL(wsURL)
}

// DefaultAuthURL maps https://host/ISHWS/ to https://host/ISHAM/. Urls
// without a trailing ISHWS segment get ISHAM appended.
func DefaultAuthURL(wsURL string) string {
	base := strings.TrimRight(wsURL, "/")
	if i := strings.LastIndex(base, "/"); i >= 0 && strings.EqualFold(base[i+1:], "ISHWS") {
		return base[:i] + "/ISHAM/"
	}
	return base + "/ISHAM/"
}
