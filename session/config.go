package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rws/go-ishremote/api25"
	"github.com/rws/go-ishremote/auth"
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/soap"
)

// ErrNotConnected is returned by operations on a closed session.
var ErrNotConnected = errors.New("session: not connected")

// Config configures a Session.
type Config struct {
	// WSURL is the web services root, e.g. https://ish.example.com/ISHWS/.
	WSURL string

	Auth        auth.Method
	Credentials auth.Credentials

	// ClientID and ClientSecret are used by auth.MethodClientCredentials.
	ClientID     string
	ClientSecret string

	// Kerberos configures auth.MethodKerberos and auth.MethodNegotiate.
	// TargetSPN defaults to HTTP/<host of WSURL>.
	Kerberos auth.KerberosProviderConfig

	Timeout            time.Duration
	InsecureSkipVerify bool

	// Proxy is a proxy url, "direct", or empty for the environment.
	Proxy string

	StrictMetadata         enums.StrictMetadataPreference
	RequestedMetadataGroup enums.RequestedMetadataGroup
	MetadataBatchSize      int
	BlobBatchSize          int
	Parallelism            int

	Retry              *soap.RetryPolicy
	CircuitBreaker     *soap.CircuitBreakerPolicy
	MaxConcurrentCalls int

	// SkipDiscovery does not read connectionconfiguration.xml.
	SkipDiscovery bool

	Logger *slog.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := soap.NormalizeBaseURL(c.WSURL); err != nil {
		return err
	}
	switch c.Auth {
	case auth.MethodBasic, auth.MethodNTLM:
		if err := c.Credentials.Validate(); err != nil {
			return fmt.Errorf("session: %s: %w", c.Auth, err)
		}
	case auth.MethodKerberos, auth.MethodNegotiate:
		if c.Kerberos.UseSSO {
			if !auth.SupportsSSO() {
				return fmt.Errorf("session: single sign-on is not supported on this platform")
			}
			return nil
		}
		if c.Kerberos.KeytabPath == "" && c.Kerberos.CCachePath == "" {
			if err := c.Credentials.Validate(); err != nil {
				return fmt.Errorf("session: %s: %w", c.Auth, err)
			}
		} else if err := c.Credentials.ValidateForKerberos(); err != nil {
			return fmt.Errorf("session: %s: %w", c.Auth, err)
		}
	case auth.MethodClientCredentials:
		if c.ClientID == "" || c.ClientSecret == "" {
			return fmt.Errorf("session: client id and client secret are required")
		}
	default:
		return fmt.Errorf("session: unsupported authentication method %q", c.Auth)
	}
	return nil
}

func (c *Config) preferences() api25.Preferences {
	return api25.Preferences{
		RequestedMetadataGroup: c.RequestedMetadataGroup,
		MetadataBatchSize:      c.MetadataBatchSize,
		BlobBatchSize:          c.BlobBatchSize,
		Parallelism:            c.Parallelism,
	}
}
