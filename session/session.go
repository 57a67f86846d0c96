package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"

	"github.com/rws/go-ishremote/api25"
	"github.com/rws/go-ishremote/auth"
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/openapi"
	"github.com/rws/go-ishremote/soap"
	"github.com/rws/go-ishremote/transport"
)

// Session is an authenticated connection to one ISH server.
type Session struct {
	wsURL  string
	logger *slog.Logger

	transport *transport.HTTPTransport
	soap      *soap.Client
	openapi   *openapi.Client
	api       *api25.Client
	bearer    *auth.BearerAuth

	conn     *openapi.ConnectionConfiguration
	version  ishobjects.Version
	setup    *fieldsetup.Setup
	userName string

	mu     sync.Mutex
	closed bool
}

// New connects to the server described by cfg.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	wsURL, _ := soap.NormalizeBaseURL(cfg.WSURL)
	s := &Session{wsURL: wsURL, logger: logger}

	opts := []transport.HTTPTransportOption{
		transport.WithLogger(logger),
		transport.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		transport.WithProxy(cfg.Proxy),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.Timeout))
	}
	plain := transport.NewHTTPTransport(opts...)

	if !cfg.SkipDiscovery {
		conn, err := openapi.FetchConnectionConfiguration(ctx, plain, wsURL)
		if err != nil {
			logger.Warn("session: connection configuration unavailable", "url", wsURL, "error", err)
		} else {
			s.conn = conn
		}
	}

	authr, err := s.authenticator(ctx, cfg, plain)
	if err != nil {
		return nil, err
	}
	s.transport = transport.NewHTTPTransport(append(opts, transport.WithRoundTripper(authr.Transport))...)

	s.soap, err = soap.NewClient(soap.Config{
		BaseURL:            wsURL,
		Logger:             logger,
		Retry:              cfg.Retry,
		CircuitBreaker:     cfg.CircuitBreaker,
		MaxConcurrentCalls: cfg.MaxConcurrentCalls,
	}, s.transport)
	if err != nil {
		return nil, err
	}
	if s.openapi, err = openapi.NewClient(wsURL, s.transport, logger); err != nil {
		return nil, err
	}

	// The version decides where the field setup comes from, so it is read
	// through a client without one.
	bootstrap := api25.New(s.soap, nil, cfg.preferences(), logger)
	if err := s.readVersion(ctx, bootstrap); err != nil {
		s.transport.CloseIdleConnections()
		return nil, err
	}
	if err := s.loadFieldSetup(ctx, bootstrap); err != nil {
		s.transport.CloseIdleConnections()
		return nil, err
	}
	strict := cfg.StrictMetadata
	if strict == "" {
		strict = enums.StrictContinue
	}
	s.setup.SetStrictMetadataPreference(strict)
	s.api = api25.New(s.soap, s.setup, cfg.preferences(), logger)

	s.userName = cfg.Credentials.Username
	if s.bearer != nil {
		s.userName = s.tokenUserName(cfg.ClientID)
	}

	logger.Info("session: connected",
		"url", wsURL,
		"auth", authr.Name(),
		"version", s.version.String(),
		"user", s.userName,
		"session_id", s.soap.SessionID())
	return s, nil
}

func (s *Session) authenticator(ctx context.Context, cfg Config, plain *transport.HTTPTransport) (auth.Authenticator, error) {
	switch cfg.Auth {
	case auth.MethodBasic:
		return auth.NewBasicAuth(cfg.Credentials).WithLogger(s.logger), nil
	case auth.MethodNTLM:
		return auth.NewNTLMAuth(cfg.Credentials), nil
	case auth.MethodKerberos, auth.MethodNegotiate:
		kcfg := cfg.Kerberos
		if kcfg.TargetSPN == "" {
			u, err := url.Parse(s.wsURL)
			if err != nil {
				return nil, fmt.Errorf("session: %w", err)
			}
			kcfg.TargetSPN = auth.SPNForHost(u.Hostname())
		}
		if kcfg.Credentials == nil && cfg.Credentials.Username != "" {
			creds := cfg.Credentials
			kcfg.Credentials = &creds
		}
		if kcfg.SSPIPackage == "" {
			kcfg.SSPIPackage = auth.SSPIPackageNegotiate
			if cfg.Auth == auth.MethodKerberos {
				kcfg.SSPIPackage = auth.SSPIPackageKerberos
			}
		}
		return auth.NewNegotiateAuth(func() (auth.SecurityProvider, error) {
			return auth.NewKerberosProvider(kcfg)
		}), nil
	case auth.MethodClientCredentials:
		// The token source outlives New, so it must not inherit its
		// cancellation.
		tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, plain.Client())
		s.bearer = auth.NewClientCredentialsAuth(tokenCtx, auth.ClientCredentials{
			TokenURL:     auth.TokenURL(s.conn.TokenAuthURL(s.wsURL)),
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		})
		return s.bearer, nil
	}
	return nil, fmt.Errorf("session: unsupported authentication method %q", cfg.Auth)
}

func (s *Session) readVersion(ctx context.Context, api *api25.Client) error {
	v, err := api.Application().GetVersion(ctx)
	if err == nil {
		s.version = v
		return nil
	}
	if s.conn == nil || s.conn.SoftwareVersion == "" {
		return fmt.Errorf("session: read server version: %w", err)
	}
	s.logger.Warn("session: Application25.GetVersion failed, using connection configuration", "error", err)
	if s.version, err = s.conn.ServerVersion(); err != nil {
		return fmt.Errorf("session: read server version: %w", err)
	}
	return nil
}

// loadFieldSetup starts from the bundled catalog and, on servers that
// report their own field setup, lets the server's definitions win.
func (s *Session) loadFieldSetup(ctx context.Context, api *api25.Client) error {
	setup, err := fieldsetup.Static(s.logger)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if s.version.AtLeast(13, 0) {
		server, err := api.Settings().RetrieveFieldSetupByIshType(ctx, nil)
		if err != nil {
			if soap.IsFault(err) {
				s.logger.Warn("session: server field setup unavailable, using bundled catalog", "error", err)
			} else {
				return fmt.Errorf("session: read field setup: %w", err)
			}
		} else {
			setup.Merge(server)
		}
	}
	s.logger.Debug("session: field setup loaded", "definitions", setup.Len(), "version", s.version.String())
	s.setup = setup
	return nil
}

func (s *Session) tokenUserName(fallback string) string {
	tok, err := s.bearer.Token()
	if err != nil {
		s.logger.Debug("session: no access token for user name", "error", err)
		return fallback
	}
	claims, err := openapi.ParseAccessToken(tok.AccessToken)
	if err != nil {
		s.logger.Debug("session: access token is not a JWT", "error", err)
		return fallback
	}
	if name := claims.UserName(); name != "" {
		return name
	}
	return fallback
}

// API returns the typed API25 services.
func (s *Session) API() *api25.Client { return s.api }

// SOAP returns the raw SOAP client.
func (s *Session) SOAP() *soap.Client { return s.soap }

// OpenAPI returns the OpenAPI client.
func (s *Session) OpenAPI() *openapi.Client { return s.openapi }

// HTTPClient returns the authenticated HTTP client.
func (s *Session) HTTPClient() *http.Client { return s.transport.Client() }

// WSURL returns the normalized web services root.
func (s *Session) WSURL() string { return s.wsURL }

// Version returns the server version.
func (s *Session) Version() ishobjects.Version { return s.version }

// FieldSetup returns the field setup requests are filtered through.
func (s *Session) FieldSetup() *fieldsetup.Setup { return s.setup }

// ConnectionConfiguration returns the discovery document, or nil when it
// was not read.
func (s *Session) ConnectionConfiguration() *openapi.ConnectionConfiguration { return s.conn }

// UserName returns the user the session authenticated as.
func (s *Session) UserName() string { return s.userName }

// SessionID identifies the session in logs.
func (s *Session) SessionID() string { return s.soap.SessionID() }

// Test checks that the session still works by reading the current user.
func (s *Session) Test(ctx context.Context) (ishobjects.Object, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ishobjects.Object{}, ErrNotConnected
	}
	return s.api.User().GetMyMetadata(ctx, nil)
}

// Close releases idle connections. The session cannot be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.transport.CloseIdleConnections()
	return nil
}
