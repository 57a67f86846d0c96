package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-krb5/krb5/client"
	"github.com/go-krb5/krb5/config"
	"github.com/go-krb5/krb5/credentials"
	"github.com/go-krb5/krb5/keytab"
	"github.com/go-krb5/krb5/spnego"
)

// PureKerberosProvider implements SecurityProvider with the pure Go
// go-krb5 library. TLS protects the exchange, so only the SPNEGO init
// token is produced.
type PureKerberosProvider struct {
	client       *client.Client
	spnegoClient *spnego.SPNEGO
	targetSPN    string
	isComplete   bool
}

// NewPureKerberosProvider creates a new pure Go Kerberos provider.
// Keytab wins over credential cache, which wins over password.
func NewPureKerberosProvider(cfg KerberosProviderConfig) (*PureKerberosProvider, error) {
	confPath := cfg.Krb5ConfPath
	if confPath == "" {
		confPath = os.Getenv("KRB5_CONFIG")
		if confPath == "" {
			confPath = "/etc/krb5.conf"
		}
	}
	conf, err := config.Load(confPath)
	if err != nil {
		return nil, fmt.Errorf("load krb5.conf from %s: %w", confPath, err)
	}

	var cl *client.Client
	switch {
	case cfg.KeytabPath != "":
		if cfg.Credentials == nil || cfg.Credentials.Username == "" {
			return nil, errors.New("keytab requires a username")
		}
		kt, err := keytab.Load(cfg.KeytabPath)
		if err != nil {
			return nil, fmt.Errorf("load keytab from %s: %w", cfg.KeytabPath, err)
		}
		cl = client.NewWithKeytab(cfg.Credentials.Username, cfg.Realm, kt, conf, client.DisablePAFXFAST(true))
	case cfg.CCachePath != "":
		cc, err := credentials.LoadCCache(cfg.CCachePath)
		if err != nil {
			return nil, fmt.Errorf("load ccache from %s: %w", cfg.CCachePath, err)
		}
		cl, err = client.NewFromCCache(cc, conf, client.DisablePAFXFAST(true))
		if err != nil {
			return nil, fmt.Errorf("create client from ccache: %w", err)
		}
	case cfg.Credentials != nil:
		cl = client.NewWithPassword(
			cfg.Credentials.Username,
			cfg.Realm,
			cfg.Credentials.Password,
			conf,
			client.DisablePAFXFAST(true),
		)
	default:
		return nil, errors.New("no credentials provided (keytab, ccache, or password required)")
	}

	return &PureKerberosProvider{
		client:    cl,
		targetSPN: cfg.TargetSPN,
	}, nil
}

// Step performs a SPNEGO step.
func (p *PureKerberosProvider) Step(_ context.Context, inputToken []byte) ([]byte, bool, error) {
	if len(inputToken) > 0 {
		if !p.isComplete {
			return nil, false, errors.New("received server token before client authentication completed")
		}
		// Mutual authentication answer; TLS already authenticated the server.
		return nil, false, nil
	}

	if err := p.client.Login(); err != nil {
		return nil, false, fmt.Errorf("kerberos login: %w", err)
	}
	if p.spnegoClient == nil {
		p.spnegoClient = spnego.SPNEGOClient(p.client, p.targetSPN)
	}
	tkn, err := p.spnegoClient.InitSecContext()
	if err != nil {
		return nil, false, fmt.Errorf("init security context: %w", err)
	}
	token, err := tkn.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("marshal token: %w", err)
	}

	p.isComplete = true
	return token, false, nil
}

// Complete returns true if the context is established.
func (p *PureKerberosProvider) Complete() bool {
	return p.isComplete
}

// Close releases resources.
func (p *PureKerberosProvider) Close() error {
	p.client.Destroy()
	return nil
}
