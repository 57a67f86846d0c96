//go:build windows

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexbrainman/sspi"
	"github.com/alexbrainman/sspi/negotiate"
)

// NewKerberosProvider creates the Kerberos provider for the platform.
// On Windows this is SSPI, which talks to the LSA directly.
func NewKerberosProvider(cfg KerberosProviderConfig) (SecurityProvider, error) {
	return NewSSPIProvider(cfg)
}

// SupportsSSO returns true if the platform supports SSO.
func SupportsSSO() bool {
	return true
}

// SSPIProvider implements SecurityProvider with the Windows Negotiate
// package. Without explicit credentials it logs on as the current user.
type SSPIProvider struct {
	cred      *sspi.Credentials
	ctx       *negotiate.ClientContext
	targetSPN string
	complete  bool
}

// NewSSPIProvider acquires SSPI credentials for cfg.
func NewSSPIProvider(cfg KerberosProviderConfig) (*SSPIProvider, error) {
	var (
		cred *sspi.Credentials
		err  error
	)
	if cfg.Credentials != nil && cfg.Credentials.Username != "" && !cfg.UseSSO {
		cred, err = negotiate.AcquireUserCredentials(cfg.Credentials.Domain, cfg.Credentials.Username, cfg.Credentials.Password)
	} else {
		cred, err = negotiate.AcquireCurrentUserCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire SSPI credentials: %w", err)
	}
	return &SSPIProvider{cred: cred, targetSPN: cfg.TargetSPN}, nil
}

// Step performs one SSPI leg.
func (p *SSPIProvider) Step(_ context.Context, inputToken []byte) ([]byte, bool, error) {
	if p.ctx == nil {
		if len(inputToken) > 0 {
			return nil, false, errors.New("server token received before the security context exists")
		}
		ctx, token, err := negotiate.NewClientContext(p.cred, p.targetSPN)
		if err != nil {
			return nil, false, fmt.Errorf("initialize SSPI context: %w", err)
		}
		p.ctx = ctx
		return token, true, nil
	}

	done, token, err := p.ctx.Update(inputToken)
	if err != nil {
		return nil, false, fmt.Errorf("update SSPI context: %w", err)
	}
	p.complete = done
	return token, !done, nil
}

// Complete returns true if the context is established.
func (p *SSPIProvider) Complete() bool {
	return p.complete
}

// Close releases the context and credential handles.
func (p *SSPIProvider) Close() error {
	var errs []error
	if p.ctx != nil {
		errs = append(errs, p.ctx.Release())
		p.ctx = nil
	}
	if p.cred != nil {
		errs = append(errs, p.cred.Release())
		p.cred = nil
	}
	return errors.Join(errs...)
}
