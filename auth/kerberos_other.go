//go:build !windows

package auth

// NewKerberosProvider creates the Kerberos provider for the platform.
// Outside Windows this is always the pure Go provider.
func NewKerberosProvider(cfg KerberosProviderConfig) (SecurityProvider, error) {
	return NewPureKerberosProvider(cfg)
}

// SupportsSSO returns true if the platform supports SSO.
func SupportsSSO() bool {
	return false
}
