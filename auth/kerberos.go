package auth

const (
	SSPIPackageNegotiate = "Negotiate"
	SSPIPackageKerberos  = "Kerberos"
)

// KerberosProviderConfig holds the configuration for any Kerberos provider.
type KerberosProviderConfig struct {
	// TargetSPN is the Service Principal Name (e.g., "HTTP/ish.example.com").
	TargetSPN string

	// UseSSO uses the current user's credentials (Windows only).
	UseSSO bool

	// Realm is the Kerberos realm (e.g., "EXAMPLE.COM").
	Realm string

	// Krb5ConfPath is the path to krb5.conf (default: $KRB5_CONFIG or /etc/krb5.conf).
	Krb5ConfPath string

	// KeytabPath is the path to a keytab file (optional).
	KeytabPath string

	// CCachePath is the path to a credential cache (optional).
	CCachePath string

	// Credentials are username/password credentials (optional).
	Credentials *Credentials

	// SSPIPackage selects the SSPI package on Windows (default: Negotiate).
	SSPIPackage string
}

// SPNForHost returns the HTTP service principal of host.
func SPNForHost(host string) string {
	return "HTTP/" + host
}
