package auth

import (
	"net/http"

	"github.com/Azure/go-ntlmssp"
)

// NTLMAuth implements NTLM authentication.
type NTLMAuth struct {
	creds Credentials
}

// NewNTLMAuth creates a new NTLM authentication handler.
func NewNTLMAuth(creds Credentials) *NTLMAuth {
	return &NTLMAuth{creds: creds}
}

// Name returns the authentication scheme name.
func (a *NTLMAuth) Name() string {
	return "NTLM"
}

// Transport wraps an http.RoundTripper with NTLM authentication.
// The negotiator reads the credentials from the request's basic auth,
// so they are attached before it runs.
func (a *NTLMAuth) Transport(base http.RoundTripper) http.RoundTripper {
	return &ntlmTransport{
		creds:      a.creds,
		negotiator: ntlmssp.Negotiator{RoundTripper: base},
	}
}

type ntlmTransport struct {
	creds      Credentials
	negotiator ntlmssp.Negotiator
}

func (t *ntlmTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	user := t.creds.Username
	if t.creds.Domain != "" {
		user = t.creds.Domain + `\` + user
	}
	reqCopy.SetBasicAuth(user, t.creds.Password)
	return t.negotiator.RoundTrip(reqCopy)
}

// GetCredentials returns domain, user name and password.
func (a *NTLMAuth) GetCredentials() (string, string, string) {
	return a.creds.Domain, a.creds.Username, a.creds.Password
}
