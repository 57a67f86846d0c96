// Package auth provides the authentication handlers for ISHWS connections.
//
// # Supported Authentication Methods
//
//   - Basic: HTTP Basic authentication (use only over TLS)
//   - NTLM: NT LAN Manager authentication (via github.com/Azure/go-ntlmssp)
//   - Negotiate: SPNEGO with a pluggable SecurityProvider. Kerberos is
//     served by go-krb5 (pure Go) or by Windows SSPI
//   - Bearer: OpenID Connect access tokens from an oauth2.TokenSource,
//     usually client credentials against the ISHAM token endpoint
//
// # Platform Support
//
// On Windows, Negotiate can use Single Sign-On with the logged-in user's
// credentials through SSPI. On other platforms explicit credentials are
// required: password, keytab file, or credential cache (ccache from kinit).
//
// # Usage
//
// NTLM authentication:
//
//	a := auth.NewNTLMAuth(auth.Credentials{
//	    Username: "admin",
//	    Password: "password",
//	    Domain:   "CONTOSO",
//	})
//
// Client credentials:
//
//	a := auth.NewClientCredentialsAuth(ctx, auth.ClientCredentials{
//	    TokenURL:     "https://ish.example.com/ISHAM/connect/token",
//	    ClientID:     "service-account",
//	    ClientSecret: secret,
//	})
package auth
