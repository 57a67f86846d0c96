package auth

import "context"

// SecurityProvider handles the low-level authentication token exchange
// behind Negotiate. It abstracts pure Go Kerberos and Windows SSPI.
//
// # Thread Safety
//
// SecurityProvider implementations are NOT safe for concurrent use.
// The provider keeps state during the handshake.
//
// # Authentication Flow
//
//  1. Client calls Step(nil) -> returns Initial Token
//  2. Client sends Token to Server
//  3. Server responds with Server Token (Challenge)
//  4. Client calls Step(Server Token) -> returns Response Token
//  5. Repeat until Complete() returns true.
type SecurityProvider interface {
	// Step processes an input token and produces the token to send.
	// On the first call, inputToken is nil.
	Step(ctx context.Context, inputToken []byte) (outputToken []byte, continueNeeded bool, err error)

	// Complete returns true if the security context has been established.
	Complete() bool

	// Close releases any resources associated with the context.
	Close() error
}

// ProviderFactory creates a fresh provider per handshake.
type ProviderFactory func() (SecurityProvider, error)
