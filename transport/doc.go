// Package transport provides the HTTP(S) transport shared by the SOAP
// and OpenAPI clients.
package transport
