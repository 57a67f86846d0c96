// Package openapi is a JSON client for the ISHWS OpenAPI (api/v3) surface.
//
// It shares the authenticated transport with the SOAP client, so a
// client-credentials or Negotiate session reaches both surfaces with the
// same credentials:
//
//	cfg, err := openapi.FetchConnectionConfiguration(ctx, plain, wsURL)
//	// handle err
//	c, err := openapi.NewClient(wsURL, authenticated, logger)
//	// handle err
//	version, err := c.GetApplicationVersion(ctx)
//
// Non-2xx responses are returned as *Error, parsed from the RFC 7807
// problem document when the server sends one.
package openapi
