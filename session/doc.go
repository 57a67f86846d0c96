// Package session connects to an ISH server and wires the clients of one
// authenticated session: the SOAP API25 services, the OpenAPI surface and
// the field setup every request is filtered through.
//
// Basic usage:
//
//	s, err := session.New(ctx, session.Config{
//	    WSURL:       "https://ish.example.com/ISHWS/",
//	    Auth:        auth.MethodNTLM,
//	    Credentials: auth.Credentials{Username: "admin", Password: "secret"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	folder, err := s.API().Folder().GetMetadata(ctx, api25.BaseFolderData, `\General`, nil)
//
// New reads the server version and loads the field setup: servers from
// 13.0 on report their own, older ones use the bundled catalog.
package session
