// Package ishremote provides a client for the web services of an ISH
// content management server (Tridion Docs / Knowledge Center): the SOAP
// API25 services and the OpenAPI REST endpoints.
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  session/      Connect, authenticate, load field setup  │
//	├─────────────────────────────────────────────────────────┤
//	│  api25/        Typed service verbs (DocumentObj25, ...) │
//	├─────────────────────────────────────────────────────────┤
//	│  fieldsetup/   Field policy per ishtype and action mode │
//	│  ishfields/    Metadata, requested and filter fields    │
//	│  ishobjects/   Cards and folders returned by the server │
//	├─────────────────────────────────────────────────────────┤
//	│  soap/         SOAP 1.1 calls with retry and breaker    │
//	│  openapi/      REST calls and connection discovery      │
//	├─────────────────────────────────────────────────────────┤
//	│  auth/         Basic, NTLM, Negotiate, OAuth2 bearer    │
//	│  transport/    HTTP(S) client                           │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	s, err := session.New(ctx, session.Config{
//	    WSURL:       "https://ish.example.com/ISHWS/",
//	    Auth:        auth.MethodNTLM,
//	    Credentials: auth.Credentials{Username: "admin", Password: "password"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	requested, _ := ishfields.ParseRequestedArgs([]string{"FTITLE[logical]"}, enums.LevelLng)
//	objs, err := s.API().Search().SearchDocumentObj(ctx, api25.Query{Text: "install"}, requested)
//
// Every write passes the field setup first: fields the server would
// reject for the ishtype and action mode are dropped, or reported,
// according to the session's StrictMetadataPreference.
//
// The ishremote command in cmd/ishremote exposes the same verbs on the
// command line.
package ishremote
