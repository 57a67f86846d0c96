package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/auth"
	"github.com/rws/go-ishremote/enums"
)

// fakeServer is a minimal ISHWS: discovery, token endpoint and the SOAP
// operations a session needs to start.
type fakeServer struct {
	*httptest.Server

	version     string
	noDiscovery bool
	versionFail bool
	token       string

	mu      sync.Mutex
	actions []string
}

func newFakeServer(t *testing.T, version string) *fakeServer {
	t.Helper()
	fs := &fakeServer{version: version}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) wsURL() string { return fs.URL + "/ISHWS/" }

func (fs *fakeServer) soapActions() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.actions...)
}

func envelope(op, ns, result string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><%sResponse xmlns="urn:trisoft-ish-api25:%s"><%sResult>`, op, ns, op)
	b.WriteString(strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(result))
	fmt.Fprintf(&b, `</%sResult></%sResponse></s:Body></s:Envelope>`, op, op)
	return b.String()
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ISHWS/connectionconfiguration.xml":
		if fs.noDiscovery {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `<connectionconfiguration version="1.0.0.0"><infosharewsurl>%s</infosharewsurl><infoshareauthurl>%s/ISHAM/</infoshareauthurl><softwareversion>%s</softwareversion></connectionconfiguration>`,
			fs.wsURL(), fs.URL, fs.version)
		return
	case "/ISHAM/connect/token":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600}`, fs.token)
		return
	}

	if fs.token != "" && r.Header.Get("Authorization") != "Bearer "+fs.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if fs.token == "" {
		if user, pass, ok := r.BasicAuth(); !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	action = strings.TrimPrefix(action, "urn:trisoft-ish-api25:")
	fs.mu.Lock()
	fs.actions = append(fs.actions, action)
	fs.mu.Unlock()

	switch action {
	case "Application25/GetVersion":
		if fs.versionFail {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, envelope("GetVersion", "Application25", fs.version))
	case "Settings25/RetrieveFieldSetupByIshType":
		_, _ = io.WriteString(w, envelope("RetrieveFieldSetupByIshType", "Settings25",
			`<ishfieldsetup><ishtypedefinition name="ISHModule"><ishfielddefinition name="FCUSTOM" level="logical" datatype="string" allowonread="true" allowoncreate="true"/></ishtypedefinition></ishfieldsetup>`))
	case "User25/GetMyMetadata":
		_, _ = io.WriteString(w, envelope("GetMyMetadata", "User25",
			`<ishobjects><ishobject ishtype="ISHUser" ishref="VUSERADMIN"><ishfields><ishfield name="USERNAME" level="none">admin</ishfield></ishfields></ishobject></ishobjects>`))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func testConfig(wsURL string) Config {
	return Config{
		WSURL:       wsURL,
		Auth:        auth.MethodBasic,
		Credentials: auth.Credentials{Username: "admin", Password: "secret"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNew_ServerFieldSetup(t *testing.T) {
	fs := newFakeServer(t, "15.1.0.3226")

	s, err := New(context.Background(), testConfig(fs.wsURL()))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "15.1.0.3226", s.Version().String())
	assert.Equal(t, "admin", s.UserName())
	require.NotNil(t, s.ConnectionConfiguration())

	setup := s.FieldSetup()
	_, ok := setup.Lookup(enums.ISHModule, enums.LevelLogical, "FCUSTOM")
	assert.True(t, ok, "server definitions are loaded")
	_, ok = setup.Lookup(enums.ISHModule, enums.LevelLogical, "FTITLE")
	assert.True(t, ok, "bundled definitions remain")
	assert.Equal(t, enums.StrictContinue, setup.StrictMetadataPreference())

	assert.Equal(t, []string{"Application25/GetVersion", "Settings25/RetrieveFieldSetupByIshType"}, fs.soapActions())

	me, err := s.Test(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "VUSERADMIN", me.IshRef)
}

func TestNew_OldServerUsesBundledCatalog(t *testing.T) {
	fs := newFakeServer(t, "12.0.5")

	s, err := New(context.Background(), testConfig(fs.wsURL()))
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.FieldSetup().Lookup(enums.ISHModule, enums.LevelLogical, "FCUSTOM")
	assert.False(t, ok)
	assert.Equal(t, []string{"Application25/GetVersion"}, fs.soapActions())
}

func TestNew_VersionFromDiscovery(t *testing.T) {
	fs := newFakeServer(t, "14.0.4")
	fs.versionFail = true

	s, err := New(context.Background(), testConfig(fs.wsURL()))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "14.0.4.0", s.Version().String())
}

func TestNew_NoVersion(t *testing.T) {
	fs := newFakeServer(t, "14.0.4")
	fs.versionFail = true
	fs.noDiscovery = true

	_, err := New(context.Background(), testConfig(fs.wsURL()))
	assert.ErrorContains(t, err, "read server version")
}

func TestNew_Unauthorized(t *testing.T) {
	fs := newFakeServer(t, "15.0.0")
	cfg := testConfig(fs.wsURL())
	cfg.Credentials.Password = "wrong"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_ClientCredentials(t *testing.T) {
	fs := newFakeServer(t, "15.1.0")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                "7d1e",
		"preferred_username": "svc-robot",
		"exp":                time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	fs.token = token

	s, err := New(context.Background(), Config{
		WSURL:          fs.wsURL(),
		Auth:           auth.MethodClientCredentials,
		ClientID:       "svc",
		ClientSecret:   "s3cret",
		StrictMetadata: enums.StrictOff,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "svc-robot", s.UserName())
	assert.Equal(t, enums.StrictOff, s.FieldSetup().StrictMetadataPreference())
}

func TestSession_TestAfterClose(t *testing.T) {
	fs := newFakeServer(t, "15.0.0")
	s, err := New(context.Background(), testConfig(fs.wsURL()))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Test(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "basic", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodBasic, Credentials: auth.Credentials{Username: "u", Password: "p"}}},
		{name: "basic without password", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodBasic, Credentials: auth.Credentials{Username: "u"}}, wantErr: true},
		{name: "kerberos keytab", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodKerberos, Credentials: auth.Credentials{Username: "u"}, Kerberos: auth.KerberosProviderConfig{KeytabPath: "/k"}}},
		{name: "kerberos without secret", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodKerberos, Credentials: auth.Credentials{Username: "u"}}, wantErr: true},
		{name: "client credentials", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodClientCredentials, ClientID: "c", ClientSecret: "s"}},
		{name: "client credentials without secret", cfg: Config{WSURL: "https://h/ISHWS", Auth: auth.MethodClientCredentials, ClientID: "c"}, wantErr: true},
		{name: "unknown auth", cfg: Config{WSURL: "https://h/ISHWS", Auth: "digest"}, wantErr: true},
		{name: "bad url", cfg: Config{WSURL: "h/ISHWS", Auth: auth.MethodBasic}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
