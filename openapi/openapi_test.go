package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/transport"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/ISHWS", transport.NewHTTPTransport(), nil)
	require.NoError(t, err)
	return c
}

func TestClient_GetApplicationVersion(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "object", body: `{"version":"15.1.0.3226"}`},
		{name: "bare string", body: `"15.1.0.3226"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ISHWS/api/v3/Application/Version", r.URL.Path)
				assert.Equal(t, ContentTypeJSON, r.Header.Get("Accept"))
				_, _ = w.Write([]byte(tt.body))
			})
			v, err := c.GetApplicationVersion(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "15.1.0.3226", v)
		})
	}
}

func TestClient_GetCurrentUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISHWS/api/v3/Users/Current", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"VUSERADMIN","userName":"admin","fullName":"Administrator","userRoles":["Administrator","Author"]}`))
	})

	got, err := c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	want := &User{ID: "VUSERADMIN", UserName: "admin", FullName: "Administrator", UserRoles: []string{"Administrator", "Author"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetCurrentUser mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ProblemDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"type":"about:blank","title":"Not Found","detail":"no such user","traceId":"00-1"}`))
	})

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "no such user", e.Detail)
	assert.Equal(t, "00-1", e.TraceID)
	assert.Contains(t, err.Error(), "openapi: 404 Not Found: no such user")
}

func TestClient_PlainErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := c.GetApplicationVersion(context.Background())
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode)
	assert.Contains(t, e.Error(), "Internal Server Error")
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, transport.ErrUnauthorized)
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "ftp://host/", "not a url"} {
		_, err := NewClient(u, transport.NewHTTPTransport(), nil)
		assert.Error(t, err, u)
	}
}

const connectionConfigurationXML = `<?xml version="1.0" encoding="utf-8"?>
<connectionconfiguration version="1.0.0.0">
  <infosharewsurl>https://ish.example.com/ISHWS/</infosharewsurl>
  <infoshareauthurl>https://ish.example.com/ISHAM/</infoshareauthurl>
  <applicationname>InfoShareWS</applicationname>
  <softwareversion>15.1.0.3226</softwareversion>
  <issuer>
    <authenticationtype>UserNameMixed</authenticationtype>
    <url>https://ish.example.com/ISHSTS/issue/wstrust/mixed/username</url>
  </issuer>
</connectionconfiguration>`

func TestFetchConnectionConfiguration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISHWS/connectionconfiguration.xml", r.URL.Path)
		_, _ = w.Write([]byte(connectionConfigurationXML))
	}))
	defer server.Close()

	cc, err := FetchConnectionConfiguration(context.Background(), transport.NewHTTPTransport(), server.URL+"/ISHWS/")
	require.NoError(t, err)
	assert.Equal(t, "https://ish.example.com/ISHWS/", cc.InfoShareWSURL)
	assert.Equal(t, "UserNameMixed", cc.Issuer.AuthenticationType)
	assert.Equal(t, "https://ish.example.com/ISHAM/", cc.TokenAuthURL("ignored"))

	v, err := cc.ServerVersion()
	require.NoError(t, err)
	assert.True(t, v.AtLeast(15, 1))
}

func TestDefaultAuthURL(t *testing.T) {
	assert.Equal(t, "https://h/ISHAM/", DefaultAuthURL("https://h/ISHWS/"))
	assert.Equal(t, "https://h/ISHAM/", DefaultAuthURL("https://h/ishws"))
	assert.Equal(t, "https://h/x/ISHAM/", DefaultAuthURL("https://h/x"))

	var cc *ConnectionConfiguration
	assert.Equal(t, "https://h/ISHAM/", cc.TokenAuthURL("https://h/ISHWS/"))
}

func TestParseAccessToken(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "f3a1",
		"client_id": "svc-client",
		"name":      "Service Account",
		"role":      "Administrator",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("not-verified"))
	require.NoError(t, err)

	claims, err := ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "Service Account", claims.UserName())
	assert.Equal(t, jwt.ClaimStrings{"Administrator"}, claims.Role)
	assert.Equal(t, "svc-client", claims.ClientID)

	claims.Name = ""
	assert.Equal(t, "f3a1", claims.UserName())

	_, err = ParseAccessToken("not-a-jwt")
	assert.Error(t, err)
}
