package routes

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islamicvirtualuniversity-art/VIL/api/middleware"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
)

const (
	issuer   = "https://issuer.example"
	clientID = "forms-admin"
	keyID    = "routes-kid"
)

func newVerifier(t *testing.T) (*middleware.CognitoVerifier, *rsa.PrivateKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := jwk.FromRaw(&priv.PublicKey)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, keyID))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(set))
	}))
	t.Cleanup(jwks.Close)

	v, err := middleware.NewCognitoVerifierWithURLs(middleware.CognitoConfig{ClientID: clientID}, issuer, jwks.URL)
	require.NoError(t, err)
	return v, priv
}

func signToken(t *testing.T, priv *rsa.PrivateKey) string {
	t.Helper()

	tok := jwt.New()
	require.NoError(t, tok.Set(jwt.IssuerKey, issuer))
	require.NoError(t, tok.Set("token_use", "access"))
	require.NoError(t, tok.Set("client_id", clientID))

	hdrs := jws.NewHeaders()
	require.NoError(t, hdrs.Set(jws.KeyIDKey, keyID))

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, priv, jws.WithProtectedHeaders(hdrs)))
	require.NoError(t, err)
	return string(signed)
}

func TestProxyRouter_AdminGate(t *testing.T) {
	var paths []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"applications":[]}`)
	}))
	defer backend.Close()

	verifier, priv := newVerifier(t)

	app := fiber.New()
	ProxyRouter(app, backend.URL, verifier, nil, core.DiscardLogger())

	call := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, call("/api/admin/applications", ""))
	assert.Empty(t, paths)

	assert.Equal(t, http.StatusOK, call("/api/admin/applications", signToken(t, priv)))
	assert.Equal(t, http.StatusOK, call("/api/courses", ""))

	assert.Equal(t, []string{"/api/admin/applications", "/api/courses"}, paths)
}

func TestProxyRouter_NoVerifierLeavesAdminOpen(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer backend.Close()

	app := fiber.New()
	ProxyRouter(app, backend.URL, nil, nil, core.DiscardLogger())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/applications", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
