package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
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
)

const (
	testIssuer   = "https://issuer.example"
	testClientID = "client-123"
	testKeyID    = "test-kid"
)

// identityProvider serves a one-key JWKS and signs access tokens with it.
type identityProvider struct {
	priv *rsa.PrivateKey
	srv  *httptest.Server
}

func newIdentityProvider(t *testing.T) *identityProvider {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := jwk.FromRaw(&priv.PublicKey)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, testKeyID))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(set))
	}))
	t.Cleanup(srv.Close)

	return &identityProvider{priv: priv, srv: srv}
}

func (p *identityProvider) verifier(t *testing.T, clientID string) *CognitoVerifier {
	t.Helper()

	v, err := NewCognitoVerifierWithURLs(CognitoConfig{ClientID: clientID}, testIssuer, p.srv.URL)
	require.NoError(t, err)
	return v
}

func (p *identityProvider) sign(t *testing.T, claims map[string]any) string {
	t.Helper()

	tok := jwt.New()
	base := map[string]any{
		jwt.IssuerKey:    testIssuer,
		jwt.SubjectKey:   "user-123",
		"token_use":      "access",
		"client_id":      testClientID,
		"username":       "registrar",
		"scope":          "forms/admin",
		"cognito:groups": []string{"admissions"},
	}
	for k, v := range base {
		require.NoError(t, tok.Set(k, v))
	}
	for k, v := range claims {
		require.NoError(t, tok.Set(k, v))
	}

	hdrs := jws.NewHeaders()
	require.NoError(t, hdrs.Set(jws.KeyIDKey, testKeyID))

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, p.priv, jws.WithProtectedHeaders(hdrs)))
	require.NoError(t, err)

	return string(signed)
}

func guardedApp(v *CognitoVerifier) *fiber.App {
	app := fiber.New()
	app.Use(v.FiberMiddleware())
	app.Get("/admin/submissions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sub":      c.Locals("sub"),
			"username": c.Locals("username"),
			"scope":    c.Locals("scope"),
			"groups":   c.Locals("groups"),
		})
	})
	return app
}

func get(t *testing.T, app *fiber.App, header, value string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	if header != "" {
		req.Header.Set(header, value)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestNewCognitoVerifier(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CognitoConfig
		wantErr string
	}{
		{"missing region", CognitoConfig{}, "Region is required"},
		{"missing pool", CognitoConfig{Region: "ap-south-1"}, "UserPoolID is required"},
		{"missing client", CognitoConfig{Region: "ap-south-1", UserPoolID: "pool"}, "ClientID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCognitoVerifier(tt.cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	v, err := NewCognitoVerifier(CognitoConfig{
		Region:     "ap-south-1",
		UserPoolID: "ap-south-1_ABC123",
		ClientID:   testClientID,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cognito-idp.ap-south-1.amazonaws.com/ap-south-1_ABC123", v.issuer)
	assert.Equal(t, "https://cognito-idp.ap-south-1.amazonaws.com/ap-south-1_ABC123/.well-known/jwks.json", v.jwksURL)
	assert.NotNil(t, v.cache)
}

func TestNewCognitoVerifierWithURLs_Validation(t *testing.T) {
	_, err := NewCognitoVerifierWithURLs(CognitoConfig{}, "iss", "jwks")
	assert.EqualError(t, err, "ClientID is required")

	_, err = NewCognitoVerifierWithURLs(CognitoConfig{ClientID: "cid"}, "", "jwks")
	assert.EqualError(t, err, "issuer is required")

	_, err = NewCognitoVerifierWithURLs(CognitoConfig{ClientID: "cid"}, "iss", "")
	assert.EqualError(t, err, "jwksURL is required")
}

func TestFiberMiddleware_JWKSFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v, err := NewCognitoVerifierWithURLs(CognitoConfig{ClientID: "cid"}, testIssuer, srv.URL)
	require.NoError(t, err)

	resp := get(t, guardedApp(v), accessTokenHeader, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFiberMiddleware_Rejects(t *testing.T) {
	idp := newIdentityProvider(t)
	app := guardedApp(idp.verifier(t, testClientID))

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{"no token", "", ""},
		{"garbage token", accessTokenHeader, "definitely-not-a-jwt"},
		{"wrong issuer", accessTokenHeader, idp.sign(t, map[string]any{jwt.IssuerKey: "https://other.example"})},
		{"id token", accessTokenHeader, idp.sign(t, map[string]any{"token_use": "id"})},
		{"other client", accessTokenHeader, idp.sign(t, map[string]any{"client_id": "other-client"})},
		{"basic auth", fiber.HeaderAuthorization, "Basic abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, app, tt.header, tt.value)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestFiberMiddleware_ValidTokenSetsLocals(t *testing.T) {
	idp := newIdentityProvider(t)
	app := guardedApp(idp.verifier(t, testClientID))

	resp := get(t, app, accessTokenHeader, idp.sign(t, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "user-123", got["sub"])
	assert.Equal(t, "registrar", got["username"])
	assert.Equal(t, "forms/admin", got["scope"])
	assert.Equal(t, []any{"admissions"}, got["groups"])
}

func TestFiberMiddleware_BearerToken(t *testing.T) {
	idp := newIdentityProvider(t)
	app := guardedApp(idp.verifier(t, testClientID))

	resp := get(t, app, fiber.HeaderAuthorization, "Bearer "+idp.sign(t, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
