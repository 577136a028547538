package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	accessTokenHeader = "x-amzn-oidc-accesstoken"
	jwksTimeout       = 5 * time.Second
)

type CognitoConfig struct {
	Region     string
	UserPoolID string
	ClientID   string
}

// CognitoVerifier guards the admin routes of the backend proxy. Tokens come
// from the load balancer header or an Authorization bearer.
type CognitoVerifier struct {
	issuer  string
	jwksURL string
	cache   *jwk.Cache
	cfg     CognitoConfig
}

func NewCognitoVerifier(cfg CognitoConfig) (*CognitoVerifier, error) {
	if cfg.Region == "" {
		return nil, errors.New("Region is required")
	}
	if cfg.UserPoolID == "" {
		return nil, errors.New("UserPoolID is required")
	}

	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	return NewCognitoVerifierWithURLs(cfg, issuer, issuer+"/.well-known/jwks.json")
}

// NewCognitoVerifierWithURLs points the verifier at an explicit issuer and
// key set, e.g. a local identity provider.
func NewCognitoVerifierWithURLs(cfg CognitoConfig, issuer, jwksURL string) (*CognitoVerifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("ClientID is required")
	}
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if jwksURL == "" {
		return nil, errors.New("jwksURL is required")
	}

	cache := jwk.NewCache(context.Background())
	if err := cache.Register(jwksURL); err != nil {
		return nil, fmt.Errorf("register jwks url: %w", err)
	}

	return &CognitoVerifier{
		issuer:  issuer,
		jwksURL: jwksURL,
		cache:   cache,
		cfg:     cfg,
	}, nil
}

func accessToken(c *fiber.Ctx) string {
	if raw := c.Get(accessTokenHeader); raw != "" {
		return raw
	}

	auth := c.Get(fiber.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func (v *CognitoVerifier) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := accessToken(c)
		if raw == "" {
			return fiber.ErrUnauthorized
		}

		ctx, cancel := context.WithTimeout(c.Context(), jwksTimeout)
		defer cancel()

		keyset, err := v.cache.Get(ctx, v.jwksURL)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unable to load jwks")
		}

		tok, err := jwt.Parse(
			[]byte(raw),
			jwt.WithKeySet(keyset),
			jwt.WithValidate(true),
			jwt.WithIssuer(v.issuer),
			jwt.WithClaimValue("token_use", "access"),
		)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// access tokens carry the app client in "client_id"
		if cid, ok := tok.Get("client_id"); !ok || cid != v.cfg.ClientID {
			return fiber.ErrUnauthorized
		}

		if sub, ok := tok.Get("sub"); ok {
			c.Locals("sub", sub)
		}
		if username, ok := tok.Get("username"); ok {
			c.Locals("username", username)
		}
		if scope, ok := tok.Get("scope"); ok {
			c.Locals("scope", scope)
		}
		if groups, ok := tok.Get("cognito:groups"); ok {
			c.Locals("groups", groups)
		}

		return c.Next()
	}
}
