package oauth

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
)

func ClientCredentialsHTTPClient(ctx context.Context, cc *clientcredentials.Config, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}

	ctx = WithBaseClient(ctx, base)
	return oauth2.NewClient(ctx, cc.TokenSource(ctx))
}

// BackendClient returns a client for the forms backend. Without a token URL
// the backend is called anonymously.
func BackendClient(ctx context.Context, cfg core.BackendConfig, logger *slog.Logger) *http.Client {
	if logger == nil {
		logger = slog.Default()
	}

	base := HeaderPreservingClient()
	if cfg.TokenURL == "" {
		return base
	}

	logger.Info("backend calls use client credentials",
		slog.String("component", "oauth"),
		slog.String("token_url", cfg.TokenURL),
		slog.Any("scopes", cfg.Scopes),
	)

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return ClientCredentialsHTTPClient(ctx, cc, base)
}
