package cli

import (
	"context"
	"fmt"
	"log/slog"

	"todo/internal/cache"
	"todo/internal/config"
	"todo/internal/gateway"
	"todo/internal/gateway/googletasks"
	"todo/internal/gateway/rest"
	"todo/internal/session"
	"todo/internal/tasklist"
)

// DefaultFactory builds the controller for the configured backend.
// A cache that cannot be opened is logged and skipped.
func DefaultFactory(ctx context.Context, cfg *config.Config, log *slog.Logger) (*tasklist.Controller, func(), error) {
	store := session.NewStore(cfg.SessionPath())

	gw, err := newGateway(ctx, cfg, store)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Settings.EditMode == config.EditRecreate {
		gw = gateway.Basic(gw)
	}

	opts := []tasklist.Option{tasklist.WithLogger(log)}
	cleanup := func() {}
	if cfg.CacheEnabled() {
		db, err := cache.Open(ctx, cfg.CachePath(), cfg.Scope())
		if err != nil {
			log.Warn("cache unavailable", "path", cfg.CachePath(), "err", err)
		} else {
			opts = append(opts, tasklist.WithMirror(db))
			cleanup = func() {
				if err := db.Close(); err != nil {
					log.Debug("cache close", "err", err)
				}
			}
		}
	}

	return tasklist.New(gw, store, opts...), cleanup, nil
}

func newGateway(ctx context.Context, cfg *config.Config, store *session.Store) (gateway.Gateway, error) {
	switch cfg.Settings.Backend {
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		return googletasks.New(ctx, cfg.OAuthClientPath(), store, cfg.RequestTimeout())
	default:
		return rest.New(ctx, cfg.Settings.BaseURL, store, cfg.RequestTimeout())
	}
}
