package main

import (
	"context"
	"log/slog"

	"github.com/spacesedan/sentimap/config"
	"github.com/spacesedan/sentimap/internal/cache"
	"github.com/spacesedan/sentimap/internal/clients"
	"github.com/spacesedan/sentimap/internal/posts"
	"github.com/spacesedan/sentimap/internal/report"
	"github.com/spacesedan/sentimap/internal/server"
)

type deps struct {
	Loader *report.Loader
	Atlas  *server.Atlas

	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg config.Config) *deps {
	d := &deps{}

	api := clients.NewAPIClient(clients.APIClientOptions{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.HTTPTimeout,
		ClientID:     cfg.APIClientID,
		ClientSecret: cfg.APIClientSecret,
		TokenURL:     cfg.APITokenURL,
	})

	var store cache.Store = cache.NewMemoryStore()
	if cfg.ValkeyEnabled() {
		vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
		})
		if err != nil {
			slog.Warn("[Main] Valkey unavailable, using in-process cache", slog.String("error", err.Error()))
		} else {
			store = cache.NewValkeyStore(vc)
			d.closers = append(d.closers, vc.Close)
		}
	}

	var source posts.Source = posts.StaticSource{}
	if cfg.RedditEnabled() {
		source = posts.NewRedditSource(clients.NewRedditClient(cfg.RedditClientID, cfg.RedditClientSecret))
	} else {
		slog.Info("[Main] Reddit credentials not set, reports will list no posts")
	}

	d.Loader = report.NewLoader(api, source, cache.NewQueryCache(store, cfg.CacheTTL))
	d.Atlas = server.NewAtlas(clients.NewGeographyClient(cfg.TopoJSONURL, cfg.TopoJSONPath, cfg.HTTPTimeout))
	return d
}
