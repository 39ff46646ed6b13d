package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	ResourceWordCloud  = "wordcloud"
	ResourceEmotions   = "emotions"
	ResourceSentiments = "sentiments"
	ResourcePosts      = "posts"

	DEFAULT_TTL  = 10 * time.Minute
	LOAD_TIMEOUT = 30 * time.Second
)

type QueryCache struct {
	Store Store
	TTL   time.Duration
	// LoadTimeout bounds a shared load, which outlives the caller that started it.
	LoadTimeout time.Duration

	group singleflight.Group
}

// NewQueryCache defaults to an in-process store. A non-positive ttl uses
// DEFAULT_TTL.
func NewQueryCache(store Store, ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &QueryCache{Store: store, TTL: ttl, LoadTimeout: LOAD_TIMEOUT}
}

// Key identifies a backend response. Place is a state or college name and is
// empty for per-keyword resources.
func Key(resource, word, place string, year int) string {
	return strings.Join([]string{resource, strings.ToLower(word), place, strconv.Itoa(year)}, "|")
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers asking for the same key. Failed loads are not stored.
func GetOrLoad[T any](ctx context.Context, c *QueryCache, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok, err := c.Store.Get(ctx, key); err != nil {
		slog.Warn("[QueryCache] Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			slog.Debug("[QueryCache] Hit", slog.String("key", key))
			return v, nil
		}
		slog.Warn("[QueryCache] Dropping undecodable entry", slog.String("key", key))
	}

	// The load is shared, so it runs detached from any one caller's
	// cancellation. Each caller still stops waiting when its own ctx ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		timeout := c.LoadTimeout
		if timeout <= 0 {
			timeout = LOAD_TIMEOUT
		}
		lctx, cancel := context.WithTimeout(loadCtx, timeout)
		defer cancel()

		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("[QueryCache] failed to encode %s: %w", key, err)
		}
		if err := c.Store.Set(lctx, key, data, c.TTL); err != nil {
			slog.Warn("[QueryCache] Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			slog.Debug("[QueryCache] Shared in-flight load", slog.String("key", key))
		}
		return res.Val.(T), nil
	}
}
