// Package report loads and derives the per-state or per-college report shown
// when a region is selected.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentimap/internal/aggregate"
	"github.com/spacesedan/sentimap/internal/cache"
	"github.com/spacesedan/sentimap/internal/clients"
	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/posts"
	"golang.org/x/sync/errgroup"
)

// Data is everything fetched for one report.
type Data struct {
	Query    models.ReportQuery
	Words    map[string]float64
	Emotions map[string]int
	Posts    []models.RedditPost
}

type Loader struct {
	API   *clients.APIClient
	Posts posts.Source
	Cache *cache.QueryCache
}

func NewLoader(api *clients.APIClient, source posts.Source, c *cache.QueryCache) *Loader {
	if source == nil {
		source = posts.StaticSource{}
	}
	if c == nil {
		c = cache.NewQueryCache(nil, cache.DEFAULT_TTL)
	}
	return &Loader{API: api, Posts: source, Cache: c}
}

// Load fetches the word cloud and emotions concurrently and fails if either
// does. Posts are best effort: a failed search leaves the table empty.
func (l *Loader) Load(ctx context.Context, q models.ReportQuery) (*Data, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("[ReportLoader] invalid query: %w", err)
	}

	start := time.Now()
	data := &Data{Query: q}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		words, err := l.wordCloud(gctx, q)
		if err != nil {
			return fmt.Errorf("word cloud: %w", err)
		}
		data.Words = words
		return nil
	})

	g.Go(func() error {
		emotions, err := l.emotions(gctx, q)
		if err != nil {
			return fmt.Errorf("emotions: %w", err)
		}
		data.Emotions = emotions
		return nil
	})

	g.Go(func() error {
		found, err := cache.GetOrLoad(gctx, l.Cache, cache.Key(cache.ResourcePosts, q.Word, q.Place(), q.Year),
			func(ctx context.Context) ([]models.RedditPost, error) {
				return l.Posts.Posts(ctx, q)
			})
		if err != nil {
			slog.Warn("[ReportLoader] Posts unavailable",
				slog.String("place", q.Place()),
				slog.String("error", err.Error()))
			return nil
		}
		data.Posts = found
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("[ReportLoader] Failed to load report",
			slog.String("word", q.Word),
			slog.String("place", q.Place()),
			slog.Int("year", q.Year),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Info("[ReportLoader] Report loaded",
		slog.String("word", q.Word),
		slog.String("place", q.Place()),
		slog.Int("posts", len(data.Posts)),
		slog.Duration("elapsed", time.Since(start)))
	return data, nil
}

func (l *Loader) wordCloud(ctx context.Context, q models.ReportQuery) (map[string]float64, error) {
	key := cache.Key(cache.ResourceWordCloud, q.Word, q.Place(), q.Year)
	return cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (map[string]float64, error) {
		if q.IsCollege() {
			wc, err := l.API.Keywords.GetCollegeWordCloud(ctx, clients.CollegeQuery{CollegeName: q.College, Keyword: q.Word, Year: q.Year})
			if err != nil {
				return nil, err
			}
			return wc.Words, nil
		}
		wc, err := l.API.Keywords.GetStateWordCloud(ctx, clients.StateQuery{State: q.State, Keyword: q.Word, Year: q.Year})
		if err != nil {
			return nil, err
		}
		return wc.Words, nil
	})
}

func (l *Loader) emotions(ctx context.Context, q models.ReportQuery) (map[string]int, error) {
	key := cache.Key(cache.ResourceEmotions, q.Word, q.Place(), q.Year)
	return cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (map[string]int, error) {
		var counts map[string]int
		var predicted []string
		if q.IsCollege() {
			em, err := l.API.Emotions.GetCollegeEmotions(ctx, clients.CollegeQuery{CollegeName: q.College, Keyword: q.Word, Year: q.Year})
			if err != nil {
				return nil, err
			}
			counts, predicted = em.EmotionCounts, em.PredictedEmotions
		} else {
			em, err := l.API.Emotions.GetStateEmotions(ctx, clients.StateQuery{State: q.State, Keyword: q.Word, Year: q.Year})
			if err != nil {
				return nil, err
			}
			counts, predicted = em.EmotionCounts, em.PredictedEmotions
		}
		if len(counts) == 0 {
			counts = aggregate.CountEmotions(predicted)
		}
		return counts, nil
	})
}

// Sentiments loads the per-state sentiment map for the map view.
func (l *Loader) Sentiments(ctx context.Context, keyword string, year int) (models.SentimentByState, error) {
	key := cache.Key(cache.ResourceSentiments, keyword, "", year)
	return cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (models.SentimentByState, error) {
		return l.API.Sentiments.GetSentiments(ctx, clients.SentimentQuery{Keyword: keyword, Year: year})
	})
}
