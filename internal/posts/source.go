// Package posts supplies the Reddit posts listed in a report's table.
package posts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentimap/internal/models"
)

type Source interface {
	Posts(ctx context.Context, q models.ReportQuery) ([]models.RedditPost, error)
}

type Searcher interface {
	SearchPosts(ctx context.Context, subreddit, query string) ([]models.RedditPost, error)
}

// RedditSource searches the state's subreddits, or r/college for colleges, and
// keeps the posts created in the requested year.
type RedditSource struct {
	Searcher Searcher
}

func NewRedditSource(s Searcher) *RedditSource {
	return &RedditSource{Searcher: s}
}

func (rs *RedditSource) Posts(ctx context.Context, q models.ReportQuery) ([]models.RedditPost, error) {
	subreddit := COLLEGE_SUBREDDIT
	search := q.Word
	if q.IsCollege() {
		search = fmt.Sprintf("%s %s", q.College, q.Word)
	} else {
		var ok bool
		subreddit, ok = SubredditFor(q.State)
		if !ok {
			slog.Warn("[RedditSource] No subreddits for state", slog.String("state", q.State))
			return nil, nil
		}
	}

	start := time.Now()
	found, err := rs.Searcher.SearchPosts(ctx, subreddit, search)
	if err != nil {
		return nil, fmt.Errorf("[RedditSource] search r/%s failed: %w", subreddit, err)
	}

	posts := ByYear(found, q.Year)
	slog.Info("[RedditSource] Posts fetched",
		slog.String("subreddit", subreddit),
		slog.String("query", search),
		slog.Int("found", len(found)),
		slog.Int("kept", len(posts)),
		slog.Duration("elapsed", time.Since(start)))
	return posts, nil
}

// ByYear keeps posts created in year. A zero year keeps everything.
func ByYear(posts []models.RedditPost, year int) []models.RedditPost {
	if year == 0 {
		return posts
	}
	kept := make([]models.RedditPost, 0, len(posts))
	for _, p := range posts {
		if p.CreatedAt.Year() == year {
			kept = append(kept, p)
		}
	}
	return kept
}

// StaticSource serves a fixed post list. With no Reddit credentials the
// server uses an empty one.
type StaticSource struct {
	Items []models.RedditPost
}

func (s StaticSource) Posts(ctx context.Context, q models.ReportQuery) ([]models.RedditPost, error) {
	return ByYear(s.Items, q.Year), nil
}
