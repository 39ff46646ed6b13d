package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/sentimap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	subreddit, query string
	posts            []models.RedditPost
	err              error
}

func (f *fakeSearcher) SearchPosts(ctx context.Context, subreddit, query string) ([]models.RedditPost, error) {
	f.subreddit, f.query = subreddit, query
	return f.posts, f.err
}

func postIn(year int, title string) models.RedditPost {
	return models.RedditPost{PostTitle: title, CreatedAt: time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func TestRedditSource_State(t *testing.T) {
	f := &fakeSearcher{posts: []models.RedditPost{postIn(2020, "a"), postIn(2021, "b"), postIn(2020, "c")}}

	got, err := NewRedditSource(f).Posts(context.Background(), models.ReportQuery{Word: "stress", State: "Ohio", Year: 2020})
	require.NoError(t, err)

	assert.Equal(t, "Ohio+Columbus+Cleveland", f.subreddit)
	assert.Equal(t, "stress", f.query)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].PostTitle)
	assert.Equal(t, "c", got[1].PostTitle)
}

func TestRedditSource_College(t *testing.T) {
	f := &fakeSearcher{}

	_, err := NewRedditSource(f).Posts(context.Background(), models.ReportQuery{Word: "exam", College: "Georgia Tech", Year: 2021})
	require.NoError(t, err)

	assert.Equal(t, COLLEGE_SUBREDDIT, f.subreddit)
	assert.Equal(t, "Georgia Tech exam", f.query)
}

func TestRedditSource_UnknownState(t *testing.T) {
	f := &fakeSearcher{}

	got, err := NewRedditSource(f).Posts(context.Background(), models.ReportQuery{Word: "x", State: "Atlantis"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, f.subreddit, "no search issued")
}

func TestRedditSource_Error(t *testing.T) {
	f := &fakeSearcher{err: errors.New("boom")}

	_, err := NewRedditSource(f).Posts(context.Background(), models.ReportQuery{Word: "x", State: "Texas"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r/texas+Austin+houston+Dallas")
}

func TestStaticSource(t *testing.T) {
	s := StaticSource{Items: []models.RedditPost{postIn(2019, "a"), postIn(2022, "b")}}

	got, _ := s.Posts(context.Background(), models.ReportQuery{Year: 2022})
	require.Len(t, got, 1)

	got, _ = s.Posts(context.Background(), models.ReportQuery{})
	assert.Len(t, got, 2)
}

func TestSubredditFor_CoversEveryState(t *testing.T) {
	assert.Len(t, StateToSubreddits, 51)
	for state := range StateToSubreddits {
		s, ok := SubredditFor(state)
		assert.True(t, ok, state)
		assert.NotEmpty(t, s, state)
	}
}
