package report

import (
	"strings"
	"testing"

	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titled(titles ...string) []models.RedditPost {
	out := make([]models.RedditPost, len(titles))
	for i, title := range titles {
		out[i] = models.RedditPost{PostTitle: title}
	}
	return out
}

func TestFilterPosts(t *testing.T) {
	got := FilterPosts(titled("I love pizza", "no mention", "Pizza party"), "pizza")
	require.Len(t, got, 2)
	assert.Equal(t, "I love pizza", got[0].PostTitle)
	assert.Equal(t, "Pizza party", got[1].PostTitle)

	assert.Empty(t, FilterPosts(titled("", "   "), ""), "blank posts are dropped even for an empty word")
}

func TestFilterPosts_MatchesBody(t *testing.T) {
	posts := []models.RedditPost{{PostTitle: "Weekend", PostContent: "ordered PIZZA again"}}
	assert.Len(t, FilterPosts(posts, "pizza"), 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 200))

	long := strings.Repeat("é", 201)
	got := Truncate(long, 200)
	assert.Equal(t, strings.Repeat("é", 200)+"...", got)
}

func TestRows(t *testing.T) {
	posts := titled("one two", "three", "four five six", "seven", "eight", "nine ten")
	p := Paginate(len(posts), 2, PER_PAGE)

	rows := Rows(posts, p)
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Number)
	assert.Equal(t, "nine ten", rows[0].Content)
	assert.Equal(t, 2, rows[0].WordCount)
	assert.Equal(t, sentiment.ToneNeutral, rows[0].Tone)
}
