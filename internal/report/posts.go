package report

import (
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/sentiment"
)

const MAX_CONTENT_LENGTH = 200

// FilterPosts keeps non-empty posts whose text contains word, ignoring case.
func FilterPosts(posts []models.RedditPost, word string) []models.RedditPost {
	needle := strings.ToLower(word)
	kept := make([]models.RedditPost, 0, len(posts))
	for _, p := range posts {
		text := p.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(text), needle) {
			kept = append(kept, p)
		}
	}
	return kept
}

type Row struct {
	Number    int
	Content   string
	WordCount int
	Tone      string
	Score     float64
	Author    string
	Subreddit string
	Upvotes   int
}

// Rows renders one page of posts. Numbers continue from the page offset.
func Rows(posts []models.RedditPost, p Pagination) []Row {
	page := posts[p.Start:p.End]
	rows := make([]Row, 0, len(page))
	for i, post := range page {
		text := post.Text()
		score, tone := sentiment.Analyze(text)
		rows = append(rows, Row{
			Number:    p.Start + i + 1,
			Content:   Truncate(text, MAX_CONTENT_LENGTH),
			WordCount: len(strings.Fields(text)),
			Tone:      tone,
			Score:     score,
			Author:    post.Author,
			Subreddit: post.Subreddit,
			Upvotes:   post.Upvotes,
		})
	}
	return rows
}

// Truncate cuts s to n runes and appends "..." when anything was dropped.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
