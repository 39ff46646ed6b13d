package aggregate

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	TOP_WORDS = 5

	FontScale   = 400.0
	MinFontSize = 12.0
	MaxFontSize = 96.0

	// Longest bar as a percentage of the chart width.
	MaxBarWidth = 80.0
)

type WordCount struct {
	Word  string
	Count float64
}

// SortedWords returns every non-empty word ordered by count, highest first.
// Ties are broken by the word itself so the order is stable across calls.
func SortedWords(words map[string]float64) []WordCount {
	out := make([]WordCount, 0, len(words))
	for w, c := range words {
		if w == "" {
			continue
		}
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// TopWords returns at most n entries of SortedWords.
func TopWords(words map[string]float64, n int) []WordCount {
	sorted := SortedWords(words)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

var DefaultStopWords = []string{
	"the", "and", "to", "a", "of", "in", "for", "on", "with", "at", "by", "an", "this", "that", "it",
}

var nonWord = regexp.MustCompile(`\W+`)

// CountWords tallies lowercase tokens across texts, skipping stop words.
func CountWords(texts []string, stopWords []string) map[string]float64 {
	stop := make(map[string]struct{}, len(stopWords))
	for _, s := range stopWords {
		stop[strings.ToLower(s)] = struct{}{}
	}

	counts := make(map[string]float64)
	for _, text := range texts {
		for _, token := range nonWord.Split(text, -1) {
			token = strings.ToLower(token)
			if token == "" {
				continue
			}
			if _, skip := stop[token]; skip {
				continue
			}
			counts[token]++
		}
	}
	return counts
}

type Bar struct {
	Label string
	Value float64
	// Width of the bar as a percentage of the chart, relative to the largest value.
	Width float64
}

func BarChart(entries []WordCount) []Bar {
	maxValue := 0.0
	for _, e := range entries {
		maxValue = math.Max(maxValue, e.Count)
	}

	bars := make([]Bar, 0, len(entries))
	for _, e := range entries {
		width := 0.0
		if maxValue > 0 {
			width = e.Count / maxValue * MaxBarWidth
		}
		bars = append(bars, Bar{Label: e.Word, Value: e.Count, Width: width})
	}
	return bars
}

type CloudWord struct {
	Text     string
	Value    float64
	Share    float64
	FontSize float64
}

// WordCloud sizes each word by its share of the total frequency.
func WordCloud(words map[string]float64) []CloudWord {
	sorted := SortedWords(words)

	total := 0.0
	for _, w := range sorted {
		total += w.Count
	}

	cloud := make([]CloudWord, 0, len(sorted))
	for _, w := range sorted {
		share := 0.0
		if total > 0 {
			share = w.Count / total
		}
		size := math.Min(MaxFontSize, math.Max(MinFontSize, share*FontScale))
		cloud = append(cloud, CloudWord{
			Text:     w.Word,
			Value:    w.Count,
			Share:    share,
			FontSize: math.Round(size*10) / 10,
		})
	}
	return cloud
}
