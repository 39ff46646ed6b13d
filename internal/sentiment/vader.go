// Package sentiment scores the tone of individual Reddit posts shown in a
// report. Aggregate sentiment comes from the backend; this only labels rows.
package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	TonePositive = "positive"
	ToneNeutral  = "neutral"
	ToneNegative = "negative"

	TONE_THRESHOLD = 0.20
)

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText renders markdown post bodies to flat text with collapsed
// whitespace.
func PlainText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := tagPattern.ReplaceAllString(string(output), " ")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// Score returns the VADER compound score of the markdown-stripped text.
func Score(text string) float64 {
	plain := PlainText(text)
	if plain == "" {
		return 0
	}
	return analyzer.PolarityScores(plain).Compound
}

// Tone buckets a compound score into positive, neutral or negative.
func Tone(score float64) string {
	if score >= TONE_THRESHOLD {
		return TonePositive
	} else if score <= -TONE_THRESHOLD {
		return ToneNegative
	}
	return ToneNeutral
}

func Analyze(text string) (float64, string) {
	score := Score(text)
	return score, Tone(score)
}
