package report

import (
	"github.com/spacesedan/sentimap/internal/aggregate"
	"github.com/spacesedan/sentimap/internal/models"
)

type View struct {
	Query      models.ReportQuery
	WordCloud  []aggregate.CloudWord
	TopWords   []aggregate.Bar
	Emotions   []aggregate.EmotionSlice
	Matched    int
	Rows       []Row
	Pagination Pagination
}

// Build derives everything a report renders from the loaded data.
func Build(d *Data, page int) View {
	matched := FilterPosts(d.Posts, d.Query.Word)
	p := Paginate(len(matched), page, PER_PAGE)

	return View{
		Query:      d.Query,
		WordCloud:  aggregate.WordCloud(d.Words),
		TopWords:   aggregate.BarChart(aggregate.TopWords(d.Words, aggregate.TOP_WORDS)),
		Emotions:   aggregate.EmotionSlices(d.Emotions),
		Matched:    len(matched),
		Rows:       Rows(matched, p),
		Pagination: p,
	}
}
