package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentimap/internal/mapview"
	"github.com/spacesedan/sentimap/internal/models"
)

const (
	DEFAULT_YEAR = 2019
	MIN_YEAR     = 2019
	MAX_YEAR     = 2022
)

var (
	Years      = []int{2019, 2020, 2021, 2022}
	ChartTypes = []string{mapview.ChartFilled, "bar", "bubble"}
)

// mapParams is the map page state carried in the query string.
type mapParams struct {
	Keyword string
	Year    int
	Chart   string
	Zoom    string
	Reset   bool
	Select  string

	Hover string
	X, Y  float64
}

func parseMapParams(c *gin.Context) (mapParams, error) {
	p := mapParams{
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Chart:   c.DefaultQuery("chart", mapview.ChartFilled),
		Zoom:    c.Query("zoom"),
		Reset:   c.Query("reset") != "",
		Select:  c.Query("select"),
		Hover:   c.Query("hover"),
	}

	year, err := parseYear(c.Query("year"))
	if err != nil {
		return p, err
	}
	p.Year = year

	if !validChart(p.Chart) {
		return p, fmt.Errorf("unknown chart type %q", p.Chart)
	}
	if p.Hover != "" {
		p.X, _ = strconv.ParseFloat(c.Query("x"), 64)
		p.Y, _ = strconv.ParseFloat(c.Query("y"), 64)
	}
	return p, nil
}

func parseYear(raw string) (int, error) {
	if raw == "" {
		return DEFAULT_YEAR, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	if year < MIN_YEAR || year > MAX_YEAR {
		return 0, fmt.Errorf("year must be between %d and %d", MIN_YEAR, MAX_YEAR)
	}
	return year, nil
}

func validChart(chart string) bool {
	for _, c := range ChartTypes {
		if c == chart {
			return true
		}
	}
	return false
}

func (p mapParams) values() url.Values {
	v := url.Values{}
	if p.Keyword != "" {
		v.Set("keyword", p.Keyword)
	}
	v.Set("year", strconv.Itoa(p.Year))
	if p.Chart != mapview.ChartFilled {
		v.Set("chart", p.Chart)
	}
	if p.Zoom != "" {
		v.Set("zoom", p.Zoom)
	}
	return v
}

func (p mapParams) URL(path string, extra ...string) string {
	v := p.values()
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return path + "?" + v.Encode()
}

// RegionHref zooms onto a region, or selects it when it is already zoomed.
func (p mapParams) RegionHref(region string) string {
	if p.Zoom == region {
		return p.URL("/ui", "select", region)
	}
	return p.URL("/ui", "zoom", region)
}

func (p mapParams) ResetURL() string {
	return p.URL("/ui", "reset", "1")
}

// ReportURL starts the report in the background so the modal can show it
// loading.
func (p mapParams) ReportURL(state string) string {
	return reportStartURL(models.ReportQuery{Word: p.Keyword, State: state, Year: p.Year})
}

func reportURL(q models.ReportQuery, page int) string {
	return "/ui/report?" + reportValues(q, page).Encode()
}

func reportStartURL(q models.ReportQuery) string {
	return "/ui/report/start?" + reportValues(q, 1).Encode()
}

// reportPanelURL renders the session's latest report, so it carries only the
// page.
func reportPanelURL(page int) string {
	return "/ui/report/panel?page=" + strconv.Itoa(page)
}

func reportValues(q models.ReportQuery, page int) url.Values {
	v := url.Values{}
	v.Set("word", q.Word)
	if q.IsCollege() {
		v.Set("college", q.College)
	} else {
		v.Set("state", q.State)
	}
	v.Set("year", strconv.Itoa(q.Year))
	v.Set("page", strconv.Itoa(page))
	return v
}

func parseReportParams(c *gin.Context) (models.ReportQuery, int, error) {
	q := models.ReportQuery{
		Word:    strings.TrimSpace(c.Query("word")),
		State:   c.Query("state"),
		College: c.Query("college"),
	}
	year, err := parseYear(c.Query("year"))
	if err != nil {
		return q, 0, err
	}
	q.Year = year

	page, err := parsePage(c.Query("page"))
	if err != nil {
		return q, 0, err
	}
	if err := q.Validate(); err != nil {
		return q, 0, err
	}
	return q, page, nil
}

func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}
