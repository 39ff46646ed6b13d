package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentimap/internal/aggregate"
	"github.com/spacesedan/sentimap/internal/clients"
	"github.com/spacesedan/sentimap/internal/mapview"
	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/report"
)

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
}

type builtMap struct {
	View *mapview.View
	// SentimentErr is set when the map rendered without sentiment data.
	SentimentErr error
}

// buildMap applies the query string to a fresh view. A sentiment failure still
// yields a map, with every state unknown.
func (s *Server) buildMap(ctx context.Context, p mapParams) (builtMap, error) {
	shapes, err := s.Atlas.Shapes(ctx)
	if err != nil {
		return builtMap{}, err
	}

	v := mapview.NewView(shapes)
	v.SetChartType(p.Chart)

	var sentimentErr error
	if p.Keyword != "" {
		sentiments, err := s.Loader.Sentiments(ctx, p.Keyword, p.Year)
		if err != nil {
			sentimentErr = err
		} else {
			v.SetSentiments(sentiments)
		}
	}

	if p.Zoom != "" {
		v.Click(p.Zoom)
	}
	if p.Reset {
		v.ContextMenu()
	}
	if p.Select != "" {
		v.MiddleClick(p.Select)
	}
	if p.Hover != "" {
		v.Hover(p.Hover, p.X, p.Y)
	}
	return builtMap{View: v, SentimentErr: sentimentErr}, nil
}

type mapPage struct {
	Params     mapParams
	Years      []int
	ChartTypes []string
	Map        template.HTML
	Legend     template.HTML
	Error      *errorView
	Zoomed     bool
	ZoomedOn   string
	ResetURL   string
	Selected   string
	ReportURL  string
}

func (s *Server) handleMapPage(c *gin.Context) {
	p, err := parseMapParams(c)
	if err != nil {
		c.Error(err)
		c.HTML(http.StatusBadRequest, "ui.tmpl", mapPage{Params: p, Years: Years, ChartTypes: ChartTypes, Error: newErrorView(err)})
		return
	}

	built, err := s.buildMap(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		c.HTML(http.StatusBadGateway, "ui.tmpl", mapPage{Params: p, Years: Years, ChartTypes: ChartTypes, Error: newErrorView(err)})
		return
	}
	v, sentimentErr := built.View, built.SentimentErr
	if sentimentErr != nil {
		c.Error(sentimentErr)
	}
	if v.Mode() == mapview.Idle {
		p.Zoom = ""
	}

	var mapBuf, legendBuf bytes.Buffer
	if err := v.Render(&mapBuf, mapview.RenderOptions{RegionHref: p.RegionHref}); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if err := mapview.RenderLegend(&legendBuf); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	page := mapPage{
		Params:     p,
		Years:      Years,
		ChartTypes: ChartTypes,
		Map:        template.HTML(mapBuf.String()),
		Legend:     template.HTML(legendBuf.String()),
		Error:      newErrorView(sentimentErr),
		Zoomed:     v.Mode() == mapview.Zoomed,
		ZoomedOn:   v.ZoomedOn(),
		ResetURL:   p.ResetURL(),
		Selected:   v.Selected(),
	}
	if page.Selected != "" && p.Keyword != "" {
		page.ReportURL = p.ReportURL(page.Selected)
	}
	c.HTML(http.StatusOK, "ui.tmpl", page)
}

func (s *Server) handleMapSVG(c *gin.Context) {
	p, err := parseMapParams(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	built, err := s.buildMap(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		c.String(http.StatusBadGateway, err.Error())
		return
	}
	if built.SentimentErr != nil {
		c.Error(built.SentimentErr)
	}

	var buf bytes.Buffer
	if err := built.View.Render(&buf, mapview.RenderOptions{RegionHref: p.RegionHref}); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) handleLegendSVG(c *gin.Context) {
	var buf bytes.Buffer
	if err := mapview.RenderLegend(&buf); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

type reportPage struct {
	Query      models.ReportQuery
	State      string
	View       *report.View
	Pie        []pieSlice
	Error      *errorView
	RefreshURL string
	PrevURL    string
	NextURL    string
	PieCenter  float64
	PieRadius  float64
	BarMaxSize float64
}

func (s *Server) handleReport(c *gin.Context) {
	q, page, err := parseReportParams(c)
	if err != nil {
		c.Error(err)
		c.HTML(http.StatusBadRequest, "report.tmpl", reportPage{Query: q, State: report.Failed.String(), Error: newErrorView(err)})
		return
	}

	panel := s.Sessions.Panel(c)
	data, err := panel.Load(c.Request.Context(), s.Loader, q)
	if errors.Is(err, report.ErrSuperseded) {
		slog.Debug("[Server] Report superseded", slog.String("place", q.Place()))
		c.String(http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		// The failure belongs to the report panel; the page itself is fine.
		c.Error(err)
		c.HTML(http.StatusOK, "report.tmpl", reportPage{Query: q, State: report.Failed.String(), Error: newErrorView(err)})
		return
	}

	c.HTML(http.StatusOK, "report.tmpl", readyPage(q, data, page, func(n int) string { return reportURL(q, n) }))
}

func readyPage(q models.ReportQuery, data *report.Data, page int, pageURL func(int) string) reportPage {
	v := report.Build(data, page)
	rp := reportPage{
		Query:      q,
		State:      report.Ready.String(),
		View:       &v,
		Pie:        pieSlices(v.Emotions),
		PieCenter:  PIE_CENTER,
		PieRadius:  PIE_RADIUS,
		BarMaxSize: aggregate.MaxBarWidth,
	}
	if v.Pagination.HasPrevious {
		rp.PrevURL = pageURL(v.Pagination.Page - 1)
	}
	if v.Pagination.HasNext {
		rp.NextURL = pageURL(v.Pagination.Page + 1)
	}
	return rp
}

// handleReportStart kicks off the session's report and answers at once with
// the loading page, which polls handleReportPanel.
func (s *Server) handleReportStart(c *gin.Context) {
	q, _, err := parseReportParams(c)
	if err != nil {
		c.Error(err)
		c.HTML(http.StatusBadRequest, "report.tmpl", reportPage{Query: q, State: report.Failed.String(), Error: newErrorView(err)})
		return
	}

	s.Sessions.Panel(c).Start(c.Request.Context(), s.Loader, q)
	c.HTML(http.StatusOK, "report.tmpl", reportPage{Query: q, State: report.Loading.String(), RefreshURL: reportPanelURL(1)})
}

func (s *Server) handleReportPanel(c *gin.Context) {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	panel := s.Sessions.Panel(c)
	if !panel.Started() {
		c.String(http.StatusNotFound, "no report has been started")
		return
	}

	snap := panel.Snapshot()
	switch snap.State {
	case report.Loading:
		c.HTML(http.StatusOK, "report.tmpl", reportPage{Query: snap.Query, State: snap.State.String(), RefreshURL: reportPanelURL(page)})
	case report.Failed:
		c.HTML(http.StatusOK, "report.tmpl", reportPage{Query: snap.Query, State: snap.State.String(), Error: newErrorView(snap.Err)})
	default:
		c.HTML(http.StatusOK, "report.tmpl", readyPage(snap.Query, snap.Data, page, reportPanelURL))
	}
}

type stateSentiment struct {
	models.Sentiment
	Color string `json:"color"`
}

func (s *Server) handleSentiments(c *gin.Context) {
	keyword := c.Query("keyword")
	year, err := parseYear(c.Query("year"))
	if err != nil || keyword == "" {
		if err == nil {
			err = errors.New("keyword is required")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sentiments, err := s.Loader.Sentiments(c.Request.Context(), keyword, year)
	if err != nil {
		c.Error(err)
		status := http.StatusBadGateway
		body := gin.H{"error": err.Error()}
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) && apiErr.Validation != nil {
			status = http.StatusUnprocessableEntity
			body["detail"] = apiErr.Validation.Detail
		}
		c.JSON(status, body)
		return
	}

	states := make(map[string]stateSentiment, len(sentiments))
	for name, sentiment := range sentiments {
		p := sentiment.Percentages()
		states[name] = stateSentiment{Sentiment: p, Color: aggregate.SentimentToColor(&p)}
	}
	c.JSON(http.StatusOK, gin.H{"keyword": keyword, "year": year, "states": states})
}
