package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentimap/internal/cache"
	"github.com/spacesedan/sentimap/internal/clients"
	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/posts"
	"github.com/spacesedan/sentimap/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopology = `{
	"type": "Topology",
	"transform": {"scale": [1, 1], "translate": [-100, 30]},
	"objects": {
		"states": {
			"type": "GeometryCollection",
			"geometries": [
				{"type": "Polygon", "id": "39", "properties": {"name": "Ohio"}, "arcs": [[0, 1]]},
				{"type": "MultiPolygon", "id": "48", "properties": {"name": "Texas"}, "arcs": [[[2, -1]]]}
			]
		}
	},
	"arcs": [
		[[1, 0], [0, 1]],
		[[1, 1], [-1, 0], [0, -1], [1, 0]],
		[[1, 0], [1, 0], [0, 1], [-1, 0]]
	]
}`

type staticTopology struct {
	calls int32
	err   error
}

func (s *staticTopology) FetchTopology(ctx context.Context) ([]byte, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(testTopology), nil
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("keyword") == "invalid" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail":[{"loc":["query","keyword"],"msg":"unknown keyword","type":"value_error"}]}`))
			return
		}
		switch r.URL.Path {
		case "/api/v1/sentiments/":
			w.Write([]byte(`{"Ohio":{"positive":0.7,"neutral":0.2,"negative":0.1},"Texas":{"positive":0.1,"neutral":0.2,"negative":0.7}}`))
		case "/api/v1/keywords/state":
			w.Write([]byte(`{"state":"Ohio","keyword":"pizza","words":{"pizza":6,"cheese":3}}`))
		case "/api/v1/emotions/state":
			w.Write([]byte(`{"state":"Ohio","keyword":"pizza","predicted_emotions":[],"emotion_counts":{"joy":3,"anger":1}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, topo TopologyFetcher) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := backend(t)
	client := clients.NewAPIClient(clients.APIClientOptions{BaseURL: api.URL, HTTPClient: api.Client()})

	when := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	var items []models.RedditPost
	for i := 0; i < 12; i++ {
		items = append(items, models.RedditPost{PostTitle: "pizza night", CreatedAt: when})
	}
	items = append(items, models.RedditPost{PostTitle: "no mention", CreatedAt: when})

	loader := report.NewLoader(client, posts.StaticSource{Items: items}, cache.NewQueryCache(nil, time.Minute))
	s, err := New(loader, NewAtlas(topo))
	require.NoError(t, err)
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func getWithCookies(s *Server, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthzAndRoot(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	var healthy atomic.Bool
	healthy.Store(true)
	s.Health = &healthy
	assert.JSONEq(t, `{"ok":true,"backend":true}`, get(s, "/healthz").Body.String())

	w = get(s, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/ui", w.Header().Get("Location"))
}

func TestMapPage(t *testing.T) {
	topo := &staticTopology{}
	s := newTestServer(t, topo)

	w := get(s, "/ui?keyword=pizza&year=2020")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `data-state="Ohio"`)
	assert.Contains(t, body, `fill="#009E20"`)
	assert.Contains(t, body, `fill="red"`)
	assert.Contains(t, body, `class="legend"`)
	assert.Contains(t, body, `<option value="2020" selected>`)
	assert.NotContains(t, body, "Reset zoom")

	get(s, "/ui")
	assert.Equal(t, int32(1), atomic.LoadInt32(&topo.calls), "geography is memoised")
}

func TestMapPage_ZoomResetSelect(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	body := get(s, "/ui?keyword=pizza&year=2020&zoom=Ohio").Body.String()
	assert.Contains(t, body, `data-mode="zoomed"`)
	assert.Contains(t, body, "Reset zoom")
	assert.Contains(t, body, "select=Ohio", "clicking the zoomed state selects it")

	body = get(s, "/ui?keyword=pizza&year=2020&zoom=Ohio&reset=1").Body.String()
	assert.Contains(t, body, `data-mode="idle"`)

	body = get(s, "/ui?keyword=pizza&year=2020&select=Texas").Body.String()
	assert.Contains(t, body, `class="modal" data-state="Texas"`)
	assert.Contains(t, body, "/ui/report/start?page=1&amp;state=Texas&amp;word=pizza&amp;year=2020")
}

func TestMapPage_Errors(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/ui?year=1999")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "year must be between 2019 and 2022")

	w = get(s, "/ui?keyword=invalid")
	assert.Equal(t, http.StatusOK, w.Code, "the map still renders")
	assert.Contains(t, w.Body.String(), "query.keyword: unknown keyword")
	assert.Contains(t, w.Body.String(), `fill="#9aa2a0"`)

	broken := newTestServer(t, &staticTopology{err: errors.New("cdn down")})
	w = get(broken, "/ui")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "cdn down")
}

func TestMapSVG(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/ui/map.svg?keyword=pizza&chart=bubble&hover=Ohio&x=10&y=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `fill="#f5f5f5"`)
	assert.Contains(t, w.Body.String(), `class="tooltip" transform="translate(60,20)"`)

	assert.Equal(t, http.StatusBadRequest, get(s, "/ui/map.svg?chart=pie").Code)

	w = get(s, "/ui/legend.svg")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Very Positive")
}

func TestReport(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/ui/report?word=pizza&state=Ohio&year=2020")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `data-panel-state="ready"`)
	assert.Contains(t, body, `Posts mentioning "pizza" (12)`)
	assert.Contains(t, body, "Page 1 of 3")
	assert.Contains(t, body, `<span class="disabled">Previous</span>`)
	assert.Contains(t, body, "page=2")
	assert.Contains(t, body, "joy 75.0%")
	assert.Equal(t, 5, strings.Count(body, "<td>pizza night</td>"))
	assert.NotEmpty(t, w.Result().Cookies(), "session cookie is issued")

	body = get(s, "/ui/report?word=pizza&state=Ohio&year=2020&page=3").Body.String()
	assert.Contains(t, body, "Page 3 of 3")
	assert.Contains(t, body, `<span class="disabled">Next</span>`)
	assert.Equal(t, 2, strings.Count(body, "<td>pizza night</td>"))
}

func TestReport_Errors(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/ui/report?word=pizza")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "state or college is required")

	w = get(s, "/ui/report?word=invalid&state=Ohio&year=2020")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-panel-state="failed"`)
	assert.Contains(t, w.Body.String(), "query.keyword: unknown keyword")
}

func TestReport_StartShowsLoadingThenPanel(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	assert.Equal(t, http.StatusNotFound, get(s, "/ui/report/panel").Code, "no report started for a new session")
	assert.Equal(t, http.StatusBadRequest, get(s, "/ui/report/start?word=pizza").Code)

	w := get(s, "/ui/report/start?word=pizza&state=Ohio&year=2020")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-panel-state="loading"`)
	assert.Contains(t, w.Body.String(), "Loading report...")
	assert.Contains(t, w.Body.String(), `content="1;url=/ui/report/panel?page=1"`)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	var body string
	require.Eventually(t, func() bool {
		body = getWithCookies(s, "/ui/report/panel?page=1", cookies).Body.String()
		return !strings.Contains(body, `data-panel-state="loading"`)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, body, `data-panel-state="ready"`)
	assert.Contains(t, body, "Page 1 of 3")
	assert.Contains(t, body, "/ui/report/panel?page=2")
	assert.NotContains(t, body, "http-equiv")

	body = getWithCookies(s, "/ui/report/panel?page=3", cookies).Body.String()
	assert.Contains(t, body, "Page 3 of 3")
	assert.Equal(t, 2, strings.Count(body, "<td>pizza night</td>"))

	getWithCookies(s, "/ui/report/start?word=invalid&state=Ohio&year=2020", cookies)
	require.Eventually(t, func() bool {
		body = getWithCookies(s, "/ui/report/panel", cookies).Body.String()
		return strings.Contains(body, `data-panel-state="failed"`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, body, "query.keyword: unknown keyword")
}

func TestSentimentsAPI(t *testing.T) {
	s := newTestServer(t, &staticTopology{})

	w := get(s, "/api/sentiments?keyword=pizza&year=2021")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Keyword string `json:"keyword"`
		Year    int    `json:"year"`
		States  map[string]struct {
			Positive float64 `json:"positive"`
			Color    string  `json:"color"`
		} `json:"states"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2021, got.Year)
	assert.Equal(t, 70.0, got.States["Ohio"].Positive)
	assert.Equal(t, "#009E20", got.States["Ohio"].Color)

	assert.Equal(t, http.StatusBadRequest, get(s, "/api/sentiments").Code)

	w = get(s, "/api/sentiments?keyword=invalid")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unknown keyword")
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, &staticTopology{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
