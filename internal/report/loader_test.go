package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/sentimap/internal/cache"
	"github.com/spacesedan/sentimap/internal/clients"
	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	calls      int32
	failRoute  string
	emotionsIn string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.calls, 1)
	if r.URL.Path == f.failRoute {
		http.Error(w, "down", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v1/keywords/state":
		w.Write([]byte(`{"state":"Ohio","keyword":"pizza","words":{"pizza":6,"cheese":3,"crust":1}}`))
	case "/api/v1/keywords/college":
		w.Write([]byte(`{"college_name":"Ohio State","keyword":"pizza","words":{"dorm":2}}`))
	case "/api/v1/emotions/state":
		body := f.emotionsIn
		if body == "" {
			body = `{"state":"Ohio","keyword":"pizza","predicted_emotions":[],"emotion_counts":{"joy":3,"Joy":1}}`
		}
		w.Write([]byte(body))
	case "/api/v1/emotions/college":
		w.Write([]byte(`{"college_name":"Ohio State","keyword":"pizza","predicted_emotions":["fear","fear","joy"]}`))
	case "/api/v1/sentiments/":
		w.Write([]byte(`{"Ohio":{"positive":0.7,"neutral":0.2,"negative":0.1}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestLoader(t *testing.T, backend *fakeBackend, source posts.Source) *Loader {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	api := clients.NewAPIClient(clients.APIClientOptions{BaseURL: srv.URL, HTTPClient: srv.Client()})
	return NewLoader(api, source, cache.NewQueryCache(nil, time.Minute))
}

func pizzaPosts() []models.RedditPost {
	when := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	return []models.RedditPost{
		{PostTitle: "I love pizza", CreatedAt: when},
		{PostTitle: "no mention", CreatedAt: when},
		{PostTitle: "Pizza party", CreatedAt: when},
	}
}

func TestLoader_State(t *testing.T) {
	backend := &fakeBackend{}
	l := newTestLoader(t, backend, posts.StaticSource{Items: pizzaPosts()})
	q := models.ReportQuery{Word: "pizza", State: "Ohio", Year: 2020}

	data, err := l.Load(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 6.0, data.Words["pizza"])
	assert.Equal(t, 1, data.Emotions["Joy"])
	assert.Len(t, data.Posts, 3)

	v := Build(data, 1)
	assert.Equal(t, 2, v.Matched)
	require.Len(t, v.TopWords, 3)
	assert.Equal(t, "pizza", v.TopWords[0].Label)
	assert.Equal(t, 80.0, v.TopWords[0].Width)
	require.Len(t, v.Emotions, 1, "labels are grouped case-insensitively")
	assert.Equal(t, 4, v.Emotions[0].Count)
	assert.Len(t, v.Rows, 2)
	assert.False(t, v.Pagination.HasNext)

	// Second load is served from the cache.
	calls := atomic.LoadInt32(&backend.calls)
	_, err = l.Load(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, calls, atomic.LoadInt32(&backend.calls))
}

func TestLoader_CollegeCountsPredictions(t *testing.T) {
	l := newTestLoader(t, &fakeBackend{}, nil)

	data, err := l.Load(context.Background(), models.ReportQuery{Word: "pizza", College: "Ohio State", Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, 2.0, data.Words["dorm"])
	assert.Equal(t, map[string]int{"fear": 2, "joy": 1}, data.Emotions)
	assert.Empty(t, data.Posts)
}

func TestLoader_FailsWhenEitherFetchFails(t *testing.T) {
	for _, route := range []string{"/api/v1/keywords/state", "/api/v1/emotions/state"} {
		t.Run(route, func(t *testing.T) {
			l := newTestLoader(t, &fakeBackend{failRoute: route}, nil)

			_, err := l.Load(context.Background(), models.ReportQuery{Word: "pizza", State: "Ohio", Year: 2020})
			require.Error(t, err)

			var apiErr *clients.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		})
	}
}

type failingSource struct{}

func (failingSource) Posts(ctx context.Context, q models.ReportQuery) ([]models.RedditPost, error) {
	return nil, errors.New("reddit down")
}

func TestLoader_PostsAreBestEffort(t *testing.T) {
	l := newTestLoader(t, &fakeBackend{}, failingSource{})

	data, err := l.Load(context.Background(), models.ReportQuery{Word: "pizza", State: "Ohio", Year: 2020})
	require.NoError(t, err)
	assert.Empty(t, data.Posts)
}

func TestLoader_InvalidQuery(t *testing.T) {
	backend := &fakeBackend{}
	l := newTestLoader(t, backend, nil)

	_, err := l.Load(context.Background(), models.ReportQuery{Word: "pizza"})
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&backend.calls))
}

func TestLoader_Sentiments(t *testing.T) {
	l := newTestLoader(t, &fakeBackend{}, nil)

	got, err := l.Sentiments(context.Background(), "pizza", 2020)
	require.NoError(t, err)
	assert.Equal(t, 0.7, got["Ohio"].Positive)
}
