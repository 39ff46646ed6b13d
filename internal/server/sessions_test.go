package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest(cookie *http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ui/report", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func TestSessions_ReusesPanelForCookie(t *testing.T) {
	s := NewSessions()

	c, w := sessionRequest(nil)
	first := s.Panel(c)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SESSION_COOKIE, cookies[0].Name)

	c, _ = sessionRequest(cookies[0])
	assert.Same(t, first, s.Panel(c))
	assert.Equal(t, 1, s.Len())
}

func TestSessions_CookielessRequestsAreCapped(t *testing.T) {
	s := NewSessions()
	s.MaxSessions = 100

	for i := 0; i < 1000; i++ {
		c, _ := sessionRequest(nil)
		s.Panel(c)
	}
	assert.Equal(t, 100, s.Len())
}

func TestSessions_EvictsLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions()
	s.MaxSessions = 2
	s.now = func() time.Time { return now }

	c, w := sessionRequest(nil)
	kept := s.Panel(c)
	keptCookie := w.Result().Cookies()[0]

	now = now.Add(time.Second)
	c, _ = sessionRequest(nil)
	s.Panel(c)

	now = now.Add(time.Second)
	c, _ = sessionRequest(keptCookie)
	s.Panel(c)

	now = now.Add(time.Second)
	c, _ = sessionRequest(nil)
	s.Panel(c)

	assert.Equal(t, 2, s.Len())
	c, _ = sessionRequest(keptCookie)
	assert.Same(t, kept, s.Panel(c), "recently used session survives eviction")
}

func TestSessions_SweepDropsIdle(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions()
	s.now = func() time.Time { return now }

	c, _ := sessionRequest(nil)
	s.Panel(c)
	c, w := sessionRequest(nil)
	s.Panel(c)
	active := w.Result().Cookies()[0]

	now = now.Add(SESSION_MAX_AGE - time.Minute)
	c, _ = sessionRequest(active)
	s.Panel(c)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Sweep())
}
