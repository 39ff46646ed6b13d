package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spacesedan/sentimap/internal/report"
)

const (
	SESSION_COOKIE  = "sentimap_session"
	SESSION_MAX_AGE = 24 * time.Hour
	// MAX_SESSIONS caps the panel map; cookieless clients get a new session
	// on every request.
	MAX_SESSIONS = 10000
)

type session struct {
	panel    *report.Panel
	lastUsed time.Time
}

// Sessions keeps one report panel per browser so a newer report request can
// supersede an older one still in flight. Panels idle past IdleTimeout are
// dropped by Sweep, and the least recently used one is dropped once the map
// holds MaxSessions.
type Sessions struct {
	IdleTimeout time.Duration
	MaxSessions int

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		IdleTimeout: SESSION_MAX_AGE,
		MaxSessions: MAX_SESSIONS,
		sessions:    make(map[string]*session),
		now:         time.Now,
	}
}

func (s *Sessions) Panel(c *gin.Context) *report.Panel {
	id, err := c.Cookie(SESSION_COOKIE)
	if err == nil {
		_, err = uuid.Parse(id)
	}
	if err != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SESSION_COOKIE, id, int(SESSION_MAX_AGE/time.Second), "/", "", false, true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		if s.MaxSessions > 0 && len(s.sessions) >= s.MaxSessions {
			s.evictOldestLocked()
		}
		sess = &session{panel: report.NewPanel()}
		s.sessions[id] = sess
	}
	sess.lastUsed = now
	return sess.panel
}

func (s *Sessions) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastUsed.Before(oldest) {
			oldestID, oldest = id, sess.lastUsed
		}
	}
	if oldestID != "" {
		s.sessions[oldestID].panel.Close()
		delete(s.sessions, oldestID)
	}
}

// Sweep drops sessions idle longer than IdleTimeout and returns how many were
// dropped.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.IdleTimeout)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			sess.panel.Close()
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.panel.Close()
	}
}
