// Package server is the dashboard's HTTP shell: the map page, the report modal
// and a JSON view of the sentiment data.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentimap/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const SHUTDOWN_TIMEOUT = 10 * time.Second

type Server struct {
	Loader   *report.Loader
	Atlas    *Atlas
	Sessions *Sessions
	// Health, when set, reports whether the backend answered its last ping.
	Health *atomic.Bool

	engine *gin.Engine
}

func New(loader *report.Loader, atlas *Atlas) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("[Server] failed to parse templates: %w", err)
	}

	s := &Server{Loader: loader, Atlas: atlas, Sessions: NewSessions()}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", s.handleHealthz)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/ui")
	})

	ui := r.Group("/ui")
	ui.GET("", s.handleMapPage)
	ui.GET("/map.svg", s.handleMapSVG)
	ui.GET("/legend.svg", s.handleLegendSVG)
	ui.GET("/report", s.handleReport)
	ui.GET("/report/start", s.handleReportStart)
	ui.GET("/report/panel", s.handleReportPanel)

	r.GET("/api/sentiments", s.handleSentiments)

	s.engine = r
	return s, nil
}

func (s *Server) handleHealthz(c *gin.Context) {
	body := gin.H{"ok": true}
	if s.Health != nil {
		body["backend"] = s.Health.Load()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("[Server] listen failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("[Server] Shutting down...")
	s.Sessions.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("[Server] shutdown failed: %w", err)
	}
	slog.Info("[Server] Stopped")
	return nil
}
