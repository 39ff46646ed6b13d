package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/sentimap/internal/geo"
)

type TopologyFetcher interface {
	FetchTopology(ctx context.Context) ([]byte, error)
}

// Atlas projects the state geography once per process. A failed load is not
// remembered, so the next request tries again.
type Atlas struct {
	Fetcher    TopologyFetcher
	Projection *geo.AlbersUSA

	mu     sync.Mutex
	shapes []geo.ProjectedShape
}

func NewAtlas(f TopologyFetcher) *Atlas {
	return &Atlas{Fetcher: f, Projection: geo.DefaultProjection()}
}

func (a *Atlas) Shapes(ctx context.Context) ([]geo.ProjectedShape, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shapes != nil {
		return a.shapes, nil
	}

	start := time.Now()
	data, err := a.Fetcher.FetchTopology(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Atlas] failed to fetch topology: %w", err)
	}
	shapes, err := geo.ProjectStates(data, a.Projection)
	if err != nil {
		return nil, fmt.Errorf("[Atlas] failed to project topology: %w", err)
	}

	slog.Info("[Atlas] Geography ready",
		slog.Int("states", len(shapes)),
		slog.Duration("elapsed", time.Since(start)))
	a.shapes = shapes
	return shapes, nil
}
