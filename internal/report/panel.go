package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/sentimap/internal/models"
)

// ErrSuperseded is returned for a load whose result was discarded because a
// newer request started on the same panel.
var ErrSuperseded = errors.New("report request superseded by a newer one")

// START_TIMEOUT bounds a background load, which no request waits on.
const START_TIMEOUT = time.Minute

type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type Snapshot struct {
	State State
	Query models.ReportQuery
	Data  *Data
	Err   error
}

// Panel owns one report's state. Only the latest request may commit.
type Panel struct {
	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc

	state State
	query models.ReportQuery
	data  *Data
	err   error
}

func NewPanel() *Panel {
	return &Panel{}
}

// Begin starts a request, cancelling the one in flight, and returns the
// context and token the caller must commit with.
func (p *Panel) Begin(ctx context.Context, q models.ReportQuery) (context.Context, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.token++
	p.state = Loading
	p.query = q
	p.data = nil
	p.err = nil
	return ctx, p.token
}

// Commit stores a result if token is still the latest.
func (p *Panel) Commit(token uint64, data *Data, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		return ErrSuperseded
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if err != nil {
		p.state = Failed
		p.err = err
		return err
	}
	p.state = Ready
	p.data = data
	return nil
}

// Load runs one guarded request through l.
func (p *Panel) Load(ctx context.Context, l *Loader, q models.ReportQuery) (*Data, error) {
	ctx, token := p.Begin(ctx, q)
	data, err := l.Load(ctx, q)
	if err := p.Commit(token, data, err); err != nil {
		return nil, err
	}
	return data, nil
}

// Start begins a request and loads it in the background, leaving the panel in
// Loading until the result commits. The load outlives ctx's cancellation but
// not a newer request on the same panel.
func (p *Panel) Start(ctx context.Context, l *Loader, q models.ReportQuery) {
	ctx, token := p.Begin(context.WithoutCancel(ctx), q)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, START_TIMEOUT)
		defer cancel()

		data, err := l.Load(ctx, q)
		if err := p.Commit(token, data, err); errors.Is(err, ErrSuperseded) {
			slog.Debug("[ReportPanel] Background load superseded", slog.String("place", q.Place()))
		}
	}()
}

// Started reports whether any request has begun on the panel.
func (p *Panel) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token > 0
}

func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{State: p.state, Query: p.query, Data: p.data, Err: p.err}
}

// Close cancels the request in flight, if any.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
