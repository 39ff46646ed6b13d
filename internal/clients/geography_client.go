package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// GeographyClient downloads the us-atlas TopoJSON document. Unlike the API
// client it retries, since the map cannot render at all without it.
type GeographyClient struct {
	Client         *http.Client
	URL            string
	Path           string
	InitialBackoff time.Duration
	MaxRetries     int
}

func NewGeographyClient(url, path string, timeout time.Duration) *GeographyClient {
	return &GeographyClient{
		Client:         &http.Client{Timeout: timeout},
		URL:            url,
		Path:           path,
		InitialBackoff: INITIAL_BACKOFF,
		MaxRetries:     MAX_RETRIES,
	}
}

// FetchTopology returns the raw TopoJSON bytes, reading Path when set and
// downloading URL otherwise.
func (g *GeographyClient) FetchTopology(ctx context.Context) ([]byte, error) {
	if g.Path != "" {
		slog.Info("[GeographyClient] Reading topology from disk", slog.String("path", g.Path))
		data, err := os.ReadFile(g.Path)
		if err != nil {
			return nil, fmt.Errorf("[GeographyClient] failed to read topology: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("[GeographyClient] failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := g.DoWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("[GeographyClient] request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[GeographyClient] unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[GeographyClient] failed to read response: %w", err)
	}

	slog.Info("[GeographyClient] Topology downloaded",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)))
	return data, nil
}

func (g *GeographyClient) DoWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := g.InitialBackoff

	for attempt := 0; attempt < g.MaxRetries; attempt++ {
		resp, err = g.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[GeographyClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if attempt == g.MaxRetries-1 {
			break
		}
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	if err == nil {
		err = fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil, err
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
