package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/sentimap/internal/models"
	"golang.org/x/oauth2/clientcredentials"
)

// APIClient talks to the sentiment backend. It mirrors the generated REST
// client: one service per resource group, one GET per call, no retries.
type APIClient struct {
	BaseURL string
	Client  *http.Client

	Keywords   KeywordsService
	Emotions   EmotionsService
	Sentiments SentimentsService
}

type APIClientOptions struct {
	BaseURL string
	Timeout time.Duration

	// Client credentials for backends that sit behind an OAuth2 gateway.
	// Leave empty to send unauthenticated requests.
	ClientID     string
	ClientSecret string
	TokenURL     string

	// HTTPClient overrides the transport entirely. Used by tests.
	HTTPClient *http.Client
}

func NewAPIClient(opts APIClientOptions) *APIClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.ClientID != "" && opts.ClientSecret != "" && opts.TokenURL != "" {
			conf := &clientcredentials.Config{
				ClientID:     opts.ClientID,
				ClientSecret: opts.ClientSecret,
				TokenURL:     opts.TokenURL,
			}
			httpClient = conf.Client(context.Background())
			slog.Info("[APIClient] Using client credentials", slog.String("token_url", opts.TokenURL))
		} else {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = opts.Timeout
	}

	c := &APIClient{
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
		Client:  httpClient,
	}
	c.Keywords = KeywordsService{api: c}
	c.Emotions = EmotionsService{api: c}
	c.Sentiments = SentimentsService{api: c}
	return c
}

// APIError is returned for any non-2xx response. Validation is set when the
// backend answered 422 with an HTTPValidationError body.
type APIError struct {
	Method      string
	URL         string
	StatusCode  int
	Description string
	Body        []byte
	Validation  *models.HTTPValidationError
}

func (e *APIError) Error() string {
	desc := e.Description
	if desc == "" {
		desc = http.StatusText(e.StatusCode)
	}
	msg := fmt.Sprintf("[APIClient] %s %s: %d %s", e.Method, e.URL, e.StatusCode, desc)
	if e.Validation != nil && len(e.Validation.Detail) > 0 {
		parts := make([]string, 0, len(e.Validation.Detail))
		for _, d := range e.Validation.Detail {
			parts = append(parts, fmt.Sprintf("%s: %s", FormatLoc(d.Loc), d.Msg))
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

// ValidationErrors returns the 422 detail list of err, if it carries one.
func ValidationErrors(err error) []models.ValidationError {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Validation != nil {
		return apiErr.Validation.Detail
	}
	return nil
}

// FormatLoc joins a validation location like ["query", "year"] into "query.year".
func FormatLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, l := range loc {
		switch v := l.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, fmt.Sprintf("%d", int(v)))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

type apiRequest struct {
	method string
	path   string
	query  url.Values
	// errors maps status codes to the description the route declares for them.
	errors map[int]string
}

func (c *APIClient) request(ctx context.Context, r apiRequest, out any) error {
	u, err := url.Parse(c.BaseURL + r.path)
	if err != nil {
		return fmt.Errorf("[APIClient] failed to parse URL: %w", err)
	}
	u.RawQuery = r.query.Encode()

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("[APIClient] failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Error("[APIClient] Request failed",
			slog.String("url", u.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("[APIClient] %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[APIClient] failed to read response: %w", err)
	}

	slog.Debug("[APIClient] Response received",
		slog.String("url", u.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:      r.method,
			URL:         u.String(),
			StatusCode:  resp.StatusCode,
			Description: r.errors[resp.StatusCode],
			Body:        body,
		}
		if resp.StatusCode == http.StatusUnprocessableEntity {
			var validation models.HTTPValidationError
			if err := json.Unmarshal(body, &validation); err == nil {
				apiErr.Validation = &validation
			} else {
				slog.Warn("[APIClient] Failed to decode validation error",
					getPreview(body),
					slog.String("error", err.Error()))
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		slog.Error("[APIClient] Failed to unmarshal response",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
			getPreview(body))
		return fmt.Errorf("[APIClient] failed to unmarshal response: %w", err)
	}
	return nil
}

var validationErrors = map[int]string{
	http.StatusUnprocessableEntity: "Validation Error",
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

// Ping checks that the backend answers. Any response below 500 counts.
func (c *APIClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+API_V1_PREFIX+"/openapi.json", nil)
	if err != nil {
		return fmt.Errorf("[APIClient] failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("[APIClient] ping failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return &APIError{Method: http.MethodGet, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}
	return nil
}
