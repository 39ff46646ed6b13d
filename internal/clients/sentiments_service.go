package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spacesedan/sentimap/internal/models"
)

type SentimentQuery struct {
	Keyword string
	Year    int
}

func (q SentimentQuery) values() url.Values {
	v := url.Values{}
	v.Set("keyword", q.Keyword)
	v.Set("year", strconv.Itoa(q.Year))
	return v
}

type SentimentsService struct {
	api *APIClient
}

// GetSentiments calls GET /api/v1/sentiments/ and returns sentiment keyed by
// state name.
func (s SentimentsService) GetSentiments(ctx context.Context, q SentimentQuery) (models.SentimentByState, error) {
	var raw map[string]json.RawMessage
	err := s.api.request(ctx, apiRequest{
		method: http.MethodGet,
		path:   API_V1_PREFIX + "/sentiments/",
		query:  q.values(),
		errors: validationErrors,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeSentimentByState(raw)
}

// Some backend builds wrap the map as {"sentiment_by_state": {...}}.
func decodeSentimentByState(raw map[string]json.RawMessage) (models.SentimentByState, error) {
	if inner, ok := raw["sentiment_by_state"]; ok && len(raw) == 1 {
		raw = nil
		if err := json.Unmarshal(inner, &raw); err != nil {
			return nil, fmt.Errorf("[APIClient] failed to unmarshal sentiment_by_state: %w", err)
		}
	}

	out := make(models.SentimentByState, len(raw))
	for state, msg := range raw {
		if string(msg) == "null" {
			continue
		}
		var s models.Sentiment
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("[APIClient] failed to unmarshal sentiment for %q: %w", state, err)
		}
		out[state] = s
	}
	return out, nil
}
