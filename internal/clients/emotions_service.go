package clients

import (
	"context"
	"net/http"

	"github.com/spacesedan/sentimap/internal/models"
)

type EmotionsService struct {
	api *APIClient
}

// GetStateEmotions calls GET /api/v1/emotions/state.
func (s EmotionsService) GetStateEmotions(ctx context.Context, q StateQuery) (*models.StateEmotions, error) {
	var out models.StateEmotions
	err := s.api.request(ctx, apiRequest{
		method: http.MethodGet,
		path:   API_V1_PREFIX + "/emotions/state",
		query:  q.values(),
		errors: validationErrors,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCollegeEmotions calls GET /api/v1/emotions/college.
func (s EmotionsService) GetCollegeEmotions(ctx context.Context, q CollegeQuery) (*models.CollegeEmotions, error) {
	var out models.CollegeEmotions
	err := s.api.request(ctx, apiRequest{
		method: http.MethodGet,
		path:   API_V1_PREFIX + "/emotions/college",
		query:  q.values(),
		errors: validationErrors,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
