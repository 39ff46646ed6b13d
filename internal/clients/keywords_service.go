package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spacesedan/sentimap/internal/models"
)

// StateQuery selects one state's data for a keyword and year.
type StateQuery struct {
	Keyword string
	State   string
	Year    int
}

func (q StateQuery) values() url.Values {
	v := url.Values{}
	v.Set("state", q.State)
	v.Set("keyword", q.Keyword)
	v.Set("year", strconv.Itoa(q.Year))
	return v
}

// CollegeQuery selects one institution's data for a keyword and year.
type CollegeQuery struct {
	CollegeName string
	Keyword     string
	Year        int
}

func (q CollegeQuery) values() url.Values {
	v := url.Values{}
	v.Set("college_name", q.CollegeName)
	v.Set("keyword", q.Keyword)
	v.Set("year", strconv.Itoa(q.Year))
	return v
}

type KeywordsService struct {
	api *APIClient
}

// GetStateWordCloud calls GET /api/v1/keywords/state.
func (s KeywordsService) GetStateWordCloud(ctx context.Context, q StateQuery) (*models.StateWordCloud, error) {
	var out models.StateWordCloud
	err := s.api.request(ctx, apiRequest{
		method: http.MethodGet,
		path:   API_V1_PREFIX + "/keywords/state",
		query:  q.values(),
		errors: validationErrors,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCollegeWordCloud calls GET /api/v1/keywords/college.
func (s KeywordsService) GetCollegeWordCloud(ctx context.Context, q CollegeQuery) (*models.CollegeWordCloud, error) {
	var out models.CollegeWordCloud
	err := s.api.request(ctx, apiRequest{
		method: http.MethodGet,
		path:   API_V1_PREFIX + "/keywords/college",
		query:  q.values(),
		errors: validationErrors,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
