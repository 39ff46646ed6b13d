package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/sentimap/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	REDDIT_AUTH_URL   = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL    = "https://oauth.reddit.com"
	REDDIT_PAGE_LIMIT = 100
)

type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	APIURL string

	InitialBackoff time.Duration
	MaxRetries     int

	mu sync.Mutex
}

func NewRedditClient(clientID, clientSecret string) *RedditClient {
	oauthConf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     REDDIT_AUTH_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &RedditClient{
		Config:         oauthConf,
		Client:         oauthConf.Client(context.Background()),
		APIURL:         REDDIT_API_URL,
		InitialBackoff: INITIAL_BACKOFF,
		MaxRetries:     MAX_RETRIES,
	}
}

func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.Config == nil {
		return
	}
	rc.Client = rc.Config.Client(context.Background())
}

func (rc *RedditClient) httpClient() *http.Client {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.Client
}

// SearchPosts searches one subreddit for posts mentioning query, returning at
// most REDDIT_PAGE_LIMIT of the top posts of all time.
func (rc *RedditClient) SearchPosts(ctx context.Context, subreddit, query string) ([]models.RedditPost, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/search", strings.TrimRight(rc.APIURL, "/"), subreddit))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("q", query)
	queryParams.Add("restrict_sr", "on")
	queryParams.Add("sort", "top")
	queryParams.Add("t", "all")
	queryParams.Add("limit", strconv.Itoa(REDDIT_PAGE_LIMIT))
	parsedUrl.RawQuery = queryParams.Encode()

	backoff := rc.InitialBackoff
	refreshed := false
	for attempt := 1; attempt <= rc.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := rc.httpClient().Do(req)
		if err != nil {
			return nil, fmt.Errorf("[RedditClient] request failed: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			return decodeRedditPosts(body, query)
		case http.StatusUnauthorized:
			resp.Body.Close()
			if refreshed {
				return nil, fmt.Errorf("[RedditClient] unauthorized after token refresh")
			}
			slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
			rc.RefreshClient()
			refreshed = true
			continue
		case http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("[RedditClient] 429 Too Many Requests - Retrying with backoff",
				slog.Int("attempt", attempt), slog.Duration("backoff", backoff))
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
			continue
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("[RedditClient] unexpected status code %d", resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("[RedditClient] Max retries reached request failed")
}

func decodeRedditPosts(body []byte, query string) ([]models.RedditPost, error) {
	var listing models.RedditAPIResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to unmarshal listing: %w", err)
	}

	posts := make([]models.RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		author := d.Author
		if author == "" {
			author = d.AuthorFullname
		}
		posts = append(posts, models.RedditPost{
			Query:       query,
			Subreddit:   d.Subreddit,
			Author:      author,
			PostTitle:   d.Title,
			PostContent: d.Selftext,
			Upvotes:     d.Ups,
			CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
			PostID:      d.ID,
		})
	}
	return posts, nil
}
