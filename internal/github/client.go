// Package github looks up a user's public repositories on the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ErrNoProfile is returned for any upstream outcome other than 200: unknown
// username, rate limit, or transport failure. Callers surface all of them
// as a single not-found response.
var ErrNoProfile = errors.New("no GitHub profile found")

const reposTTL = 10 * time.Minute

// Client fetches public repositories for a username. Responses are cached
// in Redis so repeated profile views don't burn the unauthenticated GitHub
// rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	redis      *redis.Client
}

// NewClient creates a GitHub client. baseURL is normally
// https://api.github.com; tests point it at a local server. rdb may be nil.
func NewClient(baseURL string, rdb *redis.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		redis:      rdb,
	}
}

// Repos returns the raw JSON of the user's five oldest public repositories
// (creation ascending), passed through unmodified from the upstream API.
func (c *Client) Repos(ctx context.Context, username string) ([]byte, error) {
	key := "gh:repos:" + username
	if cached, ok := cache.GetString(ctx, c.redis, key); ok {
		observability.GithubLookups.WithLabelValues("cache_hit").Inc()
		return []byte(cached), nil
	}

	url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.baseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.GithubLookups.WithLabelValues("error").Inc()
		return nil, ErrNoProfile
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.GithubLookups.WithLabelValues("not_found").Inc()
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.GithubLookups.WithLabelValues("error").Inc()
		return nil, ErrNoProfile
	}

	observability.GithubLookups.WithLabelValues("ok").Inc()
	cache.SetString(ctx, c.redis, key, string(body), reposTTL)
	return body, nil
}
