// Package source fetches raw posts from Reddit.
//
// The client authenticates with the script-app client-credentials flow and
// pre-filters listings so downstream stages never see empty, removed or
// trivially short bodies.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/heardapp/letter-importer/internal/config"
	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/observability"
)

const (
	tokenURL   = "https://www.reddit.com/api/v1/access_token"
	apiBaseURL = "https://oauth.reddit.com"

	// minBodyChars mirrors the upstream contract: shorter bodies are not
	// worth turning into letters.
	minBodyChars = 20

	requestTimeout = 30 * time.Second
)

// Client fetches top posts from subreddits.
type Client struct {
	httpClient *http.Client
	logger     *zerolog.Logger
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)

	return t.base.RoundTrip(req)
}

// New builds a Reddit client from the configured script-app credentials.
func New(cfg *config.Config, logger *zerolog.Logger) *Client {
	creds := &clientcredentials.Config{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		TokenURL:     tokenURL,
	}

	base := &http.Client{
		Timeout: requestTimeout,
		Transport: &userAgentTransport{
			agent: cfg.RedditUserAgent,
			base:  http.DefaultTransport,
		},
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	return &Client{
		httpClient: creds.Client(ctx),
		logger:     logger,
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				Author     string  `json:"author"`
				CreatedUTC float64 `json:"created_utc"`
				Subreddit  string  `json:"subreddit"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns up to limit top posts from the subreddit for the given time
// window (hour, day, week, month, year, all). Posts with empty, removed or
// short bodies are dropped before returning.
func (c *Client) Fetch(ctx context.Context, subreddit string, limit int, window string) ([]domain.RawPost, error) {
	endpoint := fmt.Sprintf("%s/r/%s/top.json?%s", apiBaseURL, url.PathEscape(subreddit), url.Values{
		"t":     {window},
		"limit": {fmt.Sprint(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s listing: %w", subreddit, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s listing: unexpected status %d", subreddit, resp.StatusCode)
	}

	var body listing
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode r/%s listing: %w", subreddit, err)
	}

	posts := make([]domain.RawPost, 0, len(body.Data.Children))

	for _, child := range body.Data.Children {
		post := child.Data
		if !usableBody(post.SelfText) {
			continue
		}

		author := post.Author
		if author == "" {
			author = domain.AnonymousAuthor
		}

		posts = append(posts, domain.RawPost{
			ID:        post.ID,
			Title:     post.Title,
			Body:      post.SelfText,
			Author:    author,
			CreatedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
			SourceTag: post.Subreddit,
		})
	}

	observability.PostsFetched.WithLabelValues(subreddit).Add(float64(len(posts)))
	c.logger.Info().Str("subreddit", subreddit).Int("posts", len(posts)).Msg("fetched listing")

	return posts, nil
}

func usableBody(text string) bool {
	if text == "" || text == "[removed]" || text == "[deleted]" {
		return false
	}

	return len(text) >= minBodyChars
}
