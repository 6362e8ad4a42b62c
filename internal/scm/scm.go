// Package scm reads commit history from the source-control host.
package scm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sovanghoshh/minutemate/pkg/models"
)

const defaultBaseURL = "https://api.github.com"

// Client lists commits for one repository via the GitHub REST API.
type Client struct {
	token string
	owner string
	repo  string

	// BaseURL is overridable for tests.
	BaseURL string

	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a commit-listing client for owner/repo.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		token:       token,
		owner:       owner,
		repo:        repo,
		BaseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Second), 5), // 5 requests per second
	}
}

// Repo returns the owner/repo slug this client reads from.
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

// ListCommits fetches the host's default page of recent commits,
// newest first.
func (c *Client) ListCommits(ctx context.Context) ([]models.Commit, error) {
	return c.listCommits(ctx, nil)
}

// ListCommitsSince fetches commits authored after the given instant,
// newest first, using the host-side time filter.
func (c *Client) ListCommitsSince(ctx context.Context, since time.Time) ([]models.Commit, error) {
	params := url.Values{}
	params.Set("since", since.UTC().Format(time.RFC3339))
	return c.listCommits(ctx, params)
}

func (c *Client) listCommits(ctx context.Context, params url.Values) ([]models.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits", c.BaseURL, c.owner, c.repo)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commit listing failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("commit listing failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("commit listing: decoding response: %w", err)
	}

	commits := make([]models.Commit, 0, len(raw))
	for _, entry := range raw {
		commit := models.Commit{
			SHA:        entry.SHA,
			Message:    entry.Commit.Message,
			AuthoredAt: entry.Commit.Author.Date,
			HTMLURL:    entry.HTMLURL,
		}
		// The host omits the author object when the commit email has no
		// account behind it.
		if entry.Author != nil {
			commit.AuthorLogin = entry.Author.Login
		}
		commits = append(commits, commit)
	}
	return commits, nil
}
