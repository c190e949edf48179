// Package github fetches a user's public repositories for the profile page.
// The call is best-effort: any transport failure or non-200 response surfaces
// as a domain not-found, never as an upstream error.
package github

import (
	"context"

	"devhub/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.github.com"

type Client struct {
	http *resty.Client
}

// NewClient builds a client for the GitHub REST API. The token is optional;
// when set it raises the unauthenticated rate limit.
func NewClient(token string) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("User-Agent", "devhub")
	if token != "" {
		http.SetAuthToken(token)
	}
	return &Client{http: http}
}

// Repos returns the five most recently created public repos for username as
// raw JSON, passed through to the caller unmodified.
func (c *Client) Repos(ctx context.Context, username string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetQueryParams(map[string]string{
			"per_page": "5",
			"sort":     "created:asc",
		}).
		Get("/users/{username}/repos")
	if err != nil {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode() != 200 {
		return nil, models.ErrNotFound
	}
	return resp.Body(), nil
}

// SetBaseURL points the client at a different API host. Tests use it to aim
// at a local server.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}
