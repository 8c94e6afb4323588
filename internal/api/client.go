package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

// Client reads catalog content from a single GitHub repository.
type Client struct {
	rest  *ghAPI.RESTClient
	owner string
	repo  string
}

func NewClient(owner, repo string) (*Client, error) {
	rest, err := ghAPI.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client (is gh authenticated?): %w", err)
	}
	return &Client{rest: rest, owner: owner, repo: repo}, nil
}

// NewClientWithOptions builds a client with explicit go-gh options, e.g. a
// token and host for GitHub Enterprise or a custom transport.
func NewClientWithOptions(owner, repo string, opts ghAPI.ClientOptions) (*Client, error) {
	rest, err := ghAPI.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &Client{rest: rest, owner: owner, repo: repo}, nil
}

func (c *Client) RepoNWO() string {
	return fmt.Sprintf("%s/%s", c.owner, c.repo)
}

func (c *Client) repoPath(path string) string {
	return fmt.Sprintf("repos/%s/%s/%s", c.owner, c.repo, path)
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, c.repoPath(path), nil, result)
}

// IsNotFound reports whether err is a 404 from the GitHub API.
func IsNotFound(err error) bool {
	var httpErr *ghAPI.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
