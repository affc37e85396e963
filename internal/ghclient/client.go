// Package ghclient wraps the GitHub API as the issue/commit data source.
// It converts API shapes into internal/model values; all analysis happens
// elsewhere.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"os"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/pulse/internal/log"
	"golang.org/x/oauth2"
)

// ErrRateLimited is returned when GitHub's rate limit is exhausted. Callers
// treat it as a collaborator failure, never as "zero data".
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// Client wraps the GitHub API client.
type Client struct {
	client *gh.Client
}

// NewClient creates a GitHub client using a personal access token. An empty
// token falls back to the GITHUB_TOKEN environment variable.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)

	return &Client{client: gh.NewClient(httpClient)}, nil
}

// wrapAPIError maps go-github error types onto our sentinels.
func wrapAPIError(op string, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		log.Warn("rate limited", "resets_at", rateErr.Rate.Reset.Time)
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}
	return fmt.Errorf("%s: %w", op, err)
}
