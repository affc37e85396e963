package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/model"
)

// ListCommits fetches commits for one repository within [since, until).
// A zero since or until leaves that bound open. limit <= 0 means no limit.
// An empty repository (no commits yet) yields an empty slice, not an error.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since, until time.Time, limit int) ([]model.Commit, error) {
	op := fmt.Sprintf("list commits %s/%s", owner, repo)

	opts := &gh.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: gh.ListOptions{PerPage: defaultPageSize},
	}

	var out []model.Commit
	for {
		page, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			// GitHub answers 409 for a repository without commits.
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return nil, nil
			}
			return nil, wrapAPIError(op, err)
		}

		for _, rc := range page {
			out = append(out, convertCommit(owner, repo, rc))
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("fetched commits", "repo", owner+"/"+repo, "count", len(out))
	return out, nil
}

func convertCommit(owner, repo string, rc *gh.RepositoryCommit) model.Commit {
	out := model.Commit{
		SHA:        rc.GetSHA(),
		Repository: owner + "/" + repo,
	}

	if commit := rc.GetCommit(); commit != nil {
		out.Message = commit.GetMessage()
		if author := commit.GetAuthor(); author != nil {
			out.Author = author.GetName()
			out.Date = author.GetDate().Time
		}
	}
	if out.Author == "" {
		out.Author = "Unknown"
	}

	return out
}
