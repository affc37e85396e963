package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/model"
)

// defaultPageSize is the GitHub API maximum page size.
const defaultPageSize = 100

// ListIssues fetches issues for one repository. state is "open", "closed"
// or "all". Pull requests are excluded; the issues API returns them mixed
// in. limit <= 0 means no limit.
func (c *Client) ListIssues(ctx context.Context, owner, repo, state string, limit int) ([]model.Issue, error) {
	op := fmt.Sprintf("list issues %s/%s", owner, repo)

	opts := &gh.IssueListByRepoOptions{
		State:       state,
		ListOptions: gh.ListOptions{PerPage: defaultPageSize},
	}

	var out []model.Issue
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapAPIError(op, err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			out = append(out, convertIssue(owner, repo, issue))
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("fetched issues", "repo", owner+"/"+repo, "count", len(out))
	return out, nil
}

func convertIssue(owner, repo string, issue *gh.Issue) model.Issue {
	out := model.Issue{
		Number:     issue.GetNumber(),
		Title:      issue.GetTitle(),
		State:      issueState(issue.GetState()),
		Repository: owner + "/" + repo,
		CreatedAt:  issue.GetCreatedAt().Time,
		HTMLURL:    issue.GetHTMLURL(),
	}

	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	for _, a := range issue.Assignees {
		out.Assignees = append(out.Assignees, a.GetLogin())
	}

	if m := issue.Milestone; m != nil {
		ms := &model.Milestone{Title: m.GetTitle()}
		if m.DueOn != nil {
			due := m.DueOn.Time
			ms.DueOn = &due
		}
		out.Milestone = ms
	}

	if issue.ClosedAt != nil {
		closed := issue.ClosedAt.Time
		out.ClosedAt = &closed
	}

	return out
}

func issueState(s string) model.IssueState {
	if s == "closed" {
		return model.IssueClosed
	}
	return model.IssueOpen
}
