// Package service coordinates fetching issue and commit data across the
// configured repositories. Fetches fan out per repository and fan in by
// appending; a failed repository is recorded, not fatal, so partial results
// stay distinguishable from total failure.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultWorkers bounds concurrent repository fetches.
const defaultWorkers = 8

// Source is the issue/commit data source collaborator.
type Source interface {
	ListIssues(ctx context.Context, owner, repo, state string, limit int) ([]model.Issue, error)
	ListCommits(ctx context.Context, owner, repo string, since, until time.Time, limit int) ([]model.Commit, error)
}

// Issues is the outcome of fetching issues across repositories.
type Issues struct {
	Issues []model.Issue
	Errors map[string]error // keyed by owner/name; only failed repos appear
}

// Partial reports whether some, but not all, repositories failed.
func (r *Issues) Partial() bool {
	return len(r.Errors) > 0 && len(r.Issues) > 0
}

// Commits is the outcome of fetching commits across repositories.
type Commits struct {
	Commits []model.Commit
	Errors  map[string]error
}

// Partial reports whether some, but not all, repositories failed.
func (r *Commits) Partial() bool {
	return len(r.Errors) > 0 && len(r.Commits) > 0
}

// FetchIssues fetches issues for every repository concurrently. It returns
// an error only when every repository failed; per-repo failures are
// recorded in the result so a partially failed fetch is never mistaken for
// an empty but valid dataset.
func FetchIssues(ctx context.Context, src Source, repos []config.Repository, state string, limit int) (*Issues, error) {
	result := &Issues{Errors: map[string]error{}}
	if len(repos) == 0 {
		return result, fmt.Errorf("no repositories configured")
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultWorkers)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			issues, err := src.ListIssues(gctx, repo.Owner, repo.Name, state, limit)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("issue fetch failed", "repo", repo.FullName(), "error", err)
				result.Errors[repo.FullName()] = err
				return nil
			}
			result.Issues = append(result.Issues, issues...)
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Errors) == len(repos) {
		return result, fmt.Errorf("all %d repositories failed to fetch", len(repos))
	}
	return result, nil
}

// FetchCommits fetches commits for every repository concurrently, with the
// same partial-failure semantics as FetchIssues.
func FetchCommits(ctx context.Context, src Source, repos []config.Repository, since, until time.Time, limit int) (*Commits, error) {
	result := &Commits{Errors: map[string]error{}}
	if len(repos) == 0 {
		return result, fmt.Errorf("no repositories configured")
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultWorkers)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			batch, err := src.ListCommits(gctx, repo.Owner, repo.Name, since, until, limit)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("commit fetch failed", "repo", repo.FullName(), "error", err)
				result.Errors[repo.FullName()] = err
				return nil
			}
			result.Commits = append(result.Commits, batch...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Errors) == len(repos) {
		return result, fmt.Errorf("all %d repositories failed to fetch", len(repos))
	}
	return result, nil
}
