package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/model"
)

// fakeSource serves canned issues and commits keyed by owner/name and fails
// for repositories in failRepos.
type fakeSource struct {
	issues    map[string][]model.Issue
	commits   map[string][]model.Commit
	failRepos map[string]bool
}

func (f *fakeSource) ListIssues(_ context.Context, owner, repo, _ string, _ int) ([]model.Issue, error) {
	full := owner + "/" + repo
	if f.failRepos[full] {
		return nil, fmt.Errorf("boom: %s", full)
	}
	return f.issues[full], nil
}

func (f *fakeSource) ListCommits(_ context.Context, owner, repo string, _, _ time.Time, _ int) ([]model.Commit, error) {
	full := owner + "/" + repo
	if f.failRepos[full] {
		return nil, fmt.Errorf("boom: %s", full)
	}
	return f.commits[full], nil
}

var testRepos = []config.Repository{
	{Owner: "acme", Name: "api"},
	{Owner: "acme", Name: "web"},
}

func TestFetchIssues(t *testing.T) {
	src := &fakeSource{
		issues: map[string][]model.Issue{
			"acme/api": {{Number: 1}, {Number: 2}},
			"acme/web": {{Number: 3}},
		},
	}

	result, err := FetchIssues(context.Background(), src, testRepos, "all", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Issues) != 3 {
		t.Errorf("expected 3 issues, got %d", len(result.Issues))
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if result.Partial() {
		t.Error("fully successful fetch reported partial")
	}
}

func TestFetchIssuesPartialFailure(t *testing.T) {
	src := &fakeSource{
		issues: map[string][]model.Issue{
			"acme/api": {{Number: 1}},
		},
		failRepos: map[string]bool{"acme/web": true},
	}

	result, err := FetchIssues(context.Background(), src, testRepos, "all", 0)
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if len(result.Issues) != 1 {
		t.Errorf("expected 1 issue from the healthy repo, got %d", len(result.Issues))
	}
	if len(result.Errors) != 1 || result.Errors["acme/web"] == nil {
		t.Errorf("expected acme/web in errors, got %v", result.Errors)
	}
	if !result.Partial() {
		t.Error("expected Partial() = true")
	}
}

func TestFetchIssuesTotalFailure(t *testing.T) {
	src := &fakeSource{
		failRepos: map[string]bool{"acme/api": true, "acme/web": true},
	}

	result, err := FetchIssues(context.Background(), src, testRepos, "all", 0)
	if err == nil {
		t.Fatal("expected error when every repository fails")
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected both repos in errors, got %v", result.Errors)
	}
	if result.Partial() {
		t.Error("total failure should not report partial")
	}
}

func TestFetchIssuesNoRepos(t *testing.T) {
	src := &fakeSource{}
	if _, err := FetchIssues(context.Background(), src, nil, "all", 0); err == nil {
		t.Fatal("expected error with no repositories configured")
	}
}

func TestFetchIssuesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocking := &blockingSource{}
	result, err := FetchIssues(ctx, blocking, testRepos, "all", 0)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if result != nil {
		for _, rerr := range result.Errors {
			if !errors.Is(rerr, context.Canceled) {
				t.Errorf("expected context.Canceled per repo, got %v", rerr)
			}
		}
	}
}

// blockingSource honors context cancellation.
type blockingSource struct{}

func (b *blockingSource) ListIssues(ctx context.Context, _, _, _ string, _ int) ([]model.Issue, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *blockingSource) ListCommits(ctx context.Context, _, _ string, _, _ time.Time, _ int) ([]model.Commit, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFetchCommits(t *testing.T) {
	src := &fakeSource{
		commits: map[string][]model.Commit{
			"acme/api": {{SHA: "a"}, {SHA: "b"}},
			"acme/web": {{SHA: "c"}},
		},
	}

	now := time.Now()
	result, err := FetchCommits(context.Background(), src, testRepos, now.Add(-time.Hour), now, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Commits) != 3 {
		t.Errorf("expected 3 commits, got %d", len(result.Commits))
	}
}

func TestFetchCommitsTotalFailure(t *testing.T) {
	src := &fakeSource{
		failRepos: map[string]bool{"acme/api": true, "acme/web": true},
	}

	now := time.Now()
	result, err := FetchCommits(context.Background(), src, testRepos, now.Add(-time.Hour), now, 0)
	if err == nil {
		t.Fatal("expected error when every repository fails")
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected both repos in errors, got %v", result.Errors)
	}
}
