package health

import (
	"testing"

	"github.com/hal/pulse/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		state  model.IssueState
		want   Stage
	}{
		{"backlog label", []string{"backlog"}, model.IssueOpen, StageBacklog},
		{"status prefix", []string{"status:backlog"}, model.IssueOpen, StageBacklog},
		{"status prefix with space", []string{"status: in progress"}, model.IssueOpen, StageInProgress},
		{"ready label", []string{"ready"}, model.IssueOpen, StageReady},
		{"todo label", []string{"todo"}, model.IssueOpen, StageReady},
		{"wip label", []string{"wip"}, model.IssueOpen, StageInProgress},
		{"hyphenated in-progress", []string{"in-progress"}, model.IssueOpen, StageInProgress},
		{"review label", []string{"review"}, model.IssueOpen, StageInReview},
		{"done label", []string{"done"}, model.IssueOpen, StageDone},
		{"completed label", []string{"completed"}, model.IssueOpen, StageDone},
		{"case insensitive", []string{"In Progress"}, model.IssueOpen, StageInProgress},
		{"unrelated labels ignored", []string{"bug", "area/parser"}, model.IssueOpen, StageBacklog},
		{"no labels open", nil, model.IssueOpen, StageBacklog},
		{"no labels closed", nil, model.IssueClosed, StageDone},
		{"unmatched labels closed", []string{"bug"}, model.IssueClosed, StageDone},

		// Precedence when labels select more than one stage.
		{"review beats progress", []string{"in progress", "in review"}, model.IssueOpen, StageInReview},
		{"progress beats ready", []string{"ready", "wip"}, model.IssueOpen, StageInProgress},
		{"ready beats backlog", []string{"backlog", "ready"}, model.IssueOpen, StageReady},
		{"backlog beats done", []string{"done", "backlog"}, model.IssueOpen, StageBacklog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := model.Issue{Number: 1, Labels: tt.labels, State: tt.state}
			if got := Classify(issue); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	issue := model.Issue{
		Number: 7,
		Labels: []string{"ready", "wip", "review", "backlog"},
		State:  model.IssueOpen,
	}
	first := Classify(issue)
	for i := 0; i < 100; i++ {
		if got := Classify(issue); got != first {
			t.Fatalf("Classify() not deterministic: got %v then %v", first, got)
		}
	}
	if first != StageInReview {
		t.Errorf("expected in_review to win precedence, got %v", first)
	}
}

func TestDistribute(t *testing.T) {
	issues := []model.Issue{
		{Number: 1, Labels: []string{"backlog"}, State: model.IssueOpen},
		{Number: 2, Labels: []string{"backlog"}, State: model.IssueOpen},
		{Number: 3, Labels: []string{"ready"}, State: model.IssueOpen},
		{Number: 4, Labels: []string{"wip"}, State: model.IssueOpen},
		{Number: 5, Labels: []string{"review"}, State: model.IssueOpen},
		{Number: 6, State: model.IssueClosed},
	}

	dist := Distribute(issues)

	if dist.Total != 6 {
		t.Errorf("expected total 6, got %d", dist.Total)
	}
	want := map[Stage]int{
		StageBacklog:    2,
		StageReady:      1,
		StageInProgress: 1,
		StageInReview:   1,
		StageDone:       1,
	}
	for stage, count := range want {
		if got := dist.Count(stage); got != count {
			t.Errorf("Count(%v) = %d, want %d", stage, got, count)
		}
	}
	if got := dist.WIP(); got != 2 {
		t.Errorf("WIP() = %d, want 2", got)
	}
	if len(dist.Issues[StageBacklog]) != 2 {
		t.Errorf("expected 2 backlog issues, got %d", len(dist.Issues[StageBacklog]))
	}
}

func TestDistributeEmpty(t *testing.T) {
	dist := Distribute(nil)
	if dist.Total != 0 {
		t.Errorf("expected total 0, got %d", dist.Total)
	}
	for _, stage := range Stages {
		if dist.Count(stage) != 0 {
			t.Errorf("expected Count(%v) = 0, got %d", stage, dist.Count(stage))
		}
	}
}
