package health

import (
	"testing"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/model"
)

func TestAnalyze(t *testing.T) {
	th := config.DefaultThresholds()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(14 * 24 * time.Hour)

	issues := []model.Issue{
		{Number: 1, Labels: []string{"ready"}, State: model.IssueOpen, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{Number: 2, Labels: []string{"ready", "critical"}, State: model.IssueOpen, CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{Number: 3, Labels: []string{"wip"}, State: model.IssueOpen, CreatedAt: now.Add(-5 * 24 * time.Hour)},
		{Number: 4, Milestone: &model.Milestone{Title: "v1", DueOn: &due}, State: model.IssueOpen, CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{Number: 5, State: model.IssueClosed, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}

	report := Analyze(issues, 0, now, th, config.DefaultPriorityLabels())

	if !report.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, now)
	}
	if report.Distribution.Total != 5 {
		t.Errorf("total = %d, want 5", report.Distribution.Total)
	}
	if report.Flow.WIP != 1 {
		t.Errorf("WIP = %d, want 1", report.Flow.WIP)
	}

	// Both Ready issues ranked; the critical one wins despite being older.
	if len(report.NextUp) != 2 {
		t.Fatalf("NextUp = %d issues, want 2", len(report.NextUp))
	}
	if report.NextUp[0].Issue.Number != 2 {
		t.Errorf("top pick = #%d, want #2", report.NextUp[0].Issue.Number)
	}

	// Milestone buckets: "No Milestone" and "v1".
	if len(report.Milestones) != 2 {
		t.Errorf("milestones = %d, want 2", len(report.Milestones))
	}
}

func TestAnalyzeNextUpCap(t *testing.T) {
	th := config.DefaultThresholds()
	now := time.Now()

	var issues []model.Issue
	for i := 1; i <= 10; i++ {
		issues = append(issues, model.Issue{
			Number:    i,
			Labels:    []string{"ready"},
			State:     model.IssueOpen,
			CreatedAt: now.Add(-90 * 24 * time.Hour),
		})
	}

	report := Analyze(issues, 0, now, th, nil)
	if len(report.NextUp) != nextUpLimit {
		t.Errorf("NextUp = %d issues, want %d", len(report.NextUp), nextUpLimit)
	}
	// Equal scores: lowest numbers first.
	for i, ranked := range report.NextUp {
		if ranked.Issue.Number != i+1 {
			t.Errorf("position %d: #%d, want #%d", i, ranked.Issue.Number, i+1)
		}
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	th := config.DefaultThresholds()
	report := Analyze(nil, 0, time.Now(), th, nil)

	if report.Distribution.Total != 0 {
		t.Errorf("total = %d, want 0", report.Distribution.Total)
	}
	if len(report.Flow.Findings) != 0 {
		t.Errorf("expected no findings, got %v", report.Flow.Findings)
	}
	if len(report.NextUp) != 0 {
		t.Errorf("expected empty NextUp, got %d", len(report.NextUp))
	}
	if len(report.Milestones) != 0 {
		t.Errorf("expected no milestones, got %d", len(report.Milestones))
	}
}
