package health

import (
	"sort"
	"strings"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/model"
)

// RankedIssue pairs an issue with its priority score.
type RankedIssue struct {
	Issue model.Issue `json:"issue"`
	Score int         `json:"score"`
}

// Ranker scores and orders issues within a stage for "what to work on next".
type Ranker struct {
	thresholds     config.Thresholds
	priorityLabels map[string]bool
}

// NewRanker creates a Ranker with the given thresholds and priority labels.
func NewRanker(th config.Thresholds, priorityLabels []string) *Ranker {
	set := make(map[string]bool, len(priorityLabels))
	for _, l := range priorityLabels {
		set[strings.ToLower(l)] = true
	}
	return &Ranker{thresholds: th, priorityLabels: set}
}

// Score computes the priority score for one issue: a bonus for belonging to
// a milestone with a due date, a bonus for carrying a priority label, and a
// linear recency bonus that decays to zero over RecencyMaxBonus days.
func (r *Ranker) Score(issue model.Issue, now time.Time) int {
	score := 0

	if issue.HasDueDate() {
		score += r.thresholds.MilestoneBonus
	}

	for _, label := range issue.Labels {
		if r.priorityLabels[strings.ToLower(label)] {
			score += r.thresholds.PriorityLabelBonus
			break
		}
	}

	daysOld := int(now.Sub(issue.CreatedAt).Hours() / 24)
	if bonus := r.thresholds.RecencyMaxBonus - daysOld; bonus > 0 {
		score += bonus
	}

	return score
}

// Rank orders issues by descending score. Ties break by issue number
// ascending so the ordering is stable and deterministic. The input slice is
// not mutated.
func (r *Ranker) Rank(issues []model.Issue, now time.Time) []RankedIssue {
	ranked := make([]RankedIssue, 0, len(issues))
	for _, issue := range issues {
		ranked = append(ranked, RankedIssue{Issue: issue, Score: r.Score(issue, now)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Issue.Number < ranked[j].Issue.Number
	})

	return ranked
}
