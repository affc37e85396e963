// Package snapshot implements point-in-time issue aggregates, their
// persistence, and snapshot-to-snapshot diffing.
package snapshot

import (
	"time"

	"github.com/hal/pulse/internal/model"
)

// Unassigned is the assignee bucket for issues with no assignee.
const Unassigned = "unassigned"

// Aggregate captures counts-by-dimension at one instant. Immutable once
// produced; the unit compared by Diff.
type Aggregate struct {
	TakenAt time.Time `json:"takenAt"`
	Label   string    `json:"label,omitempty"`
	Total   int       `json:"total"`

	ByState      map[string]int `json:"byState,omitempty"`
	ByRepository map[string]int `json:"byRepository,omitempty"`
	ByLabel      map[string]int `json:"byLabel,omitempty"`
	ByMilestone  map[string]int `json:"byMilestone,omitempty"`
	ByAssignee   map[string]int `json:"byAssignee,omitempty"`
}

// Build folds an issue set into an Aggregate in a single pass. Zero counts
// are never stored, so every map entry is positive.
func Build(issues []model.Issue, at time.Time, label string) Aggregate {
	agg := Aggregate{
		TakenAt: at,
		Label:   label,
		Total:   len(issues),

		ByState:      map[string]int{},
		ByRepository: map[string]int{},
		ByLabel:      map[string]int{},
		ByMilestone:  map[string]int{},
		ByAssignee:   map[string]int{},
	}

	for _, issue := range issues {
		agg.ByState[string(issue.State)]++
		agg.ByRepository[issue.Repository]++

		for _, l := range issue.Labels {
			agg.ByLabel[l]++
		}

		if issue.Milestone != nil {
			agg.ByMilestone[issue.Milestone.Title]++
		}

		if len(issue.Assignees) == 0 {
			agg.ByAssignee[Unassigned]++
		}
		for _, a := range issue.Assignees {
			agg.ByAssignee[a]++
		}
	}

	return agg
}
