// Package health implements the issue analysis lane: workflow stage
// classification, status distribution, flow health, milestone health and
// priority ranking. Everything here is a pure function of its inputs.
package health

import (
	"strings"

	"github.com/hal/pulse/internal/model"
)

// Stage is one step in the issue workflow.
type Stage string

const (
	StageBacklog    Stage = "backlog"
	StageReady      Stage = "ready"
	StageInProgress Stage = "in_progress"
	StageInReview   Stage = "in_review"
	StageDone       Stage = "done"
)

// Stages lists all workflow stages in board order.
var Stages = []Stage{StageBacklog, StageReady, StageInProgress, StageInReview, StageDone}

// Display returns a human-readable stage name.
func (s Stage) Display() string {
	switch s {
	case StageBacklog:
		return "Backlog"
	case StageReady:
		return "Ready"
	case StageInProgress:
		return "In Progress"
	case StageInReview:
		return "In Review"
	case StageDone:
		return "Done"
	default:
		return string(s)
	}
}

// stagePatterns maps each stage to the exact label strings that select it.
// The sets are disjoint: a single label selects at most one stage.
var stagePatterns = map[Stage][]string{
	StageBacklog: {"backlog", "status:backlog", "status: backlog"},
	StageReady:   {"ready", "status:ready", "status: ready", "to do", "todo"},
	StageInProgress: {
		"in progress", "status:in progress", "status: in progress",
		"in-progress", "status:in-progress", "wip", "work in progress",
	},
	StageInReview: {"in review", "status:in review", "status: in review", "review", "status:review"},
	StageDone:     {"done", "status:done", "status: done", "completed"},
}

// stagePrecedence is the tie-break order when an issue carries labels that
// select more than one stage: the stage listed first wins. Reviewing work
// outranks active work, which outranks queued work.
var stagePrecedence = []Stage{StageInReview, StageInProgress, StageReady, StageBacklog, StageDone}

// Classify maps an issue's labels and state to exactly one workflow stage.
// It is total: every issue yields a stage. Labels are compared lowercase.
// If no label matches, closed issues are Done and open issues are Backlog.
func Classify(issue model.Issue) Stage {
	matched := map[Stage]bool{}
	for _, label := range issue.Labels {
		name := strings.ToLower(label)
		for stage, patterns := range stagePatterns {
			for _, p := range patterns {
				if name == p {
					matched[stage] = true
				}
			}
		}
	}

	for _, stage := range stagePrecedence {
		if matched[stage] {
			return stage
		}
	}

	if issue.State == model.IssueClosed {
		return StageDone
	}
	return StageBacklog
}
