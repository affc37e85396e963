package health

import (
	"math"
	"sort"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/model"
)

// NoMilestone is the bucket title for issues without a milestone reference.
const NoMilestone = "No Milestone"

// MilestoneStats is a per-milestone rollup of the issue set.
type MilestoneStats struct {
	Title  string         `json:"title"`
	DueOn  *time.Time     `json:"dueOn,omitempty"`
	Total  int            `json:"total"`
	Done   int            `json:"done"`
	ByRepo map[string]int `json:"byRepo,omitempty"`
}

// Verdict is the milestone health verdict.
type Verdict string

const (
	VerdictOverdue    Verdict = "overdue"
	VerdictAtRisk     Verdict = "at_risk"
	VerdictBehind     Verdict = "behind"
	VerdictOnTrack    Verdict = "on_track"
	VerdictGood       Verdict = "good"
	VerdictNoDeadline Verdict = "no_deadline"
)

// MilestoneHealth is the health assessment for one milestone.
// Recomputed on every analysis pass; no persistent identity.
type MilestoneHealth struct {
	Milestone       MilestoneStats `json:"milestone"`
	Progress        float64        `json:"progress"` // done/total, 0 when total is 0
	DaysRemaining   *int           `json:"daysRemaining,omitempty"`
	NeededVelocity  float64        `json:"neededVelocity"` // issues/week
	CurrentVelocity float64        `json:"currentVelocity"`
	Verdict         Verdict        `json:"verdict"`
}

// GroupMilestones folds the issue set into per-milestone stats, sorted by
// title for deterministic output. Issues without a milestone land in the
// NoMilestone bucket.
func GroupMilestones(issues []model.Issue) []MilestoneStats {
	byTitle := map[string]*MilestoneStats{}

	for _, issue := range issues {
		title := NoMilestone
		var dueOn *time.Time
		if issue.Milestone != nil {
			title = issue.Milestone.Title
			dueOn = issue.Milestone.DueOn
		}

		stats, ok := byTitle[title]
		if !ok {
			stats = &MilestoneStats{Title: title, DueOn: dueOn, ByRepo: map[string]int{}}
			byTitle[title] = stats
		}

		stats.Total++
		stats.ByRepo[issue.Repository]++
		if Classify(issue) == StageDone {
			stats.Done++
		}
	}

	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	out := make([]MilestoneStats, 0, len(titles))
	for _, title := range titles {
		out = append(out, *byTitle[title])
	}
	return out
}

// AnalyzeMilestone assesses one milestone against the clock and an estimated
// current velocity (issues/week). Pass currentVelocity <= 0 to fall back to
// the configured default; the default is a documented approximation, not a
// measured value.
//
// Verdict boundaries are strict: needed > AtRiskMultiplier*current is
// at_risk, needed > BehindMultiplier*current is behind. A needed velocity
// exactly at the multiplier does not trip the verdict.
func AnalyzeMilestone(m MilestoneStats, currentVelocity float64, now time.Time, th config.Thresholds) MilestoneHealth {
	if currentVelocity <= 0 {
		currentVelocity = th.DefaultVelocity
	}

	health := MilestoneHealth{
		Milestone:       m,
		CurrentVelocity: currentVelocity,
	}

	if m.Total > 0 {
		health.Progress = float64(m.Done) / float64(m.Total)
	}

	if m.DueOn == nil {
		// A zero-issue milestone with no due date is vacuously healthy.
		if m.Total == 0 {
			health.Verdict = VerdictGood
			return health
		}
		health.Verdict = VerdictNoDeadline
		return health
	}

	// Floored, so a due date that passed earlier today counts as -1.
	days := int(math.Floor(m.DueOn.Sub(now).Hours() / 24))
	health.DaysRemaining = &days

	if days < 0 && health.Progress < 1.0 {
		health.Verdict = VerdictOverdue
		return health
	}

	weeksRemaining := float64(days) / 7
	if weeksRemaining < th.MinWeeksRemaining {
		weeksRemaining = th.MinWeeksRemaining
	}
	health.NeededVelocity = float64(m.Total-m.Done) / weeksRemaining

	switch {
	case health.NeededVelocity > th.AtRiskMultiplier*currentVelocity:
		health.Verdict = VerdictAtRisk
	case health.NeededVelocity > th.BehindMultiplier*currentVelocity:
		health.Verdict = VerdictBehind
	case health.Progress > th.OnTrackProgress:
		health.Verdict = VerdictOnTrack
	default:
		health.Verdict = VerdictGood
	}

	return health
}

// AnalyzeMilestones groups the issue set by milestone and assesses each one.
func AnalyzeMilestones(issues []model.Issue, currentVelocity float64, now time.Time, th config.Thresholds) []MilestoneHealth {
	stats := GroupMilestones(issues)
	out := make([]MilestoneHealth, 0, len(stats))
	for _, m := range stats {
		out = append(out, AnalyzeMilestone(m, currentVelocity, now, th))
	}
	return out
}
