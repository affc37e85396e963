package health

import (
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/model"
)

// Report is the combined result of the issue analysis lane.
type Report struct {
	GeneratedAt  time.Time         `json:"generatedAt"`
	Distribution Distribution      `json:"distribution"`
	Flow         FlowReport        `json:"flow"`
	Milestones   []MilestoneHealth `json:"milestones,omitempty"`
	NextUp       []RankedIssue     `json:"nextUp,omitempty"`

	// FetchErrors records repositories whose fetch failed; the analysis
	// covers the repositories that succeeded.
	FetchErrors map[string]string `json:"fetchErrors,omitempty"`
}

// nextUpLimit caps the "what to work on next" list.
const nextUpLimit = 5

// Analyze runs the full issue lane over one immutable issue set: stage
// distribution, flow health, per-milestone health, and a ranked pick of
// Ready work. currentVelocity <= 0 falls back to the configured default.
func Analyze(issues []model.Issue, currentVelocity float64, now time.Time, th config.Thresholds, priorityLabels []string) Report {
	dist := Distribute(issues)

	ranker := NewRanker(th, priorityLabels)
	nextUp := ranker.Rank(dist.Issues[StageReady], now)
	if len(nextUp) > nextUpLimit {
		nextUp = nextUp[:nextUpLimit]
	}

	return Report{
		GeneratedAt:  now,
		Distribution: dist,
		Flow:         AnalyzeFlow(dist, th),
		Milestones:   AnalyzeMilestones(issues, currentVelocity, now, th),
		NextUp:       nextUp,
	}
}
