package health

import "github.com/hal/pulse/config"

// FindingKind identifies a detected bottleneck pattern.
type FindingKind string

const (
	FindingGroomingNeeded   FindingKind = "grooming_needed"
	FindingReadyPileup      FindingKind = "ready_pileup"
	FindingReviewBottleneck FindingKind = "review_bottleneck"
	FindingWIPOverload      FindingKind = "wip_overload"
)

// Severity of a flow finding.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Recommendation is a structured reason code so callers can localize or
// render the advice themselves; the analyzer emits no free text.
type Recommendation string

const (
	RecommendGrooming          Recommendation = "schedule_grooming_session"
	RecommendPickUpReadyWork   Recommendation = "pick_up_ready_work"
	RecommendPrioritizeReview  Recommendation = "prioritize_pending_reviews"
	RecommendFinishBeforeStart Recommendation = "finish_before_starting_new_work"
)

// Finding is one detected bottleneck.
type Finding struct {
	Kind           FindingKind    `json:"kind"`
	Severity       Severity       `json:"severity"`
	Recommendation Recommendation `json:"recommendation"`
}

// FlowReport is the result of flow health analysis over one distribution.
type FlowReport struct {
	WIP      int       `json:"wip"`
	Findings []Finding `json:"findings,omitempty"`
}

// AnalyzeFlow inspects a status distribution for bottleneck patterns.
// Findings are emitted in a fixed order (grooming, ready-pileup,
// review-bottleneck, wip-overload) so output is deterministic.
func AnalyzeFlow(dist Distribution, th config.Thresholds) FlowReport {
	backlog := dist.Count(StageBacklog)
	ready := dist.Count(StageReady)
	inProgress := dist.Count(StageInProgress)
	inReview := dist.Count(StageInReview)

	report := FlowReport{WIP: dist.WIP()}

	if backlog > th.GroomingBacklogRatio*ready && backlog >= th.GroomingMinBacklog {
		report.Findings = append(report.Findings, Finding{
			Kind:           FindingGroomingNeeded,
			Severity:       SeverityMedium,
			Recommendation: RecommendGrooming,
		})
	}

	if ready >= th.ReadyPileupMin && inProgress == 0 {
		report.Findings = append(report.Findings, Finding{
			Kind:           FindingReadyPileup,
			Severity:       SeverityHigh,
			Recommendation: RecommendPickUpReadyWork,
		})
	}

	if inReview > th.WIPLimit {
		report.Findings = append(report.Findings, Finding{
			Kind:           FindingReviewBottleneck,
			Severity:       SeverityHigh,
			Recommendation: RecommendPrioritizeReview,
		})
	}

	if inProgress+inReview > th.WIPLimit {
		report.Findings = append(report.Findings, Finding{
			Kind:           FindingWIPOverload,
			Severity:       SeverityMedium,
			Recommendation: RecommendFinishBeforeStart,
		})
	}

	return report
}
