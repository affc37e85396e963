package health

import "github.com/hal/pulse/internal/model"

// Distribution maps each workflow stage to its count and the issues in it.
// Built fresh per analysis call; treated as immutable once constructed.
type Distribution struct {
	Counts map[Stage]int           `json:"counts"`
	Issues map[Stage][]model.Issue `json:"-"`
	Total  int                     `json:"total"`
}

// Distribute classifies every issue and folds the results into a
// Distribution in a single pass.
func Distribute(issues []model.Issue) Distribution {
	dist := Distribution{
		Counts: make(map[Stage]int, len(Stages)),
		Issues: make(map[Stage][]model.Issue, len(Stages)),
	}

	for _, issue := range issues {
		stage := Classify(issue)
		dist.Counts[stage]++
		dist.Issues[stage] = append(dist.Issues[stage], issue)
		dist.Total++
	}

	return dist
}

// Count returns the number of issues in the given stage.
func (d Distribution) Count(s Stage) int {
	return d.Counts[s]
}

// WIP returns the work-in-progress total: issues in In Progress plus In Review.
func (d Distribution) WIP() int {
	return d.Counts[StageInProgress] + d.Counts[StageInReview]
}
