package commits

import (
	"fmt"
	"sort"
	"time"
)

// Cycle is one labeled time window [Start, End) with its aggregate counts.
type Cycle struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Commits      int            `json:"commits"`
	Conventional int            `json:"conventional"`
	Issues       []int          `json:"issues,omitempty"` // distinct, sorted
	Breaking     int            `json:"breaking"`
	ByType       map[Type]int   `json:"byType,omitempty"`
	ByAuthor     map[string]int `json:"byAuthor,omitempty"`
	ByDay        map[string]int `json:"byDay,omitempty"` // YYYY-MM-DD
}

// IssueCount returns the number of distinct issues referenced in the cycle.
func (c Cycle) IssueCount() int {
	return len(c.Issues)
}

// Direction of the velocity trend.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// Trend is an ordered (chronological) sequence of cycles plus the derived
// trend direction.
type Trend struct {
	Cycles    []Cycle   `json:"cycles"`
	Direction Direction `json:"direction"`
}

// IssuesPerWeek estimates current velocity as distinct issues referenced
// per week across the trend's cycles. Returns 0 when there is no history,
// letting callers fall back to their configured default.
func (t Trend) IssuesPerWeek() float64 {
	if len(t.Cycles) == 0 {
		return 0
	}
	issues := 0
	var span time.Duration
	for _, c := range t.Cycles {
		issues += c.IssueCount()
		span += c.End.Sub(c.Start)
	}
	weeks := span.Hours() / (24 * 7)
	if weeks <= 0 {
		return 0
	}
	return float64(issues) / weeks
}

// Aggregate partitions classified commits into `count` tumbling cycles of
// `lengthDays` days ending at `now` and derives the trend direction. The
// per-cycle fold is a sum/merge, so feeding commits from many repositories
// in any order yields the same trend. `band` is the dead band (fraction)
// inside which the direction is stable.
func Aggregate(classified []Classified, now time.Time, count, lengthDays int, band float64) Trend {
	if count <= 0 || lengthDays <= 0 {
		return Trend{Direction: DirectionStable}
	}

	cycles := make([]Cycle, count)
	cycleLen := time.Duration(lengthDays) * 24 * time.Hour
	for i := range cycles {
		start := now.Add(-time.Duration(count-i) * cycleLen)
		cycles[i] = Cycle{
			Name:     cycleName(start, i+1, lengthDays),
			Start:    start,
			End:      start.Add(cycleLen),
			ByType:   map[Type]int{},
			ByAuthor: map[string]int{},
			ByDay:    map[string]int{},
		}
	}

	issueSets := make([]map[int]bool, count)
	for i := range issueSets {
		issueSets[i] = map[int]bool{}
	}

	first := cycles[0].Start
	for _, c := range classified {
		if c.Date.Before(first) || !c.Date.Before(now) {
			continue
		}
		idx := int(c.Date.Sub(first) / cycleLen)
		if idx < 0 || idx >= count {
			continue
		}
		addToCycle(&cycles[idx], issueSets[idx], c)
	}

	for i := range cycles {
		cycles[i].Issues = sortedKeys(issueSets[i])
	}

	return Trend{
		Cycles:    cycles,
		Direction: direction(cycles, band),
	}
}

// addToCycle folds one classified commit into a cycle's counts.
func addToCycle(cy *Cycle, issues map[int]bool, c Classified) {
	cy.Commits++
	if c.Conventional() {
		cy.Conventional++
		cy.ByType[c.Type]++
	}
	if c.Breaking {
		cy.Breaking++
	}
	for _, n := range c.Issues {
		issues[n] = true
	}
	cy.ByAuthor[c.Author]++
	cy.ByDay[c.Date.Format("2006-01-02")]++
}

// direction compares the most recent cycle's commit count against the mean
// of the preceding cycles.
func direction(cycles []Cycle, band float64) Direction {
	if len(cycles) < 2 {
		return DirectionStable
	}

	latest := cycles[len(cycles)-1].Commits
	sum := 0
	for _, c := range cycles[:len(cycles)-1] {
		sum += c.Commits
	}
	mean := float64(sum) / float64(len(cycles)-1)

	if mean == 0 {
		if latest > 0 {
			return DirectionImproving
		}
		return DirectionStable
	}

	change := (float64(latest) - mean) / mean
	switch {
	case change > band:
		return DirectionImproving
	case change < -band:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

// cycleName labels a cycle: 7-day cycles by ISO week number, 14-day cycles
// as sprints, anything else as a plain cycle index. Cosmetic only.
func cycleName(start time.Time, n, lengthDays int) string {
	switch lengthDays {
	case 7:
		_, week := start.ISOWeek()
		return fmt.Sprintf("W%02d", week)
	case 14:
		return fmt.Sprintf("Sprint %d", n)
	default:
		return fmt.Sprintf("Cycle %d", n)
	}
}

func sortedKeys(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
