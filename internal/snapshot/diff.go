package snapshot

import (
	"sort"
	"time"
)

// Entry is the change for one key within one dimension.
type Entry struct {
	Key      string  `json:"key"`
	Baseline int     `json:"baseline"`
	Current  int     `json:"current"`
	Delta    int     `json:"delta"`
	Pct      float64 `json:"pct"` // delta/baseline; meaningless when New

	// New marks a key that was absent from the baseline. The percentage
	// change is undefined there, so it is represented explicitly rather
	// than as a numeric infinity. A new key with a positive count is
	// always significant regardless of threshold.
	New         bool `json:"new,omitempty"`
	Significant bool `json:"significant,omitempty"`
}

// Delta is the full comparison between a baseline and a current aggregate.
type Delta struct {
	BaselineAt time.Time `json:"baselineAt"`
	CurrentAt  time.Time `json:"currentAt"`

	Total        Entry   `json:"total"`
	States       []Entry `json:"states,omitempty"`
	Repositories []Entry `json:"repositories,omitempty"`
	Labels       []Entry `json:"labels,omitempty"`
	Milestones   []Entry `json:"milestones,omitempty"`
	Assignees    []Entry `json:"assignees,omitempty"`
}

// Significant returns every significant entry across all dimensions, in
// dimension order. Useful for insight rendering.
func (d Delta) Significant() []Entry {
	var out []Entry
	for _, dim := range [][]Entry{d.States, d.Repositories, d.Labels, d.Milestones, d.Assignees} {
		for _, e := range dim {
			if e.Significant {
				out = append(out, e)
			}
		}
	}
	return out
}

// Diff compares two aggregates dimension by dimension. threshold is the
// significance cutoff as a fraction of the baseline (0.20 means 20%).
func Diff(baseline, current Aggregate, threshold float64) Delta {
	return Delta{
		BaselineAt:   baseline.TakenAt,
		CurrentAt:    current.TakenAt,
		Total:        makeEntry("total", baseline.Total, current.Total, threshold),
		States:       diffDimension(baseline.ByState, current.ByState, threshold),
		Repositories: diffDimension(baseline.ByRepository, current.ByRepository, threshold),
		Labels:       diffDimension(baseline.ByLabel, current.ByLabel, threshold),
		Milestones:   diffDimension(baseline.ByMilestone, current.ByMilestone, threshold),
		Assignees:    diffDimension(baseline.ByAssignee, current.ByAssignee, threshold),
	}
}

// diffDimension compares every key present in either snapshot. Entries are
// ordered by absolute change descending, then key ascending, so output is
// deterministic.
func diffDimension(baseline, current map[string]int, threshold float64) []Entry {
	keys := map[string]bool{}
	for k := range baseline {
		keys[k] = true
	}
	for k := range current {
		keys[k] = true
	}
	if len(keys) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(keys))
	for k := range keys {
		entries = append(entries, makeEntry(k, baseline[k], current[k], threshold))
	}

	sort.Slice(entries, func(i, j int) bool {
		ai, aj := abs(entries[i].Delta), abs(entries[j].Delta)
		if ai != aj {
			return ai > aj
		}
		return entries[i].Key < entries[j].Key
	})

	return entries
}

func makeEntry(key string, baseline, current int, threshold float64) Entry {
	e := Entry{
		Key:      key,
		Baseline: baseline,
		Current:  current,
		Delta:    current - baseline,
	}

	if baseline == 0 {
		if current > 0 {
			e.New = true
			e.Significant = true
		}
		return e
	}

	e.Pct = float64(e.Delta) / float64(baseline)
	if e.Pct >= threshold || e.Pct <= -threshold {
		e.Significant = true
	}
	return e
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
