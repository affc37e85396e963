package commits

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hal/pulse/internal/model"
)

// commitAt builds a classified commit landing the given number of days
// before now.
func commitAt(now time.Time, daysAgo int, message string) Classified {
	return Classify(model.Commit{
		SHA:     fmt.Sprintf("sha-%d-%s", daysAgo, message[:4]),
		Message: message,
		Author:  "dev",
		Date:    now.Add(-time.Duration(daysAgo)*24*time.Hour - time.Hour),
	})
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	classified := []Classified{
		// Oldest cycle (21-14 days ago).
		commitAt(now, 16, "feat: alpha #1"),
		// Middle cycle (14-7 days ago).
		commitAt(now, 10, "fix: beta #2"),
		commitAt(now, 9, "chore: tidy"),
		// Latest cycle (7-0 days ago).
		commitAt(now, 3, "feat: gamma #3"),
		commitAt(now, 2, "feat(api)!: delta #4"),
		commitAt(now, 1, "not conventional"),
		// Outside the window entirely.
		commitAt(now, 40, "feat: ancient"),
	}

	trend := Aggregate(classified, now, 3, 7, 0.10)

	if len(trend.Cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(trend.Cycles))
	}

	wantCommits := []int{1, 2, 3}
	wantConventional := []int{1, 2, 2}
	for i, c := range trend.Cycles {
		if c.Commits != wantCommits[i] {
			t.Errorf("cycle %d commits = %d, want %d", i, c.Commits, wantCommits[i])
		}
		if c.Conventional != wantConventional[i] {
			t.Errorf("cycle %d conventional = %d, want %d", i, c.Conventional, wantConventional[i])
		}
		if !c.End.Equal(c.Start.Add(7 * 24 * time.Hour)) {
			t.Errorf("cycle %d is not 7 days long", i)
		}
	}

	latest := trend.Cycles[2]
	if !reflect.DeepEqual(latest.Issues, []int{3, 4}) {
		t.Errorf("latest cycle issues = %v, want [3 4]", latest.Issues)
	}
	if latest.Breaking != 1 {
		t.Errorf("latest cycle breaking = %d, want 1", latest.Breaking)
	}
	if latest.ByType[TypeFeat] != 2 {
		t.Errorf("latest cycle feat count = %d, want 2", latest.ByType[TypeFeat])
	}
	if latest.ByAuthor["dev"] != 3 {
		t.Errorf("latest cycle author count = %d, want 3", latest.ByAuthor["dev"])
	}

	// Latest cycle has 3 commits against a preceding mean of 1.5.
	if trend.Direction != DirectionImproving {
		t.Errorf("direction = %v, want improving", trend.Direction)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	commits := []Classified{
		commitAt(now, 16, "feat: alpha #1"),
		commitAt(now, 10, "fix: beta #2"),
		commitAt(now, 3, "feat: gamma #3"),
	}
	reversed := []Classified{commits[2], commits[1], commits[0]}

	a := Aggregate(commits, now, 3, 7, 0.10)
	b := Aggregate(reversed, now, 3, 7, 0.10)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("aggregate depends on input order")
	}
}

func TestDirection(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	build := func(counts []int) []Classified {
		var out []Classified
		n := len(counts)
		for i, count := range counts {
			daysAgo := (n - 1 - i) * 7
			for j := 0; j < count; j++ {
				out = append(out, commitAt(now, daysAgo+1, fmt.Sprintf("feat: c%d-%d", i, j)))
			}
		}
		return out
	}

	tests := []struct {
		name   string
		counts []int
		want   Direction
	}{
		{"improving", []int{10, 10, 16}, DirectionImproving},
		{"declining", []int{10, 10, 4}, DirectionDeclining},
		{"stable", []int{10, 10, 10}, DirectionStable},
		{"within dead band", []int{10, 10, 11}, DirectionStable},
		{"from nothing to something", []int{0, 0, 3}, DirectionImproving},
		{"nothing at all", []int{0, 0, 0}, DirectionStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := Aggregate(build(tt.counts), now, len(tt.counts), 7, 0.10)
			if trend.Direction != tt.want {
				t.Errorf("direction = %v, want %v", trend.Direction, tt.want)
			}
		})
	}
}

func TestCycleNames(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	weekly := Aggregate(nil, now, 2, 7, 0.10)
	for _, c := range weekly.Cycles {
		_, week := c.Start.ISOWeek()
		want := fmt.Sprintf("W%02d", week)
		if c.Name != want {
			t.Errorf("weekly cycle name = %q, want %q", c.Name, want)
		}
	}

	sprints := Aggregate(nil, now, 2, 14, 0.10)
	if sprints.Cycles[0].Name != "Sprint 1" || sprints.Cycles[1].Name != "Sprint 2" {
		t.Errorf("sprint names = %q, %q", sprints.Cycles[0].Name, sprints.Cycles[1].Name)
	}

	other := Aggregate(nil, now, 1, 10, 0.10)
	if other.Cycles[0].Name != "Cycle 1" {
		t.Errorf("cycle name = %q, want Cycle 1", other.Cycles[0].Name)
	}
}

func TestIssuesPerWeek(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	classified := []Classified{
		commitAt(now, 10, "fix: a #1"),
		commitAt(now, 3, "fix: b #2"),
		commitAt(now, 2, "fix: c #3"),
	}
	trend := Aggregate(classified, now, 2, 7, 0.10)

	// 3 distinct issues over 2 weeks.
	if got := trend.IssuesPerWeek(); got != 1.5 {
		t.Errorf("IssuesPerWeek() = %v, want 1.5", got)
	}

	var empty Trend
	if got := empty.IssuesPerWeek(); got != 0 {
		t.Errorf("empty trend IssuesPerWeek() = %v, want 0", got)
	}
}

func TestAggregateDegenerate(t *testing.T) {
	now := time.Now()
	if got := Aggregate(nil, now, 0, 7, 0.10); len(got.Cycles) != 0 || got.Direction != DirectionStable {
		t.Errorf("zero cycles: %+v", got)
	}
	if got := Aggregate(nil, now, 3, 0, 0.10); len(got.Cycles) != 0 || got.Direction != DirectionStable {
		t.Errorf("zero length: %+v", got)
	}
}
