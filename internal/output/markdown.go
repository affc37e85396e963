package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/health"
	"github.com/hal/pulse/internal/snapshot"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// FormatHealth outputs a health report as Markdown
func (f *MarkdownFormatter) FormatHealth(r health.Report, w io.Writer) error {
	fmt.Fprintln(w, "# Project Health Report")
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintln(w, "## Status Distribution")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Stage | Issues |")
	fmt.Fprintln(w, "|-------|--------|")
	for _, stage := range health.Stages {
		fmt.Fprintf(w, "| %s | %d |\n", stage.Display(), r.Distribution.Count(stage))
	}
	fmt.Fprintf(w, "\n**Total:** %d issues, **WIP:** %d\n\n", r.Distribution.Total, r.Flow.WIP)

	if len(r.Flow.Findings) > 0 {
		fmt.Fprintln(w, "## Flow Findings")
		fmt.Fprintln(w)
		for _, finding := range r.Flow.Findings {
			fmt.Fprintf(w, "- **%s** (%s): %s\n", finding.Kind, finding.Severity, findingText(finding))
		}
		fmt.Fprintln(w)
	}

	if len(r.Milestones) > 0 {
		fmt.Fprintln(w, "## Milestones")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Milestone | Progress | Verdict | Needed/wk | Days Left |")
		fmt.Fprintln(w, "|-----------|----------|---------|-----------|-----------|")
		for _, mh := range r.Milestones {
			days := "-"
			if mh.DaysRemaining != nil {
				days = fmt.Sprintf("%d", *mh.DaysRemaining)
			}
			fmt.Fprintf(w, "| %s | %d/%d (%.0f%%) | %s | %.1f | %s |\n",
				mh.Milestone.Title, mh.Milestone.Done, mh.Milestone.Total,
				mh.Progress*100, mh.Verdict, mh.NeededVelocity, days)
		}
		fmt.Fprintln(w)
	}

	if len(r.NextUp) > 0 {
		fmt.Fprintln(w, "## Next Up")
		fmt.Fprintln(w)
		for _, ranked := range r.NextUp {
			fmt.Fprintf(w, "- [#%d](%s) %s (score %d)\n",
				ranked.Issue.Number, ranked.Issue.HTMLURL, ranked.Issue.Title, ranked.Score)
		}
		fmt.Fprintln(w)
	}

	writeFetchErrors(w, r.FetchErrors)
	return nil
}

// FormatVelocity outputs a velocity trend as Markdown
func (f *MarkdownFormatter) FormatVelocity(t commits.Trend, w io.Writer) error {
	fmt.Fprintf(w, "# Velocity Report - Last %d Cycles\n\n", len(t.Cycles))
	fmt.Fprintf(w, "**Trend:** %s\n\n", t.Direction)

	fmt.Fprintln(w, "| Cycle | Commits | Conventional | Issues | Breaking | Contributors |")
	fmt.Fprintln(w, "|-------|---------|--------------|--------|----------|--------------|")
	for _, c := range t.Cycles {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n",
			c.Name, c.Commits, c.Conventional, c.IssueCount(), c.Breaking, len(c.ByAuthor))
	}
	fmt.Fprintln(w)

	if len(t.Cycles) > 0 {
		recent := t.Cycles[len(t.Cycles)-1]
		if len(recent.ByType) > 0 {
			fmt.Fprintf(w, "## Work Distribution (%s)\n\n", recent.Name)
			fmt.Fprintln(w, "| Type | Count |")
			fmt.Fprintln(w, "|------|-------|")
			for _, tc := range sortedTypeCounts(recent.ByType) {
				fmt.Fprintf(w, "| %s | %d |\n", tc.name, tc.count)
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}

// FormatTrend outputs a snapshot delta as Markdown
func (f *MarkdownFormatter) FormatTrend(d snapshot.Delta, w io.Writer) error {
	fmt.Fprintln(w, "# Trend Analysis Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Baseline:** %s\n", d.BaselineAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "**Current:** %s\n\n", d.CurrentAt.Format("2006-01-02 15:04"))

	fmt.Fprintln(w, "## Overall")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- Total issues: %d → %d (%s)\n\n", d.Total.Baseline, d.Total.Current, deltaText(d.Total))

	dims := []struct {
		title   string
		entries []snapshot.Entry
	}{
		{"States", d.States},
		{"Repositories", d.Repositories},
		{"Labels", d.Labels},
		{"Milestones", d.Milestones},
		{"Assignees", d.Assignees},
	}

	for _, dim := range dims {
		if len(dim.entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", dim.title)
		for _, e := range dim.entries {
			marker := ""
			if e.Significant {
				marker = " **(significant)**"
			}
			fmt.Fprintf(w, "- %s: %d → %d (%s)%s\n", e.Key, e.Baseline, e.Current, deltaText(e), marker)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// findingText renders the structured recommendation code into English.
// The analyzer itself emits only codes.
func findingText(finding health.Finding) string {
	switch finding.Recommendation {
	case health.RecommendGrooming:
		return "schedule a grooming session to move backlog issues to Ready"
	case health.RecommendPickUpReadyWork:
		return "pick up groomed Ready work"
	case health.RecommendPrioritizeReview:
		return "prioritize reviewing pending work"
	case health.RecommendFinishBeforeStart:
		return "focus on finishing before starting new work"
	default:
		return string(finding.Recommendation)
	}
}

func deltaText(e snapshot.Entry) string {
	if e.New {
		return "new"
	}
	return fmt.Sprintf("%+d, %+.0f%%", e.Delta, e.Pct*100)
}

func writeFetchErrors(w io.Writer, errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, "## Fetch Errors")
	fmt.Fprintln(w)
	repos := make([]string, 0, len(errs))
	for repo := range errs {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	for _, repo := range repos {
		fmt.Fprintf(w, "- %s: %s\n", repo, errs[repo])
	}
	fmt.Fprintln(w)
}

type typeCount struct {
	name  string
	count int
}

func sortedTypeCounts(byType map[commits.Type]int) []typeCount {
	out := make([]typeCount, 0, len(byType))
	for t, n := range byType {
		out = append(out, typeCount{string(t), n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}
