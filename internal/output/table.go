package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/health"
	"github.com/hal/pulse/internal/snapshot"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible width of a string in terminal columns
// accounting for wide characters and stripping ANSI escape sequences
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// truncateToWidth truncates a string to fit within maxWidth display columns
func truncateToWidth(s string, maxWidth int) (string, int) {
	plain := stripAnsi(s)
	width := runewidth.StringWidth(plain)
	if width <= maxWidth {
		return s, width
	}

	cutWidth := 0
	cutIndex := 0
	for i, r := range plain {
		rw := runewidth.RuneWidth(r)
		if cutWidth+rw > maxWidth-3 { // Leave room for "..."
			cutIndex = i
			break
		}
		cutWidth += rw
	}

	if cutIndex > 0 && cutIndex < len(plain) {
		return plain[:cutIndex] + "...", maxWidth
	}
	return plain[:maxWidth-3] + "...", maxWidth
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// FormatHealth outputs a health report as a terminal table
func (f *TableFormatter) FormatHealth(r health.Report, w io.Writer) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Project Health"))
	fmt.Fprintf(w, "Generated %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))

	// Distribution with proportional bars
	maxCount := 0
	for _, stage := range health.Stages {
		if c := r.Distribution.Count(stage); c > maxCount {
			maxCount = c
		}
	}
	const barWidth = 30
	for _, stage := range health.Stages {
		count := r.Distribution.Count(stage)
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", count*barWidth/maxCount)
		}
		fmt.Fprintf(w, "  %-12s %4d  %s\n", stage.Display(), count, colorStage(stage, bar))
	}
	fmt.Fprintf(w, "\n  Total: %d issues | WIP: %d\n", r.Distribution.Total, r.Flow.WIP)

	if len(r.Flow.Findings) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Flow Findings"))
		for _, finding := range r.Flow.Findings {
			fmt.Fprintf(w, "  %s %s: %s\n",
				colorSeverity(finding.Severity), finding.Kind, findingText(finding))
		}
	}

	if len(r.Milestones) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Milestones"))
		const (
			colTitle    = 28
			colProgress = 14
			colVerdict  = 12
		)
		fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %-10s  %s\n",
			colTitle, "Milestone", colProgress, "Progress", colVerdict, "Verdict", "Needed/wk", "Days Left")
		fmt.Fprintln(w, "  "+strings.Repeat("-", colTitle+colProgress+colVerdict+30))
		for _, mh := range r.Milestones {
			title, _ := truncateToWidth(mh.Milestone.Title, colTitle)
			progress := fmt.Sprintf("%d/%d (%.0f%%)", mh.Milestone.Done, mh.Milestone.Total, mh.Progress*100)
			days := "-"
			if mh.DaysRemaining != nil {
				days = fmt.Sprintf("%d", *mh.DaysRemaining)
			}
			verdict := colorVerdict(mh.Verdict)
			fmt.Fprintf(w, "  %s  %-*s  %s  %-10.1f  %s\n",
				padRight(title, displayWidth(title), colTitle),
				colProgress, progress,
				padRight(verdict, len(string(mh.Verdict)), colVerdict),
				mh.NeededVelocity, days)
		}
	}

	if len(r.NextUp) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Next Up"))
		const colIssueTitle = 50
		for i, ranked := range r.NextUp {
			title, visible := truncateToWidth(ranked.Issue.Title, colIssueTitle)
			linked := hyperlink(title, ranked.Issue.HTMLURL)
			fmt.Fprintf(w, "  %d. #%-5d %s  %s\n",
				i+1, ranked.Issue.Number,
				padRight(linked, visible, colIssueTitle),
				color.New(color.Faint).Sprintf("score %d", ranked.Score))
		}
	}

	printFetchErrors(w, r.FetchErrors)
	return nil
}

// FormatVelocity outputs a velocity trend as a terminal table
func (f *TableFormatter) FormatVelocity(t commits.Trend, w io.Writer) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Velocity Trend"))
	fmt.Fprintf(w, "Direction: %s\n\n", colorDirection(t.Direction))

	const colName = 10
	fmt.Fprintf(w, "  %-*s  %8s  %12s  %7s  %8s  %s\n",
		colName, "Cycle", "Commits", "Conventional", "Issues", "Breaking", "Contributors")
	fmt.Fprintln(w, "  "+strings.Repeat("-", colName+58))
	for _, c := range t.Cycles {
		fmt.Fprintf(w, "  %-*s  %8d  %12d  %7d  %8d  %d\n",
			colName, c.Name, c.Commits, c.Conventional, c.IssueCount(), c.Breaking, len(c.ByAuthor))
	}

	if len(t.Cycles) > 0 {
		recent := t.Cycles[len(t.Cycles)-1]
		if len(recent.ByType) > 0 {
			fmt.Fprintf(w, "\n%s (%s)\n", color.New(color.Bold).Sprint("Work Distribution"), recent.Name)
			for _, tc := range sortedTypeCounts(recent.ByType) {
				fmt.Fprintf(w, "  %-10s %d\n", tc.name, tc.count)
			}
		}
	}

	return nil
}

// FormatTrend outputs a snapshot delta as a terminal table
func (f *TableFormatter) FormatTrend(d snapshot.Delta, w io.Writer) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Trend Analysis"))
	fmt.Fprintf(w, "Baseline %s -> Current %s\n\n",
		d.BaselineAt.Format("2006-01-02"), d.CurrentAt.Format("2006-01-02"))

	fmt.Fprintf(w, "  Total issues: %d -> %d (%s)\n", d.Total.Baseline, d.Total.Current, colorDelta(d.Total))

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
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint(dim.title))
		const colKey = 30
		for _, e := range dim.entries {
			key, _ := truncateToWidth(e.Key, colKey)
			marker := ""
			if e.Significant {
				marker = "  " + color.YellowString("▲ significant")
			}
			fmt.Fprintf(w, "  %s  %4d -> %-4d  %s%s\n",
				padRight(key, displayWidth(key), colKey), e.Baseline, e.Current, colorDelta(e), marker)
		}
	}

	return nil
}

func colorStage(stage health.Stage, s string) string {
	switch stage {
	case health.StageInProgress:
		return color.CyanString(s)
	case health.StageInReview:
		return color.YellowString(s)
	case health.StageDone:
		return color.GreenString(s)
	default:
		return s
	}
}

func colorSeverity(s health.Severity) string {
	switch s {
	case health.SeverityHigh:
		return color.RedString("[HIGH]")
	default:
		return color.YellowString("[MEDIUM]")
	}
}

func colorVerdict(v health.Verdict) string {
	switch v {
	case health.VerdictOnTrack, health.VerdictGood:
		return color.GreenString(string(v))
	case health.VerdictAtRisk, health.VerdictNoDeadline:
		return color.YellowString(string(v))
	case health.VerdictBehind, health.VerdictOverdue:
		return color.RedString(string(v))
	default:
		return string(v)
	}
}

func colorDirection(d commits.Direction) string {
	switch d {
	case commits.DirectionImproving:
		return color.GreenString("%s ↑", d)
	case commits.DirectionDeclining:
		return color.RedString("%s ↓", d)
	default:
		return color.CyanString("%s →", d)
	}
}

func colorDelta(e snapshot.Entry) string {
	text := deltaText(e)
	switch {
	case e.New:
		return color.CyanString(text)
	case e.Delta > 0:
		return color.RedString(text)
	case e.Delta < 0:
		return color.GreenString(text)
	default:
		return text
	}
}

func printFetchErrors(w io.Writer, errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", color.RedString("Fetch Errors"))
	repos := make([]string, 0, len(errs))
	for repo := range errs {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	for _, repo := range repos {
		fmt.Fprintf(w, "  %s: %s\n", repo, errs[repo])
	}
}
