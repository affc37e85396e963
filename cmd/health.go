package cmd

import (
	"context"
	"os"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/duration"
	"github.com/hal/pulse/internal/health"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/service"
	"github.com/spf13/cobra"
)

// NewCmdHealth creates the health command.
func NewCmdHealth(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Analyze project health (same as bare pulse)",
		Long: `Fetches open and closed issues from the configured repositories and
reports status distribution, flow findings, milestone risk, and a
ranked list of what to work on next.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd, opts)
		},
	}

	addHealthFlags(cmd, opts)
	return cmd
}

// addHealthFlags adds the health-specific flags to a command.
func addHealthFlags(cmd *cobra.Command, opts *Options) {
	addCommonFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.Measured, "measured", false, "Derive current velocity from recent commit history instead of the configured default")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "6w", "Commit window for measured velocity (e.g., 6w, 90d)")
}

func runHealth(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	app, err := setup(ctx, opts)
	if err != nil {
		return err
	}

	repos, err := resolveRepos(app.cfg, opts.Repos)
	if err != nil {
		return err
	}

	th := app.cfg.GetThresholds()
	now := time.Now()

	log.Info("fetching issues", "repos", len(repos))
	result, err := service.FetchIssues(ctx, app.client, repos, "all", opts.Limit)
	if err != nil {
		return err
	}
	logFetchErrors(result.Errors)

	velocity := th.DefaultVelocity
	if opts.Measured {
		if measured, err := measuredVelocity(ctx, app, repos, opts, now); err != nil {
			log.Warn("could not measure velocity, using default", "error", err)
		} else if measured > 0 {
			velocity = measured
			log.Info("measured velocity", "issuesPerWeek", measured)
		}
	}

	report := health.Analyze(result.Issues, velocity, now, th, app.cfg.GetPriorityLabels())
	if len(result.Errors) > 0 {
		report.FetchErrors = make(map[string]string, len(result.Errors))
		for repo, ferr := range result.Errors {
			report.FetchErrors[repo] = ferr.Error()
		}
	}

	formatter := resolveFormatter(opts, app.cfg)
	return formatter.FormatHealth(report, os.Stdout)
}

// measuredVelocity estimates issues/week from recent commit history.
func measuredVelocity(ctx context.Context, app *appContext, repos []config.Repository, opts *Options, now time.Time) (float64, error) {
	since, err := duration.Since(opts.Since)
	if err != nil {
		return 0, err
	}

	result, err := service.FetchCommits(ctx, app.client, repos, since, now, opts.Limit)
	if err != nil {
		return 0, err
	}
	logFetchErrors(result.Errors)

	classified := commits.ClassifyAll(result.Commits)
	th := app.cfg.GetThresholds()

	// Weekly cycles spanning the fetch window.
	cycles := int(now.Sub(since).Hours()/(24*7)) + 1
	trend := commits.Aggregate(classified, now, cycles, 7, th.VelocityBand)
	return trend.IssuesPerWeek(), nil
}
