package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/hal/pulse/internal/commits"
	"github.com/hal/pulse/internal/duration"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/service"
	"github.com/spf13/cobra"
)

// NewCmdVelocity creates the velocity command.
func NewCmdVelocity(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "velocity",
		Short: "Analyze delivery velocity from commit history",
		Long: `Fetches commits from the configured repositories, classifies them by
conventional commit type, and aggregates them into cycles to show how
delivery velocity is trending.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVelocity(cmd, opts)
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.Cycles, "cycles", 4, "Number of cycles to analyze")
	cmd.Flags().IntVar(&opts.CycleLength, "cycle-length", 7, "Cycle length in days (7 = weekly, 14 = sprints)")
	return cmd
}

func runVelocity(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	if opts.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1")
	}
	if opts.CycleLength < 1 {
		return fmt.Errorf("cycle length must be at least 1 day")
	}

	app, err := setup(ctx, opts)
	if err != nil {
		return err
	}

	repos, err := resolveRepos(app.cfg, opts.Repos)
	if err != nil {
		return err
	}

	now := time.Now()
	window := fmt.Sprintf("%dd", opts.Cycles*opts.CycleLength)
	since, err := duration.Since(window)
	if err != nil {
		return err
	}

	log.Info("fetching commits", "repos", len(repos), "window", window)
	result, err := service.FetchCommits(ctx, app.client, repos, since, now, opts.Limit)
	if err != nil {
		return err
	}
	logFetchErrors(result.Errors)

	classified := commits.ClassifyAll(result.Commits)
	th := app.cfg.GetThresholds()
	trend := commits.Aggregate(classified, now, opts.Cycles, opts.CycleLength, th.VelocityBand)

	formatter := resolveFormatter(opts, app.cfg)
	return formatter.FormatVelocity(trend, os.Stdout)
}
