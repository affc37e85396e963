package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/service"
	"github.com/hal/pulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// NewCmdTrend creates the trend command.
func NewCmdTrend(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend <baseline> [current]",
		Short: "Compare snapshots to show how issue counts are trending",
		Long: `Compares a baseline snapshot against a second snapshot. When the
second snapshot is omitted, current issue counts are fetched live and
compared against the baseline.

Snapshot names come from 'pulse snapshot list'.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrend(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.Label, "label", "l", "default", "Label for the live comparison aggregate")
	return cmd
}

func runTrend(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()

	app, err := setup(ctx, opts)
	if err != nil {
		return err
	}

	store, err := openStore(app.cfg)
	if err != nil {
		return err
	}

	baseline, err := store.Load(args[0])
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return fmt.Errorf("snapshot %q not found. Run 'pulse snapshot list' to see saved snapshots", args[0])
		}
		return err
	}

	var current snapshot.Aggregate
	if len(args) == 2 {
		current, err = store.Load(args[1])
		if err != nil {
			if errors.Is(err, snapshot.ErrNotFound) {
				return fmt.Errorf("snapshot %q not found. Run 'pulse snapshot list' to see saved snapshots", args[1])
			}
			return err
		}
	} else {
		repos, err := resolveRepos(app.cfg, opts.Repos)
		if err != nil {
			return err
		}
		log.Info("fetching issues for live comparison", "repos", len(repos))
		result, err := service.FetchIssues(ctx, app.client, repos, "all", opts.Limit)
		if err != nil {
			return err
		}
		logFetchErrors(result.Errors)
		current = snapshot.Build(result.Issues, time.Now(), opts.Label)
	}

	th := app.cfg.GetThresholds()
	delta := snapshot.Diff(baseline, current, th.SignificantChange)

	formatter := resolveFormatter(opts, app.cfg)
	return formatter.FormatTrend(delta, os.Stdout)
}
