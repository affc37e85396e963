package cmd

import (
	"fmt"
	"time"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/service"
	"github.com/hal/pulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// NewCmdSnapshot creates the snapshot command with subcommands.
func NewCmdSnapshot(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a point-in-time snapshot of issue counts",
		Long: `Fetches issues from the configured repositories, aggregates them by
state, repository, label, milestone, and assignee, and saves the
result for later trend comparison.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Repository to analyze as owner/name (repeatable, overrides config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max issues fetched per repository (0 = no limit)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().StringVarP(&opts.Label, "label", "l", "default", "Snapshot label")

	cmd.AddCommand(NewCmdSnapshotList(opts))
	return cmd
}

// NewCmdSnapshotList creates the snapshot list subcommand.
func NewCmdSnapshotList(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No snapshots saved yet. Run 'pulse snapshot' to create one.")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}

func runSnapshot(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	app, err := setup(ctx, opts)
	if err != nil {
		return err
	}

	repos, err := resolveRepos(app.cfg, opts.Repos)
	if err != nil {
		return err
	}

	log.Info("fetching issues", "repos", len(repos))
	result, err := service.FetchIssues(ctx, app.client, repos, "all", opts.Limit)
	if err != nil {
		return err
	}
	logFetchErrors(result.Errors)

	label := opts.Label
	if label == "" {
		label = "default"
	}
	agg := snapshot.Build(result.Issues, time.Now(), label)

	store, err := openStore(app.cfg)
	if err != nil {
		return err
	}
	name, err := store.Save(agg)
	if err != nil {
		return err
	}

	fmt.Printf("Saved snapshot %s (%d issues)\n", name, agg.Total)
	return nil
}

// openStore opens the snapshot store, honoring a configured directory override.
func openStore(cfg *config.Config) (*snapshot.Store, error) {
	if cfg.SnapshotDir != "" {
		return snapshot.NewStoreWithDir(cfg.SnapshotDir)
	}
	return snapshot.NewStore()
}
