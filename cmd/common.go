package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hal/pulse/config"
	"github.com/hal/pulse/internal/ghclient"
	"github.com/hal/pulse/internal/log"
	"github.com/hal/pulse/internal/output"
	"github.com/spf13/cobra"
)

// appContext bundles config and the GitHub client for command runs.
type appContext struct {
	cfg    *config.Config
	client *ghclient.Client
}

// setup initializes logging and loads config and the GitHub client.
func setup(ctx context.Context, opts *Options) (*appContext, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(ctx, cfg.GetGitHubToken())
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, client: client}, nil
}

// resolveRepos returns the repositories to analyze. Command-line overrides in
// owner/name form take precedence over the configured list.
func resolveRepos(cfg *config.Config, overrides []string) ([]config.Repository, error) {
	if len(overrides) == 0 {
		if len(cfg.Repositories) == 0 {
			return nil, fmt.Errorf("no repositories configured. Add them to your config file or pass --repo owner/name")
		}
		return cfg.Repositories, nil
	}

	repos := make([]config.Repository, 0, len(overrides))
	for _, o := range overrides {
		owner, name, ok := strings.Cut(o, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("invalid repository %q (expected owner/name)", o)
		}
		repos = append(repos, config.Repository{Owner: owner, Name: name})
	}
	return repos, nil
}

// resolveFormatter picks the output formatter from flags, falling back to
// the configured default.
func resolveFormatter(opts *Options, cfg *config.Config) output.Formatter {
	format := output.Format(opts.Format)
	if format == "" {
		format = output.Format(cfg.DefaultFormat)
	}
	return output.NewFormatter(format)
}

// logFetchErrors reports per-repository fetch failures without aborting.
func logFetchErrors(errs map[string]error) {
	for repo, err := range errs {
		log.Warn("fetch failed", "repo", repo, "error", err)
	}
}

// addCommonFlags adds flags shared by every data-fetching command.
func addCommonFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Repository to analyze as owner/name (repeatable, overrides config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max items fetched per repository (0 = no limit)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}
