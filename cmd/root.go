package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "GitHub project health analyzer",
		Long: `A CLI tool that analyzes GitHub issues and commits to report on
project health: status flow, milestone risk, velocity, and trends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add health flags to root command so `pulse` and `pulse health` work identically
	addHealthFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdHealth(opts))
	rootCmd.AddCommand(NewCmdVelocity(opts))
	rootCmd.AddCommand(NewCmdSnapshot(opts))
	rootCmd.AddCommand(NewCmdTrend(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
