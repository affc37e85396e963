package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at release time via ldflags.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// SetVersionInfo overrides the build metadata (called from main).
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// versionString renders a single line, with commit and build date appended
// only when a release build set them.
func versionString() string {
	s := "pulse " + version
	if commit != "" {
		s += " (" + commit
		if date != "" {
			s += ", built " + date
		}
		s += ")"
	}
	return s
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}
}
