// Package cmd wires rash's cobra command tree, grounded on the teacher's
// internal/cmd package (one constructor function per sub-command, RunE
// closures, cmd.OutOrStdout() for testable output). Unlike the teacher's
// package-level config.SetBuildTimeRepoRoot singleton, every sub-command
// constructor here receives an explicit *rashhome.Paths handle (spec.md
// §9's "replace the global configuration singleton with dependency
// injection").
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/rashhome"
)

// Version is injected at build time via -ldflags, mirroring the teacher's
// own Version var.
var Version = "dev"

// NewRootCommand builds the full rash command tree. paths is resolved once
// by main and threaded through every sub-command, replacing the
// process-wide configuration singleton spec.md §9 flags for removal.
func NewRootCommand(paths *rashhome.Paths) *cobra.Command {
	root := &cobra.Command{
		Use:     "rash",
		Short:   "Augmented shell history recorder and searcher",
		Long:    "rash records every shell command you run, alongside its working\ndirectory, exit status, timing and environment, then lets you search\nthat history with a rich filter and context grammar.",
		Version: Version,

		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		NewInitCommand(paths),
		NewRecordCommand(paths),
		NewDaemonCommand(paths),
		NewIndexCommand(paths),
		NewSearchCommand(paths),
		NewShowCommand(paths),
		NewDumpCommand(paths),
		NewISearchCommand(paths),
		NewLocateCommand(paths),
		NewVersionCommand(),
	)
	return root
}
