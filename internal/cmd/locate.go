package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/rashhome"
)

// NewLocateCommand implements `rash locate TARGET` (spec.md §6), printing
// the path of one well-known file.
func NewLocateCommand(paths *rashhome.Paths) *cobra.Command {
	return &cobra.Command{
		Use:   "locate {base|config|db|daemon_pid|daemon_log}",
		Short: "Print the path of a well-known rash file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := paths.Locate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
