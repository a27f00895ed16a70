package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/store"
)

// NewVersionCommand prints the rash binary version and the schema version
// it was built against (spec.md §6 `version`).
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rash and schema versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rash %s (schema %s)\n", store.RashVersion, store.SchemaVersion)
			return nil
		},
	}
}
