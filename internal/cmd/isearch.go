package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/rashhome"
)

// NewISearchCommand implements the `isearch` boundary contract (spec.md
// §1/§6). The incremental TUI presentation layer itself (keystroke loop,
// coloring) is an explicit Non-goal; this sub-command exists only so the
// CLI surface documents the handoff point, delegating actual interactive
// search to an external collaborator that drives `rash search` directly.
func NewISearchCommand(paths *rashhome.Paths) *cobra.Command {
	return &cobra.Command{
		Use:   "isearch",
		Short: "Interactive incremental search (external front-end)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("isearch: interactive search is provided by an external front-end; use 'rash search' for scripted queries")
		},
	}
}
