package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/display"
	"github.com/harrison/rash/internal/filelock"
	"github.com/harrison/rash/internal/indexer"
	"github.com/harrison/rash/internal/logger"
	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/store"
)

// NewIndexCommand implements `rash index` (spec.md §6): a one-shot
// equivalent of the daemon's initial sweep, guarded by the same advisory
// ingest lock (SPEC_FULL.md §5) the daemon's sweep uses.
func NewIndexCommand(paths *rashhome.Paths) *cobra.Command {
	var (
		keepJSON       bool
		checkDuplicate bool
	)

	cmd := &cobra.Command{
		Use:   "index [RECORD_PATH]",
		Short: "Ingest record files once and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordPath := paths.RecordDir()
			if len(args) == 1 {
				recordPath = args[0]
			}

			db, err := store.Open(paths.DB())
			if err != nil {
				return fmt.Errorf("index: open store: %w", err)
			}
			defer db.Close()

			console := logger.NewConsole(cmd.OutOrStdout())
			idx := indexer.New(db, logger.NewBufferedLogger(logger.LevelInfo), keepJSON, checkDuplicate)

			total, err := indexer.CountPending(recordPath)
			if err != nil {
				return fmt.Errorf("index: count %s: %w", recordPath, err)
			}
			idx.SetProgress(display.NewImportProgress(cmd.OutOrStdout(), total))
			idx.SetWarningSink(func(w display.RecordWarning) {
				w.Display(cmd.ErrOrStderr())
			})

			err = filelock.WithIngestLock(paths.IngestLock(), func() error {
				return idx.Sweep(cmd.Context(), recordPath)
			})
			if err != nil {
				return fmt.Errorf("index: sweep %s: %w", recordPath, err)
			}
			console.Success("indexed %s", recordPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepJSON, "keep-json", false, "do not remove record files after import")
	cmd.Flags().BoolVar(&checkDuplicate, "check-duplicate", false, "check for a matching row before inserting")

	return cmd
}
