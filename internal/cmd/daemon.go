package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/daemonize"
	"github.com/harrison/rash/internal/indexer"
	"github.com/harrison/rash/internal/logger"
	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/store"
)

// NewDaemonCommand implements `rash daemon` (spec.md §6), running the
// watcher daemon in the foreground of this process (the detached spawn
// used by `init` is handled separately by internal/daemonize.Launch).
func NewDaemonCommand(paths *rashhome.Paths) *cobra.Command {
	var (
		noError        bool
		restart        bool
		recordPath     string
		keepJSON       bool
		checkDuplicate bool
		usePolling     bool
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Watch the record directory and ingest new files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}

			if recordPath == "" {
				recordPath = paths.RecordDir()
			}

			db, err := store.Open(paths.DB())
			if err != nil {
				return fmt.Errorf("daemon: open store: %w", err)
			}
			defer db.Close()

			log := logger.NewBufferedLogger(level)
			idx := indexer.New(db, log, keepJSON, checkDuplicate)
			d := daemonize.New(daemonize.Options{
				RecordDir:      recordPath,
				PIDPath:        paths.DaemonPID(),
				LogPath:        paths.DaemonLog(),
				IngestLockPath: paths.IngestLock(),
				LogLevel:       level,
				Restart:        restart,
				NoError:        noError,
				UsePolling:     usePolling,
			}, idx, log)

			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&noError, "no-error", false, "exit quietly if a daemon is already running")
	cmd.Flags().BoolVar(&restart, "restart", false, "terminate an existing daemon before starting")
	cmd.Flags().StringVar(&recordPath, "record-path", "", "directory containing command/init/exit record subtrees")
	cmd.Flags().BoolVar(&keepJSON, "keep-json", false, "do not remove record files after import")
	cmd.Flags().BoolVar(&checkDuplicate, "check-duplicate", false, "check for a matching row before inserting")
	cmd.Flags().BoolVar(&usePolling, "use-polling", false, "poll the record directory instead of using fsnotify")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "critical, error, warning, info, or debug")

	return cmd
}
