package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/render"
	"github.com/harrison/rash/internal/store"
)

// NewShowCommand implements `rash show ID...` (spec.md §6): prints the
// fully joined, environment-merged record for each command id.
func NewShowCommand(paths *rashhome.Paths) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show ID...",
		Short: "Show the full record for one or more command ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(paths.DB())
			if err != nil {
				return fmt.Errorf("show: open store: %w", err)
			}
			defer db.Close()

			rows := make([]map[string]any, 0, len(args))
			for _, raw := range args {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("show: invalid command id %q", raw)
				}

				rec, err := db.GetFullCommandRecord(cmd.Context(), id, true)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						fmt.Fprintf(cmd.ErrOrStderr(), "show: no such command id %d\n", id)
						continue
					}
					return fmt.Errorf("show: %w", err)
				}
				rows = append(rows, fullCommandRecordToRow(rec))
			}

			return render.WriteResults(cmd.OutOrStdout(), rows, format, "")
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Go text/template row format")
	return cmd
}

// fullCommandRecordToRow flattens rec into the same plain-value row shape
// the search path returns, dereferencing the nullable pointer fields so
// --format templates see a time.Time/int/nil rather than a pointer.
func fullCommandRecordToRow(rec *model.FullCommandRecord) map[string]any {
	return map[string]any{
		"id":                 rec.ID,
		"command":            rec.Command,
		"cwd":                rec.Cwd,
		"terminal":           rec.Terminal,
		"session_id":         rec.SessionID,
		"session_long_id":    rec.SessionLongID,
		"start_time":         derefTime(rec.StartTime),
		"stop_time":          derefTime(rec.StopTime),
		"exit_code":          derefInt(rec.ExitCode),
		"pipe_status":        rec.PipeStatus,
		"environ":            rec.Environ,
		"session_start_time": derefTime(rec.SessionStartTime),
		"session_stop_time":  derefTime(rec.SessionStopTime),
	}
}

func derefTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
