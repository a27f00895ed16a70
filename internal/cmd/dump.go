package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/iterutil"
	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/store"
)

// dumpRecord is the JSON shape printed by `rash dump`, mirroring the
// normalized CommandRecord fields the indexer builds from a record file.
type dumpRecord struct {
	ID         int64             `json:"id"`
	Command    string            `json:"command"`
	Cwd        string            `json:"cwd"`
	Terminal   string            `json:"terminal"`
	SessionID  string            `json:"session_id"`
	Start      *int64            `json:"start"`
	Stop       *int64            `json:"stop"`
	ExitCode   *int              `json:"exit_code"`
	PipeStatus []int             `json:"pipestatus"`
	Environ    map[string]string `json:"environ"`
}

// NewDumpCommand implements `rash dump --id ID` / `rash dump --all`
// (SPEC_FULL.md §6, restoring original_source/rash/dump.py): prints the
// raw normalized CommandRecord as indented JSON, one object per id.
func NewDumpCommand(paths *rashhome.Paths) *cobra.Command {
	var (
		id  int64
		all bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the raw normalized record for a command id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (id != 0) {
				return fmt.Errorf("dump: specify exactly one of --id or --all")
			}

			db, err := store.Open(paths.DB())
			if err != nil {
				return fmt.Errorf("dump: open store: %w", err)
			}
			defer db.Close()

			var ids []int64
			if all {
				ids, err = allCommandIDs(cmd.Context(), db)
				if err != nil {
					return fmt.Errorf("dump: %w", err)
				}
			} else {
				ids = []int64{id}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, i := range ids {
				rec, err := db.GetFullCommandRecord(cmd.Context(), i, false)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						fmt.Fprintf(cmd.ErrOrStderr(), "dump: no such command id %d\n", i)
						continue
					}
					return fmt.Errorf("dump: %w", err)
				}
				if err := enc.Encode(toDumpRecord(rec)); err != nil {
					return fmt.Errorf("dump: encode command %d: %w", i, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "dump a single command id")
	cmd.Flags().BoolVar(&all, "all", false, "dump every command record")

	return cmd
}

func toDumpRecord(rec *model.FullCommandRecord) dumpRecord {
	var start, stop *int64
	if rec.StartTime != nil {
		s := rec.StartTime.Unix()
		start = &s
	}
	if rec.StopTime != nil {
		s := rec.StopTime.Unix()
		stop = &s
	}
	return dumpRecord{
		ID:         rec.ID,
		Command:    rec.Command,
		Cwd:        rec.Cwd,
		Terminal:   rec.Terminal,
		SessionID:  rec.SessionLongID,
		Start:      start,
		Stop:       stop,
		ExitCode:   rec.ExitCode,
		PipeStatus: rec.PipeStatus,
		Environ:    rec.Environ,
	}
}

// allCommandIDs lists every command id, newest start time first, using the
// ordinary search path with no filters or uniqueness applied.
func allCommandIDs(ctx context.Context, db *store.Store) ([]int64, error) {
	opts := model.DefaultSearchOptions()
	opts.Unique = false
	opts.SortBy = []string{"start_time"}
	opts.AdditionalColumns = []string{"id"}

	cursor, err := db.SearchCommandRecord(ctx, opts)
	if err != nil {
		return nil, err
	}
	rows, err := iterutil.Drain(cursor)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		v, ok := row["id"]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int64:
			ids = append(ids, n)
		case int:
			ids = append(ids, int64(n))
		}
	}
	return ids, nil
}
