package store

import (
	"context"
	"fmt"

	"github.com/harrison/rash/internal/iterutil"
	"github.com/harrison/rash/internal/model"
)

// SearchCommandRecordWithContext implements the context-window modifier of
// spec.md §4.2: it disables uniqueness, removes the inner LIMIT, forces
// ordering by (session_start_time, start_time) or start_time alone, tags
// every row with a boolean `condition` column via
// sqlbuilder.MoveWhereClauseToColumn, and then applies a windowed
// before/after predicate over the drained, ordered stream before slicing
// to the caller's requested limit.
func (s *Store) SearchCommandRecordWithContext(ctx context.Context, opts *model.SearchOptions) (iterutil.Cursor[Row], error) {
	before, after := opts.BeforeContext, opts.AfterContext
	if opts.Context > 0 {
		before, after = opts.Context, opts.Context
	}

	inner := *opts
	inner.Unique = false
	inner.Limit = -1
	if opts.ContextType == model.ContextTypeSession {
		inner.SortBy = []string{"session_start_time", "start_time"}
	} else {
		inner.SortBy = []string{"start_time"}
	}

	b := buildQuery(&inner)
	b.MoveWhereClauseToColumn("condition")

	sqlText, params, keys := b.Compile()
	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("search_command_record (context): %w", err)
	}

	all, err := iterutil.Drain[Row](newRowsCursor(rows, keys))
	if err != nil {
		return nil, err
	}

	if !opts.Reverse {
		before, after = iterutil.SwapBeforeAfter(before, after)
	}
	windowed := iterutil.Window(all, isMatchRow, before, after)

	if opts.Limit >= 0 && len(windowed) > opts.Limit {
		windowed = windowed[:opts.Limit]
	}
	return iterutil.NewSliceCursor(windowed), nil
}

func isMatchRow(r Row) bool {
	switch v := r["condition"].(type) {
	case int64:
		return v != 0
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return false
	}
}
