package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/alias"
	"github.com/harrison/rash/internal/iterutil"
	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/render"
	"github.com/harrison/rash/internal/store"
	"github.com/harrison/rash/internal/timeutil"
)

// searchFlags holds every `rash search` flag (spec.md §6's full filter
// vocabulary) before it is translated into a *model.SearchOptions.
type searchFlags struct {
	matchPattern, includePattern, excludePattern     []string
	matchRegexp, includeRegexp, excludeRegexp        []string
	cwd, cwdGlob, cwdUnder                           []string
	timeAfter, timeBefore                            string
	durationLongerThan, durationLessThan             string
	includeExitCode, excludeExitCode                 []int
	includeSessionHistoryID, excludeSessionHistoryID []int64
	matchEnviron, includeEnviron, excludeEnviron     []string
	matchEnvironRegexp, includeEnvironRegexp         []string
	excludeEnvironRegexp                             []string
	sortBy                                           []string
	reverse, noUnique, ignoreCase                     bool
	sortByCwdDistance                                string
	additionalColumns                                []string
	context, beforeContext, afterContext             int
	contextType                                      string
	format                                           string
	withCommandID, withSessionID                     bool
	output                                           string
	limit                                             int
}

// NewSearchCommand implements `rash search` (spec.md §6).
func NewSearchCommand(paths *rashhome.Paths) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recorded shell history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.toSearchOptions()
			if err != nil {
				return err
			}

			opts, err = alias.Chain(opts, alias.SortKeyAdapter)
			if err != nil {
				return err
			}

			db, err := store.Open(paths.DB())
			if err != nil {
				return fmt.Errorf("search: open store: %w", err)
			}
			defer db.Close()

			var cursor iterutil.Cursor[store.Row]
			if opts.HasContext() {
				cursor, err = db.SearchCommandRecordWithContext(cmd.Context(), opts)
			} else {
				cursor, err = db.SearchCommandRecord(cmd.Context(), opts)
			}
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			rows, err := iterutil.Drain(cursor)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			rendered := make([]map[string]any, len(rows))
			for i, r := range rows {
				rendered[i] = map[string]any(r)
			}
			return render.WriteResults(cmd.OutOrStdout(), rendered, f.resolvedFormat(), f.output)
		},
	}

	f.bindFlags(cmd)
	return cmd
}

func (f *searchFlags) bindFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVar(&f.matchPattern, "match", nil, "AND GLOB match on command")
	fl.StringArrayVar(&f.includePattern, "include", nil, "OR GLOB include on command")
	fl.StringArrayVar(&f.excludePattern, "exclude", nil, "AND NOT GLOB exclude on command")
	fl.StringArrayVar(&f.matchRegexp, "match-regexp", nil, "AND regexp match on command")
	fl.StringArrayVar(&f.includeRegexp, "include-regexp", nil, "OR regexp include on command")
	fl.StringArrayVar(&f.excludeRegexp, "exclude-regexp", nil, "AND NOT regexp exclude on command")
	fl.StringArrayVar(&f.cwd, "cwd", nil, "exact cwd match")
	fl.StringArrayVar(&f.cwdGlob, "cwd-glob", nil, "GLOB cwd match")
	fl.StringArrayVar(&f.cwdUnder, "cwd-under", nil, "cwd under this directory")
	fl.StringVar(&f.timeAfter, "time-after", "", "lower time bound, e.g. RFC3339, \"2024-01-15\", \"1 hour ago\", \"now\"")
	fl.StringVar(&f.timeBefore, "time-before", "", "upper time bound, same forms as --time-after")
	fl.StringVar(&f.durationLongerThan, "duration-longer-than", "", "minimum duration, e.g. \"90s\", \"2 minutes\"")
	fl.StringVar(&f.durationLessThan, "duration-less-than", "", "maximum duration, same forms as --duration-longer-than")
	fl.IntSliceVar(&f.includeExitCode, "include-exit-code", nil, "OR include exit code")
	fl.IntSliceVar(&f.excludeExitCode, "exclude-exit-code", nil, "AND NOT exclude exit code")
	fl.Int64SliceVar(&f.includeSessionHistoryID, "include-session-history-id", nil, "OR include session id")
	fl.Int64SliceVar(&f.excludeSessionHistoryID, "exclude-session-history-id", nil, "AND NOT exclude session id")
	fl.StringArrayVar(&f.matchEnviron, "match-environ-pattern", nil, "NAME=VALUE_GLOB, AND match")
	fl.StringArrayVar(&f.includeEnviron, "include-environ-pattern", nil, "NAME=VALUE_GLOB, OR include")
	fl.StringArrayVar(&f.excludeEnviron, "exclude-environ-pattern", nil, "NAME=VALUE_GLOB, AND NOT exclude")
	fl.StringArrayVar(&f.matchEnvironRegexp, "match-environ-regexp", nil, "NAME=VALUE_REGEXP, AND match")
	fl.StringArrayVar(&f.includeEnvironRegexp, "include-environ-regexp", nil, "NAME=VALUE_REGEXP, OR include")
	fl.StringArrayVar(&f.excludeEnvironRegexp, "exclude-environ-regexp", nil, "NAME=VALUE_REGEXP, AND NOT exclude")
	fl.StringArrayVar(&f.sortBy, "sort-by", nil, "sort key, may repeat")
	fl.BoolVar(&f.reverse, "reverse", false, "reverse sort order")
	fl.BoolVar(&f.noUnique, "no-unique", false, "disable uniquify-by-command")
	fl.BoolVar(&f.ignoreCase, "ignore-case", false, "case-insensitive matching")
	fl.StringVar(&f.sortByCwdDistance, "sort-by-cwd-distance", "", "sort by PATHDIST to this directory")
	fl.StringArrayVarP(&f.additionalColumns, "additional-column", "f", nil, "extra enrichment column, may repeat")
	fl.IntVar(&f.context, "context", 0, "symmetric context window")
	fl.IntVar(&f.beforeContext, "before-context", 0, "rows before each match")
	fl.IntVar(&f.afterContext, "after-context", 0, "rows after each match")
	fl.StringVar(&f.contextType, "context-type", "time", "time or session")
	fl.StringVar(&f.format, "format", "", "Go text/template row format")
	fl.BoolVar(&f.withCommandID, "with-command-id", false, "include command_history.id")
	fl.BoolVar(&f.withSessionID, "with-session-id", false, "include session_history.id")
	fl.StringVar(&f.output, "output", "", "write results to this path instead of stdout")
	fl.IntVar(&f.limit, "limit", 0, "maximum rows, 0 means unlimited")
}

func (f *searchFlags) toSearchOptions() (*model.SearchOptions, error) {
	opts := model.DefaultSearchOptions()

	opts.MatchPattern = f.matchPattern
	opts.IncludePattern = f.includePattern
	opts.ExcludePattern = f.excludePattern
	opts.MatchRegexp = f.matchRegexp
	opts.IncludeRegexp = f.includeRegexp
	opts.ExcludeRegexp = f.excludeRegexp
	opts.Cwd = f.cwd
	opts.CwdGlob = f.cwdGlob
	opts.CwdUnder = f.cwdUnder
	opts.IncludeExitCode = f.includeExitCode
	opts.ExcludeExitCode = f.excludeExitCode
	opts.IncludeSessionHistoryID = f.includeSessionHistoryID
	opts.ExcludeSessionHistoryID = f.excludeSessionHistoryID
	opts.SortByCwdDistance = f.sortByCwdDistance
	opts.AdditionalColumns = f.additionalColumns
	opts.Context = f.context
	opts.BeforeContext = f.beforeContext
	opts.AfterContext = f.afterContext
	opts.Reverse = f.reverse
	opts.Unique = !f.noUnique
	opts.IgnoreCase = f.ignoreCase
	opts.Limit = -1
	if f.limit > 0 {
		opts.Limit = f.limit
	}

	if len(f.sortBy) > 0 {
		opts.SortBy = f.sortBy
	}

	switch f.contextType {
	case "", "time":
		opts.ContextType = model.ContextTypeTime
	case "session":
		opts.ContextType = model.ContextTypeSession
	default:
		return nil, fmt.Errorf("search: unknown --context-type %q (want time or session)", f.contextType)
	}

	var err error
	if opts.TimeAfter, err = parseTimeFlag(f.timeAfter); err != nil {
		return nil, fmt.Errorf("search: --time-after: %w", err)
	}
	if opts.TimeBefore, err = parseTimeFlag(f.timeBefore); err != nil {
		return nil, fmt.Errorf("search: --time-before: %w", err)
	}
	if opts.DurationLongerThan, err = parseDurationFlag(f.durationLongerThan); err != nil {
		return nil, fmt.Errorf("search: --duration-longer-than: %w", err)
	}
	if opts.DurationLessThan, err = parseDurationFlag(f.durationLessThan); err != nil {
		return nil, fmt.Errorf("search: --duration-less-than: %w", err)
	}

	if opts.MatchEnvironPattern, err = parseEnvironFlags(f.matchEnviron); err != nil {
		return nil, fmt.Errorf("search: --match-environ-pattern: %w", err)
	}
	if opts.IncludeEnvironPattern, err = parseEnvironFlags(f.includeEnviron); err != nil {
		return nil, fmt.Errorf("search: --include-environ-pattern: %w", err)
	}
	if opts.ExcludeEnvironPattern, err = parseEnvironFlags(f.excludeEnviron); err != nil {
		return nil, fmt.Errorf("search: --exclude-environ-pattern: %w", err)
	}
	if opts.MatchEnvironRegexp, err = parseEnvironFlags(f.matchEnvironRegexp); err != nil {
		return nil, fmt.Errorf("search: --match-environ-regexp: %w", err)
	}
	if opts.IncludeEnvironRegexp, err = parseEnvironFlags(f.includeEnvironRegexp); err != nil {
		return nil, fmt.Errorf("search: --include-environ-regexp: %w", err)
	}
	if opts.ExcludeEnvironRegexp, err = parseEnvironFlags(f.excludeEnvironRegexp); err != nil {
		return nil, fmt.Errorf("search: --exclude-environ-regexp: %w", err)
	}

	return opts, nil
}

// resolvedFormat prepends the requested id column(s) to the default
// row template when the caller asked for --with-command-id/--with-session-id
// without supplying an explicit --format. command_history.id and
// session_id are already present on every row regardless (store/search.go's
// base column list); these flags only affect what the default formatter
// prints.
func (f *searchFlags) resolvedFormat() string {
	if f.format != "" {
		return f.format
	}
	if !f.withCommandID && !f.withSessionID {
		return ""
	}
	prefix := ""
	if f.withCommandID {
		prefix += "{{.id}}\t"
	}
	if f.withSessionID {
		prefix += "{{.session_id}}\t"
	}
	return prefix + render.DefaultFormat
}

// parseTimeFlag accepts anything timeutil.ParseTime understands: RFC3339,
// a handful of date layouts, "now", "<duration> ago", or a bare duration
// (original_source's parsedatetime-backed time_after/time_before).
func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := timeutil.ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDurationFlag accepts anything timeutil.ParseDuration understands
// (original_source's parsedatetime-backed duration_longer_than/
// duration_less_than), returning seconds to match the store's
// julianday-based duration comparison.
func parseDurationFlag(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	secs, err := timeutil.DurationSeconds(s)
	if err != nil {
		return nil, err
	}
	return &secs, nil
}

// parseEnvironFlags parses "NAME=VALUE_PATTERN" flag values into
// model.EnvironPattern pairs (spec.md §4.2's two-argument environment
// matcher family). A query-parse failure here is not fatal per spec.md
// §7 ("leave raw value; query may return empty"): a malformed pair is
// treated as matching the literal name with an empty-string pattern
// rather than aborting the whole search.
func parseEnvironFlags(pairs []string) ([]model.EnvironPattern, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make([]model.EnvironPattern, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			out = append(out, model.EnvironPattern{Name: p, Value: ""})
			continue
		}
		out = append(out, model.EnvironPattern{Name: name, Value: value})
	}
	return out, nil
}
