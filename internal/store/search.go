package store

import (
	"context"
	"fmt"

	"github.com/harrison/rash/internal/iterutil"
	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/pathutil"
	"github.com/harrison/rash/internal/sqlbuilder"
)

// sortSynonyms resolves the sort-key aliases spelled out in spec.md §4.2.
var sortSynonyms = map[string]string{
	"count": "command_count",
	"time":  "start_time",
	"start": "start_time",
	"stop":  "stop_time",
	"code":  "exit_code",
}

func resolveSortKey(key string) string {
	if resolved, ok := sortSynonyms[key]; ok {
		return resolved
	}
	return key
}

var sortExpr = map[string]string{
	"start_time":        "command_history.start_time",
	"stop_time":         "command_history.stop_time",
	"exit_code":         "command_history.exit_code",
	"command_count":     "command_count",
	"success_count":     "success_count",
	"success_ratio":     "success_ratio",
	"program_count":     "program_count",
	"session_start_time": "sh.start_time",
}

func globMatcher(ignoreCase bool) sqlbuilder.Matcher {
	if ignoreCase {
		return sqlbuilder.Fmt("LOWER(%s) GLOB LOWER(%s)")
	}
	return sqlbuilder.Fmt("%s GLOB %s")
}

var regexpMatcher = sqlbuilder.Fmt("%s REGEXP %s")

func toAnySlice[T any](items []T) []any {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

// environCondition renders the "matches in either association table"
// fragment used by all three environment-predicate families (spec.md
// §4.2: "applied in both command_environment_map and
// session_environment_map via two left joins").
func environCondition(useRegexp bool) string {
	op := "GLOB"
	if useRegexp {
		op = "REGEXP"
	}
	return fmt.Sprintf(
		"((ce.variable_name %s ? AND ce.variable_value %s ?) OR (se.variable_name %s ? AND se.variable_value %s ?))",
		op, op, op, op,
	)
}

func environParams(p model.EnvironPattern) []any {
	return []any{p.Name, p.Value, p.Name, p.Value}
}

// buildQuery assembles the Builder for a search request. It is split out
// from SearchCommandRecord so the context-window path (which compiles it
// with the predicates promoted to a condition column and no limit) reuses
// the exact same predicate-building logic.
func buildQuery(opts *model.SearchOptions) *sqlbuilder.Builder {
	columns := []string{
		"command_history.id",
		"cl.command",
		"dl.directory",
		"tl.terminal",
		"command_history.session_id",
		"sh.session_long_id",
		"command_history.start_time",
		"command_history.stop_time",
		"command_history.exit_code",
	}
	keys := []string{
		"id", "command", "cwd", "terminal", "session_id",
		"session_long_id", "start_time", "stop_time", "exit_code",
	}

	b := sqlbuilder.New("command_history", columns).WithKeys(keys)
	b.Join("command_list cl", "JOIN", "cl.id = command_history.command_id")
	b.Join("directory_list dl", "LEFT JOIN", "dl.id = command_history.dir_id")
	b.Join("terminal_list tl", "LEFT JOIN", "tl.id = command_history.terminal_id")
	b.Join("session_history sh", "LEFT JOIN", "sh.id = command_history.session_id")

	glob := globMatcher(opts.IgnoreCase)

	b.AddMatches(glob, "cl.command",
		toAnySlice(opts.MatchPattern), toAnySlice(opts.IncludePattern), toAnySlice(opts.ExcludePattern),
		1, nil)
	b.AddMatches(regexpMatcher, "cl.command",
		toAnySlice(opts.MatchRegexp), toAnySlice(opts.IncludeRegexp), toAnySlice(opts.ExcludeRegexp),
		1, nil)

	if len(opts.Cwd) > 0 {
		normalized := make([]any, len(opts.Cwd))
		for i, c := range opts.Cwd {
			normalized[i] = pathutil.Normalize(c)
		}
		b.AddAndMatches(sqlbuilder.Fmt("%s = %s"), "dl.directory", normalized, 1, nil)
	}
	if len(opts.CwdGlob) > 0 {
		b.AddAndMatches(glob, "dl.directory", toAnySlice(opts.CwdGlob), 1, nil)
	}
	if len(opts.CwdUnder) > 0 {
		under := make([]any, len(opts.CwdUnder))
		for i, c := range opts.CwdUnder {
			under[i] = pathutil.Under(c)
		}
		b.AddAndMatches(glob, "dl.directory", under, 1, nil)
	}

	if opts.TimeAfter != nil {
		b.AddAndMatches(sqlbuilder.Fmt("DATETIME(%s) >= DATETIME(%s)"), "command_history.start_time",
			[]any{*opts.TimeAfter}, 1, nil)
	}
	if opts.TimeBefore != nil {
		b.AddAndMatches(sqlbuilder.Fmt("DATETIME(%s) <= DATETIME(%s)"), "command_history.start_time",
			[]any{*opts.TimeBefore}, 1, nil)
	}

	const durationExpr = "(julianday(command_history.stop_time) - julianday(command_history.start_time)) * 86400"
	if opts.DurationLongerThan != nil {
		b.AddAndMatches(sqlbuilder.Fmt("%s > %s"), durationExpr, []any{*opts.DurationLongerThan}, 1, nil)
	}
	if opts.DurationLessThan != nil {
		b.AddAndMatches(sqlbuilder.Fmt("%s < %s"), durationExpr, []any{*opts.DurationLessThan}, 1, nil)
	}

	eq := sqlbuilder.Fmt("%s = %s")
	b.AddMatches(eq, "command_history.exit_code",
		nil, toAnySlice(opts.IncludeExitCode), toAnySlice(opts.ExcludeExitCode), 1, nil)
	b.AddMatches(eq, "command_history.session_id",
		nil, toAnySlice(opts.IncludeSessionHistoryID), toAnySlice(opts.ExcludeSessionHistoryID), 1, nil)

	if opts.HasEnvironPredicate() {
		b.Join(
			"(SELECT cem.ch_id AS ch_id, ev.variable_name AS variable_name, ev.variable_value AS variable_value "+
				"FROM command_environment_map cem JOIN environment_variable ev ON cem.ev_id = ev.id) ce",
			"LEFT JOIN", "ce.ch_id = command_history.id")
		b.Join(
			"(SELECT sem.sh_id AS sh_id, ev.variable_name AS variable_name, ev.variable_value AS variable_value "+
				"FROM session_environment_map sem JOIN environment_variable ev ON sem.ev_id = ev.id) se",
			"LEFT JOIN", "se.sh_id = command_history.session_id")
		b.AddGroupBy("command_history.id")

		applyEnvironPredicates(b, opts.MatchEnvironPattern, opts.IncludeEnvironPattern, opts.ExcludeEnvironPattern, false)
		applyEnvironPredicates(b, opts.MatchEnvironRegexp, opts.IncludeEnvironRegexp, opts.ExcludeEnvironRegexp, true)
	}

	applyAdditionalColumns(b, opts.AdditionalColumns)

	if opts.Unique {
		b.UniquifyBy("cl.command", "command_history.start_time", "MAX")
	}

	if opts.SortByCwdDistance != "" {
		agg := ""
		if opts.Unique {
			agg = "MIN"
		}
		expr := "PATHDIST(dl.directory, ?)"
		if agg != "" {
			expr = agg + "(" + expr + ")"
		}
		b.AddColumn(expr, "cwd_distance", []any{opts.SortByCwdDistance})
		order := "ASC"
		if opts.Reverse {
			order = "DESC"
		}
		b.OrderBy("cwd_distance", order)
	}

	order := "DESC"
	if opts.Reverse {
		order = "ASC"
	}
	for _, key := range opts.SortBy {
		resolved := resolveSortKey(key)
		if !opts.Unique && resolved == "command_count" {
			continue
		}
		expr, ok := sortExpr[resolved]
		if !ok {
			expr = resolved
		}
		b.OrderBy(expr, order)
	}

	b.WithLimit(opts.Limit)
	return b
}

// applyEnvironPredicates wires one of the (pattern, regexp) environment
// families into b. match_* patterns must each hold on some of the
// command's associated environment rows and exclude_* patterns on none of
// them, both expressed as a HAVING conjunct per pattern (WHERE-level
// filtering across the row-multiplying LEFT JOINs would test one variable
// per joined row); include_* is expressed directly at the row level since
// an OR that holds on any joined row keeps the command.
func applyEnvironPredicates(b *sqlbuilder.Builder, match, include, exclude []model.EnvironPattern, useRegexp bool) {
	cond := environCondition(useRegexp)
	for _, p := range match {
		b.AddHaving(fmt.Sprintf("MAX(CASE WHEN %s THEN 1 ELSE 0 END) = 1", cond), environParams(p)...)
	}
	if len(include) > 0 {
		exprs := make([]any, len(include))
		for i, p := range include {
			exprs[i] = environParams(p)
		}
		matcher := func(string, []string) string { return cond }
		b.AddOrMatches(matcher, "", exprs, 4, sqlbuilder.Flatten)
	}
	for _, p := range exclude {
		b.AddHaving(fmt.Sprintf("MAX(CASE WHEN %s THEN 1 ELSE 0 END) = 0", cond), environParams(p)...)
	}
}

// applyAdditionalColumns wires the enrichment columns a formatter may
// request (spec.md §4.2): success_count/success_ratio aggregate over the
// command's grouping, program_count is a whole-result-set distinct count
// exposed as a window column.
func applyAdditionalColumns(b *sqlbuilder.Builder, requested []string) {
	for _, col := range requested {
		switch col {
		case "command_count":
			b.AddColumn("COUNT(*)", "command_count", nil)
		case "success_count":
			b.AddColumn("SUM(CASE WHEN command_history.exit_code = 0 THEN 1 ELSE 0 END)", "success_count", nil)
		case "success_ratio":
			b.AddColumn(
				"CAST(SUM(CASE WHEN command_history.exit_code = 0 THEN 1.0 ELSE 0 END) AS REAL) / COUNT(*)",
				"success_ratio", nil)
		case "program_count":
			b.AddColumn("COUNT(DISTINCT PROGRAM_NAME(cl.command)) OVER ()", "program_count", nil)
		}
	}
}

// SearchCommandRecord compiles opts into one SELECT and returns a lazy
// cursor over the results. Context-window requests are handled by
// SearchCommandRecordWithContext, which needs the full (unlimited,
// condition-tagged) stream before it can apply the windowed predicate.
func (s *Store) SearchCommandRecord(ctx context.Context, opts *model.SearchOptions) (iterutil.Cursor[Row], error) {
	b := buildQuery(opts)
	sqlText, params, keys := b.Compile()

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("search_command_record: %w", err)
	}
	return newRowsCursor(rows, keys), nil
}
