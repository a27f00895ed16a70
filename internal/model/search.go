package model

import "time"

// ContextType selects how context-window neighbours are determined.
type ContextType string

// Supported context types.
const (
	ContextTypeTime    ContextType = "time"
	ContextTypeSession ContextType = "session"
)

// EnvironPattern is one (name-pattern, value-pattern) pair used by the
// environment matcher family of filters.
type EnvironPattern struct {
	Name  string
	Value string
}

// SearchOptions collects every optional filter, ordering and shaping knob
// accepted by `rash search`, as enumerated in spec.md §4.2. Zero values mean
// "not set" for every field except Limit, where a negative value means "no
// limit" and 0 yields LIMIT 0; slices being empty means "no predicates of
// this kind".
type SearchOptions struct {
	MatchPattern   []string
	IncludePattern []string
	ExcludePattern []string

	MatchRegexp   []string
	IncludeRegexp []string
	ExcludeRegexp []string

	Cwd      []string
	CwdGlob  []string
	CwdUnder []string

	TimeAfter  *time.Time
	TimeBefore *time.Time

	DurationLongerThan *float64
	DurationLessThan   *float64

	IncludeExitCode []int
	ExcludeExitCode []int

	IncludeSessionHistoryID []int64
	ExcludeSessionHistoryID []int64

	MatchEnvironPattern   []EnvironPattern
	IncludeEnvironPattern []EnvironPattern
	ExcludeEnvironPattern []EnvironPattern

	MatchEnvironRegexp   []EnvironPattern
	IncludeEnvironRegexp []EnvironPattern
	ExcludeEnvironRegexp []EnvironPattern

	SortBy           []string
	Reverse          bool
	SortByCwdDistance string

	Unique bool

	AdditionalColumns []string

	Context       int
	BeforeContext int
	AfterContext  int
	ContextType   ContextType

	Limit int

	IgnoreCase bool
}

// DefaultSearchOptions returns the option set used when a caller supplies
// none explicitly: unique results, descending order by start time, and a
// Limit of -1 (no LIMIT clause).
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		Unique:      true,
		SortBy:      []string{"start_time"},
		ContextType: ContextTypeTime,
		Limit:       -1,
	}
}

// HasContext reports whether any context-window flag was requested.
func (o *SearchOptions) HasContext() bool {
	return o.Context > 0 || o.BeforeContext > 0 || o.AfterContext > 0
}

// HasEnvironPredicate reports whether any environment-matching predicate is
// present, which forces a GROUP BY on command_history.id (spec.md §4.2).
func (o *SearchOptions) HasEnvironPredicate() bool {
	return len(o.MatchEnvironPattern) > 0 || len(o.IncludeEnvironPattern) > 0 ||
		len(o.ExcludeEnvironPattern) > 0 || len(o.MatchEnvironRegexp) > 0 ||
		len(o.IncludeEnvironRegexp) > 0 || len(o.ExcludeEnvironRegexp) > 0
}
