// Package sqlbuilder implements the composable SELECT constructor described
// in spec.md §4.1, translated from original_source/rash/utils/sqlconstructor.py
// (SQLConstructor) into idiomatic Go: explicit methods instead of **kwargs,
// []any parameter slices instead of duck-typed lists, and a Matcher function
// type instead of "format string or callable".
package sqlbuilder

import "fmt"

// Matcher renders one predicate fragment given its left-hand side
// expression and the placeholder tokens ("?") it should bind against.
type Matcher func(lhs string, qs []string) string

// Fmt adapts a fmt-style pattern into a Matcher. The pattern receives lhs
// as its first argument and each placeholder token as the following ones,
// e.g. Fmt("%s GLOB %s") for a single-placeholder match, or
// Fmt("(%s = %s AND %s = %s)") for a two-placeholder tuple match.
func Fmt(pattern string) Matcher {
	return func(lhs string, qs []string) string {
		args := make([]any, 0, len(qs)+1)
		args = append(args, lhs)
		for _, q := range qs {
			args = append(args, q)
		}
		return fmt.Sprintf(pattern, args...)
	}
}

// Negate wraps a Matcher so that its rendered fragment is prefixed with
// "NOT ", used by AddMatches to build exclude-predicates from the same
// matcher used for include/match ones.
func Negate(m Matcher) Matcher {
	return func(lhs string, qs []string) string {
		return "NOT " + m(lhs, qs)
	}
}

// Flatten expands a slice of tuple-valued parameters into one flat []any,
// used when numq > 1 (each logical parameter binds more than one "?").
// The default flatten used by AddAndMatches/AddOrMatches requires each
// element of params to itself be a []any of length numq.
func Flatten(params []any) []any {
	out := make([]any, 0, len(params))
	for _, p := range params {
		if tuple, ok := p.([]any); ok {
			out = append(out, tuple...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

type orderTerm struct {
	expr  string
	order string
}

// Builder assembles one parameterized SELECT statement. Instances are not
// safe for concurrent use; each search request constructs its own.
type Builder struct {
	joinSource string
	columns    []string
	keys       []string
	groupBy    []string
	having     []string
	limit      int
	tableAlias string

	columnParams []any
	joinParams   []any
	params       []any
	havingParams []any
	conditions   []string
	ordering     []orderTerm
}

// New creates a Builder selecting columns from source. limit < 0 means
// unlimited, matching spec.md §4.1's "limit < 0 ⇒ no LIMIT".
func New(source string, columns []string) *Builder {
	keys := make([]string, len(columns))
	copy(keys, columns)
	return &Builder{
		joinSource: source,
		columns:    append([]string(nil), columns...),
		keys:       keys,
		limit:      -1,
	}
}

// WithKeys overrides the result keys (defaults to columns).
func (b *Builder) WithKeys(keys []string) *Builder {
	b.keys = append([]string(nil), keys...)
	return b
}

// WithLimit sets the row limit; negative means unlimited.
func (b *Builder) WithLimit(n int) *Builder {
	b.limit = n
	return b
}

// WithTableAlias sets the alias this Builder is known by when used as a
// sub-select source in another Builder's Join.
func (b *Builder) WithTableAlias(alias string) *Builder {
	b.tableAlias = alias
	return b
}

// TableAlias reports the alias set via WithTableAlias.
func (b *Builder) TableAlias() string { return b.tableAlias }

// Join appends a join against a plain table/expression source.
func (b *Builder) Join(source, op, on string) {
	constraint := ""
	if on != "" {
		constraint = "ON " + on
	}
	b.joinSource = joinClause(b.joinSource, op, source, constraint)
}

// JoinSub compiles sub and inlines it as a parenthesized sub-select,
// appending its parameters to this Builder's join-parameter list (so the
// final bind order is column params, then join params in join-registration
// order, then predicate params, then LIMIT — spec.md §4.1). Any "{r}" token
// in on is substituted with sub's table alias, matching the Python `{r}`
// formatting field.
func (b *Builder) JoinSub(sub *Builder, op, on string) {
	sql, params, _ := sub.Compile()
	b.joinParams = append(b.joinParams, params...)

	jsrc := "( " + sql + " )"
	if sub.tableAlias != "" {
		jsrc += " AS " + sub.tableAlias
		on = replaceAll(on, "{r}", sub.tableAlias)
	}
	constraint := ""
	if on != "" {
		constraint = "ON " + on
	}
	b.joinSource = joinClause(b.joinSource, op, jsrc, constraint)
}

func joinClause(base, op, src, constraint string) string {
	parts := []string{base, op, src}
	if constraint != "" {
		parts = append(parts, constraint)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

func replaceAll(s, old, new string) string {
	out := ""
	for {
		i := indexOf(s, old)
		if i < 0 {
			return out + s
		}
		out += s[:i] + new
		s = s[i+len(old):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// placeholders returns numq "?" tokens.
func placeholders(numq int) []string {
	qs := make([]string, numq)
	for i := range qs {
		qs[i] = "?"
	}
	return qs
}

func concatExpr(operator string, conditions []string) []string {
	if len(conditions) == 0 {
		return nil
	}
	expr := conditions[0]
	for _, c := range conditions[1:] {
		expr += " " + operator + " " + c
	}
	return []string{"(" + expr + ")"}
}

// AddAndMatches appends one AND-conjunct per element of params, each
// rendered by matcher and bound to numq placeholders (flatten controls how
// a tuple-valued param expands to that many bind values; nil uses the
// identity flatten for numq==1, or Flatten for numq>1).
func (b *Builder) AddAndMatches(matcher Matcher, lhs string, params []any, numq int, flatten func([]any) []any) {
	if len(params) == 0 {
		return
	}
	qs := placeholders(numq)
	frag := matcher(lhs, qs)
	for range params {
		b.conditions = append(b.conditions, frag)
	}
	b.params = append(b.params, b.flatten(flatten, numq, params)...)
}

// AddOrMatches appends one parenthesized OR-disjunction covering every
// element of params.
func (b *Builder) AddOrMatches(matcher Matcher, lhs string, params []any, numq int, flatten func([]any) []any) {
	if len(params) == 0 {
		return
	}
	qs := placeholders(numq)
	frag := matcher(lhs, qs)
	exprs := make([]string, len(params))
	for i := range params {
		exprs[i] = frag
	}
	b.conditions = append(b.conditions, concatExpr("OR", exprs)...)
	b.params = append(b.params, b.flatten(flatten, numq, params)...)
}

func (b *Builder) flatten(flatten func([]any) []any, numq int, params []any) []any {
	if flatten != nil {
		return flatten(params)
	}
	if numq == 1 {
		return params
	}
	return Flatten(params)
}

// AddMatches is the three-way convenience described in spec.md §4.1:
// matchParams add AND conjuncts with matcher, includeParams add one OR
// block with matcher, excludeParams add AND conjuncts with the negation of
// matcher.
func (b *Builder) AddMatches(matcher Matcher, lhs string, matchParams, includeParams, excludeParams []any, numq int, flatten func([]any) []any) {
	notMatcher := Negate(matcher)
	b.AddAndMatches(matcher, lhs, matchParams, numq, flatten)
	b.AddOrMatches(matcher, lhs, includeParams, numq, flatten)
	b.AddAndMatches(notMatcher, lhs, excludeParams, numq, flatten)
}

// AddColumn extends the SELECT list (and, by default, the key list) with
// expr, optionally binding params that appear as placeholders within expr
// itself (e.g. a correlated sub-select column).
func (b *Builder) AddColumn(expr, key string, params []any) {
	b.columns = append(b.columns, expr)
	if key == "" {
		key = expr
	}
	b.keys = append(b.keys, key)
	b.columnParams = append(b.columnParams, params...)
}

// AddGroupBy appends one GROUP BY term.
func (b *Builder) AddGroupBy(expr string) {
	b.groupBy = append(b.groupBy, expr)
}

// AddHaving appends one HAVING conjunct, optionally binding params that
// appear as placeholders within cond. This extends the literal spec
// contract (which lists add_having as taking only an expression) the same
// way every other predicate method does: never string-splice caller-
// controlled values into SQL text.
func (b *Builder) AddHaving(cond string, params ...any) {
	b.having = append(b.having, cond)
	b.havingParams = append(b.havingParams, params...)
}

// OrderBy appends one ORDER BY term. An empty expr is a no-op, so callers
// can pass through an optional sort key without branching.
func (b *Builder) OrderBy(expr, order string) {
	if expr == "" {
		return
	}
	b.ordering = append(b.ordering, orderTerm{expr: expr, order: order})
}

// UniquifyBy groups by column and wraps the chooser column's SELECT
// expression with aggregate (default MAX when aggregate is empty),
// implementing spec.md §4.2's default `unique=true` behavior.
func (b *Builder) UniquifyBy(column, chooserColumn, aggregate string) {
	b.groupBy = append(b.groupBy, column)
	if chooserColumn == "" {
		return
	}
	if aggregate == "" {
		aggregate = "MAX"
	}
	for i, c := range b.columns {
		if c == chooserColumn {
			b.columns[i] = fmt.Sprintf("%s(%s)", aggregate, c)
			return
		}
	}
}

// MoveWhereClauseToColumn promotes the current WHERE conjunction into a
// boolean SELECT column and clears the WHERE state, used by the context
// modifier (spec.md §4.2) so every row arrives tagged with whether it
// satisfies the original filters.
func (b *Builder) MoveWhereClauseToColumn(column string) {
	expr := "1"
	var params []any
	if len(b.conditions) > 0 {
		expr = b.conditions[0]
		for _, c := range b.conditions[1:] {
			expr += " AND " + c
		}
		params = b.params
		b.params = nil
	}
	b.conditions = nil
	b.AddColumn(fmt.Sprintf("(%s) AS %s", expr, column), column, params)
}

// Compile renders the final SQL, its positional parameters in bind order
// (column params, join params, predicate params, then LIMIT), and the
// result keys.
func (b *Builder) Compile() (string, []any, []string) {
	params := make([]any, 0, len(b.columnParams)+len(b.joinParams)+len(b.params)+len(b.havingParams)+1)
	params = append(params, b.columnParams...)
	params = append(params, b.joinParams...)
	params = append(params, b.params...)

	sql := "SELECT " + joinComma(b.columns) + " FROM " + b.joinSource

	if len(b.conditions) > 0 {
		sql += " WHERE " + joinAnd(b.conditions)
	}
	if len(b.groupBy) > 0 {
		sql += " GROUP BY " + joinComma(b.groupBy)
	}
	if len(b.having) > 0 {
		sql += " HAVING " + joinAnd(b.having)
		params = append(params, b.havingParams...)
	}
	if len(b.ordering) > 0 {
		terms := make([]string, len(b.ordering))
		for i, t := range b.ordering {
			terms[i] = t.expr + " " + t.order
		}
		sql += " ORDER BY " + joinComma(terms)
	}
	if b.limit >= 0 {
		sql += " LIMIT ?"
		params = append(params, b.limit)
	}

	keys := append([]string(nil), b.keys...)
	return sql, params, keys
}

func joinComma(items []string) string { return joinWith(items, ", ") }
func joinAnd(items []string) string   { return joinWith(items, " AND ") }

func joinWith(items []string, sep string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for _, it := range items[1:] {
		out += sep + it
	}
	return out
}
