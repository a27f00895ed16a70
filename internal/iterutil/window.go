package iterutil

// Window selects, from an ordered slice of rows, every row that either
// matches isMatch itself or lies within `before` positions before, or
// `after` positions after, some row that does (spec.md §4.2's context
// modifier). The result preserves the original row order.
//
// A symmetric "--context N" request is expressed by passing the same value
// for both before and after; an asymmetric one passes different values, as
// the --before-context/--after-context flags do.
func Window[T any](rows []T, isMatch func(T) bool, before, after int) []T {
	if len(rows) == 0 {
		return nil
	}

	matched := make([]bool, len(rows))
	keep := make([]bool, len(rows))
	for i, r := range rows {
		if isMatch(r) {
			matched[i] = true
			keep[i] = true
		}
	}

	for i := range rows {
		if !matched[i] {
			continue
		}
		for j := i - before; j <= i+after; j++ {
			if j >= 0 && j < len(rows) {
				keep[j] = true
			}
		}
	}

	out := make([]T, 0, len(rows))
	for i, r := range rows {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// SwapBeforeAfter returns (after, before) instead of (before, after). It is
// used when the active ordering puts the newest row first, so that a
// caller-specified "before" (meaning: earlier in time, i.e. logically
// after in row order) is applied on the correct side of a match, per
// spec.md §4.2 ("When default ordering puts newest first, the roles of
// before/after are swapped before applying the window.").
func SwapBeforeAfter(before, after int) (int, int) {
	return after, before
}
