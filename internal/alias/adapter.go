package alias

import "github.com/harrison/rash/internal/model"

// Adapter mirrors the single-method callback design note in spec.md §9:
// a query pre-processor takes parsed SearchOptions and returns a (possibly
// modified) SearchOptions, so additional adapters can be chained without
// widening this interface.
type Adapter interface {
	Adapt(*model.SearchOptions) (*model.SearchOptions, error)
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(*model.SearchOptions) (*model.SearchOptions, error)

// Adapt calls f.
func (f AdapterFunc) Adapt(o *model.SearchOptions) (*model.SearchOptions, error) { return f(o) }

// sortKeySynonyms mirrors internal/store's own synonym table (count,
// time/start, stop, code) for the --sort-by flag. Kept here too since
// SortKeyAdapter runs before options ever reach the store, operating on the
// raw flag strings.
var sortKeySynonyms = map[string]string{
	"count": "command_count",
	"time":  "start_time",
	"start": "start_time",
	"stop":  "stop_time",
	"code":  "exit_code",
}

// SortKeyAdapter resolves --sort-by synonyms in place (spec.md §4.2).
var SortKeyAdapter Adapter = AdapterFunc(func(o *model.SearchOptions) (*model.SearchOptions, error) {
	for i, key := range o.SortBy {
		if resolved, ok := sortKeySynonyms[key]; ok {
			o.SortBy[i] = resolved
		}
	}
	return o, nil
})

// Chain applies each adapter in order, short-circuiting on the first error.
func Chain(o *model.SearchOptions, adapters ...Adapter) (*model.SearchOptions, error) {
	var err error
	for _, a := range adapters {
		o, err = a.Adapt(o)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}
