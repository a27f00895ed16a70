// Package alias implements the query pre-processor described in
// SPEC_FULL.md §4.5: a declarative YAML alias table expanding shorthand
// flags into the full token list cobra parses, plus a small Adapter chain
// resolving sort-key synonyms. Grounded on the teacher's
// internal/config.GetConductorHome-style explicit-handle loading (no
// package-level singleton) and original_source/rash/alias-equivalent
// config handling, generalized to a declarative (non-executable) table per
// spec.md §1's config-script Non-goal.
package alias

import (
	"fmt"
	"os"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Table maps an alias name to the raw definition string a shell user would
// have typed, e.g. "failures" -> "--include-exit-code 1 --include-exit-code 2".
type Table map[string]string

// Load reads the declarative alias table at path. A missing file is not an
// error; it returns an empty Table, since aliases.yaml is optional
// (SPEC_FULL.md §6).
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("alias: read table %s: %w", path, err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("alias: parse table %s: %w", path, err)
	}
	if t == nil {
		t = Table{}
	}
	return t, nil
}

// Expand walks args left to right, replacing any token matching an alias
// name with its shlex-tokenized definition (spec.md's "expansion happens
// once, before cobra parsing; expanded tokens are not themselves
// re-expanded"). Tokens that aren't alias names pass through unchanged.
func (t Table) Expand(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		def, ok := t[arg]
		if !ok {
			out = append(out, arg)
			continue
		}
		tokens, err := shlex.Split(def)
		if err != nil {
			return nil, fmt.Errorf("alias: split definition for %q: %w", arg, err)
		}
		out = append(out, tokens...)
	}
	return out, nil
}
