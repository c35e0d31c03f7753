// Package typemap maps declared SQLite column types to PostgreSQL types with an
// ordered, first-match-wins rule list.
package typemap

import (
	"sort"
	"strings"
)

// Behavior is the extra effect a rule has on the column definition.
type Behavior int

const (
	// BehaviorNone renders the column normally.
	BehaviorNone Behavior = iota
	// BehaviorAutoIncrement marks the column as the serial primary key: no
	// NOT NULL, no DEFAULT, no table-level PRIMARY KEY clause.
	BehaviorAutoIncrement
)

// Input is what a rule predicate sees about a column.
type Input struct {
	// Normalized is the trimmed, upper-cased declared type.
	Normalized string
	// SolePrimaryKey is true when this column is the only primary-key column of its table.
	SolePrimaryKey bool
}

// Rule is one row of the mapping table.
type Rule struct {
	Name     string
	Match    func(in Input) bool
	Target   string
	Behavior Behavior
}

// Mapping is the resolved target type of a column.
type Mapping struct {
	Type     string
	Behavior Behavior
	Rule     string
}

// AutoIncrement reports whether the column became the serial primary key.
func (m Mapping) AutoIncrement() bool {
	return m.Behavior == BehaviorAutoIncrement
}

// TypeMap holds the ordered rules. Resolve falls through to passthrough.
type TypeMap struct {
	Rules []Rule
}

// Normalize prepares a declared type for matching.
func Normalize(declared string) string {
	return strings.ToUpper(strings.TrimSpace(declared))
}

func exact(name string) func(Input) bool {
	return func(in Input) bool { return in.Normalized == name }
}

func contains(subs ...string) func(Input) bool {
	return func(in Input) bool {
		for _, s := range subs {
			if strings.Contains(in.Normalized, s) {
				return true
			}
		}
		return false
	}
}

// DefaultRules returns the SQLite to PostgreSQL mapping table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "integer-primary-key",
			Match:    func(in Input) bool { return in.Normalized == "INTEGER" && in.SolePrimaryKey },
			Target:   "SERIAL",
			Behavior: BehaviorAutoIncrement,
		},
		{Name: "integer", Match: exact("INTEGER"), Target: "INTEGER"},
		{Name: "text", Match: exact("TEXT"), Target: "TEXT"},
		{Name: "real", Match: exact("REAL"), Target: "DOUBLE PRECISION"},
		{Name: "blob", Match: exact("BLOB"), Target: "BYTEA"},
		{Name: "int-alias", Match: contains("INT"), Target: "INTEGER"},
		{Name: "char", Match: contains("CHAR", "VARCHAR"), Target: "TEXT"},
		// SQLite accepts columns without a declared type; passthrough would
		// leave the column definition without a type.
		{Name: "untyped", Match: exact(""), Target: "TEXT"},
	}
}

// Default returns a TypeMap with DefaultRules.
func Default() *TypeMap {
	return &TypeMap{Rules: DefaultRules()}
}

// WithOverrides returns a copy whose rules start with exact-match overrides,
// keyed by declared type (matched case-insensitively).
func (tm *TypeMap) WithOverrides(overrides map[string]string) *TypeMap {
	if len(overrides) == 0 {
		return tm
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]Rule, 0, len(keys)+len(tm.Rules))
	for _, k := range keys {
		rules = append(rules, Rule{
			Name:   "override:" + Normalize(k),
			Match:  exact(Normalize(k)),
			Target: overrides[k],
		})
	}
	rules = append(rules, tm.Rules...)
	return &TypeMap{Rules: rules}
}

// Resolve returns the target type for a declared source type. Unmatched types
// pass through unchanged.
func (tm *TypeMap) Resolve(declared string, solePrimaryKey bool) Mapping {
	in := Input{Normalized: Normalize(declared), SolePrimaryKey: solePrimaryKey}
	for _, r := range tm.Rules {
		if r.Match(in) {
			return Mapping{Type: r.Target, Behavior: r.Behavior, Rule: r.Name}
		}
	}
	return Mapping{Type: declared, Rule: "passthrough"}
}
