// Package override holds the curated exact-match corrections applied after
// fuzzy resolution.
//
// The fuzzy resolver handles the general case; this table rescues the
// romanizations it cannot, keyed by the string the resolver hands back.
// Lookups are exact: an override is never re-matched approximately.
package override

import (
	"fmt"
	"sort"
)

// defaults are the corrections observed in the visa issuance source data.
// Kosovo maps to itself to mark it as a known, already-correct exception.
var defaults = map[string]string{
	"Andra":                    "Russia",
	"Antigua Berbuda":          "Antigua and Barbuda",
	"Barrane":                  "Bahrain",
	"Brush":                    "Bhutan",
	"Komoro":                   "Comoros",
	"Benan":                    "Benin",
	"Kiribass":                 "Kiribati",
	"Gaiana":                   "Guyana",
	"Court Jiboire":            "Côte d'Ivoire",
	"Lesot":                    "Lesotho",
	"Macau travel certificate": "Macao",
	"Moldoba":                  "Moldova",
	"Naure":                    "Nauru",
	"Nigail":                   "Niger",
	"Palao":                    "Palau",
	"St. Christopher Navis":    "Saint Kitts and Nevis",
	"Santa Principa":           "Sao Tome and Principe",
	"Saechel":                  "Seychelles",
	"Slinum":                   "Saint Helena",
	"Swaji Land":               "Eswatini",
	"Torque menistan":          "Turkmenistan",
	"Tsubaru":                  "Zimbabwe",
	"Kosovo":                   "Kosovo",
}

// Table is an immutable correction mapping.
type Table struct {
	entries map[string]string
}

// ChainError reports a correction whose target is itself corrected to
// something else, which would make Apply non-idempotent.
type ChainError struct {
	From, Via, To string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("override chain %q -> %q -> %q", e.From, e.Via, e.To)
}

// New copies entries into a Table. Empty keys or values are rejected, as is
// any chain a -> b where b -> c with b != c.
func New(entries map[string]string) (*Table, error) {
	t := &Table{entries: make(map[string]string, len(entries))}
	for from, to := range entries {
		if from == "" || to == "" {
			return nil, fmt.Errorf("override: empty key or value (%q -> %q)", from, to)
		}
		t.entries[from] = to
	}
	for _, from := range t.Keys() {
		to := t.entries[from]
		if next, ok := t.entries[to]; ok && next != to {
			return nil, &ChainError{From: from, Via: to, To: next}
		}
	}
	return t, nil
}

// Default returns the built-in corrections.
func Default() *Table {
	t, err := New(defaults)
	if err != nil {
		panic(fmt.Sprintf("override: built-in table is invalid: %v", err))
	}
	return t
}

// Merge returns a new table with extra layered over t. Neither input is
// modified.
func (t *Table) Merge(extra map[string]string) (*Table, error) {
	merged := make(map[string]string, len(t.entries)+len(extra))
	for k, v := range t.entries {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return New(merged)
}

// Apply returns the correction for country, or country unchanged.
func (t *Table) Apply(country string) string {
	if to, ok := t.entries[country]; ok {
		return to
	}
	return country
}

// Lookup reports whether country has a correction.
func (t *Table) Lookup(country string) (string, bool) {
	to, ok := t.entries[country]
	return to, ok
}

// Len returns the number of corrections.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns the correction sources in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the mapping.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
