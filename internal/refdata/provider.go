package refdata

import (
	"fmt"
	"sync"

	"github.com/roach88/visadata/internal/textnorm"
)

// Country is one row of the reference table.
type Country struct {
	Alpha2    string   // ISO 3166-1 alpha-2 code
	Name      string   // canonical name, the only form the fuzzy resolver matches against
	Continent string   // continent code, empty when the territory has none
	Aliases   []string // common names accepted by the alpha-2 lookup
}

// Provider supplies canonical country names and the lookups the continent
// mapper chains together. Implementations are read-only after construction
// and safe for concurrent use.
type Provider interface {
	// Names returns the canonical names in stable order.
	Names() []string

	// Alpha2 resolves a canonical name or alias to its alpha-2 code.
	Alpha2(name string) (string, bool)

	// ContinentCode returns the continent code for an alpha-2 code.
	ContinentCode(alpha2 string) (string, bool)

	// ContinentName returns the display name for a continent code.
	ContinentName(code string) (string, bool)
}

// Table is the in-memory Provider built from a country list.
type Table struct {
	names      []string
	byName     map[string]string // exact name or alias -> alpha2
	byFolded   map[string]string // folded name or alias -> alpha2
	continents map[string]string // alpha2 -> continent code
}

// New validates countries and builds a Table.
//
// Construction fails when the list is empty, when an alpha-2 code repeats,
// when two names or aliases fold to the same key, or when a continent code is
// unknown. These are the only reference-data conditions treated as fatal.
func New(countries []Country) (*Table, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("reference data: empty country list")
	}

	t := &Table{
		names:      make([]string, 0, len(countries)),
		byName:     make(map[string]string, len(countries)*2),
		byFolded:   make(map[string]string, len(countries)*2),
		continents: make(map[string]string, len(countries)),
	}

	for i, c := range countries {
		if c.Alpha2 == "" || c.Name == "" {
			return nil, fmt.Errorf("reference data: entry %d: alpha2 and name are required", i)
		}
		if _, dup := t.continents[c.Alpha2]; dup {
			return nil, fmt.Errorf("reference data: duplicate alpha2 %q", c.Alpha2)
		}
		if c.Continent != "" {
			if _, ok := continentNames[c.Continent]; !ok {
				return nil, fmt.Errorf("reference data: %s: unknown continent code %q", c.Alpha2, c.Continent)
			}
		}
		t.continents[c.Alpha2] = c.Continent
		t.names = append(t.names, c.Name)

		for _, name := range append([]string{c.Name}, c.Aliases...) {
			key := textnorm.Fold(name)
			if key == "" {
				return nil, fmt.Errorf("reference data: %s: name %q folds to nothing", c.Alpha2, name)
			}
			if prev, dup := t.byFolded[key]; dup {
				return nil, fmt.Errorf("reference data: %q (%s) collides with %s", name, c.Alpha2, prev)
			}
			t.byFolded[key] = c.Alpha2
			t.byName[name] = c.Alpha2
		}
	}

	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return New(builtin)
})

// Default returns the built-in ISO 3166-1 table. It is built once.
func Default() (*Table, error) {
	return defaultTable()
}

// Names returns a copy of the canonical names in registry order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of countries.
func (t *Table) Len() int {
	return len(t.names)
}

// Alpha2 tries an exact match first, then the folded form.
func (t *Table) Alpha2(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if code, ok := t.byName[name]; ok {
		return code, true
	}
	code, ok := t.byFolded[textnorm.Fold(name)]
	return code, ok
}

// ContinentCode reports false for unknown codes and for territories without
// a continent.
func (t *Table) ContinentCode(alpha2 string) (string, bool) {
	code, ok := t.continents[alpha2]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// ContinentName maps a continent code to its display name.
func (t *Table) ContinentName(code string) (string, bool) {
	name, ok := continentNames[code]
	return name, ok
}
