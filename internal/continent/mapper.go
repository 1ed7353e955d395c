// Package continent classifies canonical country names by continent.
//
// ContinentOf is total: every string maps to a continent name or to "no
// continent". A failure anywhere in the lookup chain (unknown name, territory
// without a continent, unknown continent code) is reported as ok == false,
// never as an error.
package continent

import (
	"github.com/roach88/visadata/internal/refdata"
)

// Mapper chains name -> alpha-2 -> continent code -> continent name.
type Mapper struct {
	ref refdata.Provider
}

// New returns a Mapper over ref.
func New(ref refdata.Provider) *Mapper {
	return &Mapper{ref: ref}
}

// ContinentOf returns the continent name for country.
func (m *Mapper) ContinentOf(country string) (name string, ok bool) {
	defer func() {
		// A misbehaving Provider must not take the pipeline down.
		if recover() != nil {
			name, ok = "", false
		}
	}()

	alpha2, ok := m.ref.Alpha2(country)
	if !ok {
		return "", false
	}
	code, ok := m.ref.ContinentCode(alpha2)
	if !ok {
		return "", false
	}
	return m.ref.ContinentName(code)
}
