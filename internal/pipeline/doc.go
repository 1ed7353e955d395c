// Package pipeline wires the cleaning stages together.
//
// A Context owns the immutable dependencies every stage needs: the reference
// data, the fuzzy resolver, the override table and the continent mapper.
// There is no package-level session; build a Context once and share it.
//
// Each country string passes through the stages in a fixed order:
//
//	raw -> fuzzy resolve -> override -> continent
//
// Overrides run strictly after fuzzy resolution so a curated correction is
// never bypassed by a near-miss match. Reversing the order changes results.
//
// Nothing here returns an error for bad data. An unmatched name passes
// through, an unmappable country gets no continent, and a malformed count
// stays nil. Only construction can fail, when the reference data is unusable.
package pipeline
