// Package ir holds the record and aggregate types shared by every stage of
// the visa pipeline, plus the canonical JSON encoding used to fingerprint
// pipeline output.
//
// ir imports nothing internal so every other package can depend on it.
//
// Key constraints:
//   - No float types: counts are int64
//   - A nil IssuedCount is a malformed count; sums treat it as zero
//   - An empty Continent means "no continent"
//   - All JSON tags use snake_case
package ir
