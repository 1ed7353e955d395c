// Package harness runs YAML scenarios against the visa data pipeline.
//
// A scenario supplies input rows (inline or from a CSV/XLSX file), optional
// pipeline settings, and assertions on the result. Each scenario runs the
// full pipeline, archives the run in a fresh in-memory SQLite store, and
// evaluates its assertions against the row trace, the aggregate views and
// the stored tables.
//
// # Scenario Format
//
//	name: andra_is_russia
//	description: "Romanized spelling rescued by the override table"
//	run_id: run-andra
//	settings:
//	  year: 2017
//	  limit: 10
//	  corrections: { Nipon: Japan }
//	input: visas.csv
//	rows:
//	  - { year: 2017, country: Andra, count: 500 }
//	  - { year: 2017, country: Japan }
//	assertions:
//	  - type: resolves
//	    input: Andra
//	    expect: { country: Russia, continent: Europe }
//	  - type: row_count
//	    where: { continent: null }
//	    count: 0
//	  - type: top_order
//	    countries: [Russia, Japan]
//	  - type: top_excludes
//	    countries: [total, others]
//	  - type: final_state
//	    table: country_totals
//	    where: { rank: 1 }
//	    expect: { country: Russia, visa_issued: 500 }
//	  - type: store_verify
//
// # Assertion Types
//
//   - resolves: the trace event for input matches expect (subset)
//   - row_count: exactly count cleaned rows match where
//   - top_order: the ranking starts with countries, in order
//   - top_excludes: none of countries is ranked
//   - final_state: one stored row in table matches where and expect
//   - store_verify: the stored run's digests recompute from SQL
//
// # Deterministic Testing
//
// Trace events carry seq values from testutil.TraceClock and the
// run is stored under a fixed ID (testutil.FixedRunIDGenerator), so the
// snapshot written by Snapshot is byte-identical across runs.
package harness
