// Package store provides SQLite-backed storage for pipeline runs.
//
// Each run keeps:
//   - Runs: parameters, summary statistics and the four digests
//   - Records: the cleaned table, in input order
//   - Continent totals and country totals: the views as computed in memory
//
// The stored records can be re-aggregated in SQL (QueryContinentTotals,
// QueryTopCountries). Verify recomputes every digest from the database and
// compares it with what was recorded when the run was written.
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned at write time, never
// by wall time. Every query carries an explicit ORDER BY, with ties broken
// by id or position, so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Nulls in the cleaned table (country, count, continent) are stored as SQL
// NULL.
package store
