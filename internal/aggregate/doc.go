// Package aggregate reduces cleaned records into the two chart-ready views.
//
// Both reductions are sums, so they are associative and commutative: the
// partitioned variants reduce chunks concurrently and merge the partials,
// producing exactly the sequential result.
//
// A nil IssuedCount contributes zero to every sum. The record itself is not
// dropped; it still counts toward Summary.Rows and Summary.NullCounts.
//
// # Ordering
//
// ByContinentYear sorts by (year, continent). TopCountries sorts by
// descending total; equal totals keep the order in which each country first
// appears in the input. This tie-break is implementation-defined but
// deterministic for a given input order, including at the limit boundary.
package aggregate
