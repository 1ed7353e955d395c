package harness

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/store"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Resolution trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nResolution trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %q -> %q (%s, score %d)\n",
				event.Seq, event.Input, event.Country, orNull(event.Continent), event.Score)
		}
	}

	return buf.String()
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

// assertResolves checks the trace event for assertion.Input against
// assertion.Expect (subset match).
func assertResolves(trace []TraceEvent, assertion Assertion) error {
	event, ok := findEvent(trace, assertion.Input)
	if !ok {
		return &AssertionError{
			Type:     AssertResolves,
			Expected: fmt.Sprintf("input %q in trace", assertion.Input),
			Actual:   "input not found",
			Trace:    trace,
		}
	}

	fields := event.fields()
	for _, key := range sortedKeys(assertion.Expect) {
		actual, exists := fields[key]
		if !exists {
			return fmt.Errorf("resolves: unknown field %q", key)
		}
		if !stateValuesEqual(assertion.Expect[key], actual) {
			return &AssertionError{
				Type:     AssertResolves,
				Expected: fmt.Sprintf("%q: %s = %v", assertion.Input, key, assertion.Expect[key]),
				Actual:   fmt.Sprintf("%q: %s = %v", assertion.Input, key, actual),
				Trace:    trace,
			}
		}
	}
	return nil
}

func findEvent(trace []TraceEvent, input string) (TraceEvent, bool) {
	for _, e := range trace {
		if e.Input == input {
			return e, true
		}
	}
	return TraceEvent{}, false
}

// recordFields exposes a cleaned record to where matching. Null columns are
// nil.
func recordFields(r ir.Record) map[string]interface{} {
	fields := map[string]interface{}{
		"year":                       r.Year,
		"country":                    nil,
		"number_of_issued_numerical": nil,
		"continent":                  nil,
	}
	if r.Country != "" {
		fields["country"] = r.Country
	}
	if r.IssuedCount != nil {
		fields["number_of_issued_numerical"] = *r.IssuedCount
	}
	if r.Continent != "" {
		fields["continent"] = r.Continent
	}
	return fields
}

// assertRowCount counts cleaned records matching assertion.Where.
func assertRowCount(records []ir.Record, trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, r := range records {
		fields := recordFields(r)
		match := true
		for key, expected := range assertion.Where {
			actual, exists := fields[key]
			if !exists {
				return fmt.Errorf("row_count: unknown column %q", key)
			}
			if !stateValuesEqual(expected, actual) {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows where %s", assertion.Count, formatWhereClause(assertion.Where)),
			Actual:   fmt.Sprintf("%d rows", count),
			Trace:    trace,
		}
	}
	return nil
}

func rankedCountries(top []ir.CountryTotal) []string {
	names := make([]string, len(top))
	for i, t := range top {
		names[i] = t.Country
	}
	return names
}

// assertTopOrder checks that the ranking starts with assertion.Countries.
func assertTopOrder(top []ir.CountryTotal, assertion Assertion) error {
	ranked := rankedCountries(top)
	n := len(assertion.Countries)
	if len(ranked) < n || !slices.Equal(ranked[:n], assertion.Countries) {
		return &AssertionError{
			Type:     AssertTopOrder,
			Expected: fmt.Sprintf("ranking to start with %v", assertion.Countries),
			Actual:   fmt.Sprintf("ranking %v", ranked),
		}
	}
	return nil
}

// assertTopExcludes checks that no country in assertion.Countries is ranked.
func assertTopExcludes(top []ir.CountryTotal, assertion Assertion) error {
	ranked := rankedCountries(top)
	for _, c := range assertion.Countries {
		if slices.Contains(ranked, c) {
			return &AssertionError{
				Type:     AssertTopExcludes,
				Expected: fmt.Sprintf("%q not ranked", c),
				Actual:   fmt.Sprintf("ranking %v", ranked),
			}
		}
	}
	return nil
}

// assertFinalState checks that exactly one stored row matches the where
// clause and carries the expected values.
//
// Security: Table and column names are validated against a whitelist pattern
// to prevent SQL injection via identifier interpolation.
func assertFinalState(ctx context.Context, st *store.Store, assertion Assertion) error {
	if assertion.Table == "" {
		return fmt.Errorf("final_state assertion requires table name")
	}

	// Validate table name to prevent SQL injection (identifiers can't be parameterized)
	if !validIdentifier.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", assertion.Table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(assertion.Where)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT * FROM %s", assertion.Table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := st.Query(ctx, query, whereArgs...)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "row not found",
		}
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	// Check for multiple matching rows (would indicate ambiguous assertion)
	if rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := make(map[string]interface{})
	for i, col := range columns {
		actualRow[col] = values[i]
	}

	// Subset semantics - only check fields in Expect
	for _, key := range sortedKeys(assertion.Expect) {
		expectedValue := assertion.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}

		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// assertStoreVerify recomputes the stored run's digests from SQL.
func assertStoreVerify(ctx context.Context, st *store.Store, runID string) error {
	v, err := st.Verify(ctx, runID)
	if err != nil {
		return fmt.Errorf("store_verify: %w", err)
	}
	if !v.OK() {
		return &AssertionError{
			Type:     AssertStoreVerify,
			Expected: fmt.Sprintf("run %s digests to recompute", runID),
			Actual:   fmt.Sprintf("mismatched %v", v.Mismatches),
		}
	}
	return nil
}

// buildWhereClause constructs parameterized WHERE clause from assertion.Where.
// Returns SQL fragment, arguments slice, and error. Keys are sorted for determinism.
// A nil value becomes IS NULL.
//
// Security: Column names are validated against a whitelist pattern to prevent
// SQL injection via identifier interpolation.
func buildWhereClause(where map[string]interface{}) (string, []interface{}, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := sortedKeys(where)
	clauses := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))

	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		if where[key] == nil {
			clauses = append(clauses, fmt.Sprintf("%s IS NULL", key))
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", key))
		args = append(args, toSQLValue(where[key]))
	}

	return strings.Join(clauses, " AND "), args, nil
}

// toSQLValue converts an interface{} value to a SQL-compatible value.
func toSQLValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string, int, int64, bool:
		return val
	default:
		// For other types, convert to string
		return fmt.Sprintf("%v", val)
	}
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if where[k] == nil {
			parts = append(parts, k+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stateValuesEqual compares an expected scenario value with an actual one.
// Handles type coercion: YAML decodes integers as int, SQLite returns int64
// and may return text as []byte.
func stateValuesEqual(expected, actual interface{}) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}

	switch exp := expected.(type) {
	case string:
		switch act := actual.(type) {
		case string:
			return exp == act
		case []byte:
			return exp == string(act)
		}
		return false
	case int:
		return intEqual(int64(exp), actual)
	case int64:
		return intEqual(exp, actual)
	case bool:
		if actualBool, ok := actual.(bool); ok {
			return exp == actualBool
		}
		// SQLite stores booleans as integers
		if actualInt, ok := actual.(int64); ok {
			return exp == (actualInt != 0)
		}
		return false
	}

	// Fallback to DeepEqual for complex types
	return reflect.DeepEqual(expected, actual)
}

func intEqual(exp int64, actual interface{}) bool {
	switch act := actual.(type) {
	case int64:
		return exp == act
	case int:
		return exp == int64(act)
	}
	return false
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	RunID string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for final_state and
// store_verify assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertResolves:
			err = assertResolves(result.Trace, assertion)
		case AssertRowCount:
			err = assertRowCount(result.Cleaned, result.Trace, assertion)
		case AssertTopOrder:
			err = assertTopOrder(result.TopCountries, assertion)
		case AssertTopExcludes:
			err = assertTopExcludes(result.TopCountries, assertion)
		case AssertFinalState:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires database context", i)
			} else {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			}
		case AssertStoreVerify:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: store_verify requires database context", i)
			} else {
				err = assertStoreVerify(actx.Ctx, actx.Store, actx.RunID)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
