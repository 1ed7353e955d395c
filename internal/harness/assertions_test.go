package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
	"github.com/roach88/visadata/internal/store"
)

func testTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Input: "Vietnam", Candidate: "Viet Nam", Score: 88, Resolved: "Viet Nam", Country: "Viet Nam", Continent: "Asia"},
		{Seq: 2, Input: "Andra", Candidate: "Andorra", Score: 71, Resolved: "Andra", Overridden: true, Country: "Russia", Continent: "Europe"},
		{Seq: 3, Input: "Kosovo", Candidate: "Comoros", Score: 43, Resolved: "Kosovo", Country: "Kosovo"},
	}
}

func testRecords() []ir.Record {
	return []ir.Record{
		{Year: 2017, Country: "Japan", IssuedCount: ir.Int64(100), Continent: "Asia"},
		{Year: 2017, Country: "Kosovo", IssuedCount: ir.Int64(4)},
		{Year: 2016, Country: "Peru", Continent: "South America"},
		{Year: 2016, Country: "", IssuedCount: ir.Int64(9)},
	}
}

func testTop() []ir.CountryTotal {
	return []ir.CountryTotal{
		{Country: "Japan", VisaIssued: 150},
		{Country: "Viet Nam", VisaIssued: 80},
		{Country: "Russia", VisaIssued: 80},
	}
}

func TestAssertResolves_Match(t *testing.T) {
	err := assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Vietnam",
		Expect: map[string]interface{}{"country": "Viet Nam", "score": 88, "overridden": false},
	})
	assert.NoError(t, err)
}

func TestAssertResolves_NullContinent(t *testing.T) {
	err := assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Kosovo",
		Expect: map[string]interface{}{"continent": nil},
	})
	assert.NoError(t, err)

	err = assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Vietnam",
		Expect: map[string]interface{}{"continent": nil},
	})
	assert.Error(t, err)
}

func TestAssertResolves_Mismatch(t *testing.T) {
	err := assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Andra",
		Expect: map[string]interface{}{"country": "Andorra"},
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.Equal(t, AssertResolves, assertErr.Type)
	assert.Contains(t, assertErr.Expected, "Andorra")
	assert.Contains(t, assertErr.Actual, "Russia")
	assert.Len(t, assertErr.Trace, 3)
}

func TestAssertResolves_InputNotInTrace(t *testing.T) {
	err := assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Atlantis",
		Expect: map[string]interface{}{"country": "Atlantis"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")
}

func TestAssertResolves_UnknownField(t *testing.T) {
	err := assertResolves(testTrace(), Assertion{
		Type:   AssertResolves,
		Input:  "Vietnam",
		Expect: map[string]interface{}{"alpha2": "VN"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "alpha2"`)
}

func TestAssertRowCount(t *testing.T) {
	tests := []struct {
		name  string
		where map[string]interface{}
		count int
	}{
		{"all rows", nil, 4},
		{"null continent", map[string]interface{}{"continent": nil}, 2},
		{"null count", map[string]interface{}{"number_of_issued_numerical": nil}, 1},
		{"null country", map[string]interface{}{"country": nil}, 1},
		{"by year", map[string]interface{}{"year": 2016}, 2},
		{"by count", map[string]interface{}{"number_of_issued_numerical": 100}, 1},
		{"combined", map[string]interface{}{"year": 2017, "continent": "Asia"}, 1},
		{"none", map[string]interface{}{"country": "Atlantis"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertRowCount(testRecords(), nil, Assertion{Type: AssertRowCount, Where: tt.where, Count: tt.count})
			assert.NoError(t, err)
		})
	}
}

func TestAssertRowCount_Mismatch(t *testing.T) {
	err := assertRowCount(testRecords(), nil, Assertion{
		Type:  AssertRowCount,
		Where: map[string]interface{}{"continent": nil},
		Count: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 rows where continent IS NULL")
	assert.Contains(t, err.Error(), "Actual: 2 rows")
}

func TestAssertRowCount_UnknownColumn(t *testing.T) {
	err := assertRowCount(testRecords(), nil, Assertion{
		Type:  AssertRowCount,
		Where: map[string]interface{}{"nation": "Japan"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "nation"`)
}

func TestAssertTopOrder(t *testing.T) {
	assert.NoError(t, assertTopOrder(testTop(), Assertion{Countries: []string{"Japan"}}))
	assert.NoError(t, assertTopOrder(testTop(), Assertion{Countries: []string{"Japan", "Viet Nam", "Russia"}}))

	err := assertTopOrder(testTop(), Assertion{Countries: []string{"Japan", "Russia"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ranking [Japan Viet Nam Russia]")

	err = assertTopOrder(testTop(), Assertion{Countries: []string{"Japan", "Viet Nam", "Russia", "Peru"}})
	assert.Error(t, err, "longer than the ranking")
}

func TestAssertTopExcludes(t *testing.T) {
	assert.NoError(t, assertTopExcludes(testTop(), Assertion{Countries: []string{"total", "others"}}))

	err := assertTopExcludes(testTop(), Assertion{Countries: []string{"total", "Russia"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Russia" not ranked`)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertResolves,
		Expected: `"Kosovo": continent = Europe`,
		Actual:   `"Kosovo": continent = <nil>`,
		Trace:    testTrace()[2:],
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: resolves")
	assert.Contains(t, msg, "Expected: \"Kosovo\": continent = Europe")
	assert.Contains(t, msg, "Resolution trace:")
	assert.Contains(t, msg, `[3] "Kosovo" -> "Kosovo" (null, score 43)`)
}

func TestBuildWhereClause_Empty(t *testing.T) {
	sql, args, err := buildWhereClause(nil)
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestBuildWhereClause_MultipleKeys_SortedDeterministic(t *testing.T) {
	sql, args, err := buildWhereClause(map[string]interface{}{
		"year":      2017,
		"continent": "Asia",
		"country":   nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "continent = ? AND country IS NULL AND year = ?", sql)
	assert.Equal(t, []interface{}{"Asia", 2017}, args)
}

func TestBuildWhereClause_NoInterpolation(t *testing.T) {
	malicious := "Japan'; DROP TABLE runs; --"
	sql, args, err := buildWhereClause(map[string]interface{}{"country": malicious})
	require.NoError(t, err)
	assert.Equal(t, "country = ?", sql)
	assert.Equal(t, []interface{}{malicious}, args)
}

func TestBuildWhereClause_InvalidColumnName(t *testing.T) {
	for _, col := range []string{"country; DROP TABLE runs", "1year", "country name", ""} {
		_, _, err := buildWhereClause(map[string]interface{}{col: "x"})
		assert.Error(t, err, col)
	}
}

func TestToSQLValue_Types(t *testing.T) {
	assert.Equal(t, "Japan", toSQLValue("Japan"))
	assert.Equal(t, 5, toSQLValue(5))
	assert.Equal(t, int64(5), toSQLValue(int64(5)))
	assert.Equal(t, true, toSQLValue(true))
	assert.Equal(t, "1.5", toSQLValue(1.5))
}

func TestFormatWhereClause(t *testing.T) {
	assert.Equal(t, "(no conditions)", formatWhereClause(nil))
	assert.Equal(t, "continent IS NULL AND year=2017",
		formatWhereClause(map[string]interface{}{"year": 2017, "continent": nil}))
}

func TestStateValuesEqual(t *testing.T) {
	assert.True(t, stateValuesEqual("Japan", "Japan"))
	assert.True(t, stateValuesEqual("Japan", []byte("Japan")))
	assert.False(t, stateValuesEqual("Japan", "Peru"))

	assert.True(t, stateValuesEqual(150, int64(150)))
	assert.True(t, stateValuesEqual(150, 150))
	assert.True(t, stateValuesEqual(int64(150), 150))
	assert.False(t, stateValuesEqual(150, "150"))

	assert.True(t, stateValuesEqual(true, int64(1)))
	assert.True(t, stateValuesEqual(false, false))
	assert.False(t, stateValuesEqual(true, int64(0)))

	assert.True(t, stateValuesEqual(nil, nil))
	assert.False(t, stateValuesEqual(nil, "Japan"))
	assert.False(t, stateValuesEqual("Japan", nil))
}

// Integration tests for assertFinalState and assertStoreVerify with a real
// database

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator("run-a")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedRun(t *testing.T, st *store.Store) {
	t.Helper()
	scenario := &Scenario{
		Name: "seed",
		Rows: []Row{
			{Year: 2017, Country: "Japan", Count: ir.Int64(100)},
			{Year: 2017, Country: "Vietnam", Count: ir.Int64(80)},
			{Year: 2017, Country: "Kosovo"},
		},
	}
	h := New()
	cfg, err := scenario.Settings.apply(h.base)
	require.NoError(t, err)
	raws, err := h.loadRecords(cfg, scenario)
	require.NoError(t, err)

	opts, err := cfg.PipelineOptions(nil)
	require.NoError(t, err)
	pc, err := pipeline.NewDefault(opts...)
	require.NoError(t, err)
	res, err := pc.Run(context.Background(), raws, cfg.RunOptions())
	require.NoError(t, err)
	_, err = st.WriteRun(context.Background(), "seed", 1, res)
	require.NoError(t, err)
}

func TestAssertFinalState_RowFound_Pass(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "country_totals",
		Where:  map[string]interface{}{"rank": 2},
		Expect: map[string]interface{}{"country": "Viet Nam", "visa_issued": 80},
	})
	assert.NoError(t, err)
}

func TestAssertFinalState_NullColumns(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "records",
		Where:  map[string]interface{}{"continent": nil},
		Expect: map[string]interface{}{"country": "Kosovo", "number_of_issued_numerical": nil},
	})
	assert.NoError(t, err)
}

func TestAssertFinalState_RowNotFound_Fail(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "country_totals",
		Where:  map[string]interface{}{"country": "Atlantis"},
		Expect: map[string]interface{}{"visa_issued": 1},
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.Equal(t, AssertFinalState, assertErr.Type)
	assert.Equal(t, "row not found", assertErr.Actual)
}

func TestAssertFinalState_Ambiguous_Fail(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "records",
		Where:  map[string]interface{}{"year": 2017},
		Expect: map[string]interface{}{"year": 2017},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple rows matched")
}

func TestAssertFinalState_ValueMismatch_Fail(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "country_totals",
		Where:  map[string]interface{}{"rank": 1},
		Expect: map[string]interface{}{"visa_issued": 99},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "visa_issued" = 99`)
}

func TestAssertFinalState_MissingColumn_Fail(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "country_totals",
		Where:  map[string]interface{}{"rank": 1},
		Expect: map[string]interface{}{"continent": "Asia"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "continent" to exist`)
}

func TestAssertFinalState_TableNotFound_Fail(t *testing.T) {
	st := setupTestStore(t)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "nonexistent",
		Expect: map[string]interface{}{"x": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query error")
}

func TestAssertFinalState_InvalidTableName(t *testing.T) {
	st := setupTestStore(t)

	err := assertFinalState(context.Background(), st, Assertion{
		Type:   AssertFinalState,
		Table:  "runs; DROP TABLE runs",
		Expect: map[string]interface{}{"x": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestAssertStoreVerify(t *testing.T) {
	st := setupTestStore(t)
	seedRun(t, st)

	assert.NoError(t, assertStoreVerify(context.Background(), st, "run-a"))

	_, err := st.DB().Exec(`UPDATE records SET number_of_issued_numerical = 1 WHERE country = 'Japan'`)
	require.NoError(t, err)

	err = assertStoreVerify(context.Background(), st, "run-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched")

	err = assertStoreVerify(context.Background(), st, "run-missing")
	assert.Error(t, err)
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	result := NewResult()
	result.Trace = testTrace()
	result.Cleaned = testRecords()
	result.TopCountries = testTop()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertResolves, Input: "Andra", Expect: map[string]interface{}{"country": "Russia"}},
		{Type: AssertRowCount, Where: map[string]interface{}{"year": 2017}, Count: 2},
		{Type: AssertTopOrder, Countries: []string{"Japan"}},
		{Type: AssertTopExcludes, Countries: []string{"total"}},
	}, nil)
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_SomeFail(t *testing.T) {
	result := NewResult()
	result.Trace = testTrace()
	result.TopCountries = testTop()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTopOrder, Countries: []string{"Japan"}},
		{Type: AssertTopOrder, Countries: []string{"Russia"}},
		{Type: AssertResolves, Input: "Atlantis", Expect: map[string]interface{}{"country": "x"}},
	}, nil)
	assert.Len(t, errs, 2)
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "trace_count"}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "trace_count"`)
}

func TestEvaluateAssertions_StoreAssertionsWithoutContext_Fail(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertFinalState, Table: "runs", Expect: map[string]interface{}{"year": 2017}},
		{Type: AssertStoreVerify},
	}, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "final_state requires database context")
	assert.Contains(t, errs[1], "store_verify requires database context")
}
