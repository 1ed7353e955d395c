package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visadata/internal/pipeline"
)

func TestOpen_RunSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "visadata.db")
	res := runPipeline(t, pipeline.RunOptions{Year: 2017})

	s1, err := Open(path, WithIDGenerator(NewFixedGenerator("run-1")))
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "database file was not created")
	written, err := s1.WriteRun(ctx, "visas.csv", 2, res)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening applies the schema and migrations again over existing rows.
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		require.NoError(t, err, "reopen %d", i)

		runs, err := s.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, *written, runs[0])

		records, err := s.ReadRecords(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, res.Cleaned, records)
		require.NoError(t, s.Close())
	}
}

func TestOpen_ConnectionSettingsHoldWhileWriting(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, "visas.csv", 1, runPipeline(t, pipeline.RunOptions{Year: 2017}))
	require.NoError(t, err)

	pragmas := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, want := range pragmas {
		assert.NoError(t, s.verifyPragma(name, want))
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/visadata.db")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())

	s, err := Open(filepath.Join(t.TempDir(), "visadata.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	// A second close may error but must not panic.
	_ = s.Close()
}

func TestDeleteRun_CascadesToViews(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.WriteRun(ctx, "visas.csv", 1, runPipeline(t, pipeline.RunOptions{Year: 2017}))
	require.NoError(t, err)

	count := func(table string) int {
		var n int
		require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table+" WHERE run_id = ?", run.ID).Scan(&n))
		return n
	}
	assert.Equal(t, 12, count("records"))
	assert.NotZero(t, count("continent_totals"))
	assert.NotZero(t, count("country_totals"))

	_, err = s.DB().ExecContext(ctx, "DELETE FROM runs WHERE id = ?", run.ID)
	require.NoError(t, err)
	for _, table := range []string{"records", "continent_totals", "country_totals"} {
		assert.Zero(t, count(table), table)
	}
}

// Schema table tests

func TestSchema_RecordsTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "records")
	want := []string{"run_id", "pos", "year", "country", "number_of_issued_numerical", "continent"}
	for _, col := range want {
		if !contains(columns, col) {
			t.Errorf("records table missing column %q, have %v", col, columns)
		}
	}
}

func TestSchema_RunsTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "runs")
	want := []string{"id", "seq", "source", "year", "top_limit", "threshold", "params", "stats",
		"cleaned_digest", "continents_digest", "countries_digest", "run_digest"}
	for _, col := range want {
		if !contains(columns, col) {
			t.Errorf("runs table missing column %q, have %v", col, columns)
		}
	}
}

func TestConstraint_RecordsForeignKey(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO records (run_id, pos, year) VALUES ('missing', 0, 2017)`)
	if err == nil {
		t.Error("expected foreign key violation for record without run")
	}
}

func TestConstraint_RunSeqUnique(t *testing.T) {
	s := createTestStore(t)

	insert := `INSERT INTO runs (id, seq, source, year, top_limit, threshold, params, stats,
		cleaned_digest, continents_digest, countries_digest, run_digest, pipeline_version, digest_version)
		VALUES (?, 1, '', 2017, 10, 85, '{}', '{}', '', '', '', '', '', '')`
	if _, err := s.db.Exec(insert, "run-a"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := s.db.Exec(insert, "run-b"); err == nil {
		t.Error("expected UNIQUE violation on runs.seq")
	}
}

// Migration tests

func TestMigration_SchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify user_version is set to currentSchemaVersion
	var version int
	err = s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		t.Fatalf("failed to get user_version: %v", err)
	}

	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestMigration_V1IndexExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	indexes := getTableIndexes(t, s.db, "records")
	if !contains(indexes, "idx_records_run_year_country") {
		t.Errorf("records table missing ranking index, indexes: %v", indexes)
	}
}

func TestMigration_IdempotentUpgrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// Open and close multiple times - migrations should be idempotent
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}

		// Verify version is correct each time
		var version int
		err = s.db.QueryRow("PRAGMA user_version").Scan(&version)
		if err != nil {
			t.Fatalf("failed to get user_version: %v", err)
		}

		if version != currentSchemaVersion {
			t.Errorf("iteration %d: user_version = %d, want %d", i, version, currentSchemaVersion)
		}

		s.Close()
	}
}

func TestMigration_UpgradeFromV0(t *testing.T) {
	// Simulate a pre-migration database (version 0)
	path := filepath.Join(t.TempDir(), "test.db")

	// Create database manually without migration
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Apply schema but NOT migrations (simulates pre-migration state)
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Set version to 0 explicitly (pre-migration)
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatalf("failed to set user_version: %v", err)
	}
	db.Close()

	// Now open through our normal path - should trigger migration
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify version was upgraded
	var version int
	err = s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		t.Fatalf("failed to get user_version: %v", err)
	}

	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d after migration", version, currentSchemaVersion)
	}

	indexes := getTableIndexes(t, s.db, "records")
	if !contains(indexes, "idx_records_run_year_country") {
		t.Errorf("expected ranking index after migration, got indexes: %v", indexes)
	}
}

// Helper functions

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
