package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; the ALTER TABLE must be tolerated.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"leads", "customer_data", "line_items", "activities", "campaigns", "business_profile"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_leads_stage",
		"idx_leads_archived",
		"idx_line_items_lead",
		"idx_activities_lead",
		"idx_activities_timestamp",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file databases.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	path := t.TempDir() + "/nested/leadpipe.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_LeadsCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO leads (id, name, stage, created_at, updated_at)
		VALUES ('l1', 'Ada', 'Won', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown stage should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO leads (id, name, priority, created_at, updated_at)
		VALUES ('l1', 'Ada', 'Urgent', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown priority should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO leads (id, name, created_at, updated_at)
		VALUES ('l1', 'Ada', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	var stage, priority string
	var direct int
	require.NoError(t, db.QueryRow(`SELECT stage, priority, is_direct_customer FROM leads WHERE id = 'l1'`).Scan(&stage, &priority, &direct))
	assert.Equal(t, "New Lead", stage)
	assert.Equal(t, "Medium", priority)
	assert.Equal(t, 0, direct)
}

func TestMigrate_CustomerDataCascades(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO leads (id, name, created_at, updated_at)
		VALUES ('l1', 'Ada', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO customer_data (lead_id, first_name) VALUES ('l1', 'Ada')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO line_items (lead_id, position, description, price) VALUES ('l1', 0, 'Windows', '100')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO activities (id, lead_id, type, timestamp) VALUES ('a1', 'l1', 'created', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM leads WHERE id = 'l1'`)
	require.NoError(t, err)

	for _, table := range []string{"customer_data", "line_items", "activities"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "%s rows should cascade", table)
	}
}

func TestMigrate_CampaignTypeConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO campaigns (id, name, type, content, created_at, updated_at)
		VALUES ('c1', 'Spring', 'fax', 'hi', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

// A database created before direct customers existed gains the column and
// keeps its rows.
func TestMigrate_UpgradeAddsDirectCustomerColumn(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE leads (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL DEFAULT '',
		address           TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		priority          TEXT NOT NULL DEFAULT 'Medium',
		stage             TEXT NOT NULL DEFAULT 'New Lead',
		projected_value   REAL,
		follow_up_date    TEXT,
		last_contacted_at TEXT,
		source            TEXT NOT NULL DEFAULT '',
		archived          INTEGER NOT NULL DEFAULT 0,
		archived_at       TEXT,
		converted         INTEGER NOT NULL DEFAULT 0,
		converted_at      TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO leads (id, name, created_at, updated_at)
		VALUES ('legacy', 'Old Lead', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	assert.Contains(t, tableColumns(t, db, "leads"), "is_direct_customer")

	var name string
	var direct int
	require.NoError(t, db.QueryRow(`SELECT name, is_direct_customer FROM leads WHERE id = 'legacy'`).Scan(&name, &direct))
	assert.Equal(t, "Old Lead", name)
	assert.Equal(t, 0, direct)
}
