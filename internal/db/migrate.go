package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL DEFAULT '',
		address           TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		priority          TEXT NOT NULL DEFAULT 'Medium'
		                  CHECK(priority IN ('Low','Medium','High')),
		stage             TEXT NOT NULL DEFAULT 'New Lead'
		                  CHECK(stage IN ('New Lead','Qualified','Proposal Sent','Negotiation','Closed-Won','Closed-Lost')),
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
	)`,

	`CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_archived ON leads(archived)`,

	`CREATE TABLE IF NOT EXISTS customer_data (
		lead_id            TEXT PRIMARY KEY REFERENCES leads(id) ON DELETE CASCADE,
		first_name         TEXT NOT NULL DEFAULT '',
		last_name          TEXT NOT NULL DEFAULT '',
		company_name       TEXT NOT NULL DEFAULT '',
		email              TEXT NOT NULL DEFAULT '',
		phone              TEXT NOT NULL DEFAULT '',
		job_title          TEXT NOT NULL DEFAULT '',
		job_type           TEXT NOT NULL DEFAULT '',
		measurement_value  TEXT NOT NULL DEFAULT '',
		property_street1   TEXT NOT NULL DEFAULT '',
		property_street2   TEXT NOT NULL DEFAULT '',
		property_city      TEXT NOT NULL DEFAULT '',
		property_state     TEXT NOT NULL DEFAULT '',
		property_zip       TEXT NOT NULL DEFAULT '',
		billing_same       INTEGER NOT NULL DEFAULT 1,
		billing_street1    TEXT NOT NULL DEFAULT '',
		billing_street2    TEXT NOT NULL DEFAULT '',
		billing_city       TEXT NOT NULL DEFAULT '',
		billing_state      TEXT NOT NULL DEFAULT '',
		billing_zip        TEXT NOT NULL DEFAULT '',
		notes              TEXT NOT NULL DEFAULT '',
		archived           INTEGER NOT NULL DEFAULT 0,
		archived_at        TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS line_items (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id     TEXT NOT NULL REFERENCES customer_data(lead_id) ON DELETE CASCADE,
		position    INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		price       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_line_items_lead ON line_items(lead_id)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		lead_id     TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		type        TEXT NOT NULL
		            CHECK(type IN ('created','stage_changed','contacted','note_added','updated','converted','archived','restored')),
		description TEXT NOT NULL DEFAULT '',
		timestamp   TEXT NOT NULL,
		metadata    TEXT NOT NULL DEFAULT '{}'
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_lead ON activities(lead_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL CHECK(type IN ('email','sms')),
		subject    TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL,
		targeting  TEXT NOT NULL DEFAULT '{}',
		sent       INTEGER NOT NULL DEFAULT 0,
		opened     INTEGER NOT NULL DEFAULT 0,
		clicked    INTEGER NOT NULL DEFAULT 0,
		converted  INTEGER NOT NULL DEFAULT 0,
		last_sent  TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS business_profile (
		id         TEXT PRIMARY KEY DEFAULT 'default',
		document   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Direct customers were added after the first schema.
	`ALTER TABLE leads ADD COLUMN is_direct_customer INTEGER NOT NULL DEFAULT 0`,
}
