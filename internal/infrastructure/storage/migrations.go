package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_sync_runs_table",
		Up:      migration002AddSyncRunsTable,
	},
	{
		Version: 3,
		Name:    "add_usage_dedup_index",
		Up:      migration003AddUsageDedupIndex,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			migration.Version, migration.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migration001InitialSchema(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE cards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		reward_currency TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE card_categories (
		card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		category_name TEXT NOT NULL,
		earn_rate REAL NOT NULL,
		earn_type TEXT NOT NULL,
		notes TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (card_id, category_name)
	);

	CREATE TABLE benefits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		reset_period TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE benefit_usage (
		id TEXT PRIMARY KEY,
		benefit_id TEXT NOT NULL REFERENCES benefits(id) ON DELETE CASCADE,
		period_key TEXT NOT NULL,
		amount_used_cents INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX idx_benefit_usage_period ON benefit_usage(benefit_id, period_key);

	CREATE TABLE offers (
		id TEXT PRIMARY KEY,
		merchant TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		spend_min_cents INTEGER
	);

	CREATE TABLE enrolled_offers (
		id TEXT PRIMARY KEY,
		offer_id TEXT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
		enrolled_at DATETIME NOT NULL,
		threshold_met INTEGER NOT NULL DEFAULT 0,
		spent_amount_cents INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME
	);
	`)
	return err
}

func migration002AddSyncRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME,
		imported INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		offers_updated INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// The dedup key for CSV imports: the same statement line must not record
// usage twice across repeated uploads.
func migration003AddUsageDedupIndex(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE UNIQUE INDEX idx_benefit_usage_dedup
	ON benefit_usage(benefit_id, period_key, notes)
	`)
	return err
}
