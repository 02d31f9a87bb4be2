package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// migration represents a single database migration
type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all database migrations
// Each migration should be idempotent and safe to run multiple times
var migrations = []migration{
	{
		version: 1,
		name:    "create_geo_photos_table",
		up: `
			CREATE TABLE IF NOT EXISTS geo_photos (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				uri TEXT NOT NULL,
				taken_at TEXT NOT NULL,
				latitude REAL,
				longitude REAL,
				city TEXT,
				region TEXT,
				country TEXT,
				note TEXT
			);

			CREATE INDEX IF NOT EXISTS idx_geo_photos_taken_at
			ON geo_photos(taken_at DESC);
		`,
	},
	{
		// Older installs predate the media-store linkage; the column is
		// added in place so their rows survive.
		version: 2,
		name:    "add_media_asset_id_column",
		up: `
			ALTER TABLE geo_photos ADD COLUMN media_asset_id TEXT;
		`,
	},
}

// isDuplicateColumnErr reports whether err is SQLite complaining that an
// ALTER TABLE ... ADD COLUMN names a column that already exists. A database
// restored from backup may have the column without the migration row, so
// this case counts as already applied rather than fatal.
func isDuplicateColumnErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// runMigrations executes all pending migrations
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue // Already applied
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		_, err = tx.Exec(m.up)
		if err != nil && !isDuplicateColumnErr(err) {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version,
			m.name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
