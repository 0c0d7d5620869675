package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single schema change applied in order.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered migration chain. Append only, never edit an
// entry that has shipped.
var migrations = []migration{
	{1, "baseline schema", migrateBaseline},
}

// LatestSchemaVersion returns the version the database should be at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the current schema version. Returns 0 for a database
// without version tracking.
// PRE: db is a valid database connection
// POST: Returns the recorded version, or 0 if none
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB brings the database schema up to the latest version. Each pending
// migration runs in its own transaction and records itself in schema_version.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("migration_applied", "version", m.version, "name", m.name, "db", dbPath)
	}
	return nil
}

// migrateBaseline creates the full schema. Uses IF NOT EXISTS so it can adopt
// a database created before version tracking existed.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS user (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		join_date TEXT NOT NULL,
		last_login TEXT
	);

	CREATE TABLE IF NOT EXISTS user_settings (
		user_id TEXT PRIMARY KEY,
		email_notifications INTEGER NOT NULL DEFAULT 1,
		profile_visible INTEGER NOT NULL DEFAULT 1,
		theme TEXT NOT NULL DEFAULT 'light',
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES user(id)
	);

	CREATE TABLE IF NOT EXISTS volunteer_application (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		birthdate TEXT,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		address TEXT,
		skills TEXT NOT NULL,
		interests TEXT,
		availability_days TEXT,
		preferred_time TEXT,
		emergency_name TEXT,
		emergency_phone TEXT,
		reference_code TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		assigned_chapter TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS volunteer_shift (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		location TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled'
	);

	CREATE TABLE IF NOT EXISTS training_course (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_on TEXT
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT,
		location TEXT,
		description TEXT,
		max_participants INTEGER NOT NULL,
		registered_participants INTEGER NOT NULL DEFAULT 0,
		contact_person TEXT,
		contact_email TEXT,
		requirements TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_registration (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		additional_info TEXT,
		reference_code TEXT NOT NULL,
		registered_at TEXT NOT NULL,
		FOREIGN KEY (event_id) REFERENCES event(id)
	);

	CREATE TABLE IF NOT EXISTS service (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		details TEXT,
		icon TEXT,
		requirements TEXT,
		locations TEXT,
		contact TEXT,
		phone TEXT,
		hours TEXT,
		urgency TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS donation (
		id TEXT PRIMARY KEY,
		amount INTEGER NOT NULL,
		campaign TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		reference_code TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alert (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		priority TEXT NOT NULL,
		instructions TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alert_subscription (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		region TEXT NOT NULL,
		unread_count INTEGER NOT NULL DEFAULT 0,
		subscribed_at TEXT NOT NULL
	);
	`
	_, err := tx.Exec(schema)
	return err
}
