package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the snapshot schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects snapshot
CREATE TABLE IF NOT EXISTS projects (
    object_id TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT,
    start_date TIMESTAMP,
    finish_date TIMESTAMP,
    data_date TIMESTAMP,
    description TEXT
);

-- Activities snapshot; rowid preserves export retrieval order
CREATE TABLE IF NOT EXISTS activities (
    object_id TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    project_id TEXT,
    project_object_id TEXT NOT NULL,
    start_date TIMESTAMP,
    finish_date TIMESTAMP,
    status TEXT,
    type TEXT,
    wbs_object_id TEXT,
    wbs_name TEXT,
    planned_duration_hours REAL,
    FOREIGN KEY (project_object_id) REFERENCES projects(object_id)
);
CREATE INDEX IF NOT EXISTS idx_project_activities ON activities(project_object_id);

-- Resource assignments snapshot
CREATE TABLE IF NOT EXISTS resource_assignments (
    object_id TEXT PRIMARY KEY,
    activity_id TEXT,
    activity_object_id TEXT NOT NULL,
    project_object_id TEXT,
    resource_id TEXT,
    resource_object_id TEXT,
    resource_name TEXT,
    planned_units REAL,
    actual_units REAL,
    remaining_units REAL,
    planned_cost REAL,
    actual_cost REAL,
    remaining_cost REAL,
    planned_start_date TIMESTAMP,
    planned_finish_date TIMESTAMP,
    actual_start_date TIMESTAMP,
    actual_finish_date TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activity_assignments ON resource_assignments(activity_object_id);
CREATE INDEX IF NOT EXISTS idx_project_assignments ON resource_assignments(project_object_id);

-- Resources snapshot
CREATE TABLE IF NOT EXISTS resources (
    object_id TEXT PRIMARY KEY,
    id TEXT,
    name TEXT NOT NULL,
    resource_type TEXT,
    email_address TEXT,
    phone_number TEXT,
    price_per_unit REAL,
    max_units_per_time REAL,
    status TEXT,
    is_active INTEGER NOT NULL DEFAULT 1
);

-- Allocation percentages pre-computed by the exporting system
CREATE TABLE IF NOT EXISTS resource_allocation (
    resource_name TEXT PRIMARY KEY,
    allocation_pct REAL NOT NULL
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
