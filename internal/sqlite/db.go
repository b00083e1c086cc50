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

	// Readers and the refresh writer share this handle.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The projects table is rebuilt wholesale
// every refresh cycle; plans persist across cycles.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    enterprise TEXT NOT NULL DEFAULT '',
    project_type TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL DEFAULT '',
    district TEXT NOT NULL DEFAULT '',
    zone TEXT NOT NULL DEFAULT '',
    total_value REAL NOT NULL DEFAULT 0,
    period_value REAL NOT NULL DEFAULT 0,
    size TEXT NOT NULL DEFAULT '',
    partner TEXT NOT NULL DEFAULT '',
    partner_country TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    problem TEXT NOT NULL DEFAULT '',
    org_responsible TEXT NOT NULL DEFAULT '',
    region_responsible TEXT NOT NULL DEFAULT '',
    deadline TEXT
);
CREATE INDEX IF NOT EXISTS idx_projects_size ON projects(size);
CREATE INDEX IF NOT EXISTS idx_projects_district ON projects(district);
CREATE INDEX IF NOT EXISTS idx_projects_enterprise ON projects(enterprise);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_projects_problem ON projects(problem);
CREATE INDEX IF NOT EXISTS idx_projects_deadline ON projects(deadline);
CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(org_responsible);
CREATE INDEX IF NOT EXISTS idx_projects_region ON projects(region_responsible);

CREATE TABLE IF NOT EXISTS plans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    text TEXT NOT NULL,
    plan_date TEXT NOT NULL,
    due_date TEXT,
    completed INTEGER NOT NULL DEFAULT 0,
    notified INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_plans_user_day ON plans(user_id, plan_date);
CREATE INDEX IF NOT EXISTS idx_plans_due ON plans(due_date);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
