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

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	migration := `
-- User profiles
CREATE TABLE IF NOT EXISTS user_profile (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('admin', 'pm')),
    PRIMARY KEY (user_id, role),
    FOREIGN KEY (user_id) REFERENCES user_profile(id)
);

-- Projects; amounts are decimal strings, dates are YYYY-MM-DD
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    project_address TEXT NOT NULL,
    client TEXT NOT NULL,
    contract_amount TEXT NOT NULL DEFAULT '0',
    paid TEXT NOT NULL DEFAULT '0',
    status TEXT NOT NULL CHECK(status IN ('quoted', 'active', 'finished', 'archived')),
    date_quoted TEXT NOT NULL,
    date_started TEXT,
    date_finished TEXT,
    user_id_fk TEXT,
    FOREIGN KEY (user_id_fk) REFERENCES user_profile(id)
);
CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(user_id_fk);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

-- Sales ledger; a snapshot that outlives its project
CREATE TABLE IF NOT EXISTS sales (
    sales_id INTEGER PRIMARY KEY,
    date TEXT NOT NULL,
    project_id_fk INTEGER NOT NULL UNIQUE,
    project_address TEXT NOT NULL,
    contract_amount TEXT NOT NULL,
    owner_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    user_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_project_activity ON activity_log(project_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT,
    FOREIGN KEY (user_id) REFERENCES user_profile(id)
);
CREATE INDEX IF NOT EXISTS idx_user_keys ON api_keys(user_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
