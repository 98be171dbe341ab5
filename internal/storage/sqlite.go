package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (or creates) the SQLite file at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: dbPath}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS canvases (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			viewport_x REAL NOT NULL DEFAULT 0,
			viewport_y REAL NOT NULL DEFAULT 0,
			viewport_zoom REAL NOT NULL DEFAULT 1.0,
			grid_enabled INTEGER NOT NULL DEFAULT 1,
			grid_cell REAL NOT NULL DEFAULT 8,
			grid_snap INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS components (
			id TEXT NOT NULL,
			canvas_id TEXT NOT NULL REFERENCES canvases(id),
			parent_id TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			props_json TEXT NOT NULL DEFAULT '{}',
			position_json TEXT NOT NULL DEFAULT '',
			size_json TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (canvas_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_components_parent ON components(canvas_id, parent_id, sort_order)`,
		`CREATE TABLE IF NOT EXISTS history_entries (
			id TEXT NOT NULL,
			canvas_id TEXT NOT NULL REFERENCES canvases(id),
			seq INTEGER NOT NULL,
			label TEXT NOT NULL,
			snapshot_json TEXT NOT NULL,
			selected_json TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (canvas_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS history_state (
			canvas_id TEXT PRIMARY KEY REFERENCES canvases(id),
			cursor INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
