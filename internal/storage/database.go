package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	// Pragmas in the DSN apply to every pooled connection, not only the first one.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS repositories (
			url TEXT PRIMARY KEY,
			owner TEXT NOT NULL COLLATE NOCASE,
			name TEXT NOT NULL COLLATE NOCASE,
			language TEXT,
			description TEXT,
			default_branch TEXT NOT NULL,
			stars INTEGER NOT NULL DEFAULT 0,
			forks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (owner, name)
		);`,
		`CREATE TABLE IF NOT EXISTS repository_topics (
			repository_url TEXT NOT NULL,
			topic TEXT NOT NULL,
			PRIMARY KEY (repository_url, topic),
			FOREIGN KEY (repository_url) REFERENCES repositories(url) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS branches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			repository_url TEXT NOT NULL,
			commit_sha TEXT NOT NULL,
			name TEXT NOT NULL,
			commit_at DATETIME,
			summary TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (repository_url) REFERENCES repositories(url) ON DELETE CASCADE,
			UNIQUE (repository_url, commit_sha)
		);`,
		`CREATE TABLE IF NOT EXISTS folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_id INTEGER NOT NULL,
			parent_id INTEGER,
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			usage TEXT,
			summary TEXT,
			summarized_at DATETIME,
			FOREIGN KEY (branch_id) REFERENCES branches(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE CASCADE,
			UNIQUE (branch_id, path)
		);`,
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			usage TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE,
			UNIQUE (folder_id, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
