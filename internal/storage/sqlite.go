// Package storage opens the bot's sqlite database. Modules own their own
// tables and migrate them during Init.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	driver = "sqlite"
	dsnOpt = "?_pragma=busy_timeout(3000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
)

// Open opens (creating if necessary) the sqlite database at path.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage: database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create dir: %w", err)
		}
	}

	db, err := sql.Open(driver, path+dsnOpt)
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping db: %w", err)
	}
	return db, nil
}
