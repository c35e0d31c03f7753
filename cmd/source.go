package cmd

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"lite2pg/internal/dialect"
)

// openSource opens an existing SQLite file read-only. A missing or unreadable
// file is reported before anything else happens.
func openSource(path string) (*sql.DB, dialect.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("SQLite database not found: %s", path)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("SQLite database path is a directory: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("SQLite database is not readable: %w", err)
	}
	_ = f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	// mode=ro keeps the driver from creating or modifying the file. Path is
	// escaped, so '#', '?' and '%' in a file name stay part of the name.
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/dir/app.db
	}
	dsn := (&url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}).String()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open source: %w", err)
	}

	d, err := dialect.GetSource("sqlite")
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, d, nil
}
