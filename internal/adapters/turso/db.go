// Package turso persists profiles and sessions in a libsql database
// (Turso remote or a local sqlite file). It is the alternate backend to
// badgerstore, selected by configuration.
package turso

import (
	"database/sql"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// NewDB opens a libsql connection. authToken may be empty for local
// file databases.
func NewDB(databaseURL, authToken string) (*sql.DB, error) {
	connStr := databaseURL
	if authToken != "" {
		connStr += "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, err
	}

	// Keep the pool small: Turso aggressively closes idle Hrana
	// streams, and stale connections surface as "stream not found".
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
