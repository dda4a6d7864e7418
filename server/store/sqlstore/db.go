package sqlstore

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Open connects to the local SQLite database, creating it if needed. WAL mode
// keeps the popup-facing API readable while a poll cycle is writing.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open companion database")
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY churn between the monitor and the API.
	db.SetMaxOpenConns(1)

	return db, nil
}
