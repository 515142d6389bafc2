package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteJournal is a single-file Journal for development, testing and
// single-process deployments.
//
// The database is created on first use with WAL mode enabled so readers do
// not block the writer. Use ":memory:" for an in-memory database in tests.
//
// Example:
//
//	j, err := journal.NewSQLiteJournal("./onex.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer j.Close()
type SQLiteJournal struct {
	*sqlJournal
	path string
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS workflow_runs (
			workflow_id TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS actions_outbox (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			action_id TEXT NOT NULL UNIQUE,
			workflow_id TEXT NOT NULL,
			action TEXT NOT NULL,
			dispatched INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS intents_outbox (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			intent_id TEXT NOT NULL UNIQUE,
			correlation_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			dispatched INTEGER NOT NULL DEFAULT 0
		)`,
	},
	upsertRun: `INSERT INTO workflow_runs (workflow_id, result) VALUES (?, ?)
		ON CONFLICT(workflow_id) DO UPDATE SET result = excluded.result`,
	insertAction: `INSERT OR IGNORE INTO actions_outbox (action_id, workflow_id, action) VALUES (?, ?, ?)`,
	insertIntent: `INSERT OR IGNORE INTO intents_outbox (intent_id, correlation_id, kind, payload) VALUES (?, ?, ?, ?)`,
}

// NewSQLiteJournal opens (creating if needed) the journal database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite journal: %w", err)
	}

	// SQLite supports a single writer; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configuring sqlite journal: %w", err)
		}
	}

	inner, err := newSQLJournal(db, sqliteDialect)
	if err != nil {
		return nil, err
	}
	return &SQLiteJournal{sqlJournal: inner, path: path}, nil
}
