package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLJournal is a MySQL-backed Journal for shared deployments.
//
// DSN format follows the go-sql-driver convention:
//
//	user:password@tcp(host:3306)/onex?parseTime=true
type MySQLJournal struct {
	*sqlJournal
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS workflow_runs (
			workflow_id VARCHAR(191) PRIMARY KEY,
			result JSON NOT NULL,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS actions_outbox (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			action_id VARCHAR(191) NOT NULL UNIQUE,
			workflow_id VARCHAR(191) NOT NULL,
			action JSON NOT NULL,
			dispatched TINYINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_actions_pending (dispatched, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS intents_outbox (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			intent_id VARCHAR(191) NOT NULL UNIQUE,
			correlation_id VARCHAR(191) NOT NULL,
			kind VARCHAR(64) NOT NULL,
			payload JSON NOT NULL,
			dispatched TINYINT NOT NULL DEFAULT 0,
			INDEX idx_intents_pending (dispatched, seq)
		)`,
	},
	upsertRun: `INSERT INTO workflow_runs (workflow_id, result) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE result = VALUES(result)`,
	insertAction: `INSERT IGNORE INTO actions_outbox (action_id, workflow_id, action) VALUES (?, ?, ?)`,
	insertIntent: `INSERT IGNORE INTO intents_outbox (intent_id, correlation_id, kind, payload) VALUES (?, ?, ?, ?)`,
}

// NewMySQLJournal connects to MySQL and prepares the journal schema.
func NewMySQLJournal(dsn string) (*MySQLJournal, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql journal: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql journal: %w", err)
	}

	inner, err := newSQLJournal(db, mysqlDialect)
	if err != nil {
		return nil, err
	}
	return &MySQLJournal{sqlJournal: inner}, nil
}
