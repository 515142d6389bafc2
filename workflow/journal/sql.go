package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/onexlabs/onex-go/workflow"
)

// dialect captures the differences between the SQL backends: schema DDL,
// upsert phrasing and placeholder style. The query text below is written
// with ? placeholders and rebound for backends that number them.
type dialect struct {
	name           string
	schema         []string
	upsertRun      string
	insertAction   string
	insertIntent   string
	numberedParams bool
}

// sqlJournal implements Journal over database/sql; the backend constructors
// supply the connection and dialect.
type sqlJournal struct {
	db      *sql.DB
	dialect dialect

	mu     sync.Mutex
	closed bool
}

func newSQLJournal(db *sql.DB, d dialect) (*sqlJournal, error) {
	j := &sqlJournal{db: db, dialect: d}

	ctx := context.Background()
	for _, ddl := range d.schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating %s journal schema: %w", d.name, err)
		}
	}
	return j, nil
}

// rebind renumbers ? placeholders for backends that require $1-style params.
func (j *sqlJournal) rebind(query string) string {
	if !j.dialect.numberedParams {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveRun stores the result and enqueues its actions in one transaction.
func (j *sqlJournal) SaveRun(ctx context.Context, result workflow.WorkflowResult) error {
	data, err := marshalJSON(result)
	if err != nil {
		return err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning SaveRun transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, j.rebind(j.dialect.upsertRun), result.WorkflowID, data); err != nil {
		return fmt.Errorf("upserting run %s: %w", result.WorkflowID, err)
	}

	for _, action := range result.ActionsEmitted {
		encoded, err := marshalJSON(action)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, j.rebind(j.dialect.insertAction),
			action.ActionID, result.WorkflowID, encoded); err != nil {
			return fmt.Errorf("enqueueing action %s: %w", action.ActionID, err)
		}
	}

	return tx.Commit()
}

// LoadRun retrieves a recorded result.
func (j *sqlJournal) LoadRun(ctx context.Context, workflowID string) (workflow.WorkflowResult, error) {
	var data []byte
	query := j.rebind(`SELECT result FROM workflow_runs WHERE workflow_id = ?`)
	err := j.db.QueryRowContext(ctx, query, workflowID).Scan(&data)
	if err == sql.ErrNoRows {
		return workflow.WorkflowResult{}, ErrNotFound
	}
	if err != nil {
		return workflow.WorkflowResult{}, fmt.Errorf("loading run %s: %w", workflowID, err)
	}

	var result workflow.WorkflowResult
	if err := unmarshalJSON(data, &result); err != nil {
		return workflow.WorkflowResult{}, err
	}
	return result, nil
}

// PendingActions returns undispatched actions in enqueue order.
func (j *sqlJournal) PendingActions(ctx context.Context, limit int) ([]workflow.Action, error) {
	query := j.rebind(`SELECT action FROM actions_outbox WHERE dispatched = 0 ORDER BY seq LIMIT ?`)
	rows, err := j.db.QueryContext(ctx, query, effectiveLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying pending actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []workflow.Action
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var action workflow.Action
		if err := unmarshalJSON(data, &action); err != nil {
			return nil, err
		}
		out = append(out, action)
	}
	return out, rows.Err()
}

// MarkActionsDispatched records delivery.
func (j *sqlJournal) MarkActionsDispatched(ctx context.Context, actionIDs []string) error {
	query := j.rebind(`UPDATE actions_outbox SET dispatched = 1 WHERE action_id = ?`)
	return j.markDispatched(ctx, query, actionIDs)
}

// SaveIntents enqueues intents in order, assigning IDs where missing.
func (j *sqlJournal) SaveIntents(ctx context.Context, records []IntentRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning SaveIntents transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		if rec.IntentID == "" {
			rec.IntentID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, j.rebind(j.dialect.insertIntent),
			rec.IntentID, rec.CorrelationID, rec.Kind, rec.Payload); err != nil {
			return fmt.Errorf("enqueueing intent %s: %w", rec.IntentID, err)
		}
	}
	return tx.Commit()
}

// PendingIntents returns undispatched intents in enqueue order.
func (j *sqlJournal) PendingIntents(ctx context.Context, limit int) ([]IntentRecord, error) {
	query := j.rebind(`SELECT intent_id, correlation_id, kind, payload FROM intents_outbox WHERE dispatched = 0 ORDER BY seq LIMIT ?`)
	rows, err := j.db.QueryContext(ctx, query, effectiveLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying pending intents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []IntentRecord
	for rows.Next() {
		var rec IntentRecord
		if err := rows.Scan(&rec.IntentID, &rec.CorrelationID, &rec.Kind, &rec.Payload); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkIntentsDispatched records delivery.
func (j *sqlJournal) MarkIntentsDispatched(ctx context.Context, intentIDs []string) error {
	query := j.rebind(`UPDATE intents_outbox SET dispatched = 1 WHERE intent_id = ?`)
	return j.markDispatched(ctx, query, intentIDs)
}

func (j *sqlJournal) markDispatched(ctx context.Context, query string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning dispatch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("marking %s dispatched: %w", id, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle. Idempotent.
func (j *sqlJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return 1 << 30
	}
	return limit
}
