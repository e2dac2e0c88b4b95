package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra/lexassist/internal/db"
)

// Store provides CRUD operations for decision records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a new decision. If d.ID is empty a UUID is generated.
func (s *Store) Record(ctx context.Context, d Decision) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (
			id, session_id, input_mode, utterance,
			intent, action, slot_to_elicit, intent_state
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.SessionID,
		d.InputMode,
		d.Utterance,
		d.Intent,
		d.Action,
		d.SlotToElicit,
		d.IntentState,
	)
	if err != nil {
		return fmt.Errorf("inserting decision: %w", err)
	}
	return nil
}

// GetByID retrieves a single decision.
func (s *Store) GetByID(ctx context.Context, id string) (*Decision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, session_id, input_mode, utterance,
			   intent, action, slot_to_elicit, intent_state
		FROM decisions WHERE id = ?`, id)

	return scanInto(row)
}

// QueryFilter controls which decisions are returned by Query.
type QueryFilter struct {
	SessionID string
	Intent    string
	Action    string
	Since     *time.Time
	Until     *time.Time
	Limit     int
	Offset    int
}

// Query returns decisions matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Decision, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Intent != "" {
		clauses = append(clauses, "intent = ?")
		args = append(args, filter.Intent)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(time.DateTime))
	}

	query := "SELECT id, timestamp, session_id, input_mode, utterance, intent, action, slot_to_elicit, intent_state FROM decisions"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		d, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *d)
	}
	return decisions, rows.Err()
}

// DeleteBefore removes all decisions older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM decisions WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old decisions: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Decision, error) {
	var (
		d  Decision
		ts string
	)

	err := sc.Scan(
		&d.ID, &ts, &d.SessionID, &d.InputMode, &d.Utterance,
		&d.Intent, &d.Action, &d.SlotToElicit, &d.IntentState,
	)
	if err != nil {
		return nil, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		d.Timestamp = t
	} else if t, parseErr := time.Parse("2006-01-02T15:04:05Z", ts); parseErr == nil {
		d.Timestamp = t
	}

	return &d, nil
}
