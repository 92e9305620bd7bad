package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/google/uuid"
)

func scanLog(scanner interface{ Scan(...any) error }) (*model.BehaviorLog, error) {
	var l model.BehaviorLog
	var taskKey sql.NullString

	if err := scanner.Scan(&l.ID, &l.Timestamp, &l.EntryType, &taskKey); err != nil {
		return nil, err
	}
	if taskKey.Valid {
		l.TaskKey = taskKey.String
	}
	return &l, nil
}

const logCols = `id, logged_at, entry_type, task_key`

func createLog(ctx context.Context, q querier, entry model.BehaviorLog) (*model.BehaviorLog, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Timestamp = dbTime(entry.Timestamp)

	var taskKey sql.NullString
	if entry.TaskKey != "" {
		taskKey = sql.NullString{String: entry.TaskKey, Valid: true}
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO behavior_logs (id, logged_at, entry_type, task_key) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.EntryType, taskKey,
	)
	if err != nil {
		return nil, fmt.Errorf("insert behavior log: %w", err)
	}
	return &entry, nil
}

func deleteLog(ctx context.Context, q querier, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM behavior_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete behavior log: %w", err)
	}
	return nil
}

// findTaskLog returns the oldest entry for taskKey in [start, end).
func findTaskLog(ctx context.Context, q querier, taskKey string, start, end time.Time) (*model.BehaviorLog, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+logCols+` FROM behavior_logs
		 WHERE task_key = ? AND logged_at >= ? AND logged_at < ?
		 ORDER BY logged_at ASC, rowid ASC LIMIT 1`,
		taskKey, dbTime(start), dbTime(end),
	)
	l, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task log: %w", err)
	}
	return l, nil
}

func listLogs(ctx context.Context, q querier, query string, args ...any) ([]model.BehaviorLog, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list behavior logs: %w", err)
	}
	defer rows.Close()

	var logs []model.BehaviorLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan behavior log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// ListLogs returns every entry, newest first.
func (s *SQLStore) ListLogs(ctx context.Context) ([]model.BehaviorLog, error) {
	return listLogs(ctx, s.db,
		`SELECT `+logCols+` FROM behavior_logs ORDER BY logged_at DESC, rowid DESC`)
}

// ListLogsBetween returns entries in [start, end), newest first.
func (s *SQLStore) ListLogsBetween(ctx context.Context, start, end time.Time) ([]model.BehaviorLog, error) {
	return listLogs(ctx, s.db,
		`SELECT `+logCols+` FROM behavior_logs WHERE logged_at >= ? AND logged_at < ?
		 ORDER BY logged_at DESC, rowid DESC`,
		dbTime(start), dbTime(end))
}

// CreateLog inserts an entry outside of any ledger transaction. It is used
// for seeding; point totals are not touched.
func (s *SQLStore) CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error) {
	return createLog(ctx, s.db, entry)
}
