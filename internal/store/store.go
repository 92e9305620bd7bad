// Package store defines the datastore contract for the behavior chart and
// implements it on SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/behaviorchart/internal/model"
)

// Tx is the unit of work the ledger runs atomically. Implementations must
// allow every read to be issued before any write, since document stores
// such as Firestore reject reads after writes inside a transaction.
type Tx interface {
	Points(ctx context.Context) (int, error)
	SetPoints(ctx context.Context, total int) error
	FindTaskLog(ctx context.Context, taskKey string, start, end time.Time) (*model.BehaviorLog, error)
	CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error)
	DeleteLog(ctx context.Context, id string) error
	GetReward(ctx context.Context, id string) (*model.Reward, error)
	CreateRedemption(ctx context.Context, r model.Redemption) (*model.Redemption, error)
}

// Store is implemented by SQLStore and docstore.Store. Getters return
// (nil, nil) when the record does not exist.
type Store interface {
	WithTx(ctx context.Context, fn func(Tx) error) error

	Points(ctx context.Context) (int, error)
	SetPoints(ctx context.Context, total int) error
	EnsurePoints(ctx context.Context) error

	ListLogs(ctx context.Context) ([]model.BehaviorLog, error)
	ListLogsBetween(ctx context.Context, start, end time.Time) ([]model.BehaviorLog, error)
	CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error)

	ListRewards(ctx context.Context) ([]model.Reward, error)
	GetReward(ctx context.Context, id string) (*model.Reward, error)
	CreateReward(ctx context.Context, name string, cost int) (*model.Reward, error)
	UpdateReward(ctx context.Context, id, name string, cost int) (*model.Reward, error)
	DeleteReward(ctx context.Context, id string) error

	ListRedemptions(ctx context.Context) ([]model.Redemption, error)

	PINHash(ctx context.Context, role model.Role) (string, error)
	SetPINHash(ctx context.Context, role model.Role, hash string) error

	Close() error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore is the SQLite implementation of Store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB exposes the underlying handle for tests and maintenance.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction and commits if fn returns nil.
func (s *SQLStore) WithTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type sqlTx struct {
	q querier
}

func (t *sqlTx) Points(ctx context.Context) (int, error) {
	return getPoints(ctx, t.q)
}

func (t *sqlTx) SetPoints(ctx context.Context, total int) error {
	return setPoints(ctx, t.q, total)
}

func (t *sqlTx) FindTaskLog(ctx context.Context, taskKey string, start, end time.Time) (*model.BehaviorLog, error) {
	return findTaskLog(ctx, t.q, taskKey, start, end)
}

func (t *sqlTx) CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error) {
	return createLog(ctx, t.q, entry)
}

func (t *sqlTx) DeleteLog(ctx context.Context, id string) error {
	return deleteLog(ctx, t.q, id)
}

func (t *sqlTx) GetReward(ctx context.Context, id string) (*model.Reward, error) {
	return getReward(ctx, t.q, id)
}

func (t *sqlTx) CreateRedemption(ctx context.Context, r model.Redemption) (*model.Redemption, error) {
	return createRedemption(ctx, t.q, r)
}

// dbTime normalizes timestamps so stored values sort lexically.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
