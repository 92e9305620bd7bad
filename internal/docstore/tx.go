package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
)

// docTx adapts a Firestore transaction to store.Tx. Firestore rejects reads
// after the first write, and the ledger issues all reads first.
type docTx struct {
	s  *Store
	tx *firestore.Transaction
}

// WithTx runs fn in a Firestore transaction. Firestore may call fn more
// than once on contention, so fn must not have side effects outside tx.
func (s *Store) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&docTx{s: s, tx: tx})
	})
}

func (t *docTx) Points(ctx context.Context) (int, error) {
	snap, err := t.tx.Get(t.s.pointsRef())
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get points: %w", err)
	}
	return decodePoints(snap)
}

func (t *docTx) SetPoints(ctx context.Context, total int) error {
	if err := t.tx.Set(t.s.pointsRef(), pointsDoc{Total: floor(total)}); err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

func (t *docTx) FindTaskLog(ctx context.Context, taskKey string, start, end time.Time) (*model.BehaviorLog, error) {
	q := t.s.col(colLogs).
		Where("task_key", "==", taskKey).
		Where("timestamp", ">=", start).
		Where("timestamp", "<", end).
		Limit(1)
	iter := t.tx.Documents(q)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task log: %w", err)
	}
	return toLog(snap)
}

func (t *docTx) CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error) {
	ref := t.s.col(colLogs).NewDoc()
	if err := t.tx.Create(ref, newLogDoc(entry)); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	entry.ID = ref.ID
	return &entry, nil
}

func (t *docTx) DeleteLog(ctx context.Context, id string) error {
	if err := t.tx.Delete(t.s.col(colLogs).Doc(id)); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

func (t *docTx) GetReward(ctx context.Context, id string) (*model.Reward, error) {
	ref := t.s.rewardRef(id)
	if ref == nil {
		return nil, nil
	}
	snap, err := t.tx.Get(ref)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return toReward(snap)
}

func (t *docTx) CreateRedemption(ctx context.Context, r model.Redemption) (*model.Redemption, error) {
	ref := t.s.col(colRedemptions).NewDoc()
	d := redemptionDoc{
		Timestamp:  r.RedeemedAt.UTC(),
		RewardID:   r.RewardID,
		RewardName: r.RewardName,
		Cost:       r.Cost,
	}
	if err := t.tx.Create(ref, d); err != nil {
		return nil, fmt.Errorf("create redemption: %w", err)
	}
	r.ID = ref.ID
	return &r, nil
}
