// Package docstore implements store.Store on Cloud Firestore. The layout
// matches the collections used by earlier deployments of the chart:
//
//	points/singleton        {total}
//	behavior_logs/{id}      {timestamp, entry_type, task_key?}
//	rewards/{id}            {name, cost, created_at}
//	redemptions/{id}        {timestamp, reward_id, reward_name, cost}
//	auth/{user|admin}       {password, updated_at}
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
)

const (
	colPoints      = "points"
	colLogs        = "behavior_logs"
	colRewards     = "rewards"
	colRedemptions = "redemptions"
	colAuth        = "auth"

	pointsDocID = "singleton"
)

type pointsDoc struct {
	Total int `firestore:"total"`
}

type logDoc struct {
	Timestamp time.Time `firestore:"timestamp"`
	EntryType string    `firestore:"entry_type"`
	TaskKey   string    `firestore:"task_key,omitempty"`
}

type rewardDoc struct {
	Name      string    `firestore:"name"`
	Cost      int       `firestore:"cost"`
	CreatedAt time.Time `firestore:"created_at,omitempty"`
}

type redemptionDoc struct {
	Timestamp  time.Time `firestore:"timestamp"`
	RewardID   string    `firestore:"reward_id"`
	RewardName string    `firestore:"reward_name,omitempty"`
	Cost       int       `firestore:"cost"`
}

type authDoc struct {
	Password  string    `firestore:"password"`
	UpdatedAt time.Time `firestore:"updated_at,omitempty"`
}

// Store is the Firestore implementation of store.Store.
type Store struct {
	client *firestore.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

type Option func(*Store)

// WithCollectionPrefix namespaces every collection, e.g. for tests that
// share one emulator.
func WithCollectionPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

func New(client *firestore.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects through the Firebase Admin SDK. keyJSON is a service
// account key; when empty, application default credentials are used.
func Open(ctx context.Context, projectID, keyJSON string, opts ...Option) (*Store, error) {
	var clientOpts []option.ClientOption
	if keyJSON != "" {
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(keyJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	return New(client, opts...), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) col(name string) *firestore.CollectionRef {
	return s.client.Collection(s.prefix + name)
}

func (s *Store) pointsRef() *firestore.DocumentRef {
	return s.col(colPoints).Doc(pointsDocID)
}

// validDocID reports whether id can name a document directly under a
// collection. Ids arrive from form values, and Firestore rejects paths with
// slashes, "." and "..", and reserved __name__ ids.
func validDocID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	return !(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"))
}

// rewardRef returns nil for ids that cannot exist, which callers treat as
// not found.
func (s *Store) rewardRef(id string) *firestore.DocumentRef {
	if !validDocID(id) {
		return nil
	}
	return s.col(colRewards).Doc(id)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func floor(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// --- points ---

func (s *Store) Points(ctx context.Context) (int, error) {
	snap, err := s.pointsRef().Get(ctx)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get points: %w", err)
	}
	return decodePoints(snap)
}

func decodePoints(snap *firestore.DocumentSnapshot) (int, error) {
	var p pointsDoc
	if err := snap.DataTo(&p); err != nil {
		return 0, fmt.Errorf("decode points: %w", err)
	}
	return p.Total, nil
}

func (s *Store) SetPoints(ctx context.Context, total int) error {
	if _, err := s.pointsRef().Set(ctx, pointsDoc{Total: floor(total)}); err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

func (s *Store) EnsurePoints(ctx context.Context) error {
	_, err := s.pointsRef().Create(ctx, pointsDoc{Total: 0})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("ensure points: %w", err)
	}
	return nil
}

// --- behavior logs ---

func toLog(snap *firestore.DocumentSnapshot) (*model.BehaviorLog, error) {
	var d logDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", snap.Ref.ID, err)
	}
	return &model.BehaviorLog{
		ID:        snap.Ref.ID,
		Timestamp: d.Timestamp,
		EntryType: d.EntryType,
		TaskKey:   d.TaskKey,
	}, nil
}

func collectLogs(iter *firestore.DocumentIterator) ([]model.BehaviorLog, error) {
	defer iter.Stop()
	var logs []model.BehaviorLog
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return logs, nil
		}
		if err != nil {
			return nil, err
		}
		l, err := toLog(snap)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
}

func (s *Store) ListLogs(ctx context.Context) ([]model.BehaviorLog, error) {
	logs, err := collectLogs(s.col(colLogs).OrderBy("timestamp", firestore.Desc).Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

func (s *Store) ListLogsBetween(ctx context.Context, start, end time.Time) ([]model.BehaviorLog, error) {
	q := s.col(colLogs).
		Where("timestamp", ">=", start).
		Where("timestamp", "<", end).
		OrderBy("timestamp", firestore.Asc)
	logs, err := collectLogs(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("list logs between: %w", err)
	}
	return logs, nil
}

func newLogDoc(entry model.BehaviorLog) logDoc {
	return logDoc{
		Timestamp: entry.Timestamp.UTC(),
		EntryType: entry.EntryType,
		TaskKey:   entry.TaskKey,
	}
}

func (s *Store) CreateLog(ctx context.Context, entry model.BehaviorLog) (*model.BehaviorLog, error) {
	ref := s.col(colLogs).NewDoc()
	if _, err := ref.Create(ctx, newLogDoc(entry)); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	entry.ID = ref.ID
	return &entry, nil
}

// --- rewards ---

func toReward(snap *firestore.DocumentSnapshot) (*model.Reward, error) {
	var d rewardDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode reward %s: %w", snap.Ref.ID, err)
	}
	return &model.Reward{
		ID:        snap.Ref.ID,
		Name:      d.Name,
		Cost:      d.Cost,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (s *Store) GetReward(ctx context.Context, id string) (*model.Reward, error) {
	ref := s.rewardRef(id)
	if ref == nil {
		return nil, nil
	}
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return toReward(snap)
}

// ListRewards returns rewards ordered by name, ignoring case.
func (s *Store) ListRewards(ctx context.Context) ([]model.Reward, error) {
	iter := s.col(colRewards).Documents(ctx)
	defer iter.Stop()

	var rewards []model.Reward
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list rewards: %w", err)
		}
		r, err := toReward(snap)
		if err != nil {
			return nil, fmt.Errorf("list rewards: %w", err)
		}
		rewards = append(rewards, *r)
	}
	sort.SliceStable(rewards, func(i, j int) bool {
		return strings.ToLower(rewards[i].Name) < strings.ToLower(rewards[j].Name)
	})
	return rewards, nil
}

func (s *Store) CreateReward(ctx context.Context, name string, cost int) (*model.Reward, error) {
	ref := s.col(colRewards).NewDoc()
	d := rewardDoc{Name: name, Cost: floor(cost), CreatedAt: time.Now().UTC()}
	if _, err := ref.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}
	return &model.Reward{ID: ref.ID, Name: d.Name, Cost: d.Cost, CreatedAt: d.CreatedAt}, nil
}

// UpdateReward returns (nil, nil) when id does not exist.
func (s *Store) UpdateReward(ctx context.Context, id, name string, cost int) (*model.Reward, error) {
	ref := s.rewardRef(id)
	if ref == nil {
		return nil, nil
	}
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "name", Value: name},
		{Path: "cost", Value: floor(cost)},
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetReward(ctx, id)
}

func (s *Store) DeleteReward(ctx context.Context, id string) error {
	ref := s.rewardRef(id)
	if ref == nil {
		return nil
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}

// --- redemptions ---

// ListRedemptions returns redemptions newest first. Names come from the
// current reward catalog; deleted rewards show as model.UnknownRewardName.
func (s *Store) ListRedemptions(ctx context.Context) ([]model.Redemption, error) {
	rewards, err := s.ListRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	names := make(map[string]string, len(rewards))
	for _, r := range rewards {
		names[r.ID] = r.Name
	}

	iter := s.col(colRedemptions).OrderBy("timestamp", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var list []model.Redemption
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list redemptions: %w", err)
		}
		var d redemptionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode redemption %s: %w", snap.Ref.ID, err)
		}
		name, ok := names[d.RewardID]
		if !ok {
			name = model.UnknownRewardName
		}
		list = append(list, model.Redemption{
			ID:         snap.Ref.ID,
			RewardID:   d.RewardID,
			RewardName: name,
			Cost:       d.Cost,
			RedeemedAt: d.Timestamp,
		})
	}
	return list, nil
}

// --- pins ---

func (s *Store) PINHash(ctx context.Context, role model.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("get pin hash: unknown role %q", role)
	}
	snap, err := s.col(colAuth).Doc(string(role)).Get(ctx)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	var d authDoc
	if err := snap.DataTo(&d); err != nil {
		return "", fmt.Errorf("decode pin hash: %w", err)
	}
	return d.Password, nil
}

func (s *Store) SetPINHash(ctx context.Context, role model.Role, hash string) error {
	if !role.Valid() {
		return fmt.Errorf("set pin hash: unknown role %q", role)
	}
	d := authDoc{Password: hash, UpdatedAt: time.Now().UTC()}
	if _, err := s.col(colAuth).Doc(string(role)).Set(ctx, d); err != nil {
		return fmt.Errorf("set pin hash: %w", err)
	}
	return nil
}
