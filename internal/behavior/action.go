package behavior

import "strings"

const (
	penaltyKey   = "bad"
	redeemPrefix = "redeem:"
)

type ActionKind int

const (
	ActionToggleTask ActionKind = iota + 1
	ActionPenalty
	ActionRedeem
)

func (k ActionKind) String() string {
	switch k {
	case ActionToggleTask:
		return "toggle_task"
	case ActionPenalty:
		return "penalty"
	case ActionRedeem:
		return "redeem"
	default:
		return "unknown"
	}
}

// Action is a validated dashboard submission. TaskKey is set only for
// ActionToggleTask and RewardID only for ActionRedeem.
type Action struct {
	Kind     ActionKind
	TaskKey  string
	RewardID string
}

func ToggleTask(key string) Action { return Action{Kind: ActionToggleTask, TaskKey: key} }

func Penalty() Action { return Action{Kind: ActionPenalty} }

func Redeem(rewardID string) Action { return Action{Kind: ActionRedeem, RewardID: rewardID} }

// ParseAction turns the raw form value into an Action. Anything that is not
// a catalog task key, "bad", or "redeem:<id>" with a non-empty id is
// rejected with ok == false.
func ParseAction(raw string, catalog *Catalog) (Action, bool) {
	switch {
	case raw == penaltyKey:
		return Penalty(), true
	case strings.HasPrefix(raw, redeemPrefix):
		id := strings.TrimPrefix(raw, redeemPrefix)
		if i := strings.IndexByte(id, ':'); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			return Action{}, false
		}
		return Redeem(id), true
	}

	if _, ok := catalog.Lookup(raw); ok {
		return ToggleTask(raw), true
	}
	return Action{}, false
}
