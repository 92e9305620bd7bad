package model

import "time"

// PenaltyLabel is the entry type recorded for a "needs improvement" entry.
const PenaltyLabel = "Needs improvement"

// UnknownRewardName is shown for redemptions whose reward has been deleted.
const UnknownRewardName = "Unknown Reward"

type BehaviorLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EntryType string    `json:"entry_type"`
	TaskKey   string    `json:"task_key,omitempty"`
}

// IsTask reports whether the entry counts toward history and streaks.
func (l BehaviorLog) IsTask() bool {
	return l.TaskKey != ""
}
