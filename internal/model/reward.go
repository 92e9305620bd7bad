package model

import "time"

type Reward struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cost      int       `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

// Redemption references its reward weakly. On write RewardName is the name
// at redemption time and is stored as a snapshot; on read it is resolved
// from the current reward and falls back to UnknownRewardName once the
// reward is deleted. Cost is the number of points spent.
type Redemption struct {
	ID         string    `json:"id"`
	RewardID   string    `json:"reward_id"`
	RewardName string    `json:"reward_name"`
	Cost       int       `json:"cost"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
