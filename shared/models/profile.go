package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the durable per-user aggregate maintained alongside the
// choice history. It is created lazily at zero-state before the first
// increment and recomputed incrementally on each confirmed choice.
type UserProfile struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               uuid.UUID `db:"user_id" json:"userId"`
	MoralScore           int       `db:"moral_score" json:"moralScore"`
	VirtuousChoices      int       `db:"virtuous_choices" json:"virtuousChoices"`
	NeutralChoices       int       `db:"neutral_choices" json:"neutralChoices"`
	CorruptChoices       int       `db:"corrupt_choices" json:"corruptChoices"`
	CompletedScenarioIDs []int64   `db:"completed_scenario_ids" json:"completedScenarioIds"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// UserStats is the derived aggregate served to the profile page.
type UserStats struct {
	MoralScore         int     `json:"moralScore"`
	VirtuousChoices    int     `json:"virtuousChoices"`
	NeutralChoices     int     `json:"neutralChoices"`
	CorruptChoices     int     `json:"corruptChoices"`
	CompletedScenarios int     `json:"completedScenarios"`
	TotalScenarios     int     `json:"totalScenarios"`
	Progress           float64 `json:"progress"`
}
