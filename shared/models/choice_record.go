package models

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder text used when a history row's scenario or choice join misses.
// A missing join degrades the row, never the whole read.
const (
	UnknownScenarioTitle = "Unknown scenario"
	UnknownChoiceText    = "Unknown choice"
)

// ChoiceRecord is one confirmed decision in a user's history. Records are
// append-only; they are removed only by a full progress reset.
type ChoiceRecord struct {
	ID                int64     `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"userId"`
	ScenarioID        int64     `db:"scenario_id" json:"scenarioId"`
	ChoiceID          int64     `db:"choice_id" json:"choiceId"`
	MoralImpact       int       `db:"moral_impact" json:"moralImpact"`
	ScenarioTitle     string    `db:"scenario_title" json:"scenarioTitle"`
	ChoiceText        string    `db:"choice_text" json:"choiceText"`
	ChoiceConsequence string    `db:"choice_consequence" json:"choiceConsequence"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}
