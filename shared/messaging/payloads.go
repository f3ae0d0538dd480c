package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Queue names for gameplay events.
const (
	ChoiceRecordedQueue = "game.choice.recorded"
	StoryCompletedQueue = "game.story.completed"
)

// ChoiceRecordedPayload is published after a choice insert has been
// confirmed durable.
type ChoiceRecordedPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	ScenarioID  int64     `json:"scenario_id"`
	ChoiceID    int64     `json:"choice_id"`
	MoralImpact int       `json:"moral_impact"`
	MoralScore  int       `json:"moral_score"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// StoryCompletedPayload is published when a user's completed set reaches the
// full catalog size.
type StoryCompletedPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	FinalScore  int       `json:"final_score"`
	MoralBand   string    `json:"moral_band"`
	CompletedAt time.Time `json:"completed_at"`
}
