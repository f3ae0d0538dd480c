package interfaces

import (
	"context"

	"moral-village-server/shared/models"

	"github.com/google/uuid"
)

// ScenarioRepository reads the immutable scenario catalog.
type ScenarioRepository interface {
	// ListScenarios returns the full catalog ordered by ID ascending.
	ListScenarios(ctx context.Context) ([]models.Scenario, error)
	// GetScenario returns one scenario enriched with sin metadata and its
	// normalized (deduplicated, ID-ascending) choice list.
	GetScenario(ctx context.Context, id int64) (*models.Scenario, error)
	ListSins(ctx context.Context) ([]models.Sin, error)
	CountScenarios(ctx context.Context) (int, error)
}

// UserChoiceRepository owns the append-only per-user choice history.
type UserChoiceRepository interface {
	InsertChoice(ctx context.Context, record *models.ChoiceRecord) error
	// ListChoicesByUser returns history most recent first, with scenario and
	// choice text joined at read time. Missing joins fall back to
	// placeholder text instead of failing the read.
	ListChoicesByUser(ctx context.Context, userID uuid.UUID) ([]models.ChoiceRecord, error)
	DeleteChoicesByUser(ctx context.Context, userID uuid.UUID) error
}

// ProfileRepository maintains the durable per-user aggregate counters.
type ProfileRepository interface {
	// GetOrCreateProfile returns the user's profile, creating a zero-valued
	// one on first access.
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	// ApplyChoice increments exactly one of the virtuous/neutral/corrupt
	// counters by the sign of impact, adds impact to the profile score and
	// merges scenarioID into the completed set.
	ApplyChoice(ctx context.Context, userID uuid.UUID, scenarioID int64, impact int) (*models.UserProfile, error)
	// ResetProgress zeroes all counters and clears the completed set.
	ResetProgress(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

// EndingRepository selects the epilogue for a final moral score.
type EndingRepository interface {
	// GetEndingForScore resolves the moral band of score and returns the
	// matching ending, or the built-in default when the table has no row for
	// the band. Returns models.ErrEndingSchemaMismatch when the table lacks
	// the band column entirely.
	GetEndingForScore(ctx context.Context, score int) (*models.Ending, error)
	ListEndings(ctx context.Context) ([]models.Ending, error)
}

// SessionSnapshotRepository persists the write-through session snapshot so
// a play-through survives process restarts and reconnects.
type SessionSnapshotRepository interface {
	SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot []byte) error
	// LoadSnapshot returns models.ErrSessionSnapshotAbsent when no snapshot
	// is stored for the user.
	LoadSnapshot(ctx context.Context, userID uuid.UUID) ([]byte, error)
	DeleteSnapshot(ctx context.Context, userID uuid.UUID) error
}
