package database

import (
	"context"
	"errors"
	"fmt"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ProfileRepository = (*pgProfileRepository)(nil)

type pgProfileRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgProfileRepository creates a new repository over the per-user
// aggregate counters.
func NewPgProfileRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.ProfileRepository {
	return &pgProfileRepository{
		pool:   pool,
		logger: logger.Named("PgProfileRepo"),
	}
}

const selectProfileQuery = `
SELECT id, user_id, moral_score, virtuous_choices, neutral_choices, corrupt_choices, completed_scenario_ids, updated_at
FROM user_profiles
WHERE user_id = $1`

// ON CONFLICT DO NOTHING keeps concurrent first-access callers converging on
// one logical profile: whoever loses the insert re-reads the winner's row.
const insertProfileQuery = `
INSERT INTO user_profiles (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO NOTHING`

const applyChoiceQuery = `
UPDATE user_profiles SET
    moral_score = moral_score + $2,
    virtuous_choices = virtuous_choices + CASE WHEN $2 > 0 THEN 1 ELSE 0 END,
    neutral_choices  = neutral_choices  + CASE WHEN $2 = 0 THEN 1 ELSE 0 END,
    corrupt_choices  = corrupt_choices  + CASE WHEN $2 < 0 THEN 1 ELSE 0 END,
    completed_scenario_ids = CASE
        WHEN $3 = ANY(completed_scenario_ids) THEN completed_scenario_ids
        ELSE array_append(completed_scenario_ids, $3)
    END,
    updated_at = NOW()
WHERE user_id = $1
RETURNING id, user_id, moral_score, virtuous_choices, neutral_choices, corrupt_choices, completed_scenario_ids, updated_at`

const resetProfileQuery = `
UPDATE user_profiles SET
    moral_score = 0,
    virtuous_choices = 0,
    neutral_choices = 0,
    corrupt_choices = 0,
    completed_scenario_ids = '{}',
    updated_at = NOW()
WHERE user_id = $1
RETURNING id, user_id, moral_score, virtuous_choices, neutral_choices, corrupt_choices, completed_scenario_ids, updated_at`

func (r *pgProfileRepository) scanProfile(row pgx.Row) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.MoralScore,
		&profile.VirtuousChoices,
		&profile.NeutralChoices,
		&profile.CorruptChoices,
		&profile.CompletedScenarioIDs,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if profile.CompletedScenarioIDs == nil {
		profile.CompletedScenarioIDs = []int64{}
	}
	return profile, nil
}

// GetOrCreateProfile returns the user's profile, lazily creating a
// zero-valued one on first access.
func (r *pgProfileRepository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	logFields := []zap.Field{zap.String("userID", userID.String())}

	profile, err := r.scanProfile(r.pool.QueryRow(ctx, selectProfileQuery, userID))
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to get user profile", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	// Absent profile is a recoverable case, not an error.
	if _, err := r.pool.Exec(ctx, insertProfileQuery, userID); err != nil {
		r.logger.Error("Failed to create user profile", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	r.logger.Info("Created zero-state user profile", logFields...)

	profile, err = r.scanProfile(r.pool.QueryRow(ctx, selectProfileQuery, userID))
	if err != nil {
		r.logger.Error("Failed to re-read user profile after create", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to re-read user profile after create: %w", err)
	}
	return profile, nil
}

// ApplyChoice folds one confirmed choice into the aggregate: exactly one
// counter moves by the sign of impact, the score shifts by impact, and the
// scenario joins the completed set at most once.
func (r *pgProfileRepository) ApplyChoice(ctx context.Context, userID uuid.UUID, scenarioID int64, impact int) (*models.UserProfile, error) {
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.Int64("scenarioID", scenarioID),
		zap.Int("impact", impact),
	}

	profile, err := r.scanProfile(r.pool.QueryRow(ctx, applyChoiceQuery, userID, impact, scenarioID))
	if errors.Is(err, pgx.ErrNoRows) {
		// Profile did not exist yet: create it, then retry the update once.
		if _, err := r.GetOrCreateProfile(ctx, userID); err != nil {
			return nil, err
		}
		profile, err = r.scanProfile(r.pool.QueryRow(ctx, applyChoiceQuery, userID, impact, scenarioID))
		if err != nil {
			r.logger.Error("Failed to apply choice after profile create", append(logFields, zap.Error(err))...)
			return nil, fmt.Errorf("failed to apply choice to profile: %w", err)
		}
	} else if err != nil {
		r.logger.Error("Failed to apply choice to profile", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to apply choice to profile: %w", err)
	}

	r.logger.Debug("Applied choice to profile", append(logFields, zap.Int("newScore", profile.MoralScore))...)
	return profile, nil
}

// ResetProgress zeroes the aggregate and clears the completed set.
func (r *pgProfileRepository) ResetProgress(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	logFields := []zap.Field{zap.String("userID", userID.String())}

	profile, err := r.scanProfile(r.pool.QueryRow(ctx, resetProfileQuery, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		// Nothing to reset yet; hand back a fresh zero-state profile.
		return r.GetOrCreateProfile(ctx, userID)
	}
	if err != nil {
		r.logger.Error("Failed to reset user profile", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to reset user profile: %w", err)
	}
	r.logger.Info("User profile reset", logFields...)
	return profile, nil
}
