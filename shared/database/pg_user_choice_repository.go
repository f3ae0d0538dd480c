package database

import (
	"context"
	"fmt"
	"time"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.UserChoiceRepository = (*pgUserChoiceRepository)(nil)

type pgUserChoiceRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgUserChoiceRepository creates a new repository over the append-only
// user choice history.
func NewPgUserChoiceRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.UserChoiceRepository {
	return &pgUserChoiceRepository{
		pool:   pool,
		logger: logger.Named("PgUserChoiceRepo"),
	}
}

const insertChoiceQuery = `
INSERT INTO user_choices (user_id, scenario_id, choice_id, moral_impact, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

// History rows join scenario and choice text at read time. The choices table
// may hold duplicate IDs, so the join picks one row per choice_id; missing
// joins degrade to placeholder text via COALESCE.
const listChoicesByUserQuery = `
SELECT uc.id,
       uc.user_id,
       uc.scenario_id,
       uc.choice_id,
       uc.moral_impact,
       uc.created_at,
       COALESCE(s.title, $2) AS scenario_title,
       COALESCE(c.text, $3) AS choice_text,
       COALESCE(c.consequence, '') AS choice_consequence
FROM user_choices uc
LEFT JOIN scenarios s ON s.id = uc.scenario_id
LEFT JOIN LATERAL (
    SELECT text, consequence
    FROM scenario_choices sc
    WHERE sc.id = uc.choice_id AND sc.scenario_id = uc.scenario_id
    ORDER BY sc.id ASC
    LIMIT 1
) c ON TRUE
WHERE uc.user_id = $1
ORDER BY uc.created_at DESC, uc.id DESC`

// InsertChoice appends one confirmed decision to the history.
func (r *pgUserChoiceRepository) InsertChoice(ctx context.Context, record *models.ChoiceRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	logFields := []zap.Field{
		zap.String("userID", record.UserID.String()),
		zap.Int64("scenarioID", record.ScenarioID),
		zap.Int64("choiceID", record.ChoiceID),
	}
	err := r.pool.QueryRow(ctx, insertChoiceQuery,
		record.UserID, record.ScenarioID, record.ChoiceID, record.MoralImpact, record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		r.logger.Error("Failed to insert user choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to insert user choice: %w", err)
	}
	r.logger.Info("User choice recorded", logFields...)
	return nil
}

// ListChoicesByUser returns the user's history, most recent first.
func (r *pgUserChoiceRepository) ListChoicesByUser(ctx context.Context, userID uuid.UUID) ([]models.ChoiceRecord, error) {
	records := make([]models.ChoiceRecord, 0)
	err := pgxscan.Select(ctx, r.pool, &records, listChoicesByUserQuery,
		userID, models.UnknownScenarioTitle, models.UnknownChoiceText)
	if err != nil {
		r.logger.Error("Failed to list user choices", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to list user choices: %w", err)
	}
	return records, nil
}

// DeleteChoicesByUser removes the entire history for a user. Only the full
// progress reset calls this.
func (r *pgUserChoiceRepository) DeleteChoicesByUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_choices WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error("Failed to delete user choices", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to delete user choices: %w", err)
	}
	r.logger.Info("User choice history cleared",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", tag.RowsAffected()),
	)
	return nil
}
