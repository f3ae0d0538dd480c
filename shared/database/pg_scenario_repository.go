package database

import (
	"context"
	"errors"
	"fmt"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ScenarioRepository = (*pgScenarioRepository)(nil)

type pgScenarioRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgScenarioRepository creates a new repository over the scenario catalog.
func NewPgScenarioRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.ScenarioRepository {
	return &pgScenarioRepository{
		pool:   pool,
		logger: logger.Named("PgScenarioRepo"),
	}
}

const listScenariosQuery = `
SELECT s.id, s.title, s.description, s.sin_id, si.name AS sin_name, si.color AS sin_color
FROM scenarios s
JOIN sins si ON si.id = s.sin_id
ORDER BY s.id ASC`

const getScenarioQuery = `
SELECT s.id, s.title, s.description, s.sin_id, si.name AS sin_name, si.color AS sin_color
FROM scenarios s
JOIN sins si ON si.id = s.sin_id
WHERE s.id = $1`

// Duplicate-id rows have no other distinguishing key, so text is the
// tiebreak: repeated reads always hand the dedup the same first row.
const listChoicesQuery = `
SELECT id, scenario_id, text, consequence, moral_impact
FROM scenario_choices
WHERE scenario_id = $1
ORDER BY id ASC, text ASC`

// ListScenarios returns the full catalog ordered by ID ascending.
func (r *pgScenarioRepository) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	scenarios := make([]models.Scenario, 0)
	if err := pgxscan.Select(ctx, r.pool, &scenarios, listScenariosQuery); err != nil {
		r.logger.Error("Failed to list scenarios", zap.Error(err))
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return scenarios, nil
}

// GetScenario returns one scenario with sin metadata and its normalized
// choice list. The choices table may hold duplicate IDs; the result keeps
// the first row in (id, text) order per ID and is sorted ascending.
func (r *pgScenarioRepository) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	scenario := &models.Scenario{}
	err := pgxscan.Get(ctx, r.pool, scenario, getScenarioQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Scenario not found", zap.Int64("scenarioID", id))
			return nil, models.ErrScenarioNotFound
		}
		r.logger.Error("Failed to get scenario", zap.Error(err), zap.Int64("scenarioID", id))
		return nil, fmt.Errorf("failed to get scenario %d: %w", id, err)
	}

	choices := make([]models.Choice, 0)
	if err := pgxscan.Select(ctx, r.pool, &choices, listChoicesQuery, id); err != nil {
		r.logger.Error("Failed to list scenario choices", zap.Error(err), zap.Int64("scenarioID", id))
		return nil, fmt.Errorf("failed to list choices for scenario %d: %w", id, err)
	}

	normalized := models.NormalizeChoices(choices)
	if len(normalized) != len(choices) {
		r.logger.Warn("Deduplicated scenario choices",
			zap.Int64("scenarioID", id),
			zap.Int("raw", len(choices)),
			zap.Int("unique", len(normalized)),
		)
	}
	scenario.Choices = normalized
	return scenario, nil
}

// ListSins returns all sin categories.
func (r *pgScenarioRepository) ListSins(ctx context.Context) ([]models.Sin, error) {
	sins := make([]models.Sin, 0)
	query := `SELECT id, name, color FROM sins ORDER BY id ASC`
	if err := pgxscan.Select(ctx, r.pool, &sins, query); err != nil {
		r.logger.Error("Failed to list sins", zap.Error(err))
		return nil, fmt.Errorf("failed to list sins: %w", err)
	}
	return sins, nil
}

// CountScenarios returns the catalog size.
func (r *pgScenarioRepository) CountScenarios(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scenarios`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count scenarios", zap.Error(err))
		return 0, fmt.Errorf("failed to count scenarios: %w", err)
	}
	return count, nil
}
