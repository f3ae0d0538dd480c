package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.EndingRepository = (*pgEndingRepository)(nil)

// The endings schema is an explicit contract owned by the migrations: the
// band lives in the moral_range column. Earlier deployments guessed between
// several column spellings at query time; the repository now verifies the
// contract once and fails loudly instead of guessing.
const endingBandColumn = "moral_range"

type pgEndingRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	schemaOnce sync.Once
	schemaErr  error
}

// NewPgEndingRepository creates a new repository over the endings table.
func NewPgEndingRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.EndingRepository {
	return &pgEndingRepository{
		pool:   pool,
		logger: logger.Named("PgEndingRepo"),
	}
}

const endingSchemaProbeQuery = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.columns
    WHERE table_name = 'endings' AND column_name = $1
)`

const getEndingByBandQuery = `
SELECT id, moral_range, title, description
FROM endings
WHERE moral_range = $1
ORDER BY id ASC
LIMIT 1`

// ensureSchema validates the endings contract on first use. The result is
// cached for the repository's lifetime.
func (r *pgEndingRepository) ensureSchema(ctx context.Context) error {
	r.schemaOnce.Do(func() {
		var exists bool
		if err := r.pool.QueryRow(ctx, endingSchemaProbeQuery, endingBandColumn).Scan(&exists); err != nil {
			r.logger.Error("Failed to probe endings schema", zap.Error(err))
			r.schemaErr = fmt.Errorf("failed to probe endings schema: %w", err)
			return
		}
		if !exists {
			r.logger.Error("Endings table is missing the band column", zap.String("column", endingBandColumn))
			r.schemaErr = models.ErrEndingSchemaMismatch
			return
		}
		r.logger.Debug("Endings schema verified", zap.String("column", endingBandColumn))
	})
	return r.schemaErr
}

// GetEndingForScore resolves the moral band of score and returns the
// matching ending. A band without a row falls back to the built-in default
// ending rather than failing.
func (r *pgEndingRepository) GetEndingForScore(ctx context.Context, score int) (*models.Ending, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}

	band := models.BandForScore(score)
	ending := &models.Ending{}
	err := r.pool.QueryRow(ctx, getEndingByBandQuery, band).Scan(
		&ending.ID, &ending.MoralBand, &ending.Title, &ending.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("No ending row for band, using built-in default",
				zap.String("band", string(band)), zap.Int("score", score))
			fallback := models.DefaultEnding(band)
			return &fallback, nil
		}
		r.logger.Error("Failed to get ending for band", zap.Error(err), zap.String("band", string(band)))
		return nil, fmt.Errorf("failed to get ending for band %s: %w", band, err)
	}
	return ending, nil
}

// ListEndings returns all configured endings.
func (r *pgEndingRepository) ListEndings(ctx context.Context) ([]models.Ending, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	endings := make([]models.Ending, 0)
	query := `SELECT id, moral_range, title, description FROM endings ORDER BY id ASC`
	if err := pgxscan.Select(ctx, r.pool, &endings, query); err != nil {
		r.logger.Error("Failed to list endings", zap.Error(err))
		return nil, fmt.Errorf("failed to list endings: %w", err)
	}
	return endings, nil
}
