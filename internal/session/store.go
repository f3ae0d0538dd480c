package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Moral score bounds. Every mutation clamps into this closed range.
const (
	MinMoralScore = -100
	MaxMoralScore = 100
)

// Snapshot is the durably persisted subset of a session: identity, score,
// history and the completed set. Catalog size and the transient
// loading/error flags are deliberately not part of it.
type Snapshot struct {
	Identity             *models.Identity      `json:"identity"`
	MoralScore           int                   `json:"moral_score"`
	Choices              []models.ChoiceRecord `json:"choices"`
	CompletedScenarioIDs []int64               `json:"completed_scenario_ids"`
	SavedAt              time.Time             `json:"saved_at"`
}

// Store is the single source of truth for one user's play-through: cached
// identity, running moral score, append-only choice history and the
// completed-scenario set. All mutation goes through named methods under one
// mutex; every accepted mutation is written through to the snapshot
// repository before the call returns.
type Store struct {
	mu sync.Mutex

	userID            uuid.UUID
	identity          *models.Identity
	moralScore        int
	choices           []models.ChoiceRecord
	completed         map[int64]struct{}
	currentScenarioID int64 // 0 means none
	catalogSize       int

	loading bool
	lastErr error

	snapshots interfaces.SessionSnapshotRepository
	logger    *zap.Logger
}

// NewStore creates an empty session store for a user.
func NewStore(userID uuid.UUID, snapshots interfaces.SessionSnapshotRepository, logger *zap.Logger) *Store {
	return &Store{
		userID:    userID,
		choices:   make([]models.ChoiceRecord, 0),
		completed: make(map[int64]struct{}),
		snapshots: snapshots,
		logger:    logger.Named("SessionStore").With(zap.String("userID", userID.String())),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// persistLocked writes the snapshot through to the repository. Callers must
// hold s.mu. The write is synchronous: when a mutation returns, a reload
// observes it.
func (s *Store) persistLocked(ctx context.Context) error {
	snap := Snapshot{
		Identity:             s.identity,
		MoralScore:           s.moralScore,
		Choices:              append([]models.ChoiceRecord(nil), s.choices...),
		CompletedScenarioIDs: s.completedIDsLocked(),
		SavedAt:              time.Now().UTC(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("Failed to marshal session snapshot", zap.Error(err))
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	if err := s.snapshots.SaveSnapshot(ctx, s.userID, data); err != nil {
		return err
	}
	return nil
}

func (s *Store) completedIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.completed))
	for id := range s.completed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UserID returns the owning user's id.
func (s *Store) UserID() uuid.UUID {
	return s.userID
}

// SetIdentity replaces the cached identity. No validation is performed.
func (s *Store) SetIdentity(ctx context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	return s.persistLocked(ctx)
}

// Identity returns the cached identity, or nil when unauthenticated.
func (s *Store) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Restore rebuilds the session from the persisted snapshot. The identity is
// taken from the caller (freshly verified against the user store) rather
// than trusted from the snapshot. An absent snapshot is not a failure: the
// session starts fresh and the caller may seed it from the durable profile.
// On a real load failure the error flag is set and the identity stays nil.
// The loading flag is always cleared on completion.
func (s *Store) Restore(ctx context.Context, identity *models.Identity) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	data, err := s.snapshots.LoadSnapshot(ctx, s.userID)

	s.mu.Lock()
	defer func() {
		s.loading = false
		s.mu.Unlock()
	}()

	if err != nil && !errors.Is(err, models.ErrSessionSnapshotAbsent) {
		s.lastErr = err
		s.identity = nil
		s.logger.Error("Failed to restore session", zap.Error(err))
		return err
	}

	if err == nil {
		var snap Snapshot
		if uerr := json.Unmarshal(data, &snap); uerr != nil {
			s.lastErr = uerr
			s.identity = nil
			s.logger.Error("Failed to decode session snapshot", zap.Error(uerr))
			return fmt.Errorf("failed to decode session snapshot: %w", uerr)
		}
		s.moralScore = clamp(snap.MoralScore, MinMoralScore, MaxMoralScore)
		s.choices = append(s.choices[:0], snap.Choices...)
		s.completed = make(map[int64]struct{}, len(snap.CompletedScenarioIDs))
		for _, id := range snap.CompletedScenarioIDs {
			s.completed[id] = struct{}{}
		}
	}

	s.identity = identity
	if perr := s.persistLocked(ctx); perr != nil {
		s.lastErr = perr
		return perr
	}
	s.logger.Debug("Session restored",
		zap.Int("moralScore", s.moralScore),
		zap.Int("choices", len(s.choices)),
		zap.Int("completed", len(s.completed)),
	)
	return nil
}

// Seed overwrites score and completed set from the durable profile. Used
// after Restore when no snapshot existed but the user has prior progress.
func (s *Store) Seed(ctx context.Context, moralScore int, completedIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moralScore = clamp(moralScore, MinMoralScore, MaxMoralScore)
	s.completed = make(map[int64]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		s.completed[id] = struct{}{}
	}
	return s.persistLocked(ctx)
}

// ApplyMoralDelta adds delta to the score, clamped to [-100, 100], and
// returns the new value. Read-modify-write happens under the store mutex, so
// no stale score can interleave within the call.
func (s *Store) ApplyMoralDelta(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moralScore = clamp(s.moralScore+delta, MinMoralScore, MaxMoralScore)
	newScore := s.moralScore
	if err := s.persistLocked(ctx); err != nil {
		return newScore, err
	}
	return newScore, nil
}

// MoralScore returns the current score.
func (s *Store) MoralScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moralScore
}

// RecordChoice appends one entry to the history. History is append-only and
// insertion-ordered.
func (s *Store) RecordChoice(ctx context.Context, entry models.ChoiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices = append(s.choices, entry)
	return s.persistLocked(ctx)
}

// Choices returns a copy of the history in insertion order.
func (s *Store) Choices() []models.ChoiceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChoiceRecord(nil), s.choices...)
}

// MarkCompleted adds a scenario to the completed set. Idempotent: re-adding
// a present id is a no-op.
func (s *Store) MarkCompleted(ctx context.Context, scenarioID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.completed[scenarioID]; ok {
		return nil
	}
	s.completed[scenarioID] = struct{}{}
	return s.persistLocked(ctx)
}

// IsCompleted reports whether a scenario's map location has become inert.
func (s *Store) IsCompleted(scenarioID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completed[scenarioID]
	return ok
}

// CompletedScenarioIDs returns the completed set sorted ascending.
func (s *Store) CompletedScenarioIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedIDsLocked()
}

// SetCatalogSize records the total scenario count used by the completion
// predicate. Not persisted; refreshed from the catalog on demand.
func (s *Store) SetCatalogSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogSize = n
}

// CatalogSize returns the last recorded catalog size.
func (s *Store) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogSize
}

// IsStoryComplete is true iff the catalog is non-empty and every scenario
// has been completed.
func (s *Store) IsStoryComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogSize > 0 && len(s.completed) == s.catalogSize
}

// SetCurrentScenario caches the scenario the user is standing in.
func (s *Store) SetCurrentScenario(scenarioID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentScenarioID = scenarioID
}

// CurrentScenario returns the cached scenario pointer, if any.
func (s *Store) CurrentScenario() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentScenarioID, s.currentScenarioID != 0
}

// resetLocked clears progress but not identity. Callers must hold s.mu.
func (s *Store) resetLocked() {
	s.moralScore = 0
	s.choices = s.choices[:0]
	s.completed = make(map[int64]struct{})
	s.currentScenarioID = 0
}

// ResetProgress sets the score to 0 and clears history, completed set and
// the current-scenario pointer. Identity is kept.
func (s *Store) ResetProgress(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.persistLocked(ctx)
}

// Logout performs the ResetProgress effects, clears the identity and drops
// the persisted snapshot.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.identity = nil
	if err := s.snapshots.DeleteSnapshot(ctx, s.userID); err != nil {
		s.logger.Error("Failed to delete session snapshot on logout", zap.Error(err))
		return err
	}
	return nil
}

// Loading reports whether a Restore is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the error recorded by the last failed Restore, if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
