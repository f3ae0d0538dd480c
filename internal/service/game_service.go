package service

import (
	"context"
	"fmt"
	"time"

	"moral-village-server/internal/session"
	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/messaging"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionState is the view of a restored session served to the client.
type SessionState struct {
	Identity             *models.Identity      `json:"identity"`
	MoralScore           int                   `json:"moralScore"`
	Choices              []models.ChoiceRecord `json:"choices"`
	CompletedScenarioIDs []int64               `json:"completedScenarioIds"`
	TotalScenarios       int                   `json:"totalScenarios"`
	StoryComplete        bool                  `json:"storyComplete"`
}

// ChoiceOutcome is the result of a confirmed in-scenario decision.
type ChoiceOutcome struct {
	Record        models.ChoiceRecord `json:"record"`
	MoralScore    int                 `json:"moralScore"`
	StoryComplete bool                `json:"storyComplete"`
}

// GameService orchestrates the play-through: it is the single writer of the
// session store and the gateway to the game tables.
type GameService struct {
	scenarioRepo interfaces.ScenarioRepository
	choiceRepo   interfaces.UserChoiceRepository
	profileRepo  interfaces.ProfileRepository
	endingRepo   interfaces.EndingRepository
	userRepo     interfaces.UserRepository
	sessions     *session.Manager
	publisher    interfaces.GameEventPublisher
	logger       *zap.Logger
}

// NewGameService wires the gameplay orchestration layer. publisher may be
// nil; events are then skipped.
func NewGameService(
	scenarioRepo interfaces.ScenarioRepository,
	choiceRepo interfaces.UserChoiceRepository,
	profileRepo interfaces.ProfileRepository,
	endingRepo interfaces.EndingRepository,
	userRepo interfaces.UserRepository,
	sessions *session.Manager,
	publisher interfaces.GameEventPublisher,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		scenarioRepo: scenarioRepo,
		choiceRepo:   choiceRepo,
		profileRepo:  profileRepo,
		endingRepo:   endingRepo,
		userRepo:     userRepo,
		sessions:     sessions,
		publisher:    publisher,
		logger:       logger.Named("GameService"),
	}
}

// StartSession hydrates a session store for a freshly authenticated user.
func (s *GameService) StartSession(ctx context.Context, user *models.User) (*SessionState, error) {
	store := s.sessions.GetOrCreate(user.ID)
	if err := store.Restore(ctx, models.IdentityOf(user)); err != nil {
		return nil, err
	}
	return s.finishRestore(ctx, store)
}

// RestoreSession rebuilds the session for an already-authenticated user,
// e.g. after a reload or reconnect. The identity is re-verified against the
// user store before it is cached.
func (s *GameService) RestoreSession(ctx context.Context, userID uuid.UUID) (*SessionState, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	store := s.sessions.GetOrCreate(userID)
	if err := store.Restore(ctx, models.IdentityOf(user)); err != nil {
		return nil, err
	}
	return s.finishRestore(ctx, store)
}

// finishRestore seeds an empty session from the durable profile and
// refreshes the catalog size the completion predicate depends on.
func (s *GameService) finishRestore(ctx context.Context, store *session.Store) (*SessionState, error) {
	if len(store.Choices()) == 0 && len(store.CompletedScenarioIDs()) == 0 {
		profile, err := s.profileRepo.GetOrCreateProfile(ctx, store.UserID())
		if err != nil {
			return nil, err
		}
		if profile.MoralScore != 0 || len(profile.CompletedScenarioIDs) > 0 {
			if err := store.Seed(ctx, profile.MoralScore, profile.CompletedScenarioIDs); err != nil {
				return nil, err
			}
		}
	}

	total, err := s.scenarioRepo.CountScenarios(ctx)
	if err != nil {
		return nil, err
	}
	store.SetCatalogSize(total)

	return &SessionState{
		Identity:             store.Identity(),
		MoralScore:           store.MoralScore(),
		Choices:              store.Choices(),
		CompletedScenarioIDs: store.CompletedScenarioIDs(),
		TotalScenarios:       total,
		StoryComplete:        store.IsStoryComplete(),
	}, nil
}

// EndSession clears the user's session state and drops the in-memory store.
// The store is materialized when absent so the persisted snapshot is deleted
// even after a restart between login and logout.
func (s *GameService) EndSession(ctx context.Context, userID uuid.UUID) error {
	store := s.sessions.GetOrCreate(userID)
	if err := store.Logout(ctx); err != nil {
		return err
	}
	s.sessions.Remove(userID)
	return nil
}

// GetCatalog returns the ordered scenario catalog.
func (s *GameService) GetCatalog(ctx context.Context) ([]models.Scenario, error) {
	return s.scenarioRepo.ListScenarios(ctx)
}

// GetSins returns all sin categories.
func (s *GameService) GetSins(ctx context.Context) ([]models.Sin, error) {
	return s.scenarioRepo.ListSins(ctx)
}

// GetScenario returns one enriched scenario and caches it as the user's
// current scenario.
func (s *GameService) GetScenario(ctx context.Context, userID uuid.UUID, scenarioID int64) (*models.Scenario, error) {
	scenario, err := s.scenarioRepo.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	s.sessions.GetOrCreate(userID).SetCurrentScenario(scenarioID)
	return scenario, nil
}

// ConfirmChoice applies one confirmed in-scenario decision. Its effects are
// independently retryable steps with no transactional rollback: the durable
// insert must succeed before the player advances; the profile update and the
// event publish are best-effort after that.
func (s *GameService) ConfirmChoice(ctx context.Context, userID uuid.UUID, scenarioID, choiceID int64) (*ChoiceOutcome, error) {
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.Int64("scenarioID", scenarioID),
		zap.Int64("choiceID", choiceID),
	}

	scenario, err := s.scenarioRepo.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	choice := scenario.FindChoice(choiceID)
	if choice == nil {
		s.logger.Warn("Choice not found in scenario", logFields...)
		return nil, models.ErrChoiceNotFound
	}

	record := models.ChoiceRecord{
		UserID:            userID,
		ScenarioID:        scenarioID,
		ChoiceID:          choiceID,
		MoralImpact:       choice.MoralImpact,
		ScenarioTitle:     scenario.Title,
		ChoiceText:        choice.Text,
		ChoiceConsequence: choice.Consequence,
		CreatedAt:         time.Now().UTC(),
	}

	// Durable insert first. Failure here surfaces to the view and the
	// player does not advance past the scenario.
	if err := s.choiceRepo.InsertChoice(ctx, &record); err != nil {
		return nil, err
	}

	// Profile aggregate is derived state; a failed increment is logged and
	// retried implicitly by the next reset/restore, not rolled back.
	if _, err := s.profileRepo.ApplyChoice(ctx, userID, scenarioID, choice.MoralImpact); err != nil {
		s.logger.Error("Failed to apply choice to profile", append(logFields, zap.Error(err))...)
	}

	store := s.sessions.GetOrCreate(userID)
	newScore, err := store.ApplyMoralDelta(ctx, choice.MoralImpact)
	if err != nil {
		s.logger.Error("Failed to persist moral score", append(logFields, zap.Error(err))...)
	}
	if err := store.RecordChoice(ctx, record); err != nil {
		s.logger.Error("Failed to persist choice history", append(logFields, zap.Error(err))...)
	}
	if err := store.MarkCompleted(ctx, scenarioID); err != nil {
		s.logger.Error("Failed to persist completion mark", append(logFields, zap.Error(err))...)
	}
	if store.CatalogSize() == 0 {
		if total, err := s.scenarioRepo.CountScenarios(ctx); err == nil {
			store.SetCatalogSize(total)
		}
	}
	store.SetCurrentScenario(0)

	storyComplete := store.IsStoryComplete()
	s.publishChoiceEvents(ctx, userID, record, newScore, storyComplete)

	s.logger.Info("Choice confirmed", append(logFields,
		zap.Int("impact", choice.MoralImpact),
		zap.Int("newScore", newScore),
		zap.Bool("storyComplete", storyComplete),
	)...)

	return &ChoiceOutcome{
		Record:        record,
		MoralScore:    newScore,
		StoryComplete: storyComplete,
	}, nil
}

func (s *GameService) publishChoiceEvents(ctx context.Context, userID uuid.UUID, record models.ChoiceRecord, newScore int, storyComplete bool) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishChoiceRecorded(ctx, messaging.ChoiceRecordedPayload{
		UserID:      userID,
		ScenarioID:  record.ScenarioID,
		ChoiceID:    record.ChoiceID,
		MoralImpact: record.MoralImpact,
		MoralScore:  newScore,
		RecordedAt:  record.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("Failed to publish choice event", zap.Error(err))
	}
	if storyComplete {
		err := s.publisher.PublishStoryCompleted(ctx, messaging.StoryCompletedPayload{
			UserID:      userID,
			FinalScore:  newScore,
			MoralBand:   string(models.BandForScore(newScore)),
			CompletedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("Failed to publish story completed event", zap.Error(err))
		}
	}
}

// GetHistory returns the user's durable choice history, most recent first.
func (s *GameService) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.ChoiceRecord, error) {
	return s.choiceRepo.ListChoicesByUser(ctx, userID)
}

// GetProfile returns the user's aggregate profile, creating it lazily.
func (s *GameService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return s.profileRepo.GetOrCreateProfile(ctx, userID)
}

// GetEnding resolves the ending for the user's current moral score. The
// live session score wins; without a session the durable profile score is
// used.
func (s *GameService) GetEnding(ctx context.Context, userID uuid.UUID) (*models.Ending, int, error) {
	score, err := s.currentScore(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	ending, err := s.endingRepo.GetEndingForScore(ctx, score)
	if err != nil {
		return nil, 0, err
	}
	return ending, score, nil
}

// ListEndings returns every authored epilogue, for the ending page's
// overview of possible outcomes.
func (s *GameService) ListEndings(ctx context.Context) ([]models.Ending, error) {
	return s.endingRepo.ListEndings(ctx)
}

func (s *GameService) currentScore(ctx context.Context, userID uuid.UUID) (int, error) {
	if store, ok := s.sessions.Get(userID); ok && store.Identity() != nil {
		return store.MoralScore(), nil
	}
	profile, err := s.profileRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.MoralScore, nil
}

// ComputeStats builds the profile-page aggregate. Progress is 0 when the
// catalog is empty; the division never sees a zero total.
func (s *GameService) ComputeStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	profile, err := s.profileRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.scenarioRepo.CountScenarios(ctx)
	if err != nil {
		return nil, err
	}

	completed := len(profile.CompletedScenarioIDs)
	stats := &models.UserStats{
		MoralScore:         profile.MoralScore,
		VirtuousChoices:    profile.VirtuousChoices,
		NeutralChoices:     profile.NeutralChoices,
		CorruptChoices:     profile.CorruptChoices,
		CompletedScenarios: completed,
		TotalScenarios:     total,
	}
	if total > 0 {
		stats.Progress = float64(completed) / float64(total) * 100
	}
	return stats, nil
}

// ResetProgress wipes the user's history rows, zeroes the profile and
// resets the in-memory session. Identity is untouched.
func (s *GameService) ResetProgress(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if err := s.choiceRepo.DeleteChoicesByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete choice history: %w", err)
	}
	profile, err := s.profileRepo.ResetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store, ok := s.sessions.Get(userID); ok {
		if err := store.ResetProgress(ctx); err != nil {
			s.logger.Error("Failed to reset session store", zap.Error(err), zap.String("userID", userID.String()))
		}
	}
	return profile, nil
}

// IsScenarioCompleted reports whether the user has already resolved the
// scenario, preferring the live session over the durable profile.
func (s *GameService) IsScenarioCompleted(ctx context.Context, userID uuid.UUID, scenarioID int64) (bool, error) {
	if store, ok := s.sessions.Get(userID); ok && store.Identity() != nil {
		return store.IsCompleted(scenarioID), nil
	}
	profile, err := s.profileRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range profile.CompletedScenarioIDs {
		if id == scenarioID {
			return true, nil
		}
	}
	return false, nil
}
