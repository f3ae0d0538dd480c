package service_test

import (
	"context"
	"errors"
	"testing"

	"moral-village-server/internal/service"
	"moral-village-server/internal/session"
	sharedMocks "moral-village-server/shared/interfaces/mocks"
	sharedMessaging "moral-village-server/shared/messaging"
	sharedModels "moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gameServiceFixture struct {
	scenarioRepo *sharedMocks.ScenarioRepository
	choiceRepo   *sharedMocks.UserChoiceRepository
	profileRepo  *sharedMocks.ProfileRepository
	endingRepo   *sharedMocks.EndingRepository
	userRepo     *sharedMocks.UserRepository
	snapshotRepo *sharedMocks.SessionSnapshotRepository
	publisher    *sharedMocks.GameEventPublisher
	sessions     *session.Manager
	svc          *service.GameService
}

func newGameServiceFixture(withPublisher bool) *gameServiceFixture {
	f := &gameServiceFixture{
		scenarioRepo: new(sharedMocks.ScenarioRepository),
		choiceRepo:   new(sharedMocks.UserChoiceRepository),
		profileRepo:  new(sharedMocks.ProfileRepository),
		endingRepo:   new(sharedMocks.EndingRepository),
		userRepo:     new(sharedMocks.UserRepository),
		snapshotRepo: new(sharedMocks.SessionSnapshotRepository),
		publisher:    new(sharedMocks.GameEventPublisher),
	}
	// Session snapshots write through on every mutation; the tests here are
	// about orchestration, so persistence always succeeds.
	f.snapshotRepo.On("SaveSnapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.snapshotRepo.On("DeleteSnapshot", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.snapshotRepo.On("LoadSnapshot", mock.Anything, mock.Anything).Return(nil, sharedModels.ErrSessionSnapshotAbsent).Maybe()

	f.sessions = session.NewManager(f.snapshotRepo, zap.NewNop())

	var publisher *sharedMocks.GameEventPublisher
	if withPublisher {
		publisher = f.publisher
	}
	if publisher != nil {
		f.svc = service.NewGameService(f.scenarioRepo, f.choiceRepo, f.profileRepo, f.endingRepo, f.userRepo, f.sessions, publisher, zap.NewNop())
	} else {
		f.svc = service.NewGameService(f.scenarioRepo, f.choiceRepo, f.profileRepo, f.endingRepo, f.userRepo, f.sessions, nil, zap.NewNop())
	}
	return f
}

func greedScenario() *sharedModels.Scenario {
	return &sharedModels.Scenario{
		ID:    1,
		Title: "The Merchant's Scales",
		SinID: 1,
		Choices: []sharedModels.Choice{
			{ID: 10, ScenarioID: 1, Text: "Expose the rigged scales", Consequence: "The merchant is ruined, the buyers thank you.", MoralImpact: 15},
			{ID: 11, ScenarioID: 1, Text: "Take a cut to stay quiet", Consequence: "Your purse is heavier, your sleep lighter.", MoralImpact: -15},
		},
	}
}

func TestConfirmChoice(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Successful choice records and advances", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.scenarioRepo.On("GetScenario", ctx, int64(1)).Return(greedScenario(), nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(7, nil).Once()
		f.choiceRepo.On("InsertChoice", ctx, mock.MatchedBy(func(rec *sharedModels.ChoiceRecord) bool {
			assert.Equal(t, userID, rec.UserID)
			assert.Equal(t, int64(1), rec.ScenarioID)
			assert.Equal(t, int64(10), rec.ChoiceID)
			assert.Equal(t, 15, rec.MoralImpact)
			assert.Equal(t, "The Merchant's Scales", rec.ScenarioTitle)
			return true
		})).Return(nil).Once()
		f.profileRepo.On("ApplyChoice", ctx, userID, int64(1), 15).Return(&sharedModels.UserProfile{}, nil).Once()

		outcome, err := f.svc.ConfirmChoice(ctx, userID, 1, 10)

		require.NoError(t, err)
		require.NotNil(t, outcome)
		assert.Equal(t, 15, outcome.MoralScore)
		assert.False(t, outcome.StoryComplete)
		f.scenarioRepo.AssertExpectations(t)
		f.choiceRepo.AssertExpectations(t)
		f.profileRepo.AssertExpectations(t)
	})

	t.Run("Insert failure surfaces and does not advance", func(t *testing.T) {
		f := newGameServiceFixture(false)
		dbErr := errors.New("insert failed")
		f.scenarioRepo.On("GetScenario", ctx, int64(1)).Return(greedScenario(), nil).Once()
		f.choiceRepo.On("InsertChoice", ctx, mock.Anything).Return(dbErr).Once()

		outcome, err := f.svc.ConfirmChoice(ctx, userID, 1, 10)

		require.Error(t, err)
		assert.True(t, errors.Is(err, dbErr))
		assert.Nil(t, outcome)
		// Nothing past the durable insert runs.
		f.profileRepo.AssertNotCalled(t, "ApplyChoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store, ok := f.sessions.Get(userID)
		if ok {
			assert.Equal(t, 0, store.MoralScore())
			assert.False(t, store.IsCompleted(1))
		}
	})

	t.Run("Unknown choice in scenario", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.scenarioRepo.On("GetScenario", ctx, int64(1)).Return(greedScenario(), nil).Once()

		outcome, err := f.svc.ConfirmChoice(ctx, userID, 1, 999)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedModels.ErrChoiceNotFound))
		assert.Nil(t, outcome)
		f.choiceRepo.AssertNotCalled(t, "InsertChoice", mock.Anything, mock.Anything)
	})

	t.Run("Completing the last scenario publishes story completed", func(t *testing.T) {
		f := newGameServiceFixture(true)
		f.scenarioRepo.On("GetScenario", ctx, int64(1)).Return(greedScenario(), nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(1, nil).Once()
		f.choiceRepo.On("InsertChoice", ctx, mock.Anything).Return(nil).Once()
		f.profileRepo.On("ApplyChoice", ctx, userID, int64(1), -15).Return(&sharedModels.UserProfile{}, nil).Once()
		f.publisher.On("PublishChoiceRecorded", ctx, mock.MatchedBy(func(p sharedMessaging.ChoiceRecordedPayload) bool {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, -15, p.MoralImpact)
			assert.Equal(t, -15, p.MoralScore)
			return true
		})).Return(nil).Once()
		f.publisher.On("PublishStoryCompleted", ctx, mock.MatchedBy(func(p sharedMessaging.StoryCompletedPayload) bool {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, -15, p.FinalScore)
			assert.Equal(t, string(sharedModels.BandNeutral), p.MoralBand)
			return true
		})).Return(nil).Once()

		outcome, err := f.svc.ConfirmChoice(ctx, userID, 1, 11)

		require.NoError(t, err)
		assert.True(t, outcome.StoryComplete)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Profile update failure is tolerated", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.scenarioRepo.On("GetScenario", ctx, int64(1)).Return(greedScenario(), nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(7, nil).Once()
		f.choiceRepo.On("InsertChoice", ctx, mock.Anything).Return(nil).Once()
		f.profileRepo.On("ApplyChoice", ctx, userID, int64(1), 15).Return(nil, errors.New("profile down")).Once()

		outcome, err := f.svc.ConfirmChoice(ctx, userID, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 15, outcome.MoralScore)
	})
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Progress from completed over total", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.profileRepo.On("GetOrCreateProfile", ctx, userID).Return(&sharedModels.UserProfile{
			UserID:               userID,
			MoralScore:           30,
			VirtuousChoices:      3,
			NeutralChoices:       1,
			CorruptChoices:       0,
			CompletedScenarioIDs: []int64{1, 2, 3, 4},
		}, nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(7, nil).Once()

		stats, err := f.svc.ComputeStats(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, 30, stats.MoralScore)
		assert.Equal(t, 4, stats.CompletedScenarios)
		assert.Equal(t, 7, stats.TotalScenarios)
		assert.InDelta(t, 57.14, stats.Progress, 0.01)
	})

	t.Run("Empty catalog yields zero progress", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.profileRepo.On("GetOrCreateProfile", ctx, userID).Return(&sharedModels.UserProfile{UserID: userID}, nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(0, nil).Once()

		stats, err := f.svc.ComputeStats(ctx, userID)

		require.NoError(t, err)
		assert.Zero(t, stats.Progress)
	})
}

func TestGetEnding(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Uses profile score without a live session", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.profileRepo.On("GetOrCreateProfile", ctx, userID).Return(&sharedModels.UserProfile{UserID: userID, MoralScore: -60}, nil).Once()
		corrupt := sharedModels.DefaultEnding(sharedModels.BandCorrupt)
		f.endingRepo.On("GetEndingForScore", ctx, -60).Return(&corrupt, nil).Once()

		ending, score, err := f.svc.GetEnding(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, -60, score)
		assert.Equal(t, sharedModels.BandCorrupt, ending.MoralBand)
	})

	t.Run("Prefers the live session score", func(t *testing.T) {
		f := newGameServiceFixture(false)
		user := &sharedModels.User{ID: userID, Email: "villager@example.com"}
		f.scenarioRepo.On("CountScenarios", ctx).Return(7, nil).Once()
		f.profileRepo.On("GetOrCreateProfile", ctx, userID).Return(&sharedModels.UserProfile{UserID: userID, MoralScore: 80, CompletedScenarioIDs: []int64{1, 2, 3}}, nil).Once()
		_, err := f.svc.StartSession(ctx, user)
		require.NoError(t, err)

		virtuous := sharedModels.DefaultEnding(sharedModels.BandVirtuous)
		f.endingRepo.On("GetEndingForScore", ctx, 80).Return(&virtuous, nil).Once()

		ending, score, err := f.svc.GetEnding(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, 80, score)
		assert.Equal(t, sharedModels.BandVirtuous, ending.MoralBand)
		// The durable profile is not consulted again once a session exists.
		f.profileRepo.AssertNumberOfCalls(t, "GetOrCreateProfile", 1)
	})
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Deletes history, resets profile and session", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.choiceRepo.On("DeleteChoicesByUser", ctx, userID).Return(nil).Once()
		fresh := &sharedModels.UserProfile{UserID: userID}
		f.profileRepo.On("ResetProgress", ctx, userID).Return(fresh, nil).Once()

		profile, err := f.svc.ResetProgress(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, fresh, profile)
		f.choiceRepo.AssertExpectations(t)
		f.profileRepo.AssertExpectations(t)
	})

	t.Run("History deletion failure aborts the reset", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.choiceRepo.On("DeleteChoicesByUser", ctx, userID).Return(errors.New("delete failed")).Once()

		profile, err := f.svc.ResetProgress(ctx, userID)

		require.Error(t, err)
		assert.Nil(t, profile)
		f.profileRepo.AssertNotCalled(t, "ResetProgress", mock.Anything, mock.Anything)
	})
}

func TestRestoreSession(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Seeds empty session from the durable profile", func(t *testing.T) {
		f := newGameServiceFixture(false)
		user := &sharedModels.User{ID: userID, Email: "villager@example.com"}
		f.userRepo.On("GetUserByID", ctx, userID).Return(user, nil).Once()
		f.profileRepo.On("GetOrCreateProfile", ctx, userID).Return(&sharedModels.UserProfile{
			UserID:               userID,
			MoralScore:           45,
			CompletedScenarioIDs: []int64{1, 3},
		}, nil).Once()
		f.scenarioRepo.On("CountScenarios", ctx).Return(7, nil).Once()

		state, err := f.svc.RestoreSession(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, 45, state.MoralScore)
		assert.Equal(t, []int64{1, 3}, state.CompletedScenarioIDs)
		assert.Equal(t, 7, state.TotalScenarios)
		assert.False(t, state.StoryComplete)
		require.NotNil(t, state.Identity)
		assert.Equal(t, "villager@example.com", state.Identity.Email)
	})

	t.Run("Unknown user is rejected", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.userRepo.On("GetUserByID", ctx, userID).Return(nil, sharedModels.ErrUserNotFound).Once()

		state, err := f.svc.RestoreSession(ctx, userID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedModels.ErrUserNotFound))
		assert.Nil(t, state)
	})
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Clears the live store and deletes the snapshot", func(t *testing.T) {
		f := newGameServiceFixture(false)
		store := f.sessions.GetOrCreate(userID)
		_, err := store.ApplyMoralDelta(ctx, 30)
		require.NoError(t, err)

		require.NoError(t, f.svc.EndSession(ctx, userID))

		_, ok := f.sessions.Get(userID)
		assert.False(t, ok)
		f.snapshotRepo.AssertCalled(t, "DeleteSnapshot", mock.Anything, userID)
	})

	t.Run("Deletes the snapshot without a live store", func(t *testing.T) {
		// The in-memory store is gone after a restart; the persisted snapshot
		// must still be removed or the next login restores pre-logout state.
		f := newGameServiceFixture(false)

		require.NoError(t, f.svc.EndSession(ctx, userID))

		_, ok := f.sessions.Get(userID)
		assert.False(t, ok)
		f.snapshotRepo.AssertCalled(t, "DeleteSnapshot", mock.Anything, userID)
	})

	t.Run("Snapshot delete failure surfaces", func(t *testing.T) {
		f := newGameServiceFixture(false)
		delErr := errors.New("redis down")
		f.snapshotRepo.ExpectedCalls = nil
		f.snapshotRepo.On("SaveSnapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		f.snapshotRepo.On("DeleteSnapshot", mock.Anything, userID).Return(delErr).Once()

		err := f.svc.EndSession(ctx, userID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, delErr))
	})
}

func TestListEndings(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the authored endings", func(t *testing.T) {
		f := newGameServiceFixture(false)
		f.endingRepo.On("ListEndings", ctx).Return([]sharedModels.Ending{
			{ID: 1, MoralBand: sharedModels.BandVirtuous, Title: "The Light of the Village"},
			{ID: 2, MoralBand: sharedModels.BandCorrupt, Title: "The Seventh Shadow"},
			{ID: 3, MoralBand: sharedModels.BandNeutral, Title: "The Quiet Road"},
		}, nil).Once()

		endings, err := f.svc.ListEndings(ctx)

		require.NoError(t, err)
		require.Len(t, endings, 3)
		assert.Equal(t, sharedModels.BandVirtuous, endings[0].MoralBand)
		f.endingRepo.AssertExpectations(t)
	})

	t.Run("Repository failure surfaces", func(t *testing.T) {
		f := newGameServiceFixture(false)
		dbErr := errors.New("query failed")
		f.endingRepo.On("ListEndings", ctx).Return(nil, dbErr).Once()

		endings, err := f.svc.ListEndings(ctx)

		require.Error(t, err)
		assert.Nil(t, endings)
	})
}
