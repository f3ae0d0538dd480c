package mocks

import (
	"context"

	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock ScenarioRepository
type ScenarioRepository struct {
	mock.Mock
}

func (m *ScenarioRepository) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	args := m.Called(ctx)
	scenarios, _ := args.Get(0).([]models.Scenario)
	return scenarios, args.Error(1)
}
func (m *ScenarioRepository) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	args := m.Called(ctx, id)
	scenario, _ := args.Get(0).(*models.Scenario)
	return scenario, args.Error(1)
}
func (m *ScenarioRepository) ListSins(ctx context.Context) ([]models.Sin, error) {
	args := m.Called(ctx)
	sins, _ := args.Get(0).([]models.Sin)
	return sins, args.Error(1)
}
func (m *ScenarioRepository) CountScenarios(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Mock UserChoiceRepository
type UserChoiceRepository struct {
	mock.Mock
}

func (m *UserChoiceRepository) InsertChoice(ctx context.Context, record *models.ChoiceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *UserChoiceRepository) ListChoicesByUser(ctx context.Context, userID uuid.UUID) ([]models.ChoiceRecord, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]models.ChoiceRecord)
	return records, args.Error(1)
}
func (m *UserChoiceRepository) DeleteChoicesByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock ProfileRepository
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}
func (m *ProfileRepository) ApplyChoice(ctx context.Context, userID uuid.UUID, scenarioID int64, impact int) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, scenarioID, impact)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}
func (m *ProfileRepository) ResetProgress(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

// Mock EndingRepository
type EndingRepository struct {
	mock.Mock
}

func (m *EndingRepository) GetEndingForScore(ctx context.Context, score int) (*models.Ending, error) {
	args := m.Called(ctx, score)
	ending, _ := args.Get(0).(*models.Ending)
	return ending, args.Error(1)
}
func (m *EndingRepository) ListEndings(ctx context.Context) ([]models.Ending, error) {
	args := m.Called(ctx)
	endings, _ := args.Get(0).([]models.Ending)
	return endings, args.Error(1)
}

// Mock SessionSnapshotRepository
type SessionSnapshotRepository struct {
	mock.Mock
}

func (m *SessionSnapshotRepository) SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot []byte) error {
	args := m.Called(ctx, userID, snapshot)
	return args.Error(0)
}
func (m *SessionSnapshotRepository) LoadSnapshot(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
func (m *SessionSnapshotRepository) DeleteSnapshot(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
