package session

import (
	"sync"

	"moral-village-server/shared/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns one Store per authenticated user for the lifetime of the
// process. Stores are created lazily and dropped on logout.
type Manager struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]*Store

	snapshots interfaces.SessionSnapshotRepository
	logger    *zap.Logger
}

// NewManager creates an empty session manager.
func NewManager(snapshots interfaces.SessionSnapshotRepository, logger *zap.Logger) *Manager {
	return &Manager{
		stores:    make(map[uuid.UUID]*Store),
		snapshots: snapshots,
		logger:    logger.Named("SessionManager"),
	}
}

// GetOrCreate returns the user's session store, creating an empty one if
// none exists yet.
func (m *Manager) GetOrCreate(userID uuid.UUID) *Store {
	m.mu.RLock()
	store, ok := m.stores[userID]
	m.mu.RUnlock()
	if ok {
		return store
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[userID]; ok {
		return store
	}
	store = NewStore(userID, m.snapshots, m.logger)
	m.stores[userID] = store
	m.logger.Debug("Created session store", zap.String("userID", userID.String()))
	return store
}

// Get returns the user's session store if one exists.
func (m *Manager) Get(userID uuid.UUID) (*Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	store, ok := m.stores[userID]
	return store, ok
}

// Remove drops the user's in-memory store. The persisted snapshot is the
// store's own concern (Logout deletes it, ResetProgress keeps it).
func (m *Manager) Remove(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}
