package cart

import (
	"context"
	"sync"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// SessionRepository persists session snapshots between requests and restarts.
// Writes are conditional on the revision the caller loaded; a missing
// snapshot has revision "".
type SessionRepository interface {
	// Load returns the stored snapshot with its revision, or nil when none exists.
	Load(ctx context.Context, terminalID string) (*Snapshot, error)

	// Save stores snap if the stored revision still equals snap.Revision and
	// returns the new revision. Otherwise it returns model.ErrSessionConflict.
	Save(ctx context.Context, snap Snapshot) (string, error)

	// Delete removes the stored snapshot under the same revision check.
	Delete(ctx context.Context, terminalID, revision string) error
}

// memoryRepository keeps snapshots in process memory.
type memoryRepository struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryRepository creates an in-process session repository.
func NewMemoryRepository() SessionRepository {
	return &memoryRepository{snaps: make(map[string]Snapshot)}
}

func (r *memoryRepository) Load(_ context.Context, terminalID string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snaps[terminalID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (r *memoryRepository) Save(_ context.Context, snap Snapshot) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snaps[snap.TerminalID].Revision != snap.Revision {
		return "", model.ErrSessionConflict
	}
	snap.Revision = uuid.NewString()
	r.snaps[snap.TerminalID] = snap
	return snap.Revision, nil
}

func (r *memoryRepository) Delete(_ context.Context, terminalID, revision string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snaps[terminalID].Revision != revision {
		return model.ErrSessionConflict
	}
	delete(r.snaps, terminalID)
	return nil
}
