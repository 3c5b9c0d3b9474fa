package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// maxUpdateAttempts bounds how often Update reloads and reapplies a change
// that lost a revision race.
const maxUpdateAttempts = 3

// Manager loads terminal sessions from the repository and writes them back
// under a revision check, so several API instances can share one store.
type Manager struct {
	repo   SessionRepository
	logger zerolog.Logger
}

// NewManager creates a session manager backed by repo.
func NewManager(repo SessionRepository, logger zerolog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger.With().Str("component", "cart-manager").Logger(),
	}
}

// Get returns the stored session for terminalID, or an empty one when
// nothing is stored.
func (m *Manager) Get(ctx context.Context, terminalID string) (*Session, error) {
	snap, err := m.repo.Load(ctx, terminalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s := NewSession(terminalID)
	if snap != nil {
		s.Restore(*snap)
		m.logger.Debug().
			Str("terminal_id", terminalID).
			Int("carts", len(snap.Carts)).
			Msg("cart session restored")
	}
	return s, nil
}

// Update loads the session, applies fn and stores the result. When another
// writer stored the session in between, the change is reapplied to the
// fresh state. An error from fn aborts without writing.
func (m *Manager) Update(ctx context.Context, terminalID string, fn func(*Session) error) (*Session, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		s, err := m.Get(ctx, terminalID)
		if err != nil {
			return nil, err
		}
		if err := fn(s); err != nil {
			return nil, err
		}

		err = m.persist(ctx, s)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, model.ErrSessionConflict) {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		m.logger.Debug().
			Str("terminal_id", terminalID).
			Int("attempt", attempt).
			Msg("cart session changed concurrently, retrying")
	}

	m.logger.Warn().Str("terminal_id", terminalID).Msg("cart session update abandoned after repeated conflicts")
	return nil, model.ErrSessionConflict
}

// persist writes s back. An emptied session is deleted rather than stored.
func (m *Manager) persist(ctx context.Context, s *Session) error {
	if s.Empty() {
		rev := s.Revision()
		if rev == "" {
			return nil
		}
		if err := m.repo.Delete(ctx, s.ID(), rev); err != nil {
			return err
		}
		s.setRevision("")
		m.logger.Debug().Str("terminal_id", s.ID()).Msg("empty cart session deleted")
		return nil
	}

	rev, err := m.repo.Save(ctx, s.Snapshot())
	if err != nil {
		return err
	}
	s.setRevision(rev)
	return nil
}
