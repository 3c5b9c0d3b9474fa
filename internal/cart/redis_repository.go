package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sessionKeyPrefix = "pos:session:"

// redisRepository stores each session as a JSON value with a sliding TTL.
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisRepository creates a Redis-backed session repository. A zero ttl
// keeps sessions until deleted.
func NewRedisRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return &redisRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart-session").Logger(),
	}
}

func sessionKey(terminalID string) string {
	return sessionKeyPrefix + terminalID
}

// Load returns the stored snapshot, or nil when none exists.
func (r *redisRepository) Load(ctx context.Context, terminalID string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, sessionKey(terminalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("terminal_id", terminalID).Msg("failed to load cart session")
		return nil, fmt.Errorf("failed to load cart session %s: %w", terminalID, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		r.logger.Error().Err(err).Str("terminal_id", terminalID).Msg("failed to decode cart session")
		return nil, fmt.Errorf("failed to decode cart session %s: %w", terminalID, err)
	}
	return &snap, nil
}

// Save stores the snapshot and refreshes its TTL if the stored revision
// still matches snap.Revision.
func (r *redisRepository) Save(ctx context.Context, snap Snapshot) (string, error) {
	key := sessionKey(snap.TerminalID)
	expected := snap.Revision
	snap.Revision = uuid.NewString()

	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart session %s: %w", snap.TerminalID, err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := storedRevision(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expected {
			return model.ErrSessionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return "", r.writeError(err, snap.TerminalID, "save")
	}

	r.logger.Debug().
		Str("terminal_id", snap.TerminalID).
		Int("carts", len(snap.Carts)).
		Msg("cart session saved")
	return snap.Revision, nil
}

// Delete removes the stored snapshot if it is still at revision.
func (r *redisRepository) Delete(ctx context.Context, terminalID, revision string) error {
	key := sessionKey(terminalID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := storedRevision(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != revision {
			return model.ErrSessionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return r.writeError(err, terminalID, "delete")
	}
	return nil
}

// storedRevision reads the revision of the watched snapshot; "" when absent.
func storedRevision(ctx context.Context, tx *redis.Tx, key string) (string, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var stored struct {
		Revision string `json:"revision"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return "", fmt.Errorf("failed to decode stored revision: %w", err)
	}
	return stored.Revision, nil
}

// writeError maps a lost WATCH race to model.ErrSessionConflict and wraps
// anything else.
func (r *redisRepository) writeError(err error, terminalID, op string) error {
	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, model.ErrSessionConflict) {
		r.logger.Debug().Str("terminal_id", terminalID).Str("op", op).Msg("cart session revision conflict")
		return model.ErrSessionConflict
	}
	r.logger.Error().Err(err).Str("terminal_id", terminalID).Str("op", op).Msg("failed to write cart session")
	return fmt.Errorf("failed to %s cart session %s: %w", op, terminalID, err)
}
