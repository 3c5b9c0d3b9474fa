package cart

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestRedis starts a Redis testcontainer and returns a connected client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	})

	return client
}

// setupClient opens a second connection to the server behind client.
func setupClient(t *testing.T, client *redis.Client) *redis.Client {
	t.Helper()
	second := redis.NewClient(&redis.Options{Addr: client.Options().Addr})
	t.Cleanup(func() { _ = second.Close() })
	return second
}

func TestRedisRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupTestRedis(t)
	repo := NewRedisRepository(client, time.Hour, zerolog.Nop())
	ctx := context.Background()

	t.Run("Load returns nil for unknown terminal", func(t *testing.T) {
		snap, err := repo.Load(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("Save and load round trip", func(t *testing.T) {
		s := NewSession("till-1")
		pos, err := s.Multi.CreateCart()
		require.NoError(t, err)
		s.Multi.SetActive(pos.ID)
		_, err = s.AddItem(lineItem("P001", "V1", 5, 1000), 2)
		require.NoError(t, err)
		require.NoError(t, s.ApplyVoucher(pos.ID, model.AppliedVoucher{Code: "TAKE10", Percent: 10, Amount: 200}))

		rev, err := repo.Save(ctx, s.Snapshot())
		require.NoError(t, err)

		snap, err := repo.Load(ctx, "till-1")
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, rev, snap.Revision)

		restored := NewSession("till-1")
		restored.Restore(*snap)
		assert.Equal(t, s.View(), restored.View())

		ttl, err := client.TTL(ctx, sessionKey("till-1")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Delete removes session", func(t *testing.T) {
		rev, err := repo.Save(ctx, Snapshot{TerminalID: "till-2"})
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, "till-2", rev))

		snap, err := repo.Load(ctx, "till-2")
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("Stale revision is a conflict", func(t *testing.T) {
		rev, err := repo.Save(ctx, Snapshot{TerminalID: "till-4"})
		require.NoError(t, err)
		newer, err := repo.Save(ctx, Snapshot{TerminalID: "till-4", Revision: rev})
		require.NoError(t, err)

		_, err = repo.Save(ctx, Snapshot{TerminalID: "till-4", Revision: rev})
		assert.ErrorIs(t, err, model.ErrSessionConflict)
		_, err = repo.Save(ctx, Snapshot{TerminalID: "till-4"})
		assert.ErrorIs(t, err, model.ErrSessionConflict)
		assert.ErrorIs(t, repo.Delete(ctx, "till-4", rev), model.ErrSessionConflict)

		snap, err := repo.Load(ctx, "till-4")
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, newer, snap.Revision)
	})

	t.Run("Managers on separate clients write in turn", func(t *testing.T) {
		other := NewRedisRepository(setupClient(t, client), time.Hour, zerolog.Nop())
		a := NewManager(repo, zerolog.Nop())
		b := NewManager(other, zerolog.Nop())
		createCart := func(s *Session) error {
			_, err := s.Multi.CreateCart()
			return err
		}

		_, err := a.Update(ctx, "till-5", createCart)
		require.NoError(t, err)
		_, err = b.Get(ctx, "till-5")
		require.NoError(t, err)
		_, err = a.Update(ctx, "till-5", createCart)
		require.NoError(t, err)
		_, err = b.Update(ctx, "till-5", createCart)
		require.NoError(t, err)

		snap, err := repo.Load(ctx, "till-5")
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Len(t, snap.Carts, 3)
	})

	t.Run("Corrupt value is an error", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, sessionKey("till-3"), "not json", 0).Err())

		_, err := repo.Load(ctx, "till-3")
		assert.Error(t, err)
	})
}
