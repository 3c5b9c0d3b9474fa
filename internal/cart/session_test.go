package cart

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AddItem_Routing(t *testing.T) {
	s := NewSession("till-1")
	item := lineItem("P001", "V1", 10, 1000)

	// No active POS cart: writes go to the main cart.
	target, err := s.AddItem(item, 1)
	require.NoError(t, err)
	assert.Equal(t, model.MainCartID, target)

	pos, err := s.Multi.CreateCart()
	require.NoError(t, err)
	require.True(t, s.Multi.SetActive(pos.ID))

	target, err = s.AddItem(item, 2)
	require.NoError(t, err)
	assert.Equal(t, pos.ID, target)

	require.NoError(t, s.Multi.DeleteCart(pos.ID))

	target, err = s.AddItem(item, 1)
	require.NoError(t, err)
	assert.Equal(t, model.MainCartID, target)

	main := s.Main.Cart()
	require.Len(t, main.Items, 1)
	assert.Equal(t, 2, main.Items[0].Quantity)
}

func TestSession_AddItem_DeactivateFallsBack(t *testing.T) {
	s := NewSession("till-1")
	pos, err := s.Multi.CreateCart()
	require.NoError(t, err)
	s.Multi.SetActive(pos.ID)
	s.Multi.Deactivate()

	target, err := s.AddItem(lineItem("P001", "V1", 10, 1000), 1)
	require.NoError(t, err)
	assert.Equal(t, model.MainCartID, target)

	c, err := s.Cart(pos.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestSession_AddItem_RejectionReportsTarget(t *testing.T) {
	s := NewSession("till-1")
	pos, err := s.Multi.CreateCart()
	require.NoError(t, err)
	s.Multi.SetActive(pos.ID)

	item := lineItem("P001", "V1", 1, 1000)
	_, err = s.AddItem(item, 1)
	require.NoError(t, err)

	target, err := s.AddItem(item, 1)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, pos.ID, target)
	assert.Empty(t, s.Main.Cart().Items, "a rejected add must not spill into the main cart")
}

func TestSession_MainCartAddressing(t *testing.T) {
	s := NewSession("till-1")
	item := lineItem("P001", "V1", 5, 1000)
	_, err := s.AddItem(item, 2)
	require.NoError(t, err)

	require.NoError(t, s.UpdateItemQuantity(model.MainCartID, item.Key(), 1))
	c, err := s.Cart(model.MainCartID)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Items[0].Quantity)

	require.NoError(t, s.ApplyVoucher(model.MainCartID, model.AppliedVoucher{Code: "X", Amount: 100}))
	require.NoError(t, s.RemoveItem(model.MainCartID, item.Key()))
	require.NoError(t, s.ClearItems(model.MainCartID))

	c, err = s.Cart(model.MainCartID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Nil(t, c.Voucher)
}

func TestSession_RemoveVoucher(t *testing.T) {
	s := NewSession("till-1")
	pos, err := s.Multi.CreateCart()
	require.NoError(t, err)

	for _, id := range []string{model.MainCartID, pos.ID} {
		require.NoError(t, s.ApplyVoucher(id, model.AppliedVoucher{Code: "TAKE10", Percent: 10, Amount: 100}))
		require.NoError(t, s.RemoveVoucher(id))

		c, err := s.Cart(id)
		require.NoError(t, err)
		assert.Nil(t, c.Voucher)
		assert.Zero(t, c.Discount)
		assert.Empty(t, c.CouponCode)
	}

	assert.ErrorIs(t, s.RemoveVoucher("missing"), model.ErrCartNotFound)
}

func TestSession_View(t *testing.T) {
	s := NewSession("till-1")
	a, _ := s.Multi.CreateCart()
	b, _ := s.Multi.CreateCart()
	s.Multi.SetActive(b.ID)
	_, err := s.AddItem(lineItem("P001", "V1", 5, 1500), 2)
	require.NoError(t, err)

	view := s.View()
	assert.Equal(t, "till-1", view.TerminalID)
	assert.Equal(t, b.ID, view.ActiveCartID)
	require.Len(t, view.Carts, 2)
	assert.Equal(t, a.ID, view.Carts[0].ID)
	assert.False(t, view.Carts[0].Active)
	assert.True(t, view.Carts[1].Active)
	assert.Equal(t, int64(3000), view.Carts[1].Subtotal)
	assert.Equal(t, int64(3000), view.Carts[1].Total)
	assert.False(t, view.Main.Active)
}

func TestSession_SnapshotRestore(t *testing.T) {
	s := NewSession("till-1")
	a, _ := s.Multi.CreateCart()
	b, _ := s.Multi.CreateCart()
	s.Multi.SetActive(b.ID)
	_, err := s.AddItem(lineItem("P001", "V1", 5, 1500), 2)
	require.NoError(t, err)
	require.NoError(t, s.ApplyVoucher(b.ID, model.AppliedVoucher{Code: "TAKE10", Percent: 10, Amount: 300}))
	require.NoError(t, s.Main.AddItem(lineItem("P002", "V9", 1, 100), 1))

	snap := s.Snapshot()

	restored := NewSession("till-1")
	restored.Restore(snap)

	assert.Equal(t, s.View(), restored.View())
	assert.Equal(t, b.ID, restored.Multi.ActiveID())

	c, err := restored.Cart(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cart 1", c.Label)
}

func TestSession_RestoreDropsDanglingActive(t *testing.T) {
	s := NewSession("till-1")
	s.Restore(Snapshot{
		TerminalID:   "till-1",
		Carts:        []model.Cart{{ID: "c1", Label: "Cart 1"}},
		ActiveCartID: "gone",
	})

	assert.Empty(t, s.Multi.ActiveID())
	assert.Equal(t, 1, s.Multi.Len())
}

func TestSession_RestoreCapsCarts(t *testing.T) {
	carts := make([]model.Cart, MaxCarts+2)
	for i := range carts {
		carts[i] = model.Cart{ID: string(rune('a' + i))}
	}

	s := NewSession("till-1")
	s.Restore(Snapshot{TerminalID: "till-1", Carts: carts})

	assert.Equal(t, MaxCarts, s.Multi.Len())
}

func TestSession_ConcurrentAdds(t *testing.T) {
	s := NewSession("till-1")
	item := lineItem("P001", "V1", 100, 10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(item, 1)
		}()
	}
	wg.Wait()

	main := s.Main.Cart()
	require.Len(t, main.Items, 1)
	assert.Equal(t, 50, main.Items[0].Quantity)
}

func TestManager_GetRestoresFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	logger := zerolog.Nop()

	first := NewManager(repo, logger)
	s, err := first.Update(ctx, "till-1", func(s *Session) error {
		pos, err := s.Multi.CreateCart()
		if err != nil {
			return err
		}
		s.Multi.SetActive(pos.ID)
		_, err = s.AddItem(lineItem("P001", "V1", 5, 1000), 2)
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Revision())

	// A fresh manager (process restart) restores from the repository.
	second := NewManager(repo, logger)
	restored, err := second.Get(ctx, "till-1")
	require.NoError(t, err)
	assert.Equal(t, s.View(), restored.View())
	assert.Equal(t, s.Revision(), restored.Revision())

	other, err := second.Get(ctx, "till-2")
	require.NoError(t, err)
	assert.Zero(t, other.Multi.Len())
	assert.Empty(t, other.Revision())
}

func TestManager_UpdateRejectionIsNotStored(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := NewManager(repo, zerolog.Nop())

	_, err := m.Update(ctx, "till-1", func(s *Session) error {
		_, err := s.Multi.CreateCart()
		require.NoError(t, err)
		return model.ErrCartNotFound
	})
	assert.ErrorIs(t, err, model.ErrCartNotFound)

	snap, err := repo.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestManager_ManagersSharingRepositoryWriteInTurn(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := NewManager(repo, zerolog.Nop())
	b := NewManager(repo, zerolog.Nop())

	createCart := func(s *Session) error {
		_, err := s.Multi.CreateCart()
		return err
	}

	_, err := a.Update(ctx, "till-1", createCart)
	require.NoError(t, err)

	// b reads the terminal before a writes again.
	_, err = b.Get(ctx, "till-1")
	require.NoError(t, err)

	_, err = a.Update(ctx, "till-1", createCart)
	require.NoError(t, err)

	_, err = b.Update(ctx, "till-1", func(s *Session) error {
		_, err := s.AddItem(lineItem("P001", "V1", 5, 1000), 1)
		return err
	})
	require.NoError(t, err)

	snap, err := repo.Load(ctx, "till-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Carts, 2)
	require.Len(t, snap.Main.Items, 1)
	assert.Equal(t, 1, snap.Main.Items[0].Quantity)
}

func TestManager_UpdateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := NewManager(repo, zerolog.Nop())
	other := NewManager(repo, zerolog.Nop())

	calls := 0
	_, err := m.Update(ctx, "till-1", func(s *Session) error {
		calls++
		if calls == 1 {
			// Another instance stores the session between load and save.
			_, err := other.Update(ctx, "till-1", func(s *Session) error {
				_, err := s.Multi.CreateCart()
				return err
			})
			require.NoError(t, err)
		}
		_, err := s.AddItem(lineItem("P001", "V1", 5, 1000), 1)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	snap, err := repo.Load(ctx, "till-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Carts, 1)
	assert.Len(t, snap.Main.Items, 1)
}

func TestManager_UpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := NewManager(repo, zerolog.Nop())
	other := NewManager(repo, zerolog.Nop())

	calls := 0
	_, err := m.Update(ctx, "till-1", func(s *Session) error {
		calls++
		_, err := other.Update(ctx, "till-1", func(s *Session) error {
			_, err := s.AddItem(lineItem("P001", "V1", 100, 10), 1)
			return err
		})
		require.NoError(t, err)
		_, err = s.Multi.CreateCart()
		return err
	})
	assert.ErrorIs(t, err, model.ErrSessionConflict)
	assert.Equal(t, maxUpdateAttempts, calls)
}

func TestManager_EmptiedSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	m := NewManager(repo, zerolog.Nop())

	var cartID string
	_, err := m.Update(ctx, "till-1", func(s *Session) error {
		c, err := s.Multi.CreateCart()
		cartID = c.ID
		return err
	})
	require.NoError(t, err)

	s, err := m.Update(ctx, "till-1", func(s *Session) error {
		return s.Multi.DeleteCart(cartID)
	})
	require.NoError(t, err)
	assert.Empty(t, s.Revision())

	snap, err := repo.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	// Nothing stored and nothing to store is not a write.
	_, err = m.Update(ctx, "till-1", func(s *Session) error {
		s.Multi.Deactivate()
		return nil
	})
	require.NoError(t, err)
	snap, err = repo.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	snap, err := repo.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	rev, err := repo.Save(ctx, Snapshot{TerminalID: "till-1", ActiveCartID: "c1"})
	require.NoError(t, err)
	require.NotEmpty(t, rev)

	snap, err = repo.Load(ctx, "till-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "c1", snap.ActiveCartID)
	assert.Equal(t, rev, snap.Revision)

	t.Run("stale revision is a conflict", func(t *testing.T) {
		_, err := repo.Save(ctx, Snapshot{TerminalID: "till-1"})
		assert.ErrorIs(t, err, model.ErrSessionConflict)

		err = repo.Delete(ctx, "till-1", "stale")
		assert.ErrorIs(t, err, model.ErrSessionConflict)

		snap, err := repo.Load(ctx, "till-1")
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, rev, snap.Revision)
	})

	require.NoError(t, repo.Delete(ctx, "till-1", rev))
	snap, err = repo.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}
