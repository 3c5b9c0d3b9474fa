package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(total, discount int64, createdAt time.Time, voucher *string) *model.Order {
	return &model.Order{
		ID:          uuid.New(),
		TerminalID:  "T1",
		CartLabel:   "Cart 1",
		VoucherCode: voucher,
		Subtotal:    total + discount,
		Discount:    discount,
		Total:       total,
		CreatedAt:   createdAt,
	}
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	code := "SAVE10"

	tests := []struct {
		name  string
		order *model.Order
	}{
		{name: "Create order with voucher", order: newTestOrder(90000, 10000, time.Now(), &code)},
		{name: "Create order without voucher", order: newTestOrder(50000, 0, time.Now(), nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateOrder(ctx, tx, tt.order)

			require.NoError(t, err)

			var count int
			err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE id = $1", tt.order.ID).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestOrderRepository_CreateOrderItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	order := newTestOrder(30000, 0, time.Now(), nil)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	tests := []struct {
		name  string
		items []model.OrderItem
	}{
		{
			name: "Create multiple order items",
			items: []model.OrderItem{
				{ID: uuid.New(), OrderID: order.ID, ProductID: "P001", VariantID: "P001-V1", Name: "Product A", Quantity: 2, UnitPrice: 10000},
				{ID: uuid.New(), OrderID: order.ID, ProductID: "P002", VariantID: "P002-V1", Name: "Product B", Quantity: 1, UnitPrice: 10000},
			},
		},
		{
			name: "Create single order item",
			items: []model.OrderItem{
				{ID: uuid.New(), OrderID: order.ID, ProductID: "P003", VariantID: "P003-V2", Name: "Product C", Quantity: 1, UnitPrice: 5000},
			},
		},
		{
			name:  "Create empty order items",
			items: []model.OrderItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateOrderItems(ctx, tx, tt.items)

			require.NoError(t, err)

			if len(tt.items) > 0 {
				var count int
				err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE id = $1", tt.items[0].ID).Scan(&count)
				require.NoError(t, err)
				assert.Equal(t, 1, count)
			}
		})
	}
}

func TestOrderRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	code := "SAVE10"
	order := newTestOrder(45000, 5000, time.Now().UTC().Truncate(time.Microsecond), &code)
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "P001", VariantID: "P001-V1", Name: "Product A", Quantity: 2, UnitPrice: 10000},
		{ID: uuid.New(), OrderID: order.ID, ProductID: "P002", VariantID: "P002-V1", Name: "Product B", Quantity: 3, UnitPrice: 10000},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	tests := []struct {
		name          string
		orderID       uuid.UUID
		expectNil     bool
		expectedItems int
	}{
		{name: "Order exists with items", orderID: order.ID, expectNil: false, expectedItems: 2},
		{name: "Order does not exist", orderID: uuid.New(), expectNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotItems, err := repo.GetByID(ctx, tt.orderID)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, got)
				assert.Nil(t, gotItems)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, order.ID, got.ID)
			assert.Equal(t, order.VoucherCode, got.VoucherCode)
			assert.Equal(t, order.Total, got.Total)
			assert.Equal(t, order.Discount, got.Discount)
			assert.Equal(t, order.CartLabel, got.CartLabel)
			assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

			require.Len(t, gotItems, tt.expectedItems)
			assert.Equal(t, "P001-V1", gotItems[0].VariantID)
			assert.Equal(t, 2, gotItems[0].Quantity)
			assert.Equal(t, int64(10000), gotItems[0].UnitPrice)
			assert.Equal(t, "P002-V1", gotItems[1].VariantID)
		})
	}
}

func TestOrderRepository_SalesSummary(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inside1 := newTestOrder(90000, 10000, day.Add(2*time.Hour), nil)
	inside2 := newTestOrder(20000, 0, day.Add(20*time.Hour), nil)
	outside := newTestOrder(70000, 0, day.Add(24*time.Hour), nil)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	for _, o := range []*model.Order{inside1, inside2, outside} {
		require.NoError(t, repo.CreateOrder(ctx, tx, o))
	}
	require.NoError(t, repo.CreateOrderItems(ctx, tx, []model.OrderItem{
		{ID: uuid.New(), OrderID: inside1.ID, ProductID: "P001", VariantID: "P001-V1", Name: "A", Quantity: 2, UnitPrice: 50000},
		{ID: uuid.New(), OrderID: inside2.ID, ProductID: "P002", VariantID: "P002-V1", Name: "B", Quantity: 1, UnitPrice: 20000},
		{ID: uuid.New(), OrderID: outside.ID, ProductID: "P003", VariantID: "P003-V1", Name: "C", Quantity: 7, UnitPrice: 10000},
	}))
	require.NoError(t, tx.Commit(ctx))

	t.Run("Aggregates orders in range", func(t *testing.T) {
		summary, err := repo.SalesSummary(ctx, day, day.Add(24*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Orders)
		assert.Equal(t, 3, summary.ItemsSold)
		assert.Equal(t, int64(110000), summary.Revenue)
		assert.Equal(t, int64(10000), summary.Discount)
	})

	t.Run("Empty range", func(t *testing.T) {
		summary, err := repo.SalesSummary(ctx, day.Add(-48*time.Hour), day)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Orders)
		assert.Equal(t, 0, summary.ItemsSold)
		assert.Equal(t, int64(0), summary.Revenue)
	})
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	order := newTestOrder(10000, 0, time.Now(), nil)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, tx.Rollback(ctx))

	got, _, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	pool.Close()

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		_, err := repo.BeginTx(ctx)
		require.Error(t, err)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		order, items, err := repo.GetByID(ctx, uuid.New())
		require.Error(t, err)
		assert.Nil(t, order)
		assert.Nil(t, items)
	})

	t.Run("SalesSummary with closed pool", func(t *testing.T) {
		_, err := repo.SalesSummary(ctx, time.Now().Add(-time.Hour), time.Now())
		require.Error(t, err)
	})
}
