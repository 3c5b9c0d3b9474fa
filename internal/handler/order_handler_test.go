package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateFromCart(ctx context.Context, terminalID string, c model.Cart) (*model.OrderResponse, error) {
	args := m.Called(ctx, terminalID, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesSummary), args.Error(1)
}

func TestOrderHandler_GetByID(t *testing.T) {
	orderID := uuid.New()
	order := &model.OrderResponse{
		Order: model.Order{ID: orderID, CartLabel: "Cart 1", Subtotal: 2000, Total: 2000},
		Items: []model.OrderItem{{ProductID: "P001", VariantID: "P001-V1", Quantity: 2, UnitPrice: 1000}},
	}

	tests := []struct {
		name           string
		orderID        string
		mockReturn     *model.OrderResponse
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{name: "Success", orderID: orderID.String(), mockReturn: order, expectService: true, expectedStatus: http.StatusOK},
		{name: "Order not found", orderID: orderID.String(), mockError: model.ErrOrderNotFound, expectService: true, expectedStatus: http.StatusNotFound},
		{name: "Invalid order ID format", orderID: "not-a-uuid", expectedStatus: http.StatusBadRequest},
		{name: "Missing order ID", orderID: "", expectedStatus: http.StatusBadRequest},
		{name: "Service error", orderID: orderID.String(), mockError: errors.New("database error"), expectService: true, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			handler := NewOrderHandler(svc, zerolog.Nop())

			if tt.expectService {
				if tt.mockError != nil {
					svc.On("GetByID", mock.Anything, orderID).Return(nil, tt.mockError)
				} else {
					svc.On("GetByID", mock.Anything, orderID).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.orderID, nil)
			req.SetPathValue("id", tt.orderID)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body model.OrderResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, orderID, body.ID)
				assert.Len(t, body.Items, 1)
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_SalesSummary(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	summary := &model.SalesSummary{Orders: 4, ItemsSold: 9, Revenue: 123400}

	tests := []struct {
		name           string
		query          string
		from           time.Time
		to             time.Time
		expectService  bool
		expectedStatus int
	}{
		{name: "Default range", query: "", from: now.Add(-24 * time.Hour), to: now, expectService: true, expectedStatus: http.StatusOK},
		{
			name:          "Explicit range",
			query:         "?from=2026-07-01T00:00:00Z&to=2026-07-08T00:00:00Z",
			from:          time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			to:            time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC),
			expectService: true, expectedStatus: http.StatusOK,
		},
		{
			name:          "Only to",
			query:         "?to=2026-07-08T00:00:00Z",
			from:          time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC),
			to:            time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC),
			expectService: true, expectedStatus: http.StatusOK,
		},
		{name: "Invalid from", query: "?from=yesterday", expectedStatus: http.StatusBadRequest},
		{name: "Invalid to", query: "?to=2026-13-01", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			handler := NewOrderHandler(svc, zerolog.Nop())
			handler.now = func() time.Time { return now }

			if tt.expectService {
				svc.On("SalesSummary", mock.Anything, mock.MatchedBy(tt.from.Equal), mock.MatchedBy(tt.to.Equal)).Return(summary, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/statistics/sales"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.SalesSummary(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_SalesSummary_InvalidRange(t *testing.T) {
	svc := new(MockOrderService)
	handler := NewOrderHandler(svc, zerolog.Nop())
	svc.On("SalesSummary", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, model.NewDomainError(model.ErrCodeInvalidRange, "Range end must be after its start"))

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/sales?from=2026-07-08T00:00:00Z&to=2026-07-01T00:00:00Z", nil)
	w := httptest.NewRecorder()

	handler.SalesSummary(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeInvalidRange)
}
