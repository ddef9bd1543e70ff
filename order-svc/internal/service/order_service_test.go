package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/mocks"
	"little-lemon/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cartLine(id int64, menuID int64, title string, quantity int, unit string) domain.CartLine {
	price := decimal.RequireFromString(unit)
	return domain.CartLine{
		ID:        id,
		UserID:    1,
		MenuItem:  domain.MenuItem{ID: menuID, Title: title, Price: price},
		Quantity:  quantity,
		UnitPrice: price,
		Price:     service.LinePrice(quantity, price),
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	t.Run("empty cart", func(t *testing.T) {
		order, err := service.BuildOrder(1, nil, now)
		assert.ErrorIs(t, err, service.ErrCartEmpty)
		assert.Nil(t, order)
	})

	t.Run("sums line prices and mirrors lines", func(t *testing.T) {
		lines := []domain.CartLine{
			cartLine(1, 7, "Greek salad", 2, "12.50"),
			cartLine(2, 9, "Lemon dessert", 3, "4.75"),
		}

		order, err := service.BuildOrder(1, lines, now)
		require.NoError(t, err)

		assert.Equal(t, int64(1), order.User.ID)
		assert.False(t, order.Status)
		assert.Equal(t, "39.25", order.Total.StringFixed(2))
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), order.Date)
		require.Len(t, order.Items, 2)
		for i, item := range order.Items {
			assert.Equal(t, lines[i].MenuItem.ID, item.MenuItem.ID)
			assert.Equal(t, lines[i].Quantity, item.Quantity)
			assert.True(t, lines[i].UnitPrice.Equal(item.UnitPrice))
			assert.True(t, lines[i].Price.Equal(item.Price))
		}
	})
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("greek salad example", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(orders, mocks.NewUserRepository(t), publisher, nil)

		lines := []domain.CartLine{cartLine(1, 7, "Greek salad", 2, "12.50")}
		orders.On("Checkout", ctx, int64(1), mock.Anything).
			Return(func(ctx context.Context, userID int64, build service.OrderBuilder) (*domain.Order, error) {
				order, err := build(lines)
				if err != nil {
					return nil, err
				}
				order.ID = 42
				return order, nil
			}).Once()
		publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventOrderPlaced && e.OrderID == 42 && e.Total.StringFixed(2) == "25.00" &&
				len(e.Items) == 1 && e.Items[0].MenuItemID == 7 && e.Items[0].Quantity == 2
		})).Return(nil).Once()

		order, err := svc.Checkout(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), order.ID)
		assert.Equal(t, "25.00", order.Total.StringFixed(2))
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Greek salad", order.Items[0].MenuItem.Title)
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.Equal(t, "12.50", order.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, "25.00", order.Items[0].Price.StringFixed(2))
	})

	t.Run("empty cart publishes nothing", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(orders, mocks.NewUserRepository(t), publisher, nil)

		orders.On("Checkout", ctx, int64(1), mock.Anything).
			Return(func(ctx context.Context, userID int64, build service.OrderBuilder) (*domain.Order, error) {
				return build(nil)
			}).Once()

		order, err := svc.Checkout(ctx, 1)
		assert.ErrorIs(t, err, service.ErrCartEmpty)
		assert.Nil(t, order)
	})

	t.Run("publish failure does not fail checkout", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(orders, mocks.NewUserRepository(t), publisher, nil)

		orders.On("Checkout", ctx, int64(1), mock.Anything).
			Return(&domain.Order{ID: 3, Total: decimal.NewFromInt(5)}, nil).Once()
		publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		order, err := svc.Checkout(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), order.ID)
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	userID := func(v int64) *int64 { return &v }

	tests := []struct {
		name  string
		p     access.Principal
		scope domain.OrderScope
	}{
		{name: "manager sees all", p: access.Principal{UserID: 3, Manager: true}, scope: domain.OrderScope{}},
		{name: "crew sees assigned", p: access.Principal{UserID: 2, DeliveryCrew: true}, scope: domain.OrderScope{DeliveryCrewID: userID(2)}},
		{name: "customer sees own", p: access.Principal{UserID: 1}, scope: domain.OrderScope{UserID: userID(1)}},
		{name: "admin customer sees own", p: access.Principal{UserID: 4, IsAdmin: true}, scope: domain.OrderScope{UserID: userID(4)}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := mocks.NewOrderRepository(t)
			svc := service.NewOrderService(orders, mocks.NewUserRepository(t), nil, nil)

			expected := []domain.Order{{ID: 10}}
			orders.On("ListOrders", ctx, testCase.scope).Return(expected, nil).Once()

			got, err := svc.List(ctx, testCase.p)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestOrderService_Assign(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(orders *mocks.OrderRepository, users *mocks.UserRepository, publisher *mocks.EventPublisher)
		wantErr    error
	}{
		{
			name: "assigns crew and status together",
			setupMocks: func(orders *mocks.OrderRepository, users *mocks.UserRepository, publisher *mocks.EventPublisher) {
				users.On("GetUser", ctx, int64(2)).Return(&domain.User{ID: 2, Username: "dave"}, nil).Once()
				orders.On("AssignOrder", ctx, int64(10), int64(2), true).Return(nil).Once()
				publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderStatusChanged && e.OrderID == 10 && e.Status
				})).Return(nil).Once()
			},
		},
		{
			name: "unknown crew",
			setupMocks: func(orders *mocks.OrderRepository, users *mocks.UserRepository, publisher *mocks.EventPublisher) {
				users.On("GetUser", ctx, int64(2)).Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "unknown order",
			setupMocks: func(orders *mocks.OrderRepository, users *mocks.UserRepository, publisher *mocks.EventPublisher) {
				users.On("GetUser", ctx, int64(2)).Return(&domain.User{ID: 2, Username: "dave"}, nil).Once()
				orders.On("AssignOrder", ctx, int64(10), int64(2), true).Return(domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := mocks.NewOrderRepository(t)
			users := mocks.NewUserRepository(t)
			publisher := mocks.NewEventPublisher(t)
			testCase.setupMocks(orders, users, publisher)

			svc := service.NewOrderService(orders, users, publisher, nil)
			crew, err := svc.Assign(ctx, 10, 2, true)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, crew)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "dave", crew.Username)
		})
	}
}

func TestOrderService_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	orders := mocks.NewOrderRepository(t)
	publisher := mocks.NewEventPublisher(t)
	svc := service.NewOrderService(orders, mocks.NewUserRepository(t), publisher, nil)

	orders.On("UpdateOrderStatus", ctx, int64(10), true).Return(nil).Once()
	orders.On("UpdateOrderStatus", ctx, int64(11), true).Return(domain.ErrNotFound).Once()
	orders.On("DeleteOrder", ctx, int64(10)).Return(nil).Once()
	publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderStatusChanged
	})).Return(nil).Once()
	publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderDeleted && e.OrderID == 10
	})).Return(nil).Once()

	assert.NoError(t, svc.UpdateStatus(ctx, 10, true))
	assert.ErrorIs(t, svc.UpdateStatus(ctx, 11, true), domain.ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, 10))
}

func TestOrderService_ReceiptQR(t *testing.T) {
	qr := mocks.NewQRGenerator(t)
	svc := service.NewOrderService(mocks.NewOrderRepository(t), mocks.NewUserRepository(t), nil, qr)

	qr.On("Generate", int64(5)).Return([]byte("png"), nil).Once()

	png, err := svc.ReceiptQR(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
}

func TestReceiptQRGenerator(t *testing.T) {
	gen := service.ReceiptQRGenerator{BaseURL: "https://littlelemon.example/"}
	assert.Equal(t, "https://littlelemon.example/orders/12", gen.Link(12))

	png, err := gen.Generate(12)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
