package service

import (
	"context"
	"log"
	"time"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type OrderService struct {
	orders    OrderRepository
	users     UserRepository
	publisher EventPublisher
	qrEncoder QRGenerator
	now       func() time.Time
}

func NewOrderService(orders OrderRepository, users UserRepository, publisher EventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		qrEncoder: qr,
		now:       time.Now,
	}
}

// BuildOrder turns cart lines into an unplaced order whose total is the sum
// of the line prices. Each line becomes one order item with the same
// quantity, unit price and price.
func BuildOrder(userID int64, lines []domain.CartLine, now time.Time) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.Price)
		items = append(items, domain.OrderItem{
			MenuItem:  line.MenuItem,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Price:     line.Price,
		})
	}

	y, m, d := now.Date()
	return &domain.Order{
		User:   domain.User{ID: userID},
		Status: false,
		Total:  total,
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Items:  items,
	}, nil
}

func (s *OrderService) Checkout(ctx context.Context, userID int64) (*domain.Order, error) {
	now := s.now()
	order, err := s.orders.Checkout(ctx, userID, func(lines []domain.CartLine) (*domain.Order, error) {
		return BuildOrder(userID, lines, now)
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderEventItem{
			MenuItemID: item.MenuItem.ID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	s.publish(ctx, domain.OrderEvent{
		Type:    domain.EventOrderPlaced,
		OrderID: order.ID,
		UserID:  userID,
		Total:   order.Total,
		Status:  order.Status,
		Items:   items,
	})

	log.Printf("Order %d placed by user %d, total %s", order.ID, userID, order.Total.StringFixed(2))
	return order, nil
}

// List scopes orders by role: managers see everything, delivery crew the
// orders assigned to them, customers their own.
func (s *OrderService) List(ctx context.Context, p access.Principal) ([]domain.Order, error) {
	var scope domain.OrderScope
	switch p.Role() {
	case access.RoleManager:
	case access.RoleDeliveryCrew:
		scope.DeliveryCrewID = &p.UserID
	default:
		scope.UserID = &p.UserID
	}
	return s.orders.ListOrders(ctx, scope)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status bool) error {
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	s.publish(ctx, domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: id, Status: status})
	return nil
}

func (s *OrderService) Assign(ctx context.Context, id, deliveryCrewID int64, status bool) (*domain.User, error) {
	crew, err := s.users.GetUser(ctx, deliveryCrewID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.AssignOrder(ctx, id, crew.ID, status); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: id, Status: status})
	return crew, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.OrderEvent{Type: domain.EventOrderDeleted, OrderID: id})
	return nil
}

func (s *OrderService) ReceiptQR(orderID int64) ([]byte, error) {
	return s.qrEncoder.Generate(orderID)
}

// publish never fails the caller; the order is already committed.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s for order %d: %v", event.Type, event.OrderID, err)
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
