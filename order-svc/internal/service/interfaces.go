package service

import (
	"context"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"
)

type MenuRepository interface {
	ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
}

type MenuCache interface {
	GetMenu(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, string, bool)
	SetMenu(ctx context.Context, version string, filter domain.MenuFilter, items []domain.MenuItem) error
	Invalidate(ctx context.Context) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserGroups(ctx context.Context, id int64) ([]string, error)
	ListGroupMembers(ctx context.Context, group string) ([]domain.User, error)
	GetGroupMember(ctx context.Context, group string, userID int64) (*domain.User, error)
	AddToGroup(ctx context.Context, group string, userID int64) error
	RemoveFromGroup(ctx context.Context, group string, userID int64) error
}

type CartRepository interface {
	ListCart(ctx context.Context, userID int64) ([]domain.CartLine, error)
	InsertCartLine(ctx context.Context, line *domain.CartLine) error
	ClearCart(ctx context.Context, userID int64) error
}

// OrderBuilder turns the locked cart lines of a user into the order to persist.
type OrderBuilder func(lines []domain.CartLine) (*domain.Order, error)

type OrderRepository interface {
	// Checkout locks the user's cart lines, persists the order produced by
	// build together with its items and drains the cart, all in one
	// transaction. An error from build aborts the transaction.
	Checkout(ctx context.Context, userID int64, build OrderBuilder) (*domain.Order, error)
	ListOrders(ctx context.Context, scope domain.OrderScope) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status bool) error
	AssignOrder(ctx context.Context, id, deliveryCrewID int64, status bool) error
	DeleteOrder(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type RoleResolverInterface interface {
	Resolve(ctx context.Context, userID int64) (access.Principal, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int64) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Replace(ctx context.Context, item *domain.MenuItem) error
	Patch(ctx context.Context, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
}

type StaffServiceInterface interface {
	Members(ctx context.Context, group string) ([]domain.User, error)
	Member(ctx context.Context, group string, userID int64) (*domain.User, error)
	Add(ctx context.Context, group, username string) (*domain.User, error)
	Remove(ctx context.Context, group string, userID int64) (*domain.User, error)
}

type CartServiceInterface interface {
	List(ctx context.Context, userID int64) ([]domain.CartLine, error)
	Add(ctx context.Context, userID, menuItemID int64, quantity int) (*domain.CartLine, error)
	Clear(ctx context.Context, userID int64) error
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context, userID int64) (*domain.Order, error)
	List(ctx context.Context, p access.Principal) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status bool) error
	Assign(ctx context.Context, id, deliveryCrewID int64, status bool) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	ReceiptQR(orderID int64) ([]byte, error)
}
