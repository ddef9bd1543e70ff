package service

import (
	"context"
	"errors"
	"fmt"

	"little-lemon/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// maxQuantity is the largest quantity a cart or order line can hold.
const maxQuantity = 32767

type CartService struct {
	carts CartRepository
	menu  MenuRepository
}

func NewCartService(carts CartRepository, menu MenuRepository) *CartService {
	return &CartService{carts: carts, menu: menu}
}

// LinePrice is quantity × unit price.
func LinePrice(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func (s *CartService) List(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return s.carts.ListCart(ctx, userID)
}

// Add snapshots the current menu price into a new cart line. A second add
// of the same menu item is rejected with ErrAlreadyInCart; the existing line
// is left untouched.
func (s *CartService) Add(ctx context.Context, userID, menuItemID int64, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	}
	if quantity > maxQuantity {
		return nil, NewValidationError("quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", maxQuantity))
	}

	item, err := s.menu.GetMenuItem(ctx, menuItemID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, NewValidationError("menuitem", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", menuItemID))
	}
	if err != nil {
		return nil, err
	}

	price := LinePrice(quantity, item.Price)
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, NewValidationError("quantity", fmt.Sprintf("Line total must be less than %s.", maxPrice.String()))
	}

	line := &domain.CartLine{
		UserID:    userID,
		MenuItem:  *item,
		Quantity:  quantity,
		UnitPrice: item.Price,
		Price:     price,
	}
	if err := s.carts.InsertCartLine(ctx, line); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return line, nil
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.ClearCart(ctx, userID)
}

var _ CartServiceInterface = (*CartService)(nil)
