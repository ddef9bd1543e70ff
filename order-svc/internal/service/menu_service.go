package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"little-lemon/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(10000)

var orderings = map[string]bool{
	"":          true,
	"price":     true,
	"-price":    true,
	"category":  true,
	"-category": true,
}

type MenuService struct {
	repo  MenuRepository
	cache MenuCache
}

func NewMenuService(repo MenuRepository, cache MenuCache) *MenuService {
	return &MenuService{repo: repo, cache: cache}
}

func (s *MenuService) List(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if !orderings[filter.Ordering] {
		return nil, NewValidationError("ordering", fmt.Sprintf("%q is not a valid ordering.", filter.Ordering))
	}

	var version string
	if s.cache != nil {
		items, v, ok := s.cache.GetMenu(ctx, filter)
		if ok {
			return items, nil
		}
		version = v
	}

	items, err := s.repo.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && version != "" {
		if err := s.cache.SetMenu(ctx, version, filter, items); err != nil {
			log.Printf("Warning: failed to cache menu: %v", err)
		}
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	if err := s.validate(ctx, item); err != nil {
		return err
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Replace(ctx context.Context, item *domain.MenuItem) error {
	if err := s.validate(ctx, item); err != nil {
		return err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Patch(ctx context.Context, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Featured != nil {
		item.Featured = *patch.Featured
	}
	if patch.CategoryID != nil {
		item.Category = domain.Category{ID: *patch.CategoryID}
	}

	if err := s.Replace(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *MenuService) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := s.repo.CreateCategory(ctx, category)
	if errors.Is(err, domain.ErrDuplicate) {
		return NewValidationError("slug", "category with this slug already exists.")
	}
	return err
}

// validate checks the price bounds and resolves the category so that the
// stored item carries its full category.
func (s *MenuService) validate(ctx context.Context, item *domain.MenuItem) error {
	fields := map[string]string{}

	if strings.TrimSpace(item.Title) == "" {
		fields["title"] = "This field may not be blank."
	}
	switch {
	case item.Price.IsNegative():
		fields["price"] = "Ensure this value is greater than or equal to 0."
	case item.Price.GreaterThanOrEqual(maxPrice):
		fields["price"] = "Ensure that there are no more than 6 digits in total."
	case !item.Price.Equal(item.Price.Truncate(2)):
		fields["price"] = "Ensure that there are no more than 2 decimal places."
	}

	category, err := s.repo.GetCategory(ctx, item.Category.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields["category_id"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", item.Category.ID)
	case err != nil:
		return err
	default:
		item.Category = *category
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("Warning: failed to invalidate menu cache: %v", err)
	}
}

var _ MenuServiceInterface = (*MenuService)(nil)
