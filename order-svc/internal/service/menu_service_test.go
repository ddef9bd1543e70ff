package service_test

import (
	"context"
	"errors"
	"testing"

	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/mocks"
	"little-lemon/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var salads = &domain.Category{ID: 1, Slug: "salads", Title: "Salads"}

func TestMenuService_List(t *testing.T) {
	ctx := context.Background()
	filter := domain.MenuFilter{Search: "salad", Ordering: "-price"}
	items := []domain.MenuItem{*greekSalad()}

	t.Run("cache hit skips database", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, filter).Return(items, "3", true).Once()

		got, err := service.NewMenuService(repo, cache).List(ctx, domain.MenuFilter{Search: "  salad ", Ordering: "-price"})
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, filter).Return(nil, "3", false).Once()
		repo.On("ListMenuItems", ctx, filter).Return(items, nil).Once()
		cache.On("SetMenu", ctx, "3", filter, items).Return(errors.New("redis down")).Once()

		got, err := service.NewMenuService(repo, cache).List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("unknown cache version is not filled", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		cache := mocks.NewMenuCache(t)
		cache.On("GetMenu", ctx, filter).Return(nil, "", false).Once()
		repo.On("ListMenuItems", ctx, filter).Return(items, nil).Once()

		got, err := service.NewMenuService(repo, cache).List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, items, got)
		cache.AssertNotCalled(t, "SetMenu", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid ordering", func(t *testing.T) {
		_, err := service.NewMenuService(mocks.NewMenuRepository(t), nil).List(ctx, domain.MenuFilter{Ordering: "title"})
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "ordering")
	})
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		item       domain.MenuItem
		setupMocks func(repo *mocks.MenuRepository, cache *mocks.MenuCache)
		wantFields []string
		wantErr    error
	}{
		{
			name: "valid item invalidates cache",
			item: domain.MenuItem{Title: "Bruschetta", Price: decimal.RequireFromString("7.25"), Category: domain.Category{ID: 1}},
			setupMocks: func(repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				repo.On("GetCategory", ctx, int64(1)).Return(salads, nil).Once()
				repo.On("CreateMenuItem", ctx, mock.MatchedBy(func(item *domain.MenuItem) bool {
					return item.Category.Title == "Salads"
				})).Return(nil).Once()
				cache.On("Invalidate", ctx).Return(nil).Once()
			},
		},
		{
			name: "bad price and unknown category",
			item: domain.MenuItem{Title: "Bruschetta", Price: decimal.RequireFromString("7.255"), Category: domain.Category{ID: 9}},
			setupMocks: func(repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				repo.On("GetCategory", ctx, int64(9)).Return(nil, domain.ErrNotFound).Once()
			},
			wantFields: []string{"price", "category_id"},
		},
		{
			name: "blank title and negative price",
			item: domain.MenuItem{Title: " ", Price: decimal.NewFromInt(-1), Category: domain.Category{ID: 1}},
			setupMocks: func(repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				repo.On("GetCategory", ctx, int64(1)).Return(salads, nil).Once()
			},
			wantFields: []string{"title", "price"},
		},
		{
			name: "price too large",
			item: domain.MenuItem{Title: "Feast", Price: decimal.NewFromInt(10000), Category: domain.Category{ID: 1}},
			setupMocks: func(repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				repo.On("GetCategory", ctx, int64(1)).Return(salads, nil).Once()
			},
			wantFields: []string{"price"},
		},
		{
			name: "repository error",
			item: domain.MenuItem{Title: "Bruschetta", Price: decimal.NewFromInt(7), Category: domain.Category{ID: 1}},
			setupMocks: func(repo *mocks.MenuRepository, cache *mocks.MenuCache) {
				repo.On("GetCategory", ctx, int64(1)).Return(salads, nil).Once()
				repo.On("CreateMenuItem", ctx, mock.Anything).Return(assert.AnError).Once()
			},
			wantErr: assert.AnError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewMenuRepository(t)
			cache := mocks.NewMenuCache(t)
			testCase.setupMocks(repo, cache)

			item := testCase.item
			err := service.NewMenuService(repo, cache).Create(ctx, &item)

			switch {
			case len(testCase.wantFields) > 0:
				var verr *service.ValidationError
				require.True(t, errors.As(err, &verr))
				for _, f := range testCase.wantFields {
					assert.Contains(t, verr.Fields, f)
				}
			case testCase.wantErr != nil:
				assert.ErrorIs(t, err, testCase.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestMenuService_Patch(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMenuRepository(t)
	cache := mocks.NewMenuCache(t)

	featured := true
	price := decimal.RequireFromString("13.00")

	repo.On("GetMenuItem", ctx, int64(7)).Return(greekSalad(), nil).Once()
	repo.On("GetCategory", ctx, int64(1)).Return(salads, nil).Once()
	repo.On("UpdateMenuItem", ctx, mock.MatchedBy(func(item *domain.MenuItem) bool {
		return item.ID == 7 && item.Title == "Greek salad" && item.Featured && item.Price.Equal(price)
	})).Return(nil).Once()
	cache.On("Invalidate", ctx).Return(nil).Once()

	item, err := service.NewMenuService(repo, cache).Patch(ctx, 7, domain.MenuItemPatch{Featured: &featured, Price: &price})
	require.NoError(t, err)
	assert.True(t, item.Featured)
	assert.Equal(t, "13.00", item.Price.StringFixed(2))
}

func TestMenuService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMenuRepository(t)
	cache := mocks.NewMenuCache(t)

	repo.On("DeleteMenuItem", ctx, int64(7)).Return(nil).Once()
	repo.On("DeleteMenuItem", ctx, int64(8)).Return(domain.ErrNotFound).Once()
	cache.On("Invalidate", ctx).Return(nil).Once()

	svc := service.NewMenuService(repo, cache)
	assert.NoError(t, svc.Delete(ctx, 7))
	assert.ErrorIs(t, svc.Delete(ctx, 8), domain.ErrNotFound)
}

func TestMenuService_CreateCategory_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMenuRepository(t)
	repo.On("CreateCategory", ctx, mock.Anything).Return(domain.ErrDuplicate).Once()

	err := service.NewMenuService(repo, nil).CreateCategory(ctx, &domain.Category{Slug: "salads", Title: "Salads"})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "slug")
}
