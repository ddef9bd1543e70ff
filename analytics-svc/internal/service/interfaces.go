package service

import (
	"context"

	"little-lemon/analytics-svc/internal/domain"
	"little-lemon/analytics-svc/internal/storage"

	"github.com/shopspring/decimal"
)

type SalesCache interface {
	TopItems(ctx context.Context, key string, limit int) ([]domain.ItemSales, error)
	Revenue(ctx context.Context, day string) (decimal.Decimal, bool, error)
}

type SalesRepository interface {
	MenuTitles(ctx context.Context, ids []int64) (map[int64]string, error)
	TopItems(ctx context.Context, day string, limit int) ([]domain.ItemSales, error)
	Revenue(ctx context.Context, day string) (decimal.Decimal, error)
	CanViewSales(ctx context.Context, userID int64) (bool, error)
}

type AnalyticsInterface interface {
	TopItems(ctx context.Context, period string, limit int) (*domain.TopItemsResponse, error)
	Revenue(ctx context.Context, day string) (*domain.RevenueResponse, error)
	Today() string
	CanViewSales(ctx context.Context, userID int64) (bool, error)
}

var (
	_ AnalyticsInterface = (*AnalyticsService)(nil)
	_ SalesCache         = (*storage.SalesCache)(nil)
	_ SalesRepository    = (*storage.PostgresRepository)(nil)
)
