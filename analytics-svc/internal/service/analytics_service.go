package service

import (
	"context"
	"log"
	"time"

	"little-lemon/analytics-svc/internal/domain"
	"little-lemon/analytics-svc/internal/storage"
)

const dayLayout = "2006-01-02"

type AnalyticsService struct {
	cache SalesCache
	repo  SalesRepository
	now   func() time.Time
}

func NewAnalyticsService(cache SalesCache, repo SalesRepository) *AnalyticsService {
	return &AnalyticsService{
		cache: cache,
		repo:  repo,
		now:   time.Now,
	}
}

// Today is the day key agg-svc is writing to.
func (s *AnalyticsService) Today() string {
	return s.now().UTC().Format(dayLayout)
}

// TopItems ranks menu items by units sold. Redis leaderboards are read first;
// order history in Postgres is the fallback when they are empty or unreachable.
func (s *AnalyticsService) TopItems(ctx context.Context, period string, limit int) (*domain.TopItemsResponse, error) {
	var key, day string
	switch period {
	case domain.PeriodAll:
		key = storage.AllTimeKey
	case domain.PeriodToday:
		day = s.Today()
		key = storage.DailySalesKey(day)
	default:
		return nil, domain.ErrInvalidPeriod
	}

	items, err := s.cache.TopItems(ctx, key, limit)
	if err != nil {
		log.Printf("Warning: redis leaderboard %s unavailable: %v", key, err)
	}
	if len(items) > 0 {
		items, err = s.withTitles(ctx, items)
		if err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		items, err = s.repo.TopItems(ctx, day, limit)
		if err != nil {
			return nil, err
		}
	}

	return &domain.TopItemsResponse{Period: period, Items: items}, nil
}

// withTitles drops items whose menu entry no longer exists.
func (s *AnalyticsService) withTitles(ctx context.Context, items []domain.ItemSales) ([]domain.ItemSales, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.MenuItemID
	}
	titles, err := s.repo.MenuTitles(ctx, ids)
	if err != nil {
		return nil, err
	}

	named := items[:0]
	for _, item := range items {
		title, ok := titles[item.MenuItemID]
		if !ok {
			continue
		}
		item.Title = title
		named = append(named, item)
	}
	return named, nil
}

// CanViewSales reports whether the user is a manager or staff admin.
func (s *AnalyticsService) CanViewSales(ctx context.Context, userID int64) (bool, error) {
	return s.repo.CanViewSales(ctx, userID)
}

func (s *AnalyticsService) Revenue(ctx context.Context, day string) (*domain.RevenueResponse, error) {
	total, ok, err := s.cache.Revenue(ctx, day)
	if err != nil {
		log.Printf("Warning: redis revenue for %s unavailable: %v", day, err)
	}
	if !ok {
		total, err = s.repo.Revenue(ctx, day)
		if err != nil {
			return nil, err
		}
	}
	return &domain.RevenueResponse{Date: day, Total: total}, nil
}
