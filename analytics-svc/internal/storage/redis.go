package storage

import (
	"context"
	"errors"
	"strconv"

	"little-lemon/analytics-svc/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Keys written by agg-svc.
const AllTimeKey = "sales:alltime"

func DailySalesKey(day string) string   { return "sales:daily:" + day }
func DailyRevenueKey(day string) string { return "revenue:daily:" + day }

type SalesCache struct {
	rdb *redis.Client
}

func NewSalesCache(rdb *redis.Client) *SalesCache {
	return &SalesCache{rdb: rdb}
}

// TopItems reads the highest scoring members of a sales leaderboard. Titles
// are left empty.
func (c *SalesCache) TopItems(ctx context.Context, key string, limit int) ([]domain.ItemSales, error) {
	members, err := c.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ItemSales, 0, len(members))
	for _, m := range members {
		member, ok := m.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, domain.ItemSales{MenuItemID: id, Quantity: int64(m.Score)})
	}
	return items, nil
}

// Revenue returns the cached revenue for a day. The bool is false when the
// day has no counter.
func (c *SalesCache) Revenue(ctx context.Context, day string) (decimal.Decimal, bool, error) {
	raw, err := c.rdb.Get(ctx, DailyRevenueKey(day)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, err
	}
	return total.Round(2), true, nil
}
