package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"little-lemon/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dayLayout  = "2006-01-02"
	dailyTTL   = 7 * 24 * time.Hour
	AllTimeKey = "sales:alltime"
	seenKeyTTL = 7 * 24 * time.Hour
)

func DailySalesKey(day string) string   { return "sales:daily:" + day }
func DailyRevenueKey(day string) string { return "revenue:daily:" + day }
func seenKey(orderID int64) string      { return "sales:seen:" + strconv.FormatInt(orderID, 10) }

type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

// RecordOrder adds a placed order to the sales leaderboards and the daily
// revenue counter. Each order is counted at most once; a redelivered event
// reports false.
func (s *Store) RecordOrder(ctx context.Context, event domain.OrderEvent) (bool, error) {
	at := event.Timestamp
	if at.IsZero() {
		at = s.now()
	}
	day := at.UTC().Format(dayLayout)

	fresh, err := s.rdb.SetNX(ctx, seenKey(event.OrderID), 1, seenKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark order %d: %w", event.OrderID, err)
	}
	if !fresh {
		return false, nil
	}

	dailyKey := DailySalesKey(day)
	revenueKey := DailyRevenueKey(day)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range event.Items {
			member := strconv.FormatInt(item.MenuItemID, 10)
			pipe.ZIncrBy(ctx, dailyKey, float64(item.Quantity), member)
			pipe.ZIncrBy(ctx, AllTimeKey, float64(item.Quantity), member)
		}
		pipe.Expire(ctx, dailyKey, dailyTTL)
		pipe.IncrByFloat(ctx, revenueKey, event.Total.InexactFloat64())
		pipe.Expire(ctx, revenueKey, dailyTTL)
		return nil
	})
	if err != nil {
		s.rdb.Del(ctx, seenKey(event.OrderID))
		return false, fmt.Errorf("record order %d: %w", event.OrderID, err)
	}
	return true, nil
}
