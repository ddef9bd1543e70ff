package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"little-lemon/analytics-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*SalesCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSalesCache(rdb), mr
}

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestSalesCache_TopItems(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, err := mr.ZAdd(AllTimeKey, 12, "7")
	require.NoError(t, err)
	_, err = mr.ZAdd(AllTimeKey, 3, "2")
	require.NoError(t, err)
	_, err = mr.ZAdd(AllTimeKey, 9, "4")
	require.NoError(t, err)
	_, err = mr.ZAdd(AllTimeKey, 50, "not-an-id")
	require.NoError(t, err)

	items, err := cache.TopItems(ctx, AllTimeKey, 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.ItemSales{
		{MenuItemID: 7, Quantity: 12},
		{MenuItemID: 4, Quantity: 9},
	}, items)

	items, err = cache.TopItems(ctx, DailySalesKey("2026-03-14"), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSalesCache_Revenue(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DailyRevenueKey("2026-03-14"), "68.99999999999999"))

	total, ok, err := cache.Revenue(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "69.00", total.StringFixed(2))

	_, ok, err = cache.Revenue(ctx, "2026-03-15")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set(DailyRevenueKey("2026-03-16"), "lots"))
	_, ok, err = cache.Revenue(ctx, "2026-03-16")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPostgresRepository_MenuTitles(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title FROM menu_items WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]int64{7, 2})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(7, "Greek Salad"))

	titles, err := repo.MenuTitles(context.Background(), []int64{7, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{7: "Greek Salad"}, titles)

	titles, err = repo.MenuTitles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestPostgresRepository_TopItems(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`FROM order_items oi .* WHERE o.date = \$2 .* LIMIT \$1`).
		WithArgs(5, "2026-03-14").
		WillReturnRows(sqlmock.NewRows([]string{"menuitem_id", "title", "sold"}).
			AddRow(7, "Greek Salad", 4).
			AddRow(2, "Bruschetta", 1))

	items, err := repo.TopItems(ctx, "2026-03-14", 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.ItemSales{
		{MenuItemID: 7, Title: "Greek Salad", Quantity: 4},
		{MenuItemID: 2, Title: "Bruschetta", Quantity: 1},
	}, items)

	mock.ExpectQuery(`FROM order_items oi`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"menuitem_id", "title", "sold"}))

	items, err = repo.TopItems(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ItemSales{}, items)
}

func TestPostgresRepository_Revenue(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(total), 0) FROM orders WHERE date = $1`)).
		WithArgs("2026-03-14").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("37.50"))

	total, err := repo.Revenue(context.Background(), "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "37.50", total.StringFixed(2))
}

func TestPostgresRepository_CanViewSales(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT u.is_staff OR EXISTS (`)

	t.Run("manager or admin", func(t *testing.T) {
		db, mock := setupTestDB(t)
		mock.ExpectQuery(query).WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"allowed"}).AddRow(true))

		allowed, err := NewPostgresRepository(db).CanViewSales(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("customer", func(t *testing.T) {
		db, mock := setupTestDB(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"allowed"}).AddRow(false))

		allowed, err := NewPostgresRepository(db).CanViewSales(context.Background(), 9)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := setupTestDB(t)
		mock.ExpectQuery(query).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

		_, err := NewPostgresRepository(db).CanViewSales(context.Background(), 404)
		assert.ErrorIs(t, err, domain.ErrUnknownUser)
	})
}
