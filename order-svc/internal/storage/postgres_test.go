package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	return NewPostgresRepository(mockDB), mock
}

var (
	menuColumns = []string{"id", "title", "price", "featured", "id", "slug", "title"}
	cartColumns = []string{"id", "user_id", "quantity", "unit_price", "price",
		"id", "title", "price", "featured", "id", "slug", "title"}
	orderColumns = []string{"id", "user_id", "username", "delivery_crew_id", "status", "total", "date"}
)

func TestEnsureSchema(t *testing.T) {
	repo, mock := setupTestDB(t)
	for _, stmt := range schema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestListMenuItems(t *testing.T) {
	ctx := context.Background()

	t.Run("search and ordering", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectQuery(`WHERE m.title ILIKE \$1 OR c.title ILIKE \$1 ORDER BY m.price DESC, m.id`).
			WithArgs("%salad%").
			WillReturnRows(sqlmock.NewRows(menuColumns).
				AddRow(7, "Greek salad", "12.50", false, 1, "salads", "Salads").
				AddRow(8, "Caesar salad", "9.00", true, 1, "salads", "Salads"))

		items, err := repo.ListMenuItems(ctx, domain.MenuFilter{Search: "salad", Ordering: "-price"})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "12.50", items[0].Price.StringFixed(2))
		assert.Equal(t, "salads", items[0].Category.Slug)
		assert.True(t, items[1].Featured)
	})

	t.Run("no filter", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectQuery(`JOIN categories c ON c.id = m.category_id ORDER BY m.id`).
			WillReturnRows(sqlmock.NewRows(menuColumns))

		items, err := repo.ListMenuItems(ctx, domain.MenuFilter{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unknown ordering", func(t *testing.T) {
		repo, _ := setupTestDB(t)
		_, err := repo.ListMenuItems(ctx, domain.MenuFilter{Ordering: "title; DROP TABLE users"})
		assert.Error(t, err)
	})
}

func TestGetMenuItem_NotFound(t *testing.T) {
	repo, mock := setupTestDB(t)
	mock.ExpectQuery(`WHERE m.id = \$1`).WithArgs(99).WillReturnRows(sqlmock.NewRows(menuColumns))

	_, err := repo.GetMenuItem(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMenuItem(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTestDB(t)

	mock.ExpectExec("DELETE FROM menu_items").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM menu_items").WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM menu_items").WithArgs(9).WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	assert.NoError(t, repo.DeleteMenuItem(ctx, 7))
	assert.ErrorIs(t, repo.DeleteMenuItem(ctx, 8), domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteMenuItem(ctx, 9), domain.ErrInUse)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	repo, mock := setupTestDB(t)
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("salads", "Salads").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := repo.CreateCategory(context.Background(), &domain.Category{Slug: "salads", Title: "Salads"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserQueries(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTestDB(t)

	mock.ExpectQuery("SELECT g.name").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Delivery crew").AddRow("Manager"))
	mock.ExpectQuery(`WHERE g.name = \$1 AND u.id = \$2`).WithArgs(domain.GroupManager, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "is_staff"}))
	mock.ExpectExec("INSERT INTO user_groups").WithArgs(3, domain.GroupManager).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_groups").WithArgs(4, domain.GroupManager).
		WillReturnResult(sqlmock.NewResult(0, 0))

	groups, err := repo.GetUserGroups(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Delivery crew", "Manager"}, groups)

	_, err = repo.GetGroupMember(ctx, domain.GroupManager, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, repo.AddToGroup(ctx, domain.GroupManager, 3))
	assert.ErrorIs(t, repo.RemoveFromGroup(ctx, domain.GroupManager, 4), domain.ErrNotFound)
}

func TestInsertCartLine(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTestDB(t)

	mock.ExpectQuery("INSERT INTO cart").
		WithArgs(1, 7, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO cart").
		WithArgs(1, 7, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	line := &domain.CartLine{UserID: 1, MenuItem: domain.MenuItem{ID: 7}, Quantity: 2}
	require.NoError(t, repo.InsertCartLine(ctx, line))
	assert.Equal(t, int64(11), line.ID)

	dup := &domain.CartLine{UserID: 1, MenuItem: domain.MenuItem{ID: 7}, Quantity: 1}
	assert.ErrorIs(t, repo.InsertCartLine(ctx, dup), domain.ErrDuplicate)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	build := func(lines []domain.CartLine) (*domain.Order, error) {
		return service.BuildOrder(1, lines, now)
	}

	t.Run("moves cart into order", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`WHERE ct.user_id = \$1 ORDER BY ct.id FOR UPDATE OF ct`).WithArgs(1).
			WillReturnRows(sqlmock.NewRows(cartColumns).
				AddRow(5, 1, 2, "12.50", "25.00", 7, "Greek salad", "12.50", false, 1, "salads", "Salads"))
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(1, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(42, 7, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart WHERE user_id = $1 AND id = ANY($2)")).
			WithArgs(1, pq.Array([]int64{5})).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order, err := repo.Checkout(ctx, 1, build)
		require.NoError(t, err)
		assert.Equal(t, int64(42), order.ID)
		assert.Equal(t, "25.00", order.Total.StringFixed(2))
		require.Len(t, order.Items, 1)
		assert.Equal(t, int64(100), order.Items[0].ID)
		assert.Equal(t, int64(42), order.Items[0].OrderID)
	})

	t.Run("drains only the locked lines", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE OF ct").WithArgs(1).
			WillReturnRows(sqlmock.NewRows(cartColumns).
				AddRow(5, 1, 2, "12.50", "25.00", 7, "Greek salad", "12.50", false, 1, "salads", "Salads").
				AddRow(6, 1, 1, "5.00", "5.00", 3, "Bruschetta", "5.00", false, 2, "starters", "Starters"))
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(1, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(43, 7, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(43, 3, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart WHERE user_id = $1 AND id = ANY($2)")).
			WithArgs(1, pq.Array([]int64{5, 6})).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		order, err := repo.Checkout(ctx, 1, build)
		require.NoError(t, err)
		assert.Equal(t, "30.00", order.Total.StringFixed(2))
		assert.Len(t, order.Items, 2)
	})

	t.Run("empty cart rolls back", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE OF ct").WithArgs(1).WillReturnRows(sqlmock.NewRows(cartColumns))
		mock.ExpectRollback()

		order, err := repo.Checkout(ctx, 1, build)
		assert.ErrorIs(t, err, service.ErrCartEmpty)
		assert.Nil(t, order)
	})

	t.Run("total beyond numeric range rolls back", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE OF ct").WithArgs(1).
			WillReturnRows(sqlmock.NewRows(cartColumns).
				AddRow(5, 1, 2, "12.50", "25.00", 7, "Greek salad", "12.50", false, 1, "salads", "Salads"))
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnError(&pq.Error{Code: "22003", Message: "numeric field overflow"})
		mock.ExpectRollback()

		_, err := repo.Checkout(ctx, 1, build)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("item insert failure rolls back", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE OF ct").WithArgs(1).
			WillReturnRows(sqlmock.NewRows(cartColumns).
				AddRow(5, 1, 2, "12.50", "25.00", 7, "Greek salad", "12.50", false, 1, "salads", "Salads"))
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery("INSERT INTO order_items").WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		_, err := repo.Checkout(ctx, 1, build)
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestListOrders_Scope(t *testing.T) {
	ctx := context.Background()
	crewID := int64(2)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("delivery crew", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectQuery(`WHERE o.delivery_crew_id = \$1 ORDER BY o.date DESC, o.id DESC`).WithArgs(2).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(10, 1, "alice", 2, true, "25.00", date))

		orders, err := repo.ListOrders(ctx, domain.OrderScope{DeliveryCrewID: &crewID})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.NotNil(t, orders[0].DeliveryCrew)
		assert.Equal(t, int64(2), *orders[0].DeliveryCrew)
		assert.Equal(t, "alice", orders[0].User.Username)
	})

	t.Run("manager sees everything", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectQuery(`JOIN users u ON u.id = o.user_id ORDER BY`).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(11, 1, "alice", nil, false, "9.00", date))

		orders, err := repo.ListOrders(ctx, domain.OrderScope{})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Nil(t, orders[0].DeliveryCrew)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTestDB(t)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE o.id = \$1`).WithArgs(10).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(10, 1, "alice", nil, false, "25.00", date))
	mock.ExpectQuery("FROM order_items oi").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "quantity", "unit_price", "price", "id", "title", "price"}).
			AddRow(100, 10, 2, "12.50", "25.00", 7, "Greek salad", "12.50"))
	mock.ExpectQuery(`WHERE o.id = \$1`).WithArgs(11).WillReturnRows(sqlmock.NewRows(orderColumns))

	order, err := repo.GetOrder(ctx, 10)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Greek salad", order.Items[0].MenuItem.Title)
	assert.Equal(t, date, order.Date)

	_, err = repo.GetOrder(ctx, 11)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignAndStatus(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTestDB(t)

	mock.ExpectExec("UPDATE orders SET delivery_crew_id").WithArgs(2, true, 10).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders SET status").WithArgs(false, 99).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.AssignOrder(ctx, 10, 2, true))
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, 99, false), domain.ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes items then order", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM order_items").WithArgs(10).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM orders").WithArgs(10).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteOrder(ctx, 10))
	})

	t.Run("unknown order rolls back", func(t *testing.T) {
		repo, mock := setupTestDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM order_items").WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM orders").WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.DeleteOrder(ctx, 11), domain.ErrNotFound)
	})
}
