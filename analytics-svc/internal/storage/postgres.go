package storage

import (
	"context"
	"database/sql"
	"errors"

	"little-lemon/analytics-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PostgresRepository reads the order tables owned by order-svc.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) MenuTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	titles := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT id, title FROM menu_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// TopItems aggregates units sold from order history. An empty day covers
// every order.
func (r *PostgresRepository) TopItems(ctx context.Context, day string, limit int) ([]domain.ItemSales, error) {
	query := `
		SELECT oi.menuitem_id, m.title, SUM(oi.quantity) AS sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items m ON m.id = oi.menuitem_id`
	args := []interface{}{limit}
	if day != "" {
		query += ` WHERE o.date = $2`
		args = append(args, day)
	}
	query += `
		GROUP BY oi.menuitem_id, m.title
		ORDER BY sold DESC, oi.menuitem_id
		LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ItemSales{}
	for rows.Next() {
		var item domain.ItemSales
		if err := rows.Scan(&item.MenuItemID, &item.Title, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Revenue(ctx context.Context, day string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders WHERE date = $1`, day).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CanViewSales looks the user up fresh on every call. Unknown users are
// reported as domain.ErrUnknownUser.
func (r *PostgresRepository) CanViewSales(ctx context.Context, userID int64) (bool, error) {
	var allowed bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT u.is_staff OR EXISTS (
			SELECT 1 FROM user_groups ug
			JOIN groups g ON g.id = ug.group_id
			WHERE ug.user_id = u.id AND g.name = 'Manager'
		)
		FROM users u
		WHERE u.id = $1`, userID).Scan(&allowed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrUnknownUser
	}
	if err != nil {
		return false, err
	}
	return allowed, nil
}
