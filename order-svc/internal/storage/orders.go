package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"little-lemon/order-svc/internal/domain"
	"little-lemon/order-svc/internal/service"

	"github.com/lib/pq"
)

const orderSelect = `
	SELECT o.id, o.user_id, u.username, o.delivery_crew_id, o.status, o.total, o.date
	FROM orders o
	JOIN users u ON u.id = o.user_id`

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o    domain.Order
		crew sql.NullInt64
	)
	if err := row.Scan(&o.ID, &o.User.ID, &o.User.Username, &crew, &o.Status, &o.Total, &o.Date); err != nil {
		return o, err
	}
	if crew.Valid {
		o.DeliveryCrew = &crew.Int64
	}
	return o, nil
}

// Checkout drains the user's cart into a new order. Cart rows are locked for
// the lifetime of the transaction so concurrent checkouts of the same cart
// serialize and the second one sees an empty cart. Only the locked rows are
// drained; a line added while the checkout runs stays in the cart.
func (r *PostgresRepository) Checkout(ctx context.Context, userID int64, build service.OrderBuilder) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	lines, err := queryCart(ctx, tx, cartSelect+" FOR UPDATE OF ct", userID)
	if err != nil {
		return nil, err
	}

	order, err := build(lines)
	if err != nil {
		return nil, err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status, total, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		order.User.ID, order.Status, order.Total, order.Date,
	).Scan(&order.ID); err != nil {
		return nil, mapError("insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menuitem_id, quantity, unit_price, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			order.ID, item.MenuItem.ID, item.Quantity, item.UnitPrice, item.Price,
		).Scan(&item.ID); err != nil {
			return nil, mapError("insert order item", err)
		}
	}

	lineIDs := make([]int64, len(lines))
	for i, line := range lines {
		lineIDs[i] = line.ID
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart WHERE user_id = $1 AND id = ANY($2)",
		userID, pq.Array(lineIDs),
	); err != nil {
		return nil, mapError("drain cart", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, scope domain.OrderScope) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		where = append(where, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if scope.DeliveryCrewID != nil {
		args = append(args, *scope.DeliveryCrewID)
		where = append(where, fmt.Sprintf("o.delivery_crew_id = $%d", len(args)))
	}

	query := orderSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.date DESC, o.id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapError("scan order", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+" WHERE o.id = $1", id))
	if err != nil {
		return nil, mapError("get order", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.quantity, oi.unit_price, oi.price, m.id, m.title, m.price
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menuitem_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, id)
	if err != nil {
		return nil, mapError("list order items", err)
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Quantity, &item.UnitPrice, &item.Price,
			&item.MenuItem.ID, &item.MenuItem.Title, &item.MenuItem.Price); err != nil {
			return nil, mapError("scan order item", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int64, status bool) error {
	result, err := r.DB.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return mapError("update order status", err)
	}
	return affectedOrNotFound("update order status", result)
}

func (r *PostgresRepository) AssignOrder(ctx context.Context, id, deliveryCrewID int64, status bool) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET delivery_crew_id = $1, status = $2 WHERE id = $3",
		deliveryCrewID, status, id)
	if err != nil {
		return mapError("assign order", err)
	}
	return affectedOrNotFound("assign order", result)
}

// DeleteOrder removes the order and the items it owns in one transaction.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete order: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return mapError("delete order items", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return mapError("delete order", err)
	}
	if err := affectedOrNotFound("delete order", result); err != nil {
		return err
	}
	return tx.Commit()
}
