package storage

import (
	"context"

	"little-lemon/order-svc/internal/domain"
)

const cartSelect = `
	SELECT ct.id, ct.user_id, ct.quantity, ct.unit_price, ct.price,
		m.id, m.title, m.price, m.featured, c.id, c.slug, c.title
	FROM cart ct
	JOIN menu_items m ON m.id = ct.menuitem_id
	JOIN categories c ON c.id = m.category_id
	WHERE ct.user_id = $1
	ORDER BY ct.id`

func queryCart(ctx context.Context, q queryer, query string, userID int64) ([]domain.CartLine, error) {
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError("list cart", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		m := &l.MenuItem
		if err := rows.Scan(&l.ID, &l.UserID, &l.Quantity, &l.UnitPrice, &l.Price,
			&m.ID, &m.Title, &m.Price, &m.Featured, &m.Category.ID, &m.Category.Slug, &m.Category.Title); err != nil {
			return nil, mapError("scan cart line", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) ListCart(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return queryCart(ctx, r.DB, cartSelect, userID)
}

// InsertCartLine relies on UNIQUE (user_id, menuitem_id); a second add of the
// same item yields domain.ErrDuplicate.
func (r *PostgresRepository) InsertCartLine(ctx context.Context, line *domain.CartLine) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO cart (user_id, menuitem_id, quantity, unit_price, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		line.UserID, line.MenuItem.ID, line.Quantity, line.UnitPrice, line.Price,
	).Scan(&line.ID)
	if err != nil {
		return mapError("insert cart line", err)
	}
	return nil
}

func (r *PostgresRepository) ClearCart(ctx context.Context, userID int64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM cart WHERE user_id = $1", userID); err != nil {
		return mapError("clear cart", err)
	}
	return nil
}
