package storage

import (
	"context"
	"fmt"

	"little-lemon/order-svc/internal/domain"
)

const menuItemSelect = `
	SELECT m.id, m.title, m.price, m.featured, c.id, c.slug, c.title
	FROM menu_items m
	JOIN categories c ON c.id = m.category_id`

var menuOrderings = map[string]string{
	"":          "m.id",
	"price":     "m.price, m.id",
	"-price":    "m.price DESC, m.id",
	"category":  "m.category_id, m.id",
	"-category": "m.category_id DESC, m.id",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.Title, &item.Price, &item.Featured,
		&item.Category.ID, &item.Category.Slug, &item.Category.Title)
	return item, err
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	orderBy, ok := menuOrderings[filter.Ordering]
	if !ok {
		return nil, fmt.Errorf("list menu items: unsupported ordering %q", filter.Ordering)
	}

	query := menuItemSelect
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += " WHERE m.title ILIKE $1 OR c.title ILIKE $1"
	}
	query += " ORDER BY " + orderBy

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list menu items", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, mapError("scan menu item", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, menuItemSelect+" WHERE m.id = $1", id))
	if err != nil {
		return nil, mapError("get menu item", err)
	}
	return &item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO menu_items (title, price, featured, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		item.Title, item.Price, item.Featured, item.Category.ID,
	).Scan(&item.ID)
	if err != nil {
		return mapError("create menu item", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE menu_items
		SET title = $1, price = $2, featured = $3, category_id = $4
		WHERE id = $5`,
		item.Title, item.Price, item.Featured, item.Category.ID, item.ID)
	if err != nil {
		return mapError("update menu item", err)
	}
	return affectedOrNotFound("update menu item", result)
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return mapError("delete menu item", err)
	}
	return affectedOrNotFound("delete menu item", result)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, slug, title FROM categories ORDER BY id")
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title); err != nil {
			return nil, mapError("scan category", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.QueryRowContext(ctx, "SELECT id, slug, title FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Slug, &c.Title)
	if err != nil {
		return nil, mapError("get category", err)
	}
	return &c, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO categories (slug, title) VALUES ($1, $2) RETURNING id",
		category.Slug, category.Title,
	).Scan(&category.ID)
	if err != nil {
		return mapError("create category", err)
	}
	return nil
}
