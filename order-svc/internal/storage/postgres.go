package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"little-lemon/order-svc/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqDataExceptionClass  = "22"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapError translates driver errors into domain sentinels, wrapping anything else with op.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return domain.ErrDuplicate
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrInUse)
		}
		if pqErr.Code.Class() == pqDataExceptionClass {
			return fmt.Errorf("%s: %w", op, domain.ErrOutOfRange)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affectedOrNotFound(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		is_staff BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(150) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_groups (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		slug VARCHAR(50) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		price NUMERIC(6,2) NOT NULL,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS menu_items_title_idx ON menu_items (title)`,
	`CREATE TABLE IF NOT EXISTS cart (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		menuitem_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		quantity SMALLINT NOT NULL CHECK (quantity >= 1),
		unit_price NUMERIC(6,2) NOT NULL,
		price NUMERIC(6,2) NOT NULL,
		UNIQUE (user_id, menuitem_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		delivery_crew_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		status BOOLEAN NOT NULL DEFAULT FALSE,
		total NUMERIC(6,2) NOT NULL,
		date DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,
	`CREATE INDEX IF NOT EXISTS orders_date_idx ON orders (date)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menuitem_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE RESTRICT,
		quantity SMALLINT NOT NULL,
		unit_price NUMERIC(6,2) NOT NULL,
		price NUMERIC(6,2) NOT NULL,
		UNIQUE (order_id, menuitem_id)
	)`,
	`INSERT INTO groups (name) VALUES ('Manager'), ('Delivery crew') ON CONFLICT (name) DO NOTHING`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
