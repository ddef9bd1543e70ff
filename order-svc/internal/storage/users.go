package storage

import (
	"context"

	"little-lemon/order-svc/internal/domain"
)

const userColumns = "u.id, u.username, u.first_name, u.last_name, u.email, u.is_staff"

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsStaff)
	return u, err
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id))
	if err != nil {
		return nil, mapError("get user", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users u WHERE u.username = $1", username))
	if err != nil {
		return nil, mapError("get user by username", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetUserGroups(ctx context.Context, id int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT g.name
		FROM groups g
		JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.name`, id)
	if err != nil {
		return nil, mapError("get user groups", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError("scan group", err)
		}
		groups = append(groups, name)
	}
	return groups, rows.Err()
}

const memberSelect = `
	SELECT ` + userColumns + `
	FROM users u
	JOIN user_groups ug ON ug.user_id = u.id
	JOIN groups g ON g.id = ug.group_id
	WHERE g.name = $1`

func (r *PostgresRepository) ListGroupMembers(ctx context.Context, group string) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, memberSelect+" ORDER BY u.id", group)
	if err != nil {
		return nil, mapError("list group members", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan group member", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetGroupMember(ctx context.Context, group string, userID int64) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, memberSelect+" AND u.id = $2", group, userID))
	if err != nil {
		return nil, mapError("get group member", err)
	}
	return &u, nil
}

// AddToGroup is idempotent: adding an existing member is a no-op.
func (r *PostgresRepository) AddToGroup(ctx context.Context, group string, userID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		SELECT $1, g.id FROM groups g WHERE g.name = $2
		ON CONFLICT DO NOTHING`, userID, group)
	if err != nil {
		return mapError("add to group", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFromGroup(ctx context.Context, group string, userID int64) error {
	result, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_groups
		WHERE user_id = $1 AND group_id = (SELECT id FROM groups WHERE name = $2)`, userID, group)
	if err != nil {
		return mapError("remove from group", err)
	}
	return affectedOrNotFound("remove from group", result)
}
