package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alqaqa03/gym1/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, role, is_active, created_at, last_login`

func scanUser(row rowScanner) (models.User, error) {
	var (
		u         models.User
		email     sql.NullString
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.FullName, &role, &u.Active, &u.CreatedAt, &lastLogin)
	if err != nil {
		return models.User{}, err
	}
	u.Email = email.String
	u.Role = models.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// CreateUser сохраняет сотрудника. Повтор имени или почты даёт ConflictError.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	const op = "storage.CreateUser"

	select {
	case <-ctx.Done():
		return models.User{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.DB.QueryRowContext(ctx, `INSERT INTO users (username, email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		u.Username, nullString(u.Email), u.PasswordHash, u.FullName, string(u.Role), u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapError(op, "user", u.Username, err)
	}
	return u, nil
}

// GetUserByUsername возвращает сотрудника по имени входа.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	const op = "storage.GetUserByUsername"

	select {
	case <-ctx.Done():
		return models.User{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return models.User{}, mapError(op, "user", username, err)
	}
	return u, nil
}

// GetUserByID возвращает сотрудника по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.GetUserByID"

	select {
	case <-ctx.Done():
		return models.User{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return models.User{}, mapError(op, "user", id, err)
	}
	return u, nil
}

// ListUsers возвращает всех сотрудников по имени входа.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, mapError(op, "user", nil, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(op, "user", nil, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "user", nil, err)
	}
	return users, nil
}

// UpdateLastLogin отмечает время успешного входа.
func (s *Storage) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	const op = "storage.UpdateLastLogin"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return mapError(op, "user", id, err)
	}
	return expectAffected(op, "user", id, res)
}

// SetUserActive блокирует или разблокирует сотрудника.
func (s *Storage) SetUserActive(ctx context.Context, id int64, active bool) error {
	const op = "storage.SetUserActive"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return mapError(op, "user", id, err)
	}
	return expectAffected(op, "user", id, res)
}
