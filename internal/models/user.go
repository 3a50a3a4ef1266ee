package models

import (
	"time"

	"github.com/alqaqa03/gym1/internal/lib/access"
	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// Role: роль сотрудника.
type Role string

const (
	RoleAdmin      Role = access.RoleAdmin
	RoleSupervisor Role = access.RoleSupervisor
	RoleEmployee   Role = access.RoleEmployee
)

// ParseRole разбирает сохранённое значение роли.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return r, nil
	}
	return "", apperr.Validation("role", "unknown value %q", s)
}

// Can сообщает, обладает ли роль правом permission.
func (r Role) Can(permission string) bool {
	return access.HasPermission(string(r), permission)
}

// User: сотрудник с доступом к системе. PasswordHash никогда не покидает сервер.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// DummyUser используется для приёма данных нового сотрудника из JSON-запроса.
type DummyUser struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required"`
}

// Credentials: данные входа.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
