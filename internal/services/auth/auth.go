// Package auth содержит вход сотрудников, управление учётными записями
// и создание администратора по умолчанию.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/jwt"
	"github.com/alqaqa03/gym1/internal/lib/password"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/metrics"
	"github.com/alqaqa03/gym1/internal/models"
)

var (
	// ErrInvalidCredentials возвращается при неизвестном логине или неверном пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive возвращается, если учётная запись заблокирована.
	ErrUserInactive = errors.New("user is inactive")
)

// UserRepository описывает контракт для работы с сотрудниками в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SetUserActive(ctx context.Context, id int64, active bool) error
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Admin описывает учётную запись администратора по умолчанию.
type Admin struct {
	Username string
	Password string
	FullName string
	Email    string
}

// LoginResult содержит выпущенный токен и сотрудника, которому он принадлежит.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service отвечает за вход, учётные записи и валидацию JWT.
type Service struct {
	users    UserRepository
	hasher   PasswordHasher
	jwtMaker jwt.Maker
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, hasher PasswordHasher, jwtMaker jwt.Maker, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		jwtMaker: jwtMaker,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Login проверяет пароль, отмечает время входа и выпускает JWT.
// Заблокированный сотрудник с верным паролем получает ErrUserInactive.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (LoginResult, error) {
	const op = "services.auth.Login"
	log := s.log.With(sl.Op(op), slog.String("username", username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if apperr.IsNotFound(err) {
		s.metrics.Login("invalid_credentials")
		log.Info("login rejected: unknown user")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		s.metrics.Login("error")
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.metrics.Login("invalid_credentials")
			log.Info("login rejected: wrong password")
			return LoginResult{}, ErrInvalidCredentials
		}
		s.metrics.Login("error")
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if !user.Active {
		s.metrics.Login("inactive")
		log.Info("login rejected: user inactive")
		return LoginResult{}, ErrUserInactive
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.Login("error")
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	user.LastLogin = &now

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.metrics.Login("error")
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Login("ok")
	log.Info("user logged in", slog.String("role", string(user.Role)))
	return LoginResult{Token: token, User: user}, nil
}

// ValidateToken проверяет JWT и текущее состояние его владельца.
//
// Токен удалённого сотрудника даёт ErrInvalidCredentials, заблокированного:
// ErrUserInactive. Роль в утверждениях берётся из базы, а не из токена.
func (s *Service) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if apperr.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	claims.Role = string(user.Role)
	return claims, nil
}

// CreateUser заводит сотрудника с хешированным паролем.
func (s *Service) CreateUser(ctx context.Context, req models.DummyUser) (models.User, error) {
	const op = "services.auth.CreateUser"

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, apperr.Validation("username", "is required"))
	}
	if req.Password == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, apperr.Validation("password", "is required"))
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", sl.Op(op), slog.Int64("user_id", user.ID), slog.String("role", string(role)))
	return user, nil
}

// GetUser возвращает сотрудника по ID.
func (s *Service) GetUser(ctx context.Context, id int64) (models.User, error) {
	const op = "services.auth.GetUser"

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех сотрудников.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "services.auth.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// SetActive блокирует или разблокирует сотрудника. Сотрудник не может
// заблокировать сам себя.
func (s *Service) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	const op = "services.auth.SetActive"

	if actorID == id && !active {
		return fmt.Errorf("%s: %w", op, apperr.Conflict("user", "cannot deactivate own account"))
	}
	if err := s.users.SetUserActive(ctx, id, active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user activity changed", sl.Op(op), slog.Int64("user_id", id), slog.Bool("active", active))
	return nil
}

// SeedAdmin создаёт администратора, если сотрудника с таким логином ещё нет.
// Возвращает true, если запись была создана.
func (s *Service) SeedAdmin(ctx context.Context, admin Admin) (bool, error) {
	const op = "services.auth.SeedAdmin"

	_, err := s.users.GetUserByUsername(ctx, admin.Username)
	if err == nil {
		return false, nil
	}
	if !apperr.IsNotFound(err) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.CreateUser(ctx, models.DummyUser{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		FullName: admin.FullName,
		Role:     string(models.RoleAdmin),
	})
	if apperr.IsConflict(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Warn("default admin account created, change its password", sl.Op(op), slog.String("username", admin.Username))
	return true, nil
}
