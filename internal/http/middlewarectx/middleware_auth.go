// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов,
// проверки прав ролей, ограничения частоты запросов и сбора метрик.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха добавляет в контекст ID, имя и роль сотрудника для дальнейшего
// использования в обработчиках.
//
// Неверный или просроченный токен даёт HTTP 401 Unauthorized, токен
// заблокированного сотрудника: HTTP 403 Forbidden.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/lib/jwt"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID: ключ для ID сотрудника в контексте
	UserID Key = "user_id"
	// User: ключ для имени пользователя в контексте
	User Key = "username"
	// Role: ключ для роли пользователя в контексте
	Role Key = "role"
)

// TokenParser описывает проверку JWT токена и состояния его владельца.
type TokenParser interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет ID, имя пользователя и роль в контекст запроса.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ValidateToken(r.Context(), tokenStr)
			switch {
			case errors.Is(err, auth.ErrUserInactive):
				log.Info("token of inactive user", sl.Err(err))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("user is inactive"))
				return
			case errors.Is(err, auth.ErrInvalidCredentials):
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			case err != nil:
				log.Error("failed to validate token", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			ctx = context.WithValue(ctx, User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorID возвращает ID сотрудника, выполняющего запрос, или nil вне JWTMiddleware.
func ActorID(ctx context.Context) *int64 {
	id, ok := ctx.Value(UserID).(int64)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// RoleFrom возвращает роль сотрудника из контекста.
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(Role).(string)
	return role
}
