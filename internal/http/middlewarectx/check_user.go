package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/lib/access"
)

// RequirePermission пропускает запрос, только если роль из контекста обладает
// хотя бы одним из прав perms. Без роли в контексте отвечает 401, без права 403.
func RequirePermission(log *slog.Logger, perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFrom(r.Context())
			if role == "" {
				log.Info("user identification missing", slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if !access.HasAny(role, perms...) {
				log.Info("access denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", role),
					slog.Any("required", perms),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
