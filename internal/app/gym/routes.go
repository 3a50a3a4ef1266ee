// Package gym собирает приложение зала: хранилище, миграции, сервисы,
// маршруты HTTP API и сервер с корректной остановкой.
package gym

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alqaqa03/gym1/internal/http/handlers/attendance"
	"github.com/alqaqa03/gym1/internal/http/handlers/auth/login"
	"github.com/alqaqa03/gym1/internal/http/handlers/auth/users"
	"github.com/alqaqa03/gym1/internal/http/handlers/health"
	"github.com/alqaqa03/gym1/internal/http/handlers/members"
	"github.com/alqaqa03/gym1/internal/http/handlers/reports"
	"github.com/alqaqa03/gym1/internal/http/handlers/subscriptions"
	"github.com/alqaqa03/gym1/internal/http/middlewarectx"
	"github.com/alqaqa03/gym1/internal/lib/access"
	"github.com/alqaqa03/gym1/internal/metrics"
)

// Services: всё, что нужно маршрутам.
type Services struct {
	Auth interface {
		login.Service
		users.Service
	}
	Members       members.Service
	Subscriptions subscriptions.Service
	Attendance    attendance.Service
	Reports       reports.Service
	Tokens        middlewarectx.TokenParser
	Health        health.Checker
	Metrics       *metrics.Metrics
	LoginLimiter  *middlewarectx.RateLimiter
	Location      *time.Location
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(s.Metrics),
	)

	can := func(perms ...string) func(http.Handler) http.Handler {
		return middlewarectx.RequirePermission(logger, perms...)
	}

	membersH := members.New(logger, s.Members)
	subsH := subscriptions.New(logger, s.Subscriptions)
	attendanceH := attendance.New(logger, s.Attendance, s.Location)
	reportsH := reports.New(logger, s.Reports)
	usersH := users.New(logger, s.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(middlewarectx.RateLimitMiddleware(logger, s.LoginLimiter)).
			Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Tokens, logger))

			r.Get("/reports/dashboard", reportsH.Dashboard)

			r.Route("/members", func(r chi.Router) {
				r.With(can(access.ViewMembers, access.ManageMembers)).Get("/", membersH.List)
				r.With(can(access.ManageMembers)).Post("/", membersH.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.With(can(access.ViewMembers, access.ManageMembers)).Get("/", membersH.Get)
					r.With(can(access.ManageMembers)).Put("/", membersH.Update)
					r.With(can(access.ManageMembers)).Delete("/", membersH.Delete)
					r.With(can(access.ManageMembers)).Patch("/active", membersH.SetActive)
					r.With(can(access.ManageMembers)).Put("/biometric", membersH.EnrollBiometric)
					r.With(can(access.ViewMembers, access.ManageMembers)).Get("/subscriptions", subsH.ListForMember)
					r.With(can(access.RecordAttendance, access.ManageAttendance, access.ViewReports)).
						Get("/attendance", attendanceH.ListForMember)
				})
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.With(can(access.ManageMembers, access.ViewReports)).Get("/", subsH.List)
				r.With(can(access.ManageMembers)).Post("/", subsH.Create)
				r.With(can(access.ViewMembers, access.ManageMembers, access.ViewReports)).Get("/{id}", subsH.Get)
				r.With(can(access.ManageMembers)).Patch("/{id}/status", subsH.SetPaymentStatus)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(can(access.RecordAttendance, access.ManageAttendance))
				r.Get("/", attendanceH.List)
				r.Post("/check-in", attendanceH.CheckIn)
				r.Post("/check-out", attendanceH.CheckOut)
			})

			r.Group(func(r chi.Router) {
				r.Use(can(access.ViewReports))
				r.Post("/transactions", reportsH.RecordTransaction)
				r.Get("/transactions", reportsH.Transactions)
				r.Get("/reports/balance", reportsH.BalanceSheet)
				r.Get("/reports/attendance", reportsH.Attendance)
				r.Get("/reports/subscriptions", reportsH.Subscriptions)
				r.Get("/reports/revenue", reportsH.Revenue)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(can(access.ManageUsers))
				r.Get("/", usersH.List)
				r.Post("/", usersH.Create)
				r.Get("/{id}", usersH.Get)
				r.Patch("/{id}/active", usersH.SetActive)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
