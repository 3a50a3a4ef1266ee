// Package reports реализует HTTP-обработчики финансового учёта и отчётов:
// запись операций, баланс за период, сводку главного экрана и отчёты
// по посещениям, подпискам и выручке.
package reports

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/http/middlewarectx"
	"github.com/alqaqa03/gym1/internal/http/request"
	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/models"
)

// Service описывает бизнес-логику отчётов.
type Service interface {
	Location() *time.Location
	RecordTransaction(ctx context.Context, createdBy *int64, req models.DummyTransaction) (models.Transaction, error)
	Transactions(ctx context.Context, r models.DateRange) ([]models.Transaction, error)
	BalanceSheet(ctx context.Context, r models.DateRange) (models.BalanceSheet, error)
	Dashboard(ctx context.Context) (models.DashboardStats, error)
	Attendance(ctx context.Context, r models.DateRange) ([]models.AttendanceView, error)
	Subscriptions(ctx context.Context, r models.DateRange) ([]models.SubscriptionView, error)
	Revenue(ctx context.Context, r models.DateRange) (models.RevenueReport, error)
}

// Handler обрабатывает HTTP-запросы отчётов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// RecordTransaction записывает доход или расход.
// @Router /transactions [post]
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reports.RecordTransaction")

	var req models.DummyTransaction
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	tx, err := h.service.RecordTransaction(r.Context(), middlewarectx.ActorID(r.Context()), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not record transaction")
		return
	}

	log.Info("transaction recorded", slog.Int64("id", tx.ID), slog.String("type", string(tx.Type)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(tx))
}

// Transactions возвращает операции за период from..to.
// @Router /transactions [get]
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "handlers.reports.Transactions", "could not list transactions",
		func(ctx context.Context, dr models.DateRange) (any, error) {
			return h.service.Transactions(ctx, dr)
		})
}

// BalanceSheet возвращает доходы, расходы и сальдо за период from..to.
// @Router /reports/balance [get]
func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "handlers.reports.BalanceSheet", "could not build balance sheet",
		func(ctx context.Context, dr models.DateRange) (any, error) {
			return h.service.BalanceSheet(ctx, dr)
		})
}

// Attendance возвращает посещения за период from..to.
// @Router /reports/attendance [get]
func (h *Handler) Attendance(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "handlers.reports.Attendance", "could not build attendance report",
		func(ctx context.Context, dr models.DateRange) (any, error) {
			return h.service.Attendance(ctx, dr)
		})
}

// Subscriptions возвращает подписки, начавшиеся в период from..to.
// @Router /reports/subscriptions [get]
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "handlers.reports.Subscriptions", "could not build subscriptions report",
		func(ctx context.Context, dr models.DateRange) (any, error) {
			return h.service.Subscriptions(ctx, dr)
		})
}

// Revenue возвращает выручку по дням за период from..to.
// @Router /reports/revenue [get]
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "handlers.reports.Revenue", "could not build revenue report",
		func(ctx context.Context, dr models.DateRange) (any, error) {
			return h.service.Revenue(ctx, dr)
		})
}

// Dashboard возвращает сводку главного экрана.
// @Router /reports/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reports.Dashboard")

	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "could not build dashboard")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(stats))
}

// ranged разбирает период из запроса и отдаёт результат build.
func (h *Handler) ranged(w http.ResponseWriter, r *http.Request, op, failMsg string,
	build func(context.Context, models.DateRange) (any, error)) {
	log := h.logger(r, op)

	dr, ok := request.DateRange(w, r, log, h.service.Location())
	if !ok {
		return
	}

	data, err := build(r.Context(), dr)
	if err != nil {
		response.Fail(w, r, log, err, failMsg)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}
