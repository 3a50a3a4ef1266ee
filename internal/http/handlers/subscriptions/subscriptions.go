// Package subscriptions реализует HTTP-обработчики подписок: оформление
// (вместе со сдвигом окна абонемента участника), просмотр, списки и смену
// статуса оплаты.
package subscriptions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/http/middlewarectx"
	"github.com/alqaqa03/gym1/internal/http/request"
	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/models"
)

// Service описывает бизнес-логику подписок.
type Service interface {
	Create(ctx context.Context, createdBy *int64, req models.DummySubscription) (models.SubscriptionView, error)
	Get(ctx context.Context, id int64) (models.SubscriptionView, error)
	ListForMember(ctx context.Context, memberID int64) ([]models.SubscriptionView, error)
	List(ctx context.Context, state string) ([]models.SubscriptionView, error)
	SetPaymentStatus(ctx context.Context, id int64, status string) error
}

// StatusRequest: тело запроса на смену статуса оплаты.
type StatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// Handler обрабатывает HTTP-запросы к подпискам.
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

// Create оформляет оплаченную подписку и переносит окно абонемента участника.
// @Router /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscriptions.Create")

	var req models.DummySubscription
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	sub, err := h.service.Create(r.Context(), middlewarectx.ActorID(r.Context()), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create subscription")
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID), slog.Int64("member_id", sub.MemberID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(sub))
}

// Get возвращает подписку.
// @Router /subscriptions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscriptions.Get")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read subscription")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(sub))
}

// List возвращает подписки всех участников. Параметр state: all, current, expired.
// @Router /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscriptions.List")

	list, err := h.service.List(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		response.Fail(w, r, log, err, "could not list subscriptions")
		return
	}

	log.Info("subscriptions listed", slog.Int("count", len(list)))
	render.JSON(w, r, response.StatusOKWithData(list))
}

// ListForMember возвращает историю подписок участника.
// @Router /members/{id}/subscriptions [get]
func (h *Handler) ListForMember(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscriptions.ListForMember")

	memberID, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	list, err := h.service.ListForMember(r.Context(), memberID)
	if err != nil {
		response.Fail(w, r, log, err, "could not list member subscriptions")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}

// SetPaymentStatus меняет статус оплаты подписки.
// @Router /subscriptions/{id}/status [patch]
func (h *Handler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscriptions.SetPaymentStatus")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.SetPaymentStatus(r.Context(), id, req.PaymentStatus); err != nil {
		response.Fail(w, r, log, err, "could not change payment status")
		return
	}

	log.Info("payment status changed", slog.Int64("id", id), slog.String("status", req.PaymentStatus))
	render.JSON(w, r, response.OK())
}
