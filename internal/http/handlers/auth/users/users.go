// Package users реализует HTTP-обработчики управления сотрудниками:
// создание учётной записи, просмотр, список и включение/отключение.
// Маршруты доступны только роли с правом manage_users.
package users

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

// Service описывает бизнес-логику учётных записей сотрудников.
type Service interface {
	CreateUser(ctx context.Context, req models.DummyUser) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, actorID, id int64, active bool) error
}

// ActiveRequest: тело запроса на включение или отключение учётной записи.
type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Handler обрабатывает HTTP-запросы к учётным записям.
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

// Create заводит учётную запись сотрудника.
// @Router /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.users.Create")

	var req models.DummyUser
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create user")
		return
	}

	log.Info("user created", slog.Int64("id", user.ID), slog.String("role", string(user.Role)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(user))
}

// Get возвращает учётную запись.
// @Router /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.users.Get")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read user")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(user))
}

// List возвращает всех сотрудников.
// @Router /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.users.List")

	list, err := h.service.ListUsers(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "could not list users")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}

// SetActive включает или отключает учётную запись. Отключить себя нельзя.
// @Router /users/{id}/active [patch]
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.users.SetActive")

	actor := middlewarectx.ActorID(r.Context())
	if actor == nil {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	var req ActiveRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.SetActive(r.Context(), *actor, id, *req.Active); err != nil {
		response.Fail(w, r, log, err, "could not change user state")
		return
	}

	log.Info("user state changed", slog.Int64("id", id), slog.Bool("active", *req.Active))
	render.JSON(w, r, response.OK())
}
