// Package members реализует HTTP-обработчики картотеки участников:
// регистрацию, просмотр, поиск, изменение контактов, активацию,
// привязку биометрического шаблона и удаление.
package members

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/http/middlewarectx"
	"github.com/alqaqa03/gym1/internal/http/request"
	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/models"
)

// Service описывает бизнес-логику работы с участниками.
type Service interface {
	Create(ctx context.Context, createdBy *int64, req models.DummyMember) (models.MemberStatus, error)
	Get(ctx context.Context, id int64) (models.MemberStatus, error)
	List(ctx context.Context, filter models.MemberFilter) ([]models.MemberStatus, error)
	Update(ctx context.Context, id int64, req models.DummyMember) (models.MemberStatus, error)
	SetActive(ctx context.Context, id int64, active bool) error
	EnrollBiometric(ctx context.Context, id int64, template []byte) error
	Delete(ctx context.Context, id int64) error
}

// ActiveRequest: тело запроса на смену флага активности.
type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// BiometricRequest: тело запроса на привязку шаблона отпечатка.
type BiometricRequest struct {
	Template []byte `json:"template" validate:"required"`
}

// Handler обрабатывает HTTP-запросы к участникам.
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

// Create регистрирует участника.
// @Router /members [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.Create")

	var req models.DummyMember
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	member, err := h.service.Create(r.Context(), middlewarectx.ActorID(r.Context()), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create member")
		return
	}

	log.Info("member created", slog.Int64("id", member.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(member))
}

// Get возвращает участника с вычисленным статусом абонемента.
// @Router /members/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.Get")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read member")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(member))
}

// List ищет участников. Параметры: search, active, limit, offset.
// @Router /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.List")

	activeOnly, err := request.Bool(r, "active", false)
	if err != nil {
		h.badQuery(w, r, log, "active")
		return
	}
	limit, err := request.Int(r, "limit", 0)
	if err != nil {
		h.badQuery(w, r, log, "limit")
		return
	}
	offset, err := request.Int(r, "offset", 0)
	if err != nil || offset < 0 {
		h.badQuery(w, r, log, "offset")
		return
	}

	list, err := h.service.List(r.Context(), models.MemberFilter{
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		response.Fail(w, r, log, err, "could not list members")
		return
	}

	log.Info("members listed", slog.Int("count", len(list)))
	render.JSON(w, r, response.StatusOKWithData(list))
}

// Update меняет контакты и категорию участника. Даты абонемента не меняются.
// @Router /members/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.Update")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	var req models.DummyMember
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	member, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		response.Fail(w, r, log, err, "could not update member")
		return
	}

	log.Info("member updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(member))
}

// SetActive включает или выключает участника.
// @Router /members/{id}/active [patch]
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.SetActive")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	var req ActiveRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.SetActive(r.Context(), id, *req.Active); err != nil {
		response.Fail(w, r, log, err, "could not change member state")
		return
	}

	log.Info("member state changed", slog.Int64("id", id), slog.Bool("active", *req.Active))
	render.JSON(w, r, response.OK())
}

// EnrollBiometric сохраняет шаблон отпечатка участника.
// @Router /members/{id}/biometric [put]
func (h *Handler) EnrollBiometric(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.EnrollBiometric")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	var req BiometricRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.EnrollBiometric(r.Context(), id, req.Template); err != nil {
		response.Fail(w, r, log, err, "could not enroll biometric template")
		return
	}

	log.Info("biometric template enrolled", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Delete удаляет участника вместе с подписками и посещениями.
// @Router /members/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.Delete")

	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete member")
		return
	}

	log.Info("member deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

func (h *Handler) badQuery(w http.ResponseWriter, r *http.Request, log *slog.Logger, param string) {
	log.Info("invalid query parameter", slog.String("param", param))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error("invalid query parameter "+param))
}
