// Package attendance реализует HTTP-обработчики стойки ресепшена:
// отметку входа и выхода участника и журналы посещений.
package attendance

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

// Service описывает бизнес-логику посещений.
type Service interface {
	CheckIn(ctx context.Context, recordedBy *int64, req models.CheckInRequest) (models.AttendanceRecord, error)
	CheckOut(ctx context.Context, req models.CheckOutRequest) (models.AttendanceView, error)
	List(ctx context.Context, window string) ([]models.AttendanceView, error)
	ListForMember(ctx context.Context, memberID int64, r models.DateRange) ([]models.AttendanceView, error)
}

// Handler обрабатывает HTTP-запросы посещений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	loc      *time.Location // часовой пояс дат в параметрах from/to
}

// New создает новый Handler. loc задаёт часовой пояс дат в параметрах запроса.
func New(log *slog.Logger, service Service, loc *time.Location) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
		loc:      loc,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// CheckIn открывает запись посещения. Повторный вход без выхода: 409.
// @Router /attendance/check-in [post]
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.attendance.CheckIn")

	var req models.CheckInRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	rec, err := h.service.CheckIn(r.Context(), middlewarectx.ActorID(r.Context()), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not check in")
		return
	}

	log.Info("member checked in",
		slog.Int64("member_id", rec.MemberID),
		slog.Bool("fingerprint_verified", rec.FingerprintVerified),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(rec))
}

// CheckOut закрывает последнюю открытую запись участника.
// @Router /attendance/check-out [post]
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.attendance.CheckOut")

	var req models.CheckOutRequest
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}

	view, err := h.service.CheckOut(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not check out")
		return
	}

	log.Info("member checked out", slog.Int64("member_id", view.MemberID))
	render.JSON(w, r, response.StatusOKWithData(view))
}

// List возвращает журнал посещений. Параметр window: today, week, month.
// @Router /attendance [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.attendance.List")

	list, err := h.service.List(r.Context(), r.URL.Query().Get("window"))
	if err != nil {
		response.Fail(w, r, log, err, "could not list attendance")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}

// ListForMember возвращает посещения участника за период from..to.
// @Router /members/{id}/attendance [get]
func (h *Handler) ListForMember(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.attendance.ListForMember")

	memberID, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	dr, ok := request.DateRange(w, r, log, h.loc)
	if !ok {
		return
	}

	list, err := h.service.ListForMember(r.Context(), memberID, dr)
	if err != nil {
		response.Fail(w, r, log, err, "could not list member attendance")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
