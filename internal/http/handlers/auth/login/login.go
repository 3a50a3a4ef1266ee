// Package login реализует HTTP-обработчик входа сотрудника.
//
// Handler декодирует и валидирует учётные данные, делегирует проверку
// сервису аутентификации и при успехе возвращает JWT вместе с профилем
// сотрудника. Неверные учётные данные дают 401, отключённая учётная
// запись: 403.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/http/request"
	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/models"
	"github.com/alqaqa03/gym1/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (auth.LoginResult, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом аутентификации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация сотрудника
// @Description Аутентифицирует сотрудника по имени и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.Credentials true "Учетные данные сотрудника"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 403 {object} response.Response "Учетная запись отключена"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
	if !request.DecodeValid(w, r, log, h.validate, &req) {
		return
	}
	log.Info("all fields are validated", slog.String("username", req.Username))

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Info("login failed", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	case errors.Is(err, auth.ErrUserInactive):
		log.Info("login rejected", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("user is inactive"))
		return
	case err != nil:
		response.Fail(w, r, log, err, "could not log in")
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": res.Token,
		"user":  res.User,
	}))
}
