// Package request содержит общие шаги разбора HTTP-запроса: декодирование
// JSON-тела с валидацией и чтение числовых параметров пути.
package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/http/response"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/models"
)

// DecodeValid читает JSON-тело в dst и проверяет теги validate.
// При ошибке сам пишет ответ (400 или 422) и возвращает false.
func DecodeValid(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusUnprocessableEntity)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error("invalid request"))
		}
		return false
	}
	return true
}

// ID читает положительный int64 из параметра пути name.
// При ошибке сам пишет 400 и возвращает false.
func ID(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Info("failed to decode id from url", slog.String(name, raw))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return 0, false
	}
	return id, true
}

// Bool разбирает необязательный булев параметр запроса; пустое значение: def.
func Bool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

// Int разбирает необязательный целый параметр запроса; пустое значение: def.
func Int(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// DateRange читает период из параметров from и to (YYYY-MM-DD) в часовом поясе loc.
// При ошибке сам пишет 422 и возвращает false.
func DateRange(w http.ResponseWriter, r *http.Request, log *slog.Logger, loc *time.Location) (models.DateRange, bool) {
	q := r.URL.Query()
	dr, err := models.ParseDateRange(q.Get("from"), q.Get("to"), loc)
	if err != nil {
		response.Fail(w, r, log, err, "invalid date range")
		return models.DateRange{}, false
	}
	return dr, true
}
