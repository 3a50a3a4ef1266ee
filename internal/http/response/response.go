// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/sl"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (опционально, при неуспехе).
// Поле Data: данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK: значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError: значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s long", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s long", err.Field(), err.Param()))
		case "gt", "gte", "lt", "lte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is out of range", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusFor подбирает HTTP-статус по виду ошибки ядра.
func StatusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusUnprocessableEntity
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail пишет ответ с ошибкой. Текст ошибок ядра отдаётся клиенту как есть,
// вместо внутренних сбоев отдаётся msg.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	status := StatusFor(err)
	text := msg
	if status != http.StatusInternalServerError {
		text = clientMessage(err)
		log.Info(msg, sl.Err(err))
	} else {
		log.Error(msg, sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(text))
}

// clientMessage достаёт из цепочки обёрток текст ошибки ядра без префиксов op.
func clientMessage(err error) string {
	var (
		v *apperr.ValidationError
		n *apperr.NotFoundError
		c *apperr.ConflictError
	)
	switch {
	case errors.As(err, &v):
		return v.Error()
	case errors.As(err, &n):
		return n.Error()
	case errors.As(err, &c):
		return c.Error()
	}
	return err.Error()
}
