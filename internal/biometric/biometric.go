// Package biometric описывает внешнего оракула сверки отпечатков.
//
// Сама сверка выполняется устройством или сторонней библиотекой; ядро лишь
// спрашивает «совпало или нет» в момент отметки входа. Любой сбой оракула
// трактуется как «не подтверждено» и не мешает отметить вход.
package biometric

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alqaqa03/gym1/internal/lib/sl"
)

// ErrUnavailable возвращается оракулом, когда устройство не подключено.
var ErrUnavailable = errors.New("biometric device unavailable")

// Oracle сверяет снятый отпечаток с сохранённым шаблоном участника.
type Oracle interface {
	Match(ctx context.Context, enrolled, candidate []byte) (bool, error)
}

// Disabled: оракул для установки без сканера: никогда не подтверждает совпадение.
type Disabled struct{}

// Match всегда возвращает ErrUnavailable.
func (Disabled) Match(context.Context, []byte, []byte) (bool, error) {
	return false, ErrUnavailable
}

// Verify спрашивает оракула и сводит ответ к флагу fingerprint_verified.
// Отсутствие шаблона, отпечатка или оракула, а также ошибка оракула дают false.
func Verify(ctx context.Context, log *slog.Logger, oracle Oracle, enrolled, candidate []byte) bool {
	if oracle == nil || len(enrolled) == 0 || len(candidate) == 0 {
		return false
	}
	ok, err := oracle.Match(ctx, enrolled, candidate)
	if err != nil {
		if log != nil {
			log.Warn("biometric match failed, treating as unverified", sl.Err(err))
		}
		return false
	}
	return ok
}
