package models

import (
	"math"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// MaxAmount: граница сверху для денежных сумм, столбцы amount имеют тип NUMERIC(10,2).
const MaxAmount = 100000000

// checkAmount принимает суммы из [0, MaxAmount) после округления до копеек.
func checkAmount(amount float64) error {
	if amount < 0 {
		return apperr.Validation("amount", "must not be negative")
	}
	if math.IsNaN(amount) || math.Round(amount*100)/100 >= MaxAmount {
		return apperr.Validation("amount", "must be less than 100000000")
	}
	return nil
}
