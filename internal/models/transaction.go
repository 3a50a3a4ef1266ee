package models

import (
	"strings"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// TransactionType: направление денежного потока.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionCategory: статья дохода или расхода.
type TransactionCategory string

const (
	CategorySubscription TransactionCategory = "subscription"
	CategoryMaintenance  TransactionCategory = "maintenance"
	CategorySalary       TransactionCategory = "salary"
	CategoryUtilities    TransactionCategory = "utilities"
	CategoryOther        TransactionCategory = "other"
)

// ParseTransactionType разбирает значение типа операции.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionIncome, TransactionExpense:
		return t, nil
	}
	return "", apperr.Validation("type", "unknown value %q", s)
}

// ParseTransactionCategory разбирает значение статьи.
func ParseTransactionCategory(s string) (TransactionCategory, error) {
	switch c := TransactionCategory(s); c {
	case CategorySubscription, CategoryMaintenance, CategorySalary, CategoryUtilities, CategoryOther:
		return c, nil
	}
	return "", apperr.Validation("category", "unknown value %q", s)
}

// Transaction: финансовая операция для баланса.
type Transaction struct {
	ID          int64               `json:"id"`
	Type        TransactionType     `json:"type"`
	Category    TransactionCategory `json:"category"`
	Amount      float64             `json:"amount"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date"`
	CreatedBy   *int64              `json:"created_by,omitempty"`
	ReferenceID string              `json:"reference_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewTransaction собирает операцию и отвергает неизвестные тип и статью,
// сумму вне [0, MaxAmount) и пустое описание. Неизвестные значения не отфильтровываются молча.
func NewTransaction(typ, category string, amount float64, description string, date time.Time) (Transaction, error) {
	t, err := ParseTransactionType(typ)
	if err != nil {
		return Transaction{}, err
	}
	c, err := ParseTransactionCategory(category)
	if err != nil {
		return Transaction{}, err
	}
	if err := checkAmount(amount); err != nil {
		return Transaction{}, err
	}
	if strings.TrimSpace(description) == "" {
		return Transaction{}, apperr.Validation("description", "is required")
	}
	if date.IsZero() {
		return Transaction{}, apperr.Validation("date", "is required")
	}
	return Transaction{
		Type:        t,
		Category:    c,
		Amount:      amount,
		Description: description,
		Date:        date,
	}, nil
}

// BalanceSheet: итог по операциям за период.
type BalanceSheet struct {
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	TotalIncome  float64       `json:"total_income"`
	TotalExpense float64       `json:"total_expense"`
	NetProfit    float64       `json:"net_profit"`
	Transactions []Transaction `json:"transactions"`
}

// NewBalanceSheet суммирует операции по типам. Операции вне [start, end] не учитываются.
func NewBalanceSheet(start, end time.Time, txs []Transaction) BalanceSheet {
	sheet := BalanceSheet{StartDate: start, EndDate: end, Transactions: []Transaction{}}
	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		switch tx.Type {
		case TransactionIncome:
			sheet.TotalIncome += tx.Amount
		case TransactionExpense:
			sheet.TotalExpense += tx.Amount
		}
		sheet.Transactions = append(sheet.Transactions, tx)
	}
	sheet.NetProfit = sheet.TotalIncome - sheet.TotalExpense
	return sheet
}

// DummyTransaction используется для приёма операции из JSON-запроса.
type DummyTransaction struct {
	Type        string  `json:"type" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0,lt=100000000"`
	Description string  `json:"description" validate:"required,max=255"`
	Date        string  `json:"date" validate:"required"`
	ReferenceID string  `json:"reference_id,omitempty" validate:"max=100"`
}
