package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated money movement. The sign of Amount encodes
// direction: negative is an expense, positive is income. The sign is decided
// by the caller before submission and stored as given.
type Transaction struct {
	ID         int64           `json:"id" db:"id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Title      string          `json:"title" db:"title"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	CategoryID int64           `json:"category_id" db:"category_id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// CreateTransactionRequest mirrors the mobile client payload. Category holds
// the id of an existing category. Amount is a pointer so a missing field is
// distinguishable from an explicit zero, which is a valid amount.
type CreateTransactionRequest struct {
	Title    string           `json:"title" validate:"required"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Category int64            `json:"category" validate:"required"`
	UserID   string           `json:"user_id" validate:"required"`
}

// Summary holds the aggregates derived from one owner's transactions.
// Expense keeps its negative sign, so Balance = Income + Expense.
type Summary struct {
	Balance decimal.Decimal `json:"balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
