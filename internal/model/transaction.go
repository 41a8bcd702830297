package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is an imported bank statement line.
type BankTransaction struct {
	ID            string          `json:"id"`
	BankAccountID string          `json:"bank_account_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // negative = debit, positive = credit
	Reference     string          `json:"reference"`
	Type          string          `json:"type,omitempty"`
}

// IsCredit reports whether the line brought money into the account.
func (t BankTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}
