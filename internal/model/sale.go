package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodPix    PaymentMethod = "pix"
	MethodDebit  PaymentMethod = "debit"
	MethodCredit PaymentMethod = "credit"
	MethodBoleto PaymentMethod = "boleto"
	MethodCheck  PaymentMethod = "check"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodPix, MethodDebit, MethodCredit, MethodBoleto, MethodCheck:
		return true
	}
	return false
}

// IsCard reports whether the method settles through a payment terminal.
func (m PaymentMethod) IsCard() bool {
	return m == MethodDebit || m == MethodCredit
}

// Sale is a sales entry. Its receivables are generated when it is created.
type Sale struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	ContactID     string          `json:"contact_id,omitempty"`
	Description   string          `json:"description"`
	Gross         decimal.Decimal `json:"gross"`
	Discount      decimal.Decimal `json:"discount"`
	Method        PaymentMethod   `json:"method"`
	Installments  int             `json:"installments"`
	TerminalID    string          `json:"terminal_id,omitempty"`
	CardBrand     string          `json:"card_brand,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Net returns gross minus discount.
func (s Sale) Net() decimal.Decimal {
	return s.Gross.Sub(s.Discount)
}
