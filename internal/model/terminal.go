package model

import "github.com/shopspring/decimal"

// AnyBrand in a fee row matches every card brand.
const AnyBrand = "*"

// Terminal is a card payment terminal (maquininha) settling into a bank account.
type Terminal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Provider      string `json:"provider"` // Stone, Cielo, Rede...
	BankAccountID string `json:"bank_account_id"`
	Active        bool   `json:"active"`
}

// TerminalFee is one row of a terminal's fee table.
type TerminalFee struct {
	ID               string          `json:"id"`
	TerminalID       string          `json:"terminal_id"`
	Method           PaymentMethod   `json:"method"` // debit or credit
	Brand            string          `json:"brand"`  // visa, master, elo... or "*"
	InstallmentsFrom int             `json:"installments_from"`
	InstallmentsTo   int             `json:"installments_to"`
	RatePercent      decimal.Decimal `json:"rate_percent"`
	FixedFee         decimal.Decimal `json:"fixed_fee"`
	SettlementDays   int             `json:"settlement_days"`
}

// Covers reports whether the row applies to n installments.
func (f TerminalFee) Covers(n int) bool {
	return n >= f.InstallmentsFrom && n <= f.InstallmentsTo
}
