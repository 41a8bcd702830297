package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank is a financial institution identified by its COMPE code.
type Bank struct {
	ID   string `json:"id"`
	Code string `json:"code"` // "341"
	Name string `json:"name"`
}

// BankAccountType classifies where money is kept.
type BankAccountType string

const (
	BankAccountChecking   BankAccountType = "checking"
	BankAccountSavings    BankAccountType = "savings"
	BankAccountInvestment BankAccountType = "investment"
	BankAccountCash       BankAccountType = "cash" // caixa: no bank behind it
)

// Valid reports whether t is a known account type.
func (t BankAccountType) Valid() bool {
	switch t {
	case BankAccountChecking, BankAccountSavings, BankAccountInvestment, BankAccountCash:
		return true
	}
	return false
}

// BankAccount is an account (or cash box) whose balance is tracked.
type BankAccount struct {
	ID                 string          `json:"id"`
	BankID             string          `json:"bank_id,omitempty"` // empty for cash
	Name               string          `json:"name"`
	Type               BankAccountType `json:"type"`
	Branch             string          `json:"branch,omitempty"` // agência
	Number             string          `json:"number,omitempty"`
	Digit              string          `json:"digit,omitempty"`
	InitialBalance     decimal.Decimal `json:"initial_balance"`
	InitialBalanceDate time.Time       `json:"initial_balance_date"`
	Active             bool            `json:"active"`
}
