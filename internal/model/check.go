package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckDirection tells whether a check was received or issued.
type CheckDirection string

const (
	CheckReceived CheckDirection = "received"
	CheckIssued   CheckDirection = "issued"
)

// Valid reports whether d is a known direction.
func (d CheckDirection) Valid() bool {
	return d == CheckReceived || d == CheckIssued
}

// CheckStatus is the state of a paper check.
type CheckStatus string

const (
	CheckPending     CheckStatus = "pending"     // em carteira / emitido
	CheckDeposited   CheckStatus = "deposited"   // depositado
	CheckCleared     CheckStatus = "cleared"     // compensado
	CheckReturned    CheckStatus = "returned"    // devolvido
	CheckTransferred CheckStatus = "transferred" // repassado a terceiro
	CheckCancelled   CheckStatus = "cancelled"
)

// Check is a paper check tracked as a payment instrument.
type Check struct {
	ID             string          `json:"id"`
	Direction      CheckDirection  `json:"direction"`
	Number         string          `json:"number"`
	BankCode       string          `json:"bank_code,omitempty"`
	Branch         string          `json:"branch,omitempty"`
	Account        string          `json:"account,omitempty"`
	Holder         string          `json:"holder,omitempty"` // emitente
	HolderDocument string          `json:"holder_document,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	IssueDate      time.Time       `json:"issue_date"`
	GoodFor        time.Time       `json:"good_for"` // bom para
	Status         CheckStatus     `json:"status"`
	ContactID      string          `json:"contact_id,omitempty"`
	EntryID        string          `json:"entry_id,omitempty"`
	BankAccountID  string          `json:"bank_account_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
