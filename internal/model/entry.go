package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes accounts payable from accounts receivable.
type EntryKind string

const (
	EntryPayable    EntryKind = "payable"    // conta a pagar
	EntryReceivable EntryKind = "receivable" // conta a receber
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == EntryPayable || k == EntryReceivable
}

// CategoryType returns the category type an entry of this kind must use.
func (k EntryKind) CategoryType() CategoryType {
	if k == EntryReceivable {
		return CategoryIncome
	}
	return CategoryExpense
}

// EntryStatus represents the lifecycle state of an entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusPaid      EntryStatus = "paid"
	StatusOverdue   EntryStatus = "overdue"
	StatusCancelled EntryStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Open reports whether the entry still awaits settlement.
func (s EntryStatus) Open() bool {
	return s == StatusPending || s == StatusOverdue
}

// Entry is a single payable or receivable. Installments of a batch share a BatchID.
type Entry struct {
	ID                string          `json:"id"`
	Kind              EntryKind       `json:"kind"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	CompetenceDate    time.Time       `json:"competence_date"`
	Status            EntryStatus     `json:"status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	ContactID         string          `json:"contact_id,omitempty"`
	CategoryID        string          `json:"category_id,omitempty"`
	BankAccountID     string          `json:"bank_account_id,omitempty"`
	DocumentNumber    string          `json:"document_number,omitempty"` // NF, boleto
	BatchID           string          `json:"batch_id,omitempty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	InstallmentTotal  int             `json:"installment_total,omitempty"`
	SaleID            string          `json:"sale_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StatusAt returns the status as seen on day today: a pending entry due
// before today is overdue, and an overdue one moved to a later due date is
// pending again.
func (e Entry) StatusAt(today time.Time) EntryStatus {
	if !e.Status.Open() {
		return e.Status
	}
	if e.DueDate.Before(today) {
		return StatusOverdue
	}
	return StatusPending
}

// SignedAmount returns the amount as a cash movement: positive for
// receivables, negative for payables.
func (e Entry) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if e.Kind == EntryPayable {
		return amount.Neg()
	}
	return amount
}
