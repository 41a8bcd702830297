package model

import "time"

// Settings holds company-wide preferences.
type Settings struct {
	CompanyName          string    `json:"company_name"`
	CompanyDocument      string    `json:"company_document,omitempty"`
	DefaultBankAccountID string    `json:"default_bank_account_id,omitempty"`
	OverdueGraceDays     int       `json:"overdue_grace_days"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// User is someone allowed to sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
