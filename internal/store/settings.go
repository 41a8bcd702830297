package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// GetSettings returns the saved settings, or ErrNotFound when none were saved.
func (db *DB) GetSettings(ctx context.Context) (model.Settings, error) {
	var (
		s         model.Settings
		bankID    sql.NullString
		updatedAt string
	)
	err := db.conn.QueryRowContext(ctx, `SELECT company_name, company_document, default_bank_account_id,
		overdue_grace_days, updated_at FROM settings WHERE id = 1`).
		Scan(&s.CompanyName, &s.CompanyDocument, &bankID, &s.OverdueGraceDays, &updatedAt)
	if err != nil {
		return s, notFound(err)
	}
	s.DefaultBankAccountID = bankID.String
	s.UpdatedAt = parseTimestamp(updatedAt)
	return s, nil
}

// SaveSettings inserts or replaces the settings row.
func (db *DB) SaveSettings(ctx context.Context, s model.Settings) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO settings
		(id, company_name, company_document, default_bank_account_id, overdue_grace_days, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			company_document = excluded.company_document,
			default_bank_account_id = excluded.default_bank_account_id,
			overdue_grace_days = excluded.overdue_grace_days,
			updated_at = excluded.updated_at`,
		s.CompanyName, s.CompanyDocument, ref(s.DefaultBankAccountID), s.OverdueGraceDays, timestamp(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving settings: %w", mapErr(err))
	}
	return nil
}
