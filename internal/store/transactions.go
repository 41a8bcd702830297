package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	BankAccountID string
	From, To      time.Time
	CreditsOnly   bool
}

const transactionColumns = `id, bank_account_id, date, description, amount, reference, type`

// CreateTransactions stores imported statement lines in one transaction.
func (db *DB) CreateTransactions(ctx context.Context, txns []model.BankTransaction) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range txns {
			_, err := tx.ExecContext(ctx, `INSERT INTO bank_transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.BankAccountID, day(t.Date), t.Description, amount(t.Amount), t.Reference, t.Type)
			if err != nil {
				return fmt.Errorf("inserting statement line %q: %w", t.Reference, mapErr(err))
			}
		}
		return nil
	})
}

// ListTransactions returns statement lines matching f ordered by date.
func (db *DB) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.BankTransaction, error) {
	var (
		where []string
		args  []any
	)
	if f.BankAccountID != "" {
		where = append(where, "bank_account_id = ?")
		args = append(args, f.BankAccountID)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, day(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, day(f.To))
	}
	if f.CreditsOnly {
		where = append(where, "CAST(amount AS REAL) > 0")
	}
	q := `SELECT ` + transactionColumns + ` FROM bank_transactions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date, reference"

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing statement lines: %w", err)
	}
	defer rows.Close()

	var out []model.BankTransaction
	for rows.Next() {
		var (
			t         model.BankTransaction
			date      sql.NullString
			amountStr string
		)
		if err := rows.Scan(&t.ID, &t.BankAccountID, &date, &t.Description, &amountStr, &t.Reference, &t.Type); err != nil {
			return nil, fmt.Errorf("scanning statement line: %w", err)
		}
		if t.Date, err = parseDay(date); err != nil {
			return nil, err
		}
		if t.Amount, err = parseAmount(amountStr); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TransactionReferences returns the set of references already imported for
// an account.
func (db *DB) TransactionReferences(ctx context.Context, bankAccountID string) (map[string]bool, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT reference FROM bank_transactions
		WHERE bank_account_id = ? AND reference <> ''`, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer rows.Close()

	refs := make(map[string]bool)
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		refs[r] = true
	}
	return refs, rows.Err()
}
