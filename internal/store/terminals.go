package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

const terminalColumns = `id, name, provider, bank_account_id, active`

func scanTerminal(s scanner) (model.Terminal, error) {
	var (
		t      model.Terminal
		bankID sql.NullString
		active int
	)
	err := s.Scan(&t.ID, &t.Name, &t.Provider, &bankID, &active)
	t.BankAccountID = bankID.String
	t.Active = active != 0
	return t, err
}

// ListTerminals returns all terminals ordered by name.
func (db *DB) ListTerminals(ctx context.Context) ([]model.Terminal, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+terminalColumns+` FROM terminals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing terminals: %w", err)
	}
	defer rows.Close()

	var out []model.Terminal
	for rows.Next() {
		t, err := scanTerminal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning terminal: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTerminal returns the terminal with the given ID.
func (db *DB) GetTerminal(ctx context.Context, id string) (model.Terminal, error) {
	t, err := scanTerminal(db.conn.QueryRowContext(ctx, `SELECT `+terminalColumns+` FROM terminals WHERE id = ?`, id))
	return t, notFound(err)
}

// CreateTerminal inserts t.
func (db *DB) CreateTerminal(ctx context.Context, t model.Terminal) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO terminals (`+terminalColumns+`) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Provider, ref(t.BankAccountID), boolInt(t.Active))
	if err != nil {
		return fmt.Errorf("inserting terminal: %w", mapErr(err))
	}
	return nil
}

// UpdateTerminal replaces every column of the terminal.
func (db *DB) UpdateTerminal(ctx context.Context, t model.Terminal) error {
	return mustAffect(db.conn.ExecContext(ctx, `UPDATE terminals SET name = ?, provider = ?, bank_account_id = ?, active = ? WHERE id = ?`,
		t.Name, t.Provider, ref(t.BankAccountID), boolInt(t.Active), t.ID))
}

// DeleteTerminal removes a terminal and its fee table.
func (db *DB) DeleteTerminal(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM terminals WHERE id = ?`, id))
}

const feeColumns = `id, terminal_id, method, brand, installments_from, installments_to, rate_percent, fixed_fee, settlement_days`

// ListTerminalFees returns the fee table of a terminal.
func (db *DB) ListTerminalFees(ctx context.Context, terminalID string) ([]model.TerminalFee, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+feeColumns+` FROM terminal_fees
		WHERE terminal_id = ? ORDER BY method, brand, installments_from`, terminalID)
	if err != nil {
		return nil, fmt.Errorf("listing terminal fees: %w", err)
	}
	defer rows.Close()

	var out []model.TerminalFee
	for rows.Next() {
		var (
			f           model.TerminalFee
			method      string
			rate, fixed string
		)
		if err := rows.Scan(&f.ID, &f.TerminalID, &method, &f.Brand, &f.InstallmentsFrom, &f.InstallmentsTo,
			&rate, &fixed, &f.SettlementDays); err != nil {
			return nil, fmt.Errorf("scanning terminal fee: %w", err)
		}
		f.Method = model.PaymentMethod(method)
		if f.RatePercent, err = parseAmount(rate); err != nil {
			return nil, err
		}
		if f.FixedFee, err = parseAmount(fixed); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ReplaceTerminalFees swaps a terminal's whole fee table in one transaction.
func (db *DB) ReplaceTerminalFees(ctx context.Context, terminalID string, fees []model.TerminalFee) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM terminal_fees WHERE terminal_id = ?`, terminalID); err != nil {
			return fmt.Errorf("clearing terminal fees: %w", err)
		}
		for _, f := range fees {
			_, err := tx.ExecContext(ctx, `INSERT INTO terminal_fees (`+feeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				f.ID, terminalID, string(f.Method), f.Brand, f.InstallmentsFrom, f.InstallmentsTo,
				f.RatePercent.StringFixed(4), amount(f.FixedFee), f.SettlementDays)
			if err != nil {
				return fmt.Errorf("inserting terminal fee: %w", mapErr(err))
			}
		}
		return nil
	})
}
