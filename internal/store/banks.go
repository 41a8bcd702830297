package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// ListBanks returns all banks ordered by code.
func (db *DB) ListBanks(ctx context.Context) ([]model.Bank, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, code, name FROM banks ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing banks: %w", err)
	}
	defer rows.Close()

	var banks []model.Bank
	for rows.Next() {
		var b model.Bank
		if err := rows.Scan(&b.ID, &b.Code, &b.Name); err != nil {
			return nil, fmt.Errorf("scanning bank: %w", err)
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// GetBank returns the bank with the given ID.
func (db *DB) GetBank(ctx context.Context, id string) (model.Bank, error) {
	var b model.Bank
	err := db.conn.QueryRowContext(ctx, `SELECT id, code, name FROM banks WHERE id = ?`, id).
		Scan(&b.ID, &b.Code, &b.Name)
	return b, notFound(err)
}

// GetBankByCode returns the bank with the given COMPE code.
func (db *DB) GetBankByCode(ctx context.Context, code string) (model.Bank, error) {
	var b model.Bank
	err := db.conn.QueryRowContext(ctx, `SELECT id, code, name FROM banks WHERE code = ?`, code).
		Scan(&b.ID, &b.Code, &b.Name)
	return b, notFound(err)
}

// CreateBank inserts b.
func (db *DB) CreateBank(ctx context.Context, b model.Bank) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO banks (id, code, name) VALUES (?, ?, ?)`, b.ID, b.Code, b.Name)
	if err != nil {
		return fmt.Errorf("inserting bank: %w", mapErr(err))
	}
	return nil
}

// UpdateBank replaces the bank's code and name.
func (db *DB) UpdateBank(ctx context.Context, b model.Bank) error {
	return mustAffect(db.conn.ExecContext(ctx, `UPDATE banks SET code = ?, name = ? WHERE id = ?`, b.Code, b.Name, b.ID))
}

// DeleteBank removes a bank. Banks referenced by accounts cannot be removed.
func (db *DB) DeleteBank(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM banks WHERE id = ?`, id))
}

const bankAccountColumns = `id, bank_id, name, type, branch, number, digit, initial_balance, initial_balance_date, active`

func scanBankAccount(s scanner) (model.BankAccount, error) {
	var (
		a       model.BankAccount
		bankID  sql.NullString
		balance string
		balDate sql.NullString
		active  int
		typ     string
	)
	if err := s.Scan(&a.ID, &bankID, &a.Name, &typ, &a.Branch, &a.Number, &a.Digit, &balance, &balDate, &active); err != nil {
		return a, err
	}
	a.BankID = bankID.String
	a.Type = model.BankAccountType(typ)
	a.Active = active != 0
	var err error
	if a.InitialBalance, err = parseAmount(balance); err != nil {
		return a, err
	}
	if a.InitialBalanceDate, err = parseDay(balDate); err != nil {
		return a, err
	}
	return a, nil
}

// ListBankAccounts returns accounts ordered by name, optionally only active ones.
func (db *DB) ListBankAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error) {
	q := `SELECT ` + bankAccountColumns + ` FROM bank_accounts`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY name`
	rows, err := db.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing bank accounts: %w", err)
	}
	defer rows.Close()

	var out []model.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetBankAccount returns the account with the given ID.
func (db *DB) GetBankAccount(ctx context.Context, id string) (model.BankAccount, error) {
	a, err := scanBankAccount(db.conn.QueryRowContext(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = ?`, id))
	return a, notFound(err)
}

// CreateBankAccount inserts a.
func (db *DB) CreateBankAccount(ctx context.Context, a model.BankAccount) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO bank_accounts (`+bankAccountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, ref(a.BankID), a.Name, string(a.Type), a.Branch, a.Number, a.Digit,
		amount(a.InitialBalance), day(a.InitialBalanceDate), boolInt(a.Active))
	if err != nil {
		return fmt.Errorf("inserting bank account: %w", mapErr(err))
	}
	return nil
}

// UpdateBankAccount replaces every column of the account.
func (db *DB) UpdateBankAccount(ctx context.Context, a model.BankAccount) error {
	return mustAffect(db.conn.ExecContext(ctx, `UPDATE bank_accounts
		SET bank_id = ?, name = ?, type = ?, branch = ?, number = ?, digit = ?,
		    initial_balance = ?, initial_balance_date = ?, active = ?
		WHERE id = ?`,
		ref(a.BankID), a.Name, string(a.Type), a.Branch, a.Number, a.Digit,
		amount(a.InitialBalance), day(a.InitialBalanceDate), boolInt(a.Active), a.ID))
}

// DeleteBankAccount removes an account that nothing references.
func (db *DB) DeleteBankAccount(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = ?`, id))
}
