package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// SaleFilter narrows ListSales. Zero fields do not filter.
type SaleFilter struct {
	From, To   time.Time
	TerminalID string
	Method     model.PaymentMethod
}

const saleColumns = `id, date, contact_id, description, gross, discount, method, installments,
	terminal_id, card_brand, category_id, bank_account_id, created_at`

func scanSale(s scanner) (model.Sale, error) {
	var (
		sale                               model.Sale
		date                               sql.NullString
		contactID, terminalID, categoryID  sql.NullString
		bankID                             sql.NullString
		gross, discount, method, createdAt string
	)
	err := s.Scan(&sale.ID, &date, &contactID, &sale.Description, &gross, &discount, &method, &sale.Installments,
		&terminalID, &sale.CardBrand, &categoryID, &bankID, &createdAt)
	if err != nil {
		return sale, err
	}
	sale.ContactID = contactID.String
	sale.TerminalID = terminalID.String
	sale.CategoryID = categoryID.String
	sale.BankAccountID = bankID.String
	sale.Method = model.PaymentMethod(method)
	sale.CreatedAt = parseTimestamp(createdAt)
	if sale.Date, err = parseDay(date); err != nil {
		return sale, err
	}
	if sale.Gross, err = parseAmount(gross); err != nil {
		return sale, err
	}
	if sale.Discount, err = parseAmount(discount); err != nil {
		return sale, err
	}
	return sale, nil
}

// CreateSaleWithEntries stores a sale and the receivables it generated in
// one transaction.
func (db *DB) CreateSaleWithEntries(ctx context.Context, s model.Sale, entries []model.Entry) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO sales (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, day(s.Date), ref(s.ContactID), s.Description, amount(s.Gross), amount(s.Discount), string(s.Method),
			s.Installments, ref(s.TerminalID), s.CardBrand, ref(s.CategoryID), ref(s.BankAccountID), timestamp(s.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting sale: %w", mapErr(err))
		}
		for i, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return fmt.Errorf("receivable %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// GetSale returns the sale with the given ID.
func (db *DB) GetSale(ctx context.Context, id string) (model.Sale, error) {
	s, err := scanSale(db.conn.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id))
	return s, notFound(err)
}

// ListSales returns sales matching f ordered by date.
func (db *DB) ListSales(ctx context.Context, f SaleFilter) ([]model.Sale, error) {
	var (
		where []string
		args  []any
	)
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, day(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, day(f.To))
	}
	if f.TerminalID != "" {
		where = append(where, "terminal_id = ?")
		args = append(args, f.TerminalID)
	}
	if f.Method != "" {
		where = append(where, "method = ?")
		args = append(args, string(f.Method))
	}
	q := `SELECT ` + saleColumns + ` FROM sales`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date, created_at"

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var out []model.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSale removes a sale together with its receivables.
func (db *DB) DeleteSale(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE sale_id = ?`, id); err != nil {
			return fmt.Errorf("deleting receivables: %w", mapErr(err))
		}
		return mustAffect(tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id))
	})
}
