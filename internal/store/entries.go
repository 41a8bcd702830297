package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// EntryFilter narrows ListEntries. Zero fields do not filter.
type EntryFilter struct {
	Kind           model.EntryKind
	Statuses       []model.EntryStatus
	From, To       time.Time // due date
	PaidFrom       time.Time
	PaidTo         time.Time
	CompetenceFrom time.Time
	CompetenceTo   time.Time
	ContactID      string
	CategoryID     string
	BankAccountID  string
	BatchID        string
	SaleID         string
}

const entryColumns = `id, kind, description, amount, due_date, competence_date, status, paid_at, paid_amount,
	contact_id, category_id, bank_account_id, document_number, batch_id, installment_number, installment_total,
	sale_id, notes, created_at, updated_at`

func scanEntry(s scanner) (model.Entry, error) {
	var (
		e                             model.Entry
		kind, status                  string
		amt, paidAmt                  string
		due, competence, paidAt       sql.NullString
		contactID, categoryID, bankID sql.NullString
		saleID                        sql.NullString
		createdAt, updatedAt          string
	)
	err := s.Scan(&e.ID, &kind, &e.Description, &amt, &due, &competence, &status, &paidAt, &paidAmt,
		&contactID, &categoryID, &bankID, &e.DocumentNumber, &e.BatchID, &e.InstallmentNumber, &e.InstallmentTotal,
		&saleID, &e.Notes, &createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	e.Kind = model.EntryKind(kind)
	e.Status = model.EntryStatus(status)
	e.ContactID = contactID.String
	e.CategoryID = categoryID.String
	e.BankAccountID = bankID.String
	e.SaleID = saleID.String
	e.CreatedAt = parseTimestamp(createdAt)
	e.UpdatedAt = parseTimestamp(updatedAt)

	if e.Amount, err = parseAmount(amt); err != nil {
		return e, err
	}
	if e.PaidAmount, err = parseAmount(paidAmt); err != nil {
		return e, err
	}
	if e.DueDate, err = parseDay(due); err != nil {
		return e, err
	}
	if e.CompetenceDate, err = parseDay(competence); err != nil {
		return e, err
	}
	if paidAt.Valid {
		t, err := parseDay(paidAt)
		if err != nil {
			return e, err
		}
		e.PaidAt = &t
	}
	return e, nil
}

func entryArgs(e model.Entry) []any {
	var paidAt any
	if e.PaidAt != nil {
		paidAt = day(*e.PaidAt)
	}
	return []any{
		e.ID, string(e.Kind), e.Description, amount(e.Amount), day(e.DueDate), day(e.CompetenceDate),
		string(e.Status), paidAt, amount(e.PaidAmount),
		ref(e.ContactID), ref(e.CategoryID), ref(e.BankAccountID), e.DocumentNumber, e.BatchID,
		e.InstallmentNumber, e.InstallmentTotal, ref(e.SaleID), e.Notes,
		timestamp(e.CreatedAt), timestamp(e.UpdatedAt),
	}
}

func insertEntry(ctx context.Context, q querier, e model.Entry) error {
	_, err := q.ExecContext(ctx, `INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, entryArgs(e)...)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", mapErr(err))
	}
	return nil
}

// CreateEntry inserts a single entry.
func (db *DB) CreateEntry(ctx context.Context, e model.Entry) error {
	return insertEntry(ctx, db.conn, e)
}

// CreateEntries inserts all entries in one transaction: either every entry
// is stored or none is.
func (db *DB) CreateEntries(ctx context.Context, entries []model.Entry) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for i, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// GetEntry returns the entry with the given ID.
func (db *DB) GetEntry(ctx context.Context, id string) (model.Entry, error) {
	return getEntry(ctx, db.conn, id)
}

func getEntry(ctx context.Context, q querier, id string) (model.Entry, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
	return e, notFound(err)
}

// UpdateEntry replaces every column of the entry except created_at.
func (db *DB) UpdateEntry(ctx context.Context, e model.Entry) error {
	return updateEntry(ctx, db.conn, e)
}

func updateEntry(ctx context.Context, q querier, e model.Entry) error {
	all := entryArgs(e)
	// every column but id and created_at, then id for the WHERE clause
	args := append(append([]any{}, all[1:len(all)-2]...), all[len(all)-1], e.ID)
	return mustAffect(q.ExecContext(ctx, `UPDATE entries SET
		kind = ?, description = ?, amount = ?, due_date = ?, competence_date = ?, status = ?, paid_at = ?, paid_amount = ?,
		contact_id = ?, category_id = ?, bank_account_id = ?, document_number = ?, batch_id = ?,
		installment_number = ?, installment_total = ?, sale_id = ?, notes = ?, updated_at = ?
		WHERE id = ?`, args...))
}

// DeleteEntry removes an entry.
func (db *DB) DeleteEntry(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id))
}

// ListEntries returns entries matching f ordered by due date.
func (db *DB) ListEntries(ctx context.Context, f EntryFilter) ([]model.Entry, error) {
	return listEntries(ctx, db.conn, f)
}

func listEntries(ctx context.Context, q querier, f EntryFilter) ([]model.Entry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		where = append(where, cond)
		args = append(args, arg)
	}
	if f.Kind != "" {
		add("kind = ?", string(f.Kind))
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			marks[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(marks, ", ")+")")
	}
	if !f.From.IsZero() {
		add("due_date >= ?", day(f.From))
	}
	if !f.To.IsZero() {
		add("due_date <= ?", day(f.To))
	}
	if !f.PaidFrom.IsZero() {
		add("paid_at >= ?", day(f.PaidFrom))
	}
	if !f.PaidTo.IsZero() {
		add("paid_at <= ?", day(f.PaidTo))
	}
	if !f.CompetenceFrom.IsZero() {
		add("competence_date >= ?", day(f.CompetenceFrom))
	}
	if !f.CompetenceTo.IsZero() {
		add("competence_date <= ?", day(f.CompetenceTo))
	}
	if f.ContactID != "" {
		add("contact_id = ?", f.ContactID)
	}
	if f.CategoryID != "" {
		add("category_id = ?", f.CategoryID)
	}
	if f.BankAccountID != "" {
		add("bank_account_id = ?", f.BankAccountID)
	}
	if f.BatchID != "" {
		add("batch_id = ?", f.BatchID)
	}
	if f.SaleID != "" {
		add("sale_id = ?", f.SaleID)
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date, installment_number, created_at"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkOverdue flips pending entries due before today to overdue, and
// overdue entries due on or after today back to pending. It returns the
// number of entries that became overdue.
func (db *DB) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	var n int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		now := timestamp(time.Now())
		res, err := tx.ExecContext(ctx, `UPDATE entries SET status = ?, updated_at = ?
			WHERE status = ? AND due_date < ?`,
			string(model.StatusOverdue), now, string(model.StatusPending), day(today))
		if err != nil {
			return fmt.Errorf("marking overdue: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE entries SET status = ?, updated_at = ?
			WHERE status = ? AND due_date >= ?`,
			string(model.StatusPending), now, string(model.StatusOverdue), day(today)); err != nil {
			return fmt.Errorf("clearing overdue: %w", err)
		}
		return nil
	})
	return n, err
}

// CancelBatch cancels every open installment of a batch and returns how many
// were cancelled.
func (db *DB) CancelBatch(ctx context.Context, batchID string, now time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `UPDATE entries SET status = ?, updated_at = ?
		WHERE batch_id = ? AND status IN (?, ?)`,
		string(model.StatusCancelled), timestamp(now), batchID, string(model.StatusPending), string(model.StatusOverdue))
	if err != nil {
		return 0, fmt.Errorf("cancelling batch: %w", err)
	}
	return res.RowsAffected()
}
