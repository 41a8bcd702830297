package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// CheckFilter narrows ListChecks. Zero fields do not filter.
type CheckFilter struct {
	Direction model.CheckDirection
	Status    model.CheckStatus
	ContactID string
}

const checkColumns = `id, direction, number, bank_code, branch, account, holder, holder_document, amount,
	issue_date, good_for, status, contact_id, entry_id, bank_account_id, notes, updated_at`

func scanCheck(s scanner) (model.Check, error) {
	var (
		c                          model.Check
		direction, status, amt     string
		issue, goodFor             sql.NullString
		contactID, entryID, bankID sql.NullString
		updatedAt                  string
	)
	err := s.Scan(&c.ID, &direction, &c.Number, &c.BankCode, &c.Branch, &c.Account, &c.Holder, &c.HolderDocument, &amt,
		&issue, &goodFor, &status, &contactID, &entryID, &bankID, &c.Notes, &updatedAt)
	if err != nil {
		return c, err
	}
	c.Direction = model.CheckDirection(direction)
	c.Status = model.CheckStatus(status)
	c.ContactID = contactID.String
	c.EntryID = entryID.String
	c.BankAccountID = bankID.String
	c.UpdatedAt = parseTimestamp(updatedAt)
	if c.Amount, err = parseAmount(amt); err != nil {
		return c, err
	}
	if c.IssueDate, err = parseDay(issue); err != nil {
		return c, err
	}
	if c.GoodFor, err = parseDay(goodFor); err != nil {
		return c, err
	}
	return c, nil
}

func checkArgs(c model.Check) []any {
	return []any{
		c.ID, string(c.Direction), c.Number, c.BankCode, c.Branch, c.Account, c.Holder, c.HolderDocument, amount(c.Amount),
		day(c.IssueDate), day(c.GoodFor), string(c.Status), ref(c.ContactID), ref(c.EntryID), ref(c.BankAccountID),
		c.Notes, timestamp(c.UpdatedAt),
	}
}

// CreateCheck inserts c.
func (db *DB) CreateCheck(ctx context.Context, c model.Check) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO checks (`+checkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, checkArgs(c)...)
	if err != nil {
		return fmt.Errorf("inserting check: %w", mapErr(err))
	}
	return nil
}

// GetCheck returns the check with the given ID.
func (db *DB) GetCheck(ctx context.Context, id string) (model.Check, error) {
	c, err := scanCheck(db.conn.QueryRowContext(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = ?`, id))
	return c, notFound(err)
}

// UpdateCheck replaces every column of the check.
func (db *DB) UpdateCheck(ctx context.Context, c model.Check) error {
	return updateCheck(ctx, db.conn, c)
}

func updateCheck(ctx context.Context, q querier, c model.Check) error {
	all := checkArgs(c)
	args := append(append([]any{}, all[1:]...), c.ID)
	return mustAffect(q.ExecContext(ctx, `UPDATE checks SET
		direction = ?, number = ?, bank_code = ?, branch = ?, account = ?, holder = ?, holder_document = ?, amount = ?,
		issue_date = ?, good_for = ?, status = ?, contact_id = ?, entry_id = ?, bank_account_id = ?, notes = ?, updated_at = ?
		WHERE id = ?`, args...))
}

// UpdateCheckAndEntry saves a check and its linked entry in one transaction.
func (db *DB) UpdateCheckAndEntry(ctx context.Context, c model.Check, e model.Entry) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("updating entry: %w", err)
		}
		if err := updateCheck(ctx, tx, c); err != nil {
			return fmt.Errorf("updating check: %w", err)
		}
		return nil
	})
}

// DeleteCheck removes a check.
func (db *DB) DeleteCheck(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM checks WHERE id = ?`, id))
}

// ListChecks returns checks matching f ordered by good-for date.
func (db *DB) ListChecks(ctx context.Context, f CheckFilter) ([]model.Check, error) {
	var (
		where []string
		args  []any
	)
	if f.Direction != "" {
		where = append(where, "direction = ?")
		args = append(args, string(f.Direction))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.ContactID != "" {
		where = append(where, "contact_id = ?")
		args = append(args, f.ContactID)
	}
	q := `SELECT ` + checkColumns + ` FROM checks`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY good_for, number"

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing checks: %w", err)
	}
	defer rows.Close()

	var out []model.Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning check: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
