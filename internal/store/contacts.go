package store

import (
	"context"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

const contactColumns = `id, kind, name, trade_name, document, email, phone, notes, active`

func scanContact(s scanner) (model.Contact, error) {
	var (
		c      model.Contact
		kind   string
		active int
	)
	err := s.Scan(&c.ID, &kind, &c.Name, &c.TradeName, &c.Document, &c.Email, &c.Phone, &c.Notes, &active)
	c.Kind = model.ContactKind(kind)
	c.Active = active != 0
	return c, err
}

// ListContacts returns contacts ordered by name. An empty kind lists all kinds.
func (db *DB) ListContacts(ctx context.Context, kind model.ContactKind) ([]model.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts`
	var args []any
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	q += ` ORDER BY name COLLATE NOCASE`

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetContact returns the contact with the given ID.
func (db *DB) GetContact(ctx context.Context, id string) (model.Contact, error) {
	c, err := scanContact(db.conn.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	return c, notFound(err)
}

// FindContactByDocument returns the contact of kind with the given document digits.
func (db *DB) FindContactByDocument(ctx context.Context, kind model.ContactKind, doc string) (model.Contact, error) {
	c, err := scanContact(db.conn.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE kind = ? AND document = ?`, string(kind), doc))
	return c, notFound(err)
}

// CreateContact inserts c.
func (db *DB) CreateContact(ctx context.Context, c model.Contact) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, string(c.Kind), c.Name, c.TradeName, c.Document, c.Email, c.Phone, c.Notes, boolInt(c.Active))
	if err != nil {
		return fmt.Errorf("inserting contact: %w", mapErr(err))
	}
	return nil
}

// UpdateContact replaces every column of the contact.
func (db *DB) UpdateContact(ctx context.Context, c model.Contact) error {
	return mustAffect(db.conn.ExecContext(ctx, `UPDATE contacts
		SET kind = ?, name = ?, trade_name = ?, document = ?, email = ?, phone = ?, notes = ?, active = ?
		WHERE id = ?`,
		string(c.Kind), c.Name, c.TradeName, c.Document, c.Email, c.Phone, c.Notes, boolInt(c.Active), c.ID))
}

// DeleteContact removes a contact that nothing references.
func (db *DB) DeleteContact(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id))
}
