package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

const categoryColumns = `id, code, name, type, parent_id, dre_group, active`

func scanCategory(s scanner) (model.Category, error) {
	var (
		c        model.Category
		typ, dre string
		parent   sql.NullString
		active   int
	)
	err := s.Scan(&c.ID, &c.Code, &c.Name, &typ, &parent, &dre, &active)
	c.Type = model.CategoryType(typ)
	c.ParentID = parent.String
	c.DREGroup = model.DREGroup(dre)
	c.Active = active != 0
	return c, err
}

// ListCategories returns the whole chart ordered by code.
func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory returns the category with the given ID.
func (db *DB) GetCategory(ctx context.Context, id string) (model.Category, error) {
	c, err := scanCategory(db.conn.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	return c, notFound(err)
}

// CreateCategory inserts c.
func (db *DB) CreateCategory(ctx context.Context, c model.Category) error {
	return insertCategory(ctx, db.conn, c)
}

// CreateCategories inserts a whole chart in one transaction. Parents must
// precede their children.
func (db *DB) CreateCategories(ctx context.Context, cats []model.Category) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range cats {
			if err := insertCategory(ctx, tx, c); err != nil {
				return fmt.Errorf("category %s: %w", c.Code, err)
			}
		}
		return nil
	})
}

func insertCategory(ctx context.Context, q querier, c model.Category) error {
	_, err := q.ExecContext(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Code, c.Name, string(c.Type), ref(c.ParentID), string(c.DREGroup), boolInt(c.Active))
	if err != nil {
		return fmt.Errorf("inserting category: %w", mapErr(err))
	}
	return nil
}

// UpdateCategory replaces every column of the category.
func (db *DB) UpdateCategory(ctx context.Context, c model.Category) error {
	return mustAffect(db.conn.ExecContext(ctx, `UPDATE categories
		SET code = ?, name = ?, type = ?, parent_id = ?, dre_group = ?, active = ?
		WHERE id = ?`,
		c.Code, c.Name, string(c.Type), ref(c.ParentID), string(c.DREGroup), boolInt(c.Active), c.ID))
}

// DeleteCategory removes a category.
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	return mustAffect(db.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id))
}

// CategoryUsage counts entries and sales referencing a category.
func (db *DB) CategoryUsage(ctx context.Context, id string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM entries WHERE category_id = ?) +
		(SELECT COUNT(*) FROM sales WHERE category_id = ?)`, id, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting category usage: %w", err)
	}
	return n, nil
}
