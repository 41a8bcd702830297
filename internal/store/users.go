package store

import (
	"context"
	"fmt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

const userColumns = `id, email, name, password_hash, role, created_at`

// CreateUser inserts u. Emails are unique.
func (db *DB) CreateUser(ctx context.Context, u model.User) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, timestamp(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting user: %w", mapErr(err))
	}
	return nil
}

// GetUserByEmail returns the user with the given email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	err := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &createdAt)
	u.CreatedAt = parseTimestamp(createdAt)
	return u, notFound(err)
}

// CountUsers returns the number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
