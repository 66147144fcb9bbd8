package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zamflow/internal/store"
)

// SQLStorage keeps users in the users table.
type SQLStorage struct {
	db *store.DB
}

// NewSQLStorage creates a SQLStorage on an opened database.
func NewSQLStorage(db *store.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Set(ctx context.Context, user *User) error {
	if user.ID == "" {
		return ErrEmptyID
	}
	query := s.db.Rebind(`
		INSERT INTO users (id, email, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			role = excluded.role,
			status = excluded.status,
			updated_at = excluded.updated_at
	`)
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, string(user.Role), string(user.Status), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *SQLStorage) Read(ctx context.Context, id string) (*User, error) {
	query := s.db.Rebind(`SELECT id, email, role, status, created_at, updated_at FROM users WHERE id = ?`)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return u, nil
}

func (s *SQLStorage) GetAll(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email, role, status, created_at, updated_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var all []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		all = append(all, u)
	}
	return all, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		u            User
		role, status string
	)
	if err := row.Scan(&u.ID, &u.Email, &role, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	u.Status = Status(status)
	return &u, nil
}
