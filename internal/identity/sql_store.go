package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zamflow/internal/store"
)

// SQLCredentials keeps credentials in the credentials table.
type SQLCredentials struct {
	db *store.DB
}

// NewSQLCredentials creates a SQLCredentials on an opened database.
func NewSQLCredentials(db *store.DB) *SQLCredentials {
	return &SQLCredentials{db: db}
}

func (s *SQLCredentials) Create(ctx context.Context, c *Credential) error {
	query := s.db.Rebind(`INSERT INTO credentials (email, uid, password_hash, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, c.Email, c.UID, c.PasswordHash, c.CreatedAt); err != nil {
		if store.IsUniqueViolation(err) {
			return ErrEmailInUse
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *SQLCredentials) Find(ctx context.Context, email string) (*Credential, error) {
	query := s.db.Rebind(`SELECT email, uid, password_hash, created_at FROM credentials WHERE email = ?`)
	var c Credential
	err := s.db.QueryRowContext(ctx, query, email).Scan(&c.Email, &c.UID, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select credential: %w", err)
	}
	return &c, nil
}

func (s *SQLCredentials) Delete(ctx context.Context, email string) error {
	query := s.db.Rebind(`DELETE FROM credentials WHERE email = ?`)
	if _, err := s.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
