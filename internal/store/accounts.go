package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/mithai/internal/model"
)

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// CreateAccount creates a new account.
func CreateAccount(ctx context.Context, q DBTX, name, email, passwordHash, role string) (*model.Account, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO accounts (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, q, id)
}

// GetAccount returns an account by ID, or nil if it does not exist.
func GetAccount(ctx context.Context, q DBTX, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns an account by its exact email, or nil.
func GetAccountByEmail(ctx context.Context, q DBTX, email string) (*model.Account, error) {
	a := &model.Account{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at
		 FROM accounts WHERE email = ?`, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
