package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
)

// RegisterAccount creates a new account. The username/email uniqueness check
// and the insert run in a single transaction; a duplicate returns ErrConflict.
// The password must already be hashed.
func RegisterAccount(ctx context.Context, db *sql.DB, username, passwordHash, firstName, lastName, email string) (*model.Account, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var taken int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?`,
		username, email,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("checking for existing account: %w", err)
	}
	if taken > 0 {
		return nil, ErrConflict
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, first_name, last_name, email)
		 VALUES (?, ?, ?, ?, ?)`,
		username, passwordHash, firstName, lastName, email,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, first_name, last_name, email
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByUsername returns an account by username.
func GetAccountByUsername(ctx context.Context, db *sql.DB, username string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, first_name, last_name, email
		 FROM accounts WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by username: %w", err)
	}
	return a, nil
}
