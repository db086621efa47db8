package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sqlGetAccountByID = `
SELECT id, name, type, categories, audience_size, created_at, updated_at
FROM accounts
WHERE id = $1
`

// GetAccountByID retrieves a single account
func (s *Store) GetAccountByID(ctx context.Context, accountID uuid.UUID) (Account, error) {
	var account Account
	err := s.db.GetContext(ctx, &account, sqlGetAccountByID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get account", err)
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

const sqlListAccountsByType = `
SELECT id, name, type, categories, audience_size, created_at, updated_at
FROM accounts
WHERE type = $1
ORDER BY id
`

// ListAccountsByType retrieves all accounts of the given type
func (s *Store) ListAccountsByType(ctx context.Context, accountType string) ([]Account, error) {
	var accounts []Account
	err := s.db.SelectContext(ctx, &accounts, sqlListAccountsByType, accountType)
	if err != nil {
		s.logger.Error(ctx, "failed to list accounts", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

const sqlCountAccountsByType = `
SELECT COALESCE(COUNT(*), 0)::int FROM accounts WHERE type = $1
`

// CountAccountsByType counts accounts of the given type
func (s *Store) CountAccountsByType(ctx context.Context, accountType string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountAccountsByType, accountType)
	if err != nil {
		s.logger.Error(ctx, "failed to count accounts", err)
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

const sqlCountAccountsCreatedSince = `
SELECT COALESCE(COUNT(*), 0)::int FROM accounts WHERE created_at >= $1
`

// CountAccountsCreatedSince counts accounts created at or after the given time
func (s *Store) CountAccountsCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountAccountsCreatedSince, since)
	if err != nil {
		s.logger.Error(ctx, "failed to count new accounts", err)
		return 0, fmt.Errorf("failed to count new accounts: %w", err)
	}
	return count, nil
}
