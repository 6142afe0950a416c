package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// GetBalance returns the balance aggregate for userID. A user with no
// recorded activity gets a zero-valued balance.
func (s *SQLiteStore) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	balance := &models.Balance{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		"SELECT total_paid, total_owed, net_balance, last_updated FROM balances WHERE user_id = ?",
		userID,
	).Scan(&balance.TotalPaid, &balance.TotalOwed, &balance.NetBalance, &balance.LastUpdated)
	if err == sql.ErrNoRows {
		return balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// GetBalanceForUpdate loads userID's balance inside the transaction,
// creating a zero-valued one on first reference. The row it reads is
// shielded from concurrent writers by the transaction itself.
func (t *sqliteTx) GetBalanceForUpdate(ctx context.Context, userID string) (*models.Balance, error) {
	balance := &models.Balance{UserID: userID}
	err := t.tx.QueryRowContext(ctx,
		"SELECT total_paid, total_owed, net_balance, last_updated FROM balances WHERE user_id = ?",
		userID,
	).Scan(&balance.TotalPaid, &balance.TotalOwed, &balance.NetBalance, &balance.LastUpdated)
	if err == sql.ErrNoRows {
		return balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for update: %w", err)
	}
	return balance, nil
}

// SaveBalance upserts a balance aggregate within the transaction.
func (t *sqliteTx) SaveBalance(ctx context.Context, balance *models.Balance) error {
	if balance.LastUpdated == 0 {
		balance.LastUpdated = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO balances (user_id, total_paid, total_owed, net_balance, last_updated)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_paid = excluded.total_paid,
		   total_owed = excluded.total_owed,
		   net_balance = excluded.net_balance,
		   last_updated = excluded.last_updated`,
		balance.UserID, balance.TotalPaid, balance.TotalOwed, balance.NetBalance, balance.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}
