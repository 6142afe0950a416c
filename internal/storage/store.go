// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// Store defines the durable state of the ledger: the expense log and the
// per-user balance aggregate. This abstraction allows swapping storage
// backends (SQLite, PostgreSQL, etc.) without changing the service layer.
//
// Reads run outside any transaction. All mutations go through RunInTx so a
// logical operation commits atomically or not at all.
type Store interface {
	// GetExpense retrieves an expense by ID, including its settlements.
	// Returns ledger.ErrNotFound if it does not exist.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// FindByParticipant returns every expense in which userID shares the
	// cost, oldest first.
	FindByParticipant(ctx context.Context, userID string) ([]*models.Expense, error)

	// FindByUser returns every expense touching userID, as participant or
	// payer, oldest first. A direct debt names its creditor only as payer,
	// so balance reporting needs both sides.
	FindByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// FindByPayer returns expenses paid by payerID, newest first, at most
	// limit (unlimited when limit <= 0).
	FindByPayer(ctx context.Context, payerID string, limit int) ([]*models.Expense, error)

	// ListExpenses returns expenses regardless of payer, newest first, at
	// most limit (unlimited when limit <= 0).
	ListExpenses(ctx context.Context, limit int) ([]*models.Expense, error)

	// LatestExpenseByPayer returns payerID's most recent expense, or
	// ledger.ErrNotFound when they have none.
	LatestExpenseByPayer(ctx context.Context, payerID string) (*models.Expense, error)

	// GetBalance returns the balance aggregate for userID. Users with no
	// recorded activity get a zero-valued balance, not an error.
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)

	// RunInTx executes fn inside a single transaction. If fn returns an
	// error, or the commit fails, every mutation made through the Tx is
	// rolled back and no partial write is ever visible.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the mutation surface available inside a transaction scope. A Tx is
// only valid for the duration of the RunInTx callback that produced it.
type Tx interface {
	// CreateExpense persists a new expense. ID and Date are populated by
	// the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense. Returns ledger.ErrNotFound when it
	// does not exist and ledger.ErrHasSettlements when settlements have
	// been recorded against it.
	DeleteExpense(ctx context.Context, id string) error

	// AppendSettlement adds a settlement sub-record to an expense.
	// DatePaid is populated by the store when unset.
	AppendSettlement(ctx context.Context, expenseID string, settlement models.Settlement) error

	// GetBalanceForUpdate loads userID's balance for modification within
	// this transaction, creating a zero-valued one on first reference.
	GetBalanceForUpdate(ctx context.Context, userID string) (*models.Balance, error)

	// SaveBalance upserts a balance aggregate.
	SaveBalance(ctx context.Context, balance *models.Balance) error
}
