package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThaiKG/personal-accounting-bot/internal/ledger"
	"github.com/ThaiKG/personal-accounting-bot/internal/metrics"
	"github.com/ThaiKG/personal-accounting-bot/internal/models"
	"github.com/ThaiKG/personal-accounting-bot/internal/storage"
)

// LedgerService coordinates ledger operations. Each mutating operation runs
// as one transaction: the expense log mutation and every affected balance
// aggregate commit together or not at all. Validation happens before the
// transaction opens, so validation failures never touch durable state.
//
// The service is the sole writer of balance aggregates.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// AddExpenseResult reports a created split expense.
type AddExpenseResult struct {
	ExpenseID    string   `json:"expense_id"`
	Share        float64  `json:"share"`
	Participants []string `json:"participants"`
}

// AddExpense records a cost advanced by paidBy and shared across
// participants. The payer is auto-included in the participant set. Every
// participant's gross exposure grows by one share; the payer's total paid
// grows by the full amount.
func (s *LedgerService) AddExpense(ctx context.Context, paidBy string, amount float64, participants []string, description string) (result *AddExpenseResult, err error) {
	defer func() { metrics.RecordOperation("add_expense", err) }()

	expense, err := ledger.NewSplitExpense(paidBy, amount, participants, description)
	if err != nil {
		return nil, err
	}
	share := expense.Share()

	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		now := time.Now().Unix()
		for _, userID := range expense.Participants {
			balance, err := tx.GetBalanceForUpdate(ctx, userID)
			if err != nil {
				return err
			}
			balance.TotalOwed += share
			if userID == expense.PaidBy {
				balance.TotalPaid += expense.Amount
			}
			balance.Recompute(now)
			if err := tx.SaveBalance(ctx, balance); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("AddExpense failed", "paid_by", paidBy, "amount", amount, "error", err)
		return nil, err
	}

	return &AddExpenseResult{
		ExpenseID:    expense.ID,
		Share:        share,
		Participants: expense.Participants,
	}, nil
}

// AddDirectDebtResult reports a created direct debt.
type AddDirectDebtResult struct {
	ExpenseID string `json:"expense_id"`
}

// AddDirectDebt records that fromUser owes toUser the full amount, with no
// splitting. The creditor's total paid and the debtor's total owed both grow
// by the amount.
func (s *LedgerService) AddDirectDebt(ctx context.Context, fromUser, toUser string, amount float64, description string) (result *AddDirectDebtResult, err error) {
	defer func() { metrics.RecordOperation("add_direct_debt", err) }()

	expense, err := ledger.NewDirectDebt(fromUser, toUser, amount, description)
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		now := time.Now().Unix()

		debtor, err := tx.GetBalanceForUpdate(ctx, fromUser)
		if err != nil {
			return err
		}
		debtor.TotalOwed += amount
		debtor.Recompute(now)
		if err := tx.SaveBalance(ctx, debtor); err != nil {
			return err
		}

		creditor, err := tx.GetBalanceForUpdate(ctx, toUser)
		if err != nil {
			return err
		}
		creditor.TotalPaid += amount
		creditor.Recompute(now)
		return tx.SaveBalance(ctx, creditor)
	})
	if err != nil {
		slog.Error("AddDirectDebt failed", "from", fromUser, "to", toUser, "amount", amount, "error", err)
		return nil, err
	}

	return &AddDirectDebtResult{ExpenseID: expense.ID}, nil
}

// DeleteExpenseResult reports a deleted expense.
type DeleteExpenseResult struct {
	Expense *models.Expense
}

// DeleteExpense removes an expense and reverses the exact balance increments
// applied at creation, restoring every touched balance to its prior value.
// Expenses with recorded settlements cannot be deleted.
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) (result *DeleteExpenseResult, err error) {
	defer func() { metrics.RecordOperation("delete_expense", err) }()

	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(expense.Settlements) > 0 {
		return nil, ledger.ErrHasSettlements
	}
	share := expense.Share()

	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		now := time.Now().Unix()
		for _, userID := range expense.Participants {
			balance, err := tx.GetBalanceForUpdate(ctx, userID)
			if err != nil {
				return err
			}
			balance.TotalOwed -= share
			if userID == expense.PaidBy {
				balance.TotalPaid -= expense.Amount
			}
			balance.Recompute(now)
			if err := tx.SaveBalance(ctx, balance); err != nil {
				return err
			}
		}

		// A direct debt excludes the payer from the participants, so their
		// total paid is reversed separately.
		if !expense.HasParticipant(expense.PaidBy) {
			creditor, err := tx.GetBalanceForUpdate(ctx, expense.PaidBy)
			if err != nil {
				return err
			}
			creditor.TotalPaid -= expense.Amount
			creditor.Recompute(now)
			if err := tx.SaveBalance(ctx, creditor); err != nil {
				return err
			}
		}

		// The settlement guard runs again inside the transaction in case a
		// settlement landed between the read above and this point.
		return tx.DeleteExpense(ctx, expense.ID)
	})
	if err != nil {
		slog.Error("DeleteExpense failed", "expense_id", id, "error", err)
		return nil, err
	}

	return &DeleteExpenseResult{Expense: expense}, nil
}

// DeleteLatestExpense removes payerID's most recent expense. This mirrors
// the usual interactive flow of undoing the expense you just entered.
func (s *LedgerService) DeleteLatestExpense(ctx context.Context, payerID string) (*DeleteExpenseResult, error) {
	expense, err := s.store.LatestExpenseByPayer(ctx, payerID)
	if err != nil {
		metrics.RecordOperation("delete_expense", err)
		return nil, err
	}
	return s.DeleteExpense(ctx, expense.ID)
}

// SettleResult reports how a payment spread across outstanding expenses.
type SettleResult struct {
	// Allocations lists the amount applied to each expense, oldest first.
	Allocations []ledger.Allocation `json:"allocations"`

	// AmountPaid is the total applied.
	AmountPaid float64 `json:"amount_paid"`

	// RemainingDebt is what fromUser still owes toUser afterwards.
	RemainingDebt float64 `json:"remaining_debt"`
}

// Settle applies a payment from fromUser to toUser across their outstanding
// expenses, oldest first. The payment is rejected when it exceeds the total
// outstanding. Settlements do not touch the balance aggregates: those track
// gross obligation history, while net-of-settlement truth is computed on
// read by GetBalance.
func (s *LedgerService) Settle(ctx context.Context, fromUser, toUser string, amount float64) (result *SettleResult, err error) {
	defer func() { metrics.RecordOperation("settle", err) }()

	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if fromUser == toUser {
		return nil, ledger.ErrInvalidParticipants
	}

	expenses, err := s.store.FindByParticipant(ctx, fromUser)
	if err != nil {
		return nil, err
	}

	allocations, err := ledger.Allocate(fromUser, toUser, amount, expenses)
	if err != nil {
		return nil, err
	}

	var totalOwed float64
	for _, e := range ledger.Outstanding(fromUser, toUser, expenses) {
		totalOwed += e.RemainingAmount(fromUser)
	}

	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		now := time.Now().Unix()
		for _, allocation := range allocations {
			settlement := models.Settlement{
				UserID:     fromUser,
				AmountPaid: allocation.Amount,
				DatePaid:   now,
			}
			if err := tx.AppendSettlement(ctx, allocation.ExpenseID, settlement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Settle failed", "from", fromUser, "to", toUser, "amount", amount, "error", err)
		return nil, err
	}

	remaining := ledger.RoundToCents(totalOwed - amount)
	if remaining < 0.01 {
		remaining = 0
	}
	return &SettleResult{
		Allocations:   allocations,
		AmountPaid:    amount,
		RemainingDebt: remaining,
	}, nil
}

// GetBalance reports the net-of-settlement position of userID: what is
// actually still owed per counterparty. A user with no expenses gets an
// empty report.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (report *ledger.NetReport, err error) {
	defer func() { metrics.RecordOperation("get_balance", err) }()

	expenses, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.NetBalance(userID, expenses), nil
}

// HistoryFilter narrows a ListHistory query.
type HistoryFilter struct {
	// PayerID keeps only expenses paid by this user when non-empty.
	PayerID string

	// Settled keeps only fully settled (true) or unsettled (false)
	// expenses when set.
	Settled *bool

	// Limit caps the number of expenses; clamped to 1..50, default 10.
	Limit int
}

// ListHistory returns expenses newest first, filtered per f.
func (s *LedgerService) ListHistory(ctx context.Context, f HistoryFilter) (expenses []*models.Expense, err error) {
	defer func() { metrics.RecordOperation("list_history", err) }()

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	if f.PayerID != "" {
		expenses, err = s.store.FindByPayer(ctx, f.PayerID, limit)
	} else {
		expenses, err = s.store.ListExpenses(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	if f.Settled == nil {
		return expenses, nil
	}
	filtered := expenses[:0]
	for _, expense := range expenses {
		if expense.IsFullySettled() == *f.Settled {
			filtered = append(filtered, expense)
		}
	}
	return filtered, nil
}
