package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ThaiKG/personal-accounting-bot/internal/ledger"
	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// CreateExpense persists a new expense inside the transaction.
func (t *sqliteTx) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO expenses (id, paid_by, amount, description, date) VALUES (?, ?, ?, ?, ?)",
		expense.ID, expense.PaidBy, expense.Amount, expense.Description, expense.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, userID := range expense.Participants {
		_, err = t.tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id) VALUES (?, ?)",
			expense.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	return nil
}

// DeleteExpense removes an expense and its participant rows. Deletion is
// refused once settlements exist so payment history is never orphaned.
func (t *sqliteTx) DeleteExpense(ctx context.Context, id string) error {
	var settlementCount int
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM settlements WHERE expense_id = ?", id,
	).Scan(&settlementCount)
	if err != nil {
		return fmt.Errorf("failed to count settlements: %w", err)
	}
	if settlementCount > 0 {
		return ledger.ErrHasSettlements
	}

	res, err := t.tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// AppendSettlement adds one settlement sub-record to an expense, preserving
// insertion order via the seq column. The remaining share is re-read inside
// the transaction: a settlement committed after the caller planned its
// allocation cannot push a participant past their share, regardless of how
// the connection pool interleaves the plan and the commit.
func (t *sqliteTx) AppendSettlement(ctx context.Context, expenseID string, settlement models.Settlement) error {
	expense, err := getExpense(ctx, t.tx, expenseID)
	if err != nil {
		return err
	}
	if settlement.AmountPaid > expense.RemainingAmount(settlement.UserID)+ledger.CentTolerance {
		return ledger.ErrOverpayment
	}

	if settlement.DatePaid == 0 {
		settlement.DatePaid = time.Now().Unix()
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO settlements (expense_id, seq, user_id, amount_paid, date_paid)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM settlements WHERE expense_id = ?), ?, ?, ?)`,
		expenseID, expenseID, settlement.UserID, settlement.AmountPaid, settlement.DatePaid,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including participants and settlements.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return getExpense(ctx, s.db, id)
}

func getExpense(ctx context.Context, q querier, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := q.QueryRowContext(ctx,
		"SELECT id, paid_by, amount, description, date FROM expenses WHERE id = ?",
		id,
	).Scan(&expense.ID, &expense.PaidBy, &expense.Amount, &expense.Description, &expense.Date)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := loadExpenseDetails(ctx, q, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// FindByParticipant returns every expense in which userID shares the cost,
// oldest first.
func (s *SQLiteStore) FindByParticipant(ctx context.Context, userID string) ([]*models.Expense, error) {
	return queryExpenses(ctx, s.db,
		`SELECT e.id, e.paid_by, e.amount, e.description, e.date
		 FROM expenses e
		 JOIN expense_participants p ON p.expense_id = e.id
		 WHERE p.user_id = ?
		 ORDER BY e.date ASC, e.rowid ASC`,
		userID,
	)
}

// FindByUser returns every expense touching userID, as participant or payer,
// oldest first.
func (s *SQLiteStore) FindByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return queryExpenses(ctx, s.db,
		`SELECT e.id, e.paid_by, e.amount, e.description, e.date
		 FROM expenses e
		 WHERE e.paid_by = ?
		    OR EXISTS (SELECT 1 FROM expense_participants p
		               WHERE p.expense_id = e.id AND p.user_id = ?)
		 ORDER BY e.date ASC, e.rowid ASC`,
		userID, userID,
	)
}

// FindByPayer returns expenses paid by payerID, newest first.
func (s *SQLiteStore) FindByPayer(ctx context.Context, payerID string, limit int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	return queryExpenses(ctx, s.db,
		`SELECT id, paid_by, amount, description, date FROM expenses
		 WHERE paid_by = ?
		 ORDER BY date DESC, rowid DESC LIMIT ?`,
		payerID, limit,
	)
}

// ListExpenses returns expenses regardless of payer, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, limit int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = -1
	}
	return queryExpenses(ctx, s.db,
		`SELECT id, paid_by, amount, description, date FROM expenses
		 ORDER BY date DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// LatestExpenseByPayer returns payerID's most recent expense.
func (s *SQLiteStore) LatestExpenseByPayer(ctx context.Context, payerID string) (*models.Expense, error) {
	expenses, err := s.FindByPayer(ctx, payerID, 1)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses paid by %s", ledger.ErrNotFound, payerID)
	}
	return expenses[0], nil
}

// queryExpenses runs an expense query and hydrates participants and
// settlements for each row.
func queryExpenses(ctx context.Context, q querier, query string, args ...any) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.PaidBy, &expense.Amount, &expense.Description, &expense.Date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	// Release the cursor before the detail queries below reuse the
	// connection.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close expense rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := loadExpenseDetails(ctx, q, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadExpenseDetails fills in the participants and settlements of an expense.
func loadExpenseDetails(ctx context.Context, q querier, expense *models.Expense) error {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY rowid",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.Participants = append(expense.Participants, userID)
	}
	// Release the cursor before the settlements query reuses the connection.
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to close participant rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	settlementRows, err := q.QueryContext(ctx,
		"SELECT user_id, amount_paid, date_paid FROM settlements WHERE expense_id = ? ORDER BY seq",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get settlements: %w", err)
	}
	defer settlementRows.Close()

	for settlementRows.Next() {
		var settlement models.Settlement
		if err := settlementRows.Scan(&settlement.UserID, &settlement.AmountPaid, &settlement.DatePaid); err != nil {
			return fmt.Errorf("failed to scan settlement: %w", err)
		}
		expense.Settlements = append(expense.Settlements, settlement)
	}
	if err := settlementRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return nil
}
