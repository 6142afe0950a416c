// Package ledger holds the pure computations of the expense ledger:
// expense construction policy, settlement allocation and balance netting.
// Nothing here touches storage; everything is deterministic from its inputs.
package ledger

import (
	"sort"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// Allocation is one slice of a payment applied toward one expense.
type Allocation struct {
	ExpenseID string  `json:"expense_id"`
	Amount    float64 `json:"amount"`
}

// Allocate decides how a payment from fromUser to toUser spreads across the
// outstanding expenses between them, oldest expense first (FIFO). Each
// expense absorbs min(remaining owed, remaining payment) until the payment
// is exhausted.
//
// Only expenses where toUser is the payer and fromUser is a participant with
// a positive remaining amount are considered. The payment is rejected up
// front when it exceeds the total outstanding: partial allocation is never
// silently truncated.
func Allocate(fromUser, toUser string, amount float64, expenses []*models.Expense) ([]Allocation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUser == toUser {
		return nil, ErrInvalidParticipants
	}

	outstanding := Outstanding(fromUser, toUser, expenses)
	if len(outstanding) == 0 {
		return nil, ErrNoOutstandingDebt
	}

	var totalOwed float64
	for _, e := range outstanding {
		totalOwed += e.RemainingAmount(fromUser)
	}
	totalOwed = RoundToCents(totalOwed)
	if amount > totalOwed+CentTolerance {
		return nil, ErrOverpayment
	}

	// Oldest first. Insertion order breaks timestamp ties.
	sort.SliceStable(outstanding, func(i, j int) bool {
		return outstanding[i].Date < outstanding[j].Date
	})

	var allocations []Allocation
	remaining := amount
	for _, e := range outstanding {
		if isZero(remaining) {
			break
		}
		owed := e.RemainingAmount(fromUser)
		applied := owed
		if remaining < applied {
			applied = remaining
		}
		applied = RoundToCents(applied)
		allocations = append(allocations, Allocation{ExpenseID: e.ID, Amount: applied})
		remaining = RoundToCents(remaining - applied)
	}

	return allocations, nil
}

// Outstanding filters expenses to those where toUser paid, fromUser shares
// the cost, and fromUser still owes something.
func Outstanding(fromUser, toUser string, expenses []*models.Expense) []*models.Expense {
	var out []*models.Expense
	for _, e := range expenses {
		if e.PaidBy != toUser || !e.HasParticipant(fromUser) {
			continue
		}
		if e.RemainingAmount(fromUser) > 0 {
			out = append(out, e)
		}
	}
	return out
}
