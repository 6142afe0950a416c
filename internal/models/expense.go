package models

import "math"

// Expense represents one logical charge: who paid, how much, and who shares it.
// Expenses are immutable once created except for the Settlements list, which is
// append-only.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// PaidBy is the user who advanced the funds.
	PaidBy string

	// Amount is the total cost. Always positive.
	Amount float64

	// Description is optional free text explaining the charge.
	Description string

	// Participants is the non-empty set of users who share the cost.
	// For a split expense the payer is included; for a direct debt the
	// single participant is the debtor and the payer is excluded, which
	// makes the debtor's share equal to the full amount.
	Participants []string

	// Date is the Unix timestamp when the expense was created.
	Date int64

	// Settlements are partial payments applied toward this expense,
	// in insertion order.
	Settlements []Settlement
}

// Settlement records one payment by one participant toward their share
// of an expense.
type Settlement struct {
	// UserID is the participant who made the payment.
	UserID string

	// AmountPaid is the amount applied toward this expense. Always positive.
	AmountPaid float64

	// DatePaid is the Unix timestamp when the payment was recorded.
	DatePaid int64
}

// Share returns the per-participant share: Amount / |Participants|.
// It is always computed fresh from the stored fields, never cached.
func (e *Expense) Share() float64 {
	if len(e.Participants) == 0 {
		return 0
	}
	return e.Amount / float64(len(e.Participants))
}

// SettledAmount returns the total amount userID has paid toward this expense.
func (e *Expense) SettledAmount(userID string) float64 {
	var total float64
	for _, s := range e.Settlements {
		if s.UserID == userID {
			total += s.AmountPaid
		}
	}
	return total
}

// RemainingAmount returns what userID still owes on this expense: their share
// minus their settlements, rounded to cents and floored at zero. Amounts under
// one cent count as settled.
func (e *Expense) RemainingAmount(userID string) float64 {
	remaining := roundToCents(e.Share() - e.SettledAmount(userID))
	if remaining < 0.01 {
		return 0
	}
	return remaining
}

// IsFullySettled reports whether every participant other than the payer has
// paid off their share.
func (e *Expense) IsFullySettled() bool {
	for _, p := range e.Participants {
		if p == e.PaidBy {
			continue
		}
		if e.RemainingAmount(p) > 0 {
			return false
		}
	}
	return true
}

// HasParticipant reports whether userID shares in this expense.
func (e *Expense) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// roundToCents rounds to two decimal places. Kept local so the model has no
// dependency on the ledger package.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
