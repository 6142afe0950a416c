package ledger

import "errors"

// Typed failures returned across the core boundary. Callers match with
// errors.Is; the interaction layer owns user-facing presentation.
var (
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidParticipants is returned for an empty participant set or a
	// self-referential debt/settlement.
	ErrInvalidParticipants = errors.New("invalid participants")

	// ErrNotFound is returned when the referenced expense does not exist.
	ErrNotFound = errors.New("expense not found")

	// ErrHasSettlements blocks deletion of an expense with recorded
	// settlements: deleting would orphan payment history with no
	// reversal path.
	ErrHasSettlements = errors.New("expense has settlements")

	// ErrOverpayment is returned when a settlement amount exceeds the
	// total outstanding debt. Partial allocation is never silently
	// truncated.
	ErrOverpayment = errors.New("payment exceeds outstanding debt")

	// ErrNoOutstandingDebt is returned when there is nothing to settle.
	ErrNoOutstandingDebt = errors.New("no outstanding debt")

	// ErrTransactionAborted wraps an underlying storage or commit failure.
	// The pre-operation state is fully restored.
	ErrTransactionAborted = errors.New("transaction aborted")
)

// IsDomainError reports whether err matches one of the typed failures above.
// Storage layers use it to tell domain rejections apart from infrastructure
// failures that still need wrapping.
func IsDomainError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidAmount,
		ErrInvalidParticipants,
		ErrNotFound,
		ErrHasSettlements,
		ErrOverpayment,
		ErrNoOutstandingDebt,
		ErrTransactionAborted,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
