package ledger

import (
	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// NewSplitExpense builds an expense shared across participants. The payer is
// auto-included in the participant set, so their own share counts toward
// their gross exposure. Duplicate participants are dropped.
func NewSplitExpense(paidBy string, amount float64, participants []string, description string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	seen := make(map[string]bool, len(participants)+1)
	deduped := make([]string, 0, len(participants)+1)
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}
	if !seen[paidBy] {
		deduped = append(deduped, paidBy)
	}
	if paidBy == "" || len(deduped) == 0 {
		return nil, ErrInvalidParticipants
	}

	return &models.Expense{
		PaidBy:       paidBy,
		Amount:       amount,
		Description:  description,
		Participants: deduped,
	}, nil
}

// NewDirectDebt builds an unsplit obligation: fromUser owes toUser the full
// amount. Encoded as an expense where the creditor is the payer and the
// debtor is the only participant, so the debtor's share equals the total and
// the settlement and balance machinery applies unchanged.
func NewDirectDebt(fromUser, toUser string, amount float64, description string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUser == "" || toUser == "" || fromUser == toUser {
		return nil, ErrInvalidParticipants
	}

	return &models.Expense{
		PaidBy:       toUser,
		Amount:       amount,
		Description:  description,
		Participants: []string{fromUser},
	}, nil
}
