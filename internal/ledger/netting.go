package ledger

import (
	"math"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

// NetReport is the net-of-settlement view of one user's position: what is
// actually still owed after settlements, as opposed to the gross exposure
// the Balance aggregate tracks.
type NetReport struct {
	// PerCounterparty maps each other user to a signed amount: positive
	// means they owe this user, negative means this user owes them.
	PerCounterparty map[string]float64

	// Net is the sum of all counterparty amounts.
	Net float64
}

// NetBalance walks every expense touching userID and nets the remaining
// amounts per counterparty. Expenses where userID is the payer contribute
// what each other participant still owes; expenses paid by someone else
// contribute userID's own remaining share as a debt to the payer.
//
// The input deliberately covers expenses where userID is only the payer,
// not a participant: a direct debt records its creditor as payer with the
// debtor as sole participant, so a participant-only scan would hide the
// credit from the creditor's own report.
func NetBalance(userID string, expenses []*models.Expense) *NetReport {
	debts := make(map[string]float64)

	for _, e := range expenses {
		if e.PaidBy == userID {
			for _, p := range e.Participants {
				if p == userID {
					continue
				}
				if remaining := e.RemainingAmount(p); remaining > 0 {
					debts[p] += remaining
				}
			}
			continue
		}
		if !e.HasParticipant(userID) {
			continue
		}
		if remaining := e.RemainingAmount(userID); remaining > 0 {
			debts[e.PaidBy] -= remaining
		}
	}

	report := &NetReport{PerCounterparty: make(map[string]float64, len(debts))}
	for counterparty, amount := range debts {
		if isZero(amount) {
			continue
		}
		amount = RoundToCents(amount)
		report.PerCounterparty[counterparty] = amount
		report.Net += amount
	}

	// Suppress negative-zero artifacts.
	if math.Abs(report.Net) < CentTolerance {
		report.Net = 0
	} else {
		report.Net = RoundToCents(report.Net)
	}
	return report
}
