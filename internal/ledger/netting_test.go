package ledger

import (
	"math"
	"testing"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
)

func TestNetBalanceAsPayer(t *testing.T) {
	// A paid 30 split three ways: B and C each owe A 10.
	expenses := []*models.Expense{
		expense("e1", "A", 30.0, 100, "A", "B", "C"),
	}

	report := NetBalance("A", expenses)
	if math.Abs(report.Net-20.0) > 0.01 {
		t.Errorf("net = %v, want 20.0", report.Net)
	}
	if got := report.PerCounterparty["B"]; math.Abs(got-10.0) > 0.01 {
		t.Errorf("B owes = %v, want 10.0", got)
	}
	if got := report.PerCounterparty["C"]; math.Abs(got-10.0) > 0.01 {
		t.Errorf("C owes = %v, want 10.0", got)
	}
}

func TestNetBalanceAsDebtor(t *testing.T) {
	expenses := []*models.Expense{
		expense("e1", "A", 30.0, 100, "A", "B", "C"),
	}

	report := NetBalance("B", expenses)
	if math.Abs(report.Net-(-10.0)) > 0.01 {
		t.Errorf("net = %v, want -10.0", report.Net)
	}
	if got := report.PerCounterparty["A"]; math.Abs(got-(-10.0)) > 0.01 {
		t.Errorf("debt to A = %v, want -10.0", got)
	}
}

func TestNetBalanceReflectsSettlements(t *testing.T) {
	e := expense("e1", "A", 30.0, 100, "A", "B", "C")
	e.Settlements = []models.Settlement{{UserID: "B", AmountPaid: 10.0}}

	report := NetBalance("A", []*models.Expense{e})
	if _, ok := report.PerCounterparty["B"]; ok {
		t.Error("B settled in full but still appears in the report")
	}
	if math.Abs(report.Net-10.0) > 0.01 {
		t.Errorf("net = %v, want 10.0 (only C outstanding)", report.Net)
	}
}

func TestNetBalanceOffsettingDebts(t *testing.T) {
	// A owes B 10, B owes A 10: opposite positions on separate expenses.
	expenses := []*models.Expense{
		expense("e1", "A", 10.0, 100, "B"),
		expense("e2", "B", 10.0, 200, "A"),
	}

	report := NetBalance("A", expenses)
	if report.Net != 0 {
		t.Errorf("net = %v, want exactly 0", report.Net)
	}
	if len(report.PerCounterparty) != 0 {
		t.Errorf("per-counterparty = %v, want empty after offsetting", report.PerCounterparty)
	}
}

func TestNetBalanceDirectDebtCreditor(t *testing.T) {
	// The creditor of a direct debt is payer but not participant; their
	// report must still show the credit.
	expenses := []*models.Expense{
		expense("e1", "A", 15.0, 100, "B"),
	}

	report := NetBalance("A", expenses)
	if math.Abs(report.Net-15.0) > 0.01 {
		t.Errorf("creditor net = %v, want 15.0", report.Net)
	}

	report = NetBalance("B", expenses)
	if math.Abs(report.Net-(-15.0)) > 0.01 {
		t.Errorf("debtor net = %v, want -15.0", report.Net)
	}
}

func TestNetBalanceEmpty(t *testing.T) {
	report := NetBalance("A", nil)
	if report.Net != 0 || len(report.PerCounterparty) != 0 {
		t.Errorf("got %+v, want empty report", report)
	}
}
