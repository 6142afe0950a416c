package models

import (
	"math"
	"testing"
)

func TestShare(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []string
		want         float64
	}{
		{"three-way split", 30.0, []string{"A", "B", "C"}, 10.0},
		{"uneven split", 10.0, []string{"A", "B", "C"}, 10.0 / 3},
		{"direct debt single participant", 15.0, []string{"B"}, 15.0},
		{"no participants", 15.0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Expense{Amount: tt.amount, Participants: tt.participants}
			if got := e.Share(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Share() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemainingAmount(t *testing.T) {
	e := &Expense{
		PaidBy:       "A",
		Amount:       30.0,
		Participants: []string{"A", "B", "C"},
	}

	if got := e.RemainingAmount("B"); got != 10.0 {
		t.Errorf("remaining before settlements = %v, want 10.0", got)
	}

	// Remaining decreases monotonically as settlements accumulate.
	e.Settlements = append(e.Settlements, Settlement{UserID: "B", AmountPaid: 4.0})
	if got := e.RemainingAmount("B"); got != 6.0 {
		t.Errorf("remaining after partial payment = %v, want 6.0", got)
	}

	e.Settlements = append(e.Settlements, Settlement{UserID: "B", AmountPaid: 6.0})
	if got := e.RemainingAmount("B"); got != 0 {
		t.Errorf("remaining after full payment = %v, want 0", got)
	}

	// Floors at zero rather than going negative.
	e.Settlements = append(e.Settlements, Settlement{UserID: "B", AmountPaid: 1.0})
	if got := e.RemainingAmount("B"); got != 0 {
		t.Errorf("remaining after overshoot = %v, want 0", got)
	}

	// C's settlements never affected B's remaining.
	if got := e.RemainingAmount("C"); got != 10.0 {
		t.Errorf("C remaining = %v, want 10.0", got)
	}
}

func TestRemainingAmountTolerance(t *testing.T) {
	// A sub-cent residue counts as settled.
	e := &Expense{
		PaidBy:       "A",
		Amount:       10.0,
		Participants: []string{"A", "B", "C"},
		Settlements:  []Settlement{{UserID: "B", AmountPaid: 3.33}},
	}
	if got := e.RemainingAmount("B"); got != 0 {
		t.Errorf("remaining = %v, want 0 (sub-cent residue)", got)
	}
}

func TestIsFullySettled(t *testing.T) {
	e := &Expense{
		PaidBy:       "A",
		Amount:       30.0,
		Participants: []string{"A", "B", "C"},
	}

	if e.IsFullySettled() {
		t.Error("expected unsettled with no settlements")
	}

	e.Settlements = append(e.Settlements, Settlement{UserID: "B", AmountPaid: 10.0})
	if e.IsFullySettled() {
		t.Error("expected unsettled while C still owes")
	}

	e.Settlements = append(e.Settlements, Settlement{UserID: "C", AmountPaid: 10.0})
	if !e.IsFullySettled() {
		t.Error("expected fully settled once B and C paid; payer's own share does not count")
	}
}

func TestIsFullySettledDirectDebt(t *testing.T) {
	e := &Expense{
		PaidBy:       "A",
		Amount:       15.0,
		Participants: []string{"B"},
	}
	if e.IsFullySettled() {
		t.Error("expected unsettled direct debt")
	}
	e.Settlements = []Settlement{{UserID: "B", AmountPaid: 15.0}}
	if !e.IsFullySettled() {
		t.Error("expected settled direct debt after full payment")
	}
}
