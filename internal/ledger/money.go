package ledger

import "math"

// CentTolerance absorbs floating point accumulation: anything under one cent
// counts as settled. Applied uniformly across allocation, reporting and the
// storage-level settlement cap.
const CentTolerance = 0.01

// RoundToCents rounds an amount to two decimal places.
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// isZero reports whether an amount is zero within the cent tolerance.
func isZero(amount float64) bool {
	return math.Abs(amount) < CentTolerance
}
