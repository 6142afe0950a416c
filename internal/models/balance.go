package models

// Balance is the denormalized running-totals record for one user. It is a
// materialized aggregate over the expense log: gross exposure, ignoring
// settlements. The service layer is its only writer.
type Balance struct {
	// UserID is the user this balance belongs to. Unique.
	UserID string

	// TotalPaid is the cumulative amount this user has advanced as payer.
	TotalPaid float64

	// TotalOwed is the cumulative amount this user is responsible for as a
	// participant, regardless of settlement status.
	TotalOwed float64

	// NetBalance is always TotalPaid - TotalOwed, recomputed on every
	// mutation via Recompute.
	NetBalance float64

	// LastUpdated is the Unix timestamp of the last mutation.
	LastUpdated int64
}

// Recompute refreshes the derived NetBalance and stamps LastUpdated.
func (b *Balance) Recompute(now int64) {
	b.NetBalance = b.TotalPaid - b.TotalOwed
	b.LastUpdated = now
}
