package project

import "time"

// Transition describes the outcome of a status recomputation.
type Transition struct {
	From Status
	To   Status
	// SyncLedger is set when the project landed on the active branch and its
	// sale entry must be created or re-dated.
	SyncLedger bool
}

// Changed reports whether the status moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Recompute derives status and lifecycle dates from the current paid and
// contract amounts:
//
//	0 < paid < contract            -> active   (start date kept or set, finish cleared)
//	contract != 0, paid >= contract -> finished (paid clamped, finish = today)
//	otherwise                       -> quoted   (both dates cleared)
//
// Archived projects are left untouched. A project with a zero contract and a
// positive payment lands on quoted while keeping its payment.
func Recompute(p Project, today time.Time) (Project, Transition) {
	out := p.Clone()
	tr := Transition{From: p.Status, To: p.Status}
	if p.Status == StatusArchived {
		return out, tr
	}

	day := Day(today)
	paid, contract := out.Paid, out.ContractAmount

	switch {
	case paid.IsPositive() && paid.LessThan(contract):
		out.Status = StatusActive
		out.DateFinished = nil
		if out.DateStarted == nil {
			out.DateStarted = &day
		}
		tr.SyncLedger = true
	case !contract.IsZero() && paid.GreaterThanOrEqual(contract):
		out.Status = StatusFinished
		finished := day
		out.DateFinished = &finished
		out.Paid = contract
		if out.DateStarted == nil {
			started := day
			out.DateStarted = &started
		}
	default:
		out.Status = StatusQuoted
		out.DateStarted = nil
		out.DateFinished = nil
	}

	tr.To = out.Status
	return out, tr
}

// Edit sanitizes raw for field, applies it and recomputes the lifecycle.
func Edit(p Project, field Field, raw string, today time.Time) (Project, Transition) {
	return Recompute(p.With(field, Sanitize(field, raw)), today)
}
