// Package costs tracks estimated API spend for a pipeline run against a
// budget ceiling. The ledger is pure bookkeeping: it makes no external calls
// and is mutated only by the orchestrator.
package costs

import (
	"time"

	"github.com/asapstudio/video-workflow/internal/types"
)

// Policy controls charging behavior for non-successful jobs.
type Policy struct {
	// ChargeFailed charges failed jobs their full estimated cost. Partial
	// remote compute may still be billed by the provider, so this defaults
	// to true in DefaultPolicy.
	ChargeFailed bool
}

// DefaultPolicy returns the default cost policy
func DefaultPolicy() Policy {
	return Policy{ChargeFailed: true}
}

// Ledger records per-job cost entries against a budget ceiling.
// A zero budget means unlimited. The invariant Total() == sum of all entry
// amounts holds at every observation point.
type Ledger struct {
	budget     float64
	entries    []types.CostEntry
	total      float64
	overridden bool
}

// NewLedger creates a ledger with the given budget ceiling (0 = unlimited)
func NewLedger(budget float64) *Ledger {
	return &Ledger{budget: budget}
}

// Charge records a cost entry. Charges are never refunded, including for
// scenes whose artifacts are later discarded by a retry decision.
func (l *Ledger) Charge(scene int, amount float64, note string) {
	l.entries = append(l.entries, types.CostEntry{
		Scene:  scene,
		Amount: amount,
		Note:   note,
		At:     time.Now(),
	})
	l.total += amount
}

// Total returns the cumulative recorded spend
func (l *Ledger) Total() float64 {
	return l.total
}

// Budget returns the budget ceiling (0 = unlimited)
func (l *Ledger) Budget() float64 {
	return l.budget
}

// Entries returns a copy of all recorded entries in charge order
func (l *Ledger) Entries() []types.CostEntry {
	out := make([]types.CostEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SceneCost returns the total recorded for a scene index
func (l *Ledger) SceneCost(scene int) float64 {
	var sum float64
	for _, e := range l.entries {
		if e.Scene == scene {
			sum += e.Amount
		}
	}
	return sum
}

// WouldExceed reports whether charging next would push the total past the
// budget ceiling. Always false when the budget is unlimited or the ceiling
// has been explicitly overridden.
func (l *Ledger) WouldExceed(next float64) bool {
	if l.budget <= 0 || l.overridden {
		return false
	}
	return l.total+next > l.budget
}

// Override lifts the budget ceiling for the remainder of the run. This is
// the explicit decision required before spending past the ceiling.
func (l *Ledger) Override() {
	l.overridden = true
}

// Overridden reports whether the ceiling has been lifted
func (l *Ledger) Overridden() bool {
	return l.overridden
}
