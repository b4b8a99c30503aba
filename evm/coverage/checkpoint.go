package coverage

// Aggregator is the stateful, long-lived coverage accumulator a server
// process keeps across many transactions: the current Report plus a
// checkpoint history keyed by block height, so a chain reorg can
// invalidate counts beyond the fork point without re-deriving the whole
// history (spec.md §4.9: "simple monotone discard").
type Aggregator struct {
	current     *Report
	checkpoints []checkpoint
}

type checkpoint struct {
	height uint64
	report *Report
}

// NewAggregator returns an Aggregator with an empty current Report.
func NewAggregator() *Aggregator {
	return &Aggregator{current: NewReport()}
}

// Report returns the current accumulated Report.
func (a *Aggregator) Report() *Report { return a.current }

// Absorb merges delta into the current Report (commutative pointwise
// addition, Testable Property 7).
func (a *Aggregator) Absorb(delta *Report) {
	a.current = Merge(a.current, delta)
}

// Checkpoint snapshots the current Report at height. Checkpoints must
// be recorded in non-decreasing height order; a checkpoint at or before
// an existing one overwrites it.
func (a *Aggregator) Checkpoint(height uint64) {
	snap := a.current.Clone()
	if n := len(a.checkpoints); n > 0 && a.checkpoints[n-1].height >= height {
		a.checkpoints[n-1] = checkpoint{height: height, report: snap}
		return
	}
	a.checkpoints = append(a.checkpoints, checkpoint{height: height, report: snap})
}

// ResetTo discards every counted instruction beyond height, restoring
// the current Report to the latest checkpoint at or before height. If
// no such checkpoint exists, the Aggregator resets to empty — the
// engine is expected to re-scan from genesis in that case.
func (a *Aggregator) ResetTo(height uint64) {
	for i := len(a.checkpoints) - 1; i >= 0; i-- {
		if a.checkpoints[i].height <= height {
			a.current = a.checkpoints[i].report.Clone()
			a.checkpoints = a.checkpoints[:i+1]
			return
		}
	}
	a.current = NewReport()
	a.checkpoints = nil
}
