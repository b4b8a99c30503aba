package ir

import "sync"

// cfgMemo is single-writer/multi-reader memoisation for a per-function
// derived view. It is backed by sync.Once, so the computation runs once
// and concurrent callers wait for and share its result (see computeOnce).
type cfgMemo struct {
	once  sync.Once
	value any
	err   error
}

// computeOnce runs fn exactly once (the first caller to reach it "wins";
// any concurrent caller blocks until that result is ready and all callers
// observe the same value). Per the design note this is allowed to differ
// from "exactly once ever" under a racing writer; sync.Once already gives
// us the stronger guarantee at negligible cost, so we keep it.
func (m *cfgMemo) computeOnce(fn func() (any, error)) (any, error) {
	m.once.Do(func() {
		m.value, m.err = fn()
	})
	return m.value, m.err
}
