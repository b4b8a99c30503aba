// Package engine holds the handful of types shared by every analysis
// component (ir, evm/trace, evm/coverage, …) so none of them need to
// import one another just to check a cancellation token.
package engine

import (
	"context"
	"errors"
)

// ErrCancelled is returned by evm/trace.Interpret when its context is
// cancelled between trace entries. It is the only walk that checks a
// context: cfg.Build and the evm/coverage rollups take no context and
// run to completion.
var ErrCancelled = errors.New("engine: cancelled")

// CheckCancelled returns ErrCancelled if ctx is done, nil otherwise. Call
// it between one IR node, one trace entry, or one PC of work — never
// inside a tighter loop than that, or cancellation latency dominates the
// walk itself.
func CheckCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}
