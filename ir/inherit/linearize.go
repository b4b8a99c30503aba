// Package inherit implements the Inheritance & Selector Index (C4): C3
// linearisation of a contract's base list, and the global function/event/
// error selector tables.
package inherit

import (
	"errors"
	"fmt"

	"solidity-ir/ir"
	"solidity-ir/ir/resolve"
)

// ErrLinearizationImpossible is returned when a contract's base list has
// no valid C3 merge order.
var ErrLinearizationImpossible = errors.New("inherit: linearization impossible")

// LinearizationImpossibleError names the offending contract.
type LinearizationImpossibleError struct {
	Contract string
}

func (e *LinearizationImpossibleError) Error() string {
	return fmt.Sprintf("linearization impossible for contract %s", e.Contract)
}

func (e *LinearizationImpossibleError) Unwrap() error { return ErrLinearizationImpossible }

// Linearize computes C's linearized_base_contracts using C3 linearisation
// (merge with head preservation) over the declared base_contracts list,
// memoising the result on C itself (single-writer; a racing recomputation
// discards its own result, per the lazy-memoisation design note).
//
// The merge input preserves declaration order: `contract D is B, C` merges
// L(B), L(C), [B, C] — so B (listed first) takes precedence over C
// whenever both are valid heads, exactly as Python's own C(B, C) MRO
// does.
func Linearize(c *ir.ContractDefinition, r *resolve.Resolver) ([]*ir.ContractDefinition, error) {
	if existing := c.Linearization(); existing != nil {
		return existing, nil
	}

	lists := make([][]*ir.ContractDefinition, 0, len(c.BaseContracts)+1)
	directBases := make([]*ir.ContractDefinition, 0, len(c.BaseContracts))
	for i := 0; i < len(c.BaseContracts); i++ {
		spec := c.BaseContracts[i]
		node, err := r.Resolve(spec.BaseName)
		if err != nil {
			return nil, err
		}
		bc, ok := node.(*ir.ContractDefinition)
		if !ok {
			return nil, &LinearizationImpossibleError{Contract: c.CanonicalName}
		}
		baseLine, err := Linearize(bc, r)
		if err != nil {
			return nil, err
		}
		lists = append(lists, baseLine)
		directBases = append(directBases, bc)
	}
	lists = append(lists, directBases)

	merged, ok := mergeC3(lists)
	if !ok {
		return nil, &LinearizationImpossibleError{Contract: c.CanonicalName}
	}

	result := append([]*ir.ContractDefinition{c}, merged...)
	c.SetLinearization(result)
	return result, nil
}

// mergeC3 implements the standard C3 merge-with-head-preservation
// algorithm over a set of already-linearized parent lists plus the local
// precedence list.
func mergeC3(lists [][]*ir.ContractDefinition) ([]*ir.ContractDefinition, bool) {
	// Work on copies so callers' slices are untouched.
	queues := make([][]*ir.ContractDefinition, 0, len(lists))
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		cp := make([]*ir.ContractDefinition, len(l))
		copy(cp, l)
		queues = append(queues, cp)
	}

	var result []*ir.ContractDefinition
	for len(queues) > 0 {
		var head *ir.ContractDefinition
		for _, q := range queues {
			candidate := q[0]
			if !appearsInTail(queues, candidate) {
				head = candidate
				break
			}
		}
		if head == nil {
			return nil, false // no valid head — conflicting order
		}
		result = append(result, head)

		next := queues[:0]
		for _, q := range queues {
			if q[0] == head {
				q = q[1:]
			}
			if len(q) > 0 {
				next = append(next, q)
			}
		}
		queues = next
	}
	return result, true
}

func appearsInTail(queues [][]*ir.ContractDefinition, c *ir.ContractDefinition) bool {
	for _, q := range queues {
		for _, other := range q[1:] {
			if other == c {
				return true
			}
		}
	}
	return false
}
