// Package attribute resolves a reverted transaction's originating
// contract, and an emitted event's originating contract, when the
// 4-byte error selector (or 32-byte event topic) is ambiguous across
// multiple declarations (C10).
package attribute

import (
	"fmt"
	"strings"

	"solidity-ir/evm/srcmap"
	"solidity-ir/evm/trace"
	"solidity-ir/ir"
	"solidity-ir/ir/inherit"
)

// UnknownSelectorError is returned when a revert's 4-byte selector, or
// an event's 32-byte topic, matches no declaration in the global table
// at all.
type UnknownSelectorError struct {
	Raw []byte
}

func (e *UnknownSelectorError) Error() string {
	return fmt.Sprintf("attribute: unknown selector, %d raw bytes", len(e.Raw))
}

// AmbiguousRevertError is returned when an ambiguous selector's replay
// heuristic still can't narrow to one candidate (e.g. the replay trace
// contains no REVERT PC present in any candidate's revert index).
type AmbiguousRevertError struct {
	Selector [4]byte
	Fqns     []string
}

func (e *AmbiguousRevertError) Error() string {
	return fmt.Sprintf("attribute: ambiguous selector %x across %v, and replay did not narrow it", e.Selector, e.Fqns)
}

// Attribution is a resolved revert or event origin.
type Attribution struct {
	OriginFQN string
	Fields    []any
}

// ReplayStep is one REVERT-relevant trace step: the PC it executed at
// and the FQN of the frame executing it, in execution order. Building
// this list is C8's job (Interpret's CallTrace plus a REVERT-PC log);
// this package only consumes it.
type ReplayStep struct {
	PC  uint64
	FQN string
}

// RevertIndex maps an FQN to the ascending list of REVERT opcode PCs
// whose source range falls inside an explicit `revert` statement in
// that contract (not a `require`/`assert`/panic-derived REVERT).
type RevertIndex map[string][]uint64

// BuildRevertIndex scans every resolved PC in pcmap and records the ones
// whose opcode is REVERT and whose source offset falls within a
// RevertStatement node in tree, tagging them under fqn.
func BuildRevertIndex(idx RevertIndex, fqn string, pcmap *srcmap.PCMap, tree *ir.IntervalTree) {
	for pe := range pcmap.All {
		if strings.ToUpper(pe.Opcode) != "REVERT" {
			continue
		}
		if !insideRevertStatement(tree, pe.Entry.Offset) {
			continue
		}
		idx[fqn] = append(idx[fqn], uint64(pe.PC))
	}
}

func insideRevertStatement(tree *ir.IntervalTree, offset int) bool {
	if tree == nil {
		return false
	}
	for _, n := range tree.Query(offset) {
		if _, ok := n.(*ir.RevertStatement); ok {
			return true
		}
	}
	return false
}

func contains(pcs []uint64, pc uint64) bool {
	for _, p := range pcs {
		if p == pc {
			return true
		}
	}
	return false
}

// AttributeRevert resolves a reverted transaction's originating
// contract. If selector has exactly one candidate in tables, that
// candidate is the answer directly. Otherwise replay walks steps (in
// execution order) and the LAST REVERT step whose PC is in
// idx[step.FQN] wins — the last matching REVERT is the one that
// actually unwound the transaction (spec.md §4.10).
//
// paramTypes, if non-nil, returns the matched error's canonical ABI
// parameter types so raw[4:] can be decoded into Attribution.Fields
// (spec.md §8 Scenario A: "fields: {code: 7}"). A nil return, or a nil
// paramTypes, leaves Fields unset.
func AttributeRevert(selector [4]byte, raw []byte, tables *inherit.SelectorTables, idx RevertIndex, replay []ReplayStep, paramTypes func(fqn string) []string) (Attribution, error) {
	candidates := tables.Errors[selector]
	if len(candidates) == 0 {
		return Attribution{}, &UnknownSelectorError{Raw: raw}
	}

	origin := ""
	if len(candidates) == 1 {
		origin = candidates[0].FQN
	} else {
		for _, step := range replay {
			if contains(idx[step.FQN], step.PC) {
				origin = step.FQN
			}
		}
		if origin == "" {
			fqns := make([]string, len(candidates))
			for i, c := range candidates {
				fqns[i] = c.FQN
			}
			return Attribution{}, &AmbiguousRevertError{Selector: selector, Fqns: fqns}
		}
	}

	a := Attribution{OriginFQN: origin}
	if paramTypes != nil && len(raw) >= 4 {
		if types := paramTypes(origin); types != nil {
			if decoded, err := trace.DecodeArgs(types, raw[4:]); err == nil {
				a.Fields = decoded
			}
		}
	}
	return a, nil
}

// AttributeEvent mirrors AttributeRevert for LOG1-LOG4 topics: used only
// when the topic's candidate set has cardinality > 1 (spec.md §4.10).
// idx plays the role of RevertIndex, keyed the same way but over
// LOG opcode PCs whose emitting statement is the matching emit.
func AttributeEvent(topic [32]byte, tables *inherit.SelectorTables, idx map[string][]uint64, replay []ReplayStep) (Attribution, error) {
	candidates := tables.Events[topic]
	if len(candidates) == 0 {
		return Attribution{}, &UnknownSelectorError{Raw: topic[:]}
	}
	if len(candidates) == 1 {
		return Attribution{OriginFQN: candidates[0].FQN}, nil
	}

	var origin string
	for _, step := range replay {
		if contains(idx[step.FQN], step.PC) {
			origin = step.FQN
		}
	}
	if origin == "" {
		fqns := make([]string, len(candidates))
		for i, c := range candidates {
			fqns[i] = c.FQN
		}
		return Attribution{}, &AmbiguousRevertError{Fqns: fqns}
	}
	return Attribution{OriginFQN: origin}, nil
}
