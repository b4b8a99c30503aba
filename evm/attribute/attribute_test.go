package attribute_test

import (
	"math/big"
	"testing"

	"solidity-ir/evm/attribute"
	"solidity-ir/ir/inherit"
)

func selOf(sig string) [4]byte { return inherit.ErrorSelector(sig) }

func leftPad32(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// TestAttributeRevert_UniqueSelector is spec.md §8 Scenario A.
func TestAttributeRevert_UniqueSelector(t *testing.T) {
	sel := selOf("E(uint256)")
	tables := inherit.NewSelectorTables()
	tables.Errors[sel] = []inherit.Candidate{{FQN: "A.sol:A"}}

	raw := append([]byte{}, sel[:]...)
	raw = append(raw, leftPad32(big.NewInt(7).Bytes())...)

	paramTypes := func(fqn string) []string {
		if fqn == "A.sol:A" {
			return []string{"uint256"}
		}
		return nil
	}

	got, err := attribute.AttributeRevert(sel, raw, tables, nil, nil, paramTypes)
	if err != nil {
		t.Fatalf("AttributeRevert: %v", err)
	}
	if got.OriginFQN != "A.sol:A" {
		t.Fatalf("expected origin A.sol:A, got %q", got.OriginFQN)
	}
	if len(got.Fields) != 1 || got.Fields[0].(*big.Int).Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("expected decoded field 7, got %v", got.Fields)
	}
}

// TestAttributeRevert_AmbiguousSelectorResolvedByReplay is spec.md §8
// Scenario B: A and B both declare `error E(uint)`; the call chain is
// root → B → A.g(), which reverts inside A. The last REVERT step whose
// PC is listed under its own frame's FQN wins, so origin is A, not B.
func TestAttributeRevert_AmbiguousSelectorResolvedByReplay(t *testing.T) {
	sel := selOf("E(uint256)")
	tables := inherit.NewSelectorTables()
	tables.Errors[sel] = []inherit.Candidate{{FQN: "A.sol:A"}, {FQN: "B.sol:B"}}

	idx := attribute.RevertIndex{
		"A.sol:A": {100},
		"B.sol:B": {200},
	}
	replay := []attribute.ReplayStep{
		{FQN: "B.sol:B", PC: 50},  // B's own call site, not a revert PC
		{FQN: "A.sol:A", PC: 100}, // the actual revert, inside A
	}

	got, err := attribute.AttributeRevert(sel, sel[:], tables, idx, replay, nil)
	if err != nil {
		t.Fatalf("AttributeRevert: %v", err)
	}
	if got.OriginFQN != "A.sol:A" {
		t.Fatalf("expected origin A.sol:A, got %q", got.OriginFQN)
	}
}

// TestAttributeRevert_LastMatchingRevertWins checks the "last" half of
// the replay heuristic explicitly: two frames both revert along the
// unwind path, and the later one in execution order is attributed.
func TestAttributeRevert_LastMatchingRevertWins(t *testing.T) {
	sel := selOf("E(uint256)")
	tables := inherit.NewSelectorTables()
	tables.Errors[sel] = []inherit.Candidate{{FQN: "A.sol:A"}, {FQN: "B.sol:B"}}

	idx := attribute.RevertIndex{
		"A.sol:A": {100},
		"B.sol:B": {200},
	}
	replay := []attribute.ReplayStep{
		{FQN: "B.sol:B", PC: 200}, // B reverts first, bubbling up...
		{FQN: "A.sol:A", PC: 100}, // ...but A's own revert is the last one seen
	}

	got, err := attribute.AttributeRevert(sel, sel[:], tables, idx, replay, nil)
	if err != nil {
		t.Fatalf("AttributeRevert: %v", err)
	}
	if got.OriginFQN != "A.sol:A" {
		t.Fatalf("expected last matching revert (A.sol:A), got %q", got.OriginFQN)
	}
}

func TestAttributeRevert_Unknown(t *testing.T) {
	tables := inherit.NewSelectorTables()
	_, err := attribute.AttributeRevert([4]byte{0xde, 0xad, 0xbe, 0xef}, nil, tables, nil, nil, nil)
	if err == nil {
		t.Fatal("expected UnknownSelectorError")
	}
	if _, ok := err.(*attribute.UnknownSelectorError); !ok {
		t.Fatalf("expected *UnknownSelectorError, got %T", err)
	}
}

func TestAttributeRevert_AmbiguousUnresolved(t *testing.T) {
	sel := selOf("E(uint256)")
	tables := inherit.NewSelectorTables()
	tables.Errors[sel] = []inherit.Candidate{{FQN: "A.sol:A"}, {FQN: "B.sol:B"}}

	_, err := attribute.AttributeRevert(sel, sel[:], tables, attribute.RevertIndex{}, nil, nil)
	if err == nil {
		t.Fatal("expected AmbiguousRevertError")
	}
	if _, ok := err.(*attribute.AmbiguousRevertError); !ok {
		t.Fatalf("expected *AmbiguousRevertError, got %T", err)
	}
}
