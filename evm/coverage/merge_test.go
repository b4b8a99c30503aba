package coverage_test

import (
	"reflect"
	"testing"

	"solidity-ir/evm/coverage"
)

func reportFrom(all, branch map[uint64]uint64) *coverage.Report {
	r := coverage.NewReport()
	for pc, n := range all {
		r.AllInstr[pc] = n
	}
	for pc, n := range branch {
		r.BranchInstr[pc] = n
	}
	return r
}

// TestMerge_Commutative is Testable Property 7's commutativity half.
func TestMerge_Commutative(t *testing.T) {
	a := reportFrom(map[uint64]uint64{1: 2, 2: 1}, map[uint64]uint64{1: 1})
	b := reportFrom(map[uint64]uint64{2: 3, 3: 5}, map[uint64]uint64{3: 2})

	ab := coverage.Merge(a, b)
	ba := coverage.Merge(b, a)
	if !reflect.DeepEqual(ab.AllInstr, ba.AllInstr) || !reflect.DeepEqual(ab.BranchInstr, ba.BranchInstr) {
		t.Fatalf("merge not commutative: a+b=%+v b+a=%+v", ab, ba)
	}
}

// TestMerge_Associative is Testable Property 7's associativity half.
func TestMerge_Associative(t *testing.T) {
	a := reportFrom(map[uint64]uint64{1: 1}, nil)
	b := reportFrom(map[uint64]uint64{1: 2, 2: 4}, map[uint64]uint64{2: 1})
	c := reportFrom(map[uint64]uint64{3: 7}, map[uint64]uint64{3: 7})

	left := coverage.Merge(coverage.Merge(a, b), c)
	right := coverage.Merge(a, coverage.Merge(b, c))
	if !reflect.DeepEqual(left.AllInstr, right.AllInstr) || !reflect.DeepEqual(left.BranchInstr, right.BranchInstr) {
		t.Fatalf("merge not associative: (a+b)+c=%+v a+(b+c)=%+v", left, right)
	}
}

func TestMerge_PointwiseAddition(t *testing.T) {
	a := reportFrom(map[uint64]uint64{1: 2}, nil)
	b := reportFrom(map[uint64]uint64{1: 3, 2: 9}, nil)
	got := coverage.Merge(a, b)
	want := map[uint64]uint64{1: 5, 2: 9}
	if !reflect.DeepEqual(got.AllInstr, want) {
		t.Fatalf("expected pointwise sum %v, got %v", want, got.AllInstr)
	}
}

func TestAggregator_CheckpointResetDiscardsBeyondHeight(t *testing.T) {
	agg := coverage.NewAggregator()
	agg.Absorb(reportFrom(map[uint64]uint64{1: 1}, nil))
	agg.Checkpoint(10)
	agg.Absorb(reportFrom(map[uint64]uint64{2: 1}, nil))
	agg.Checkpoint(20)
	agg.Absorb(reportFrom(map[uint64]uint64{3: 1}, nil))

	if got := agg.Report().AllInstr; len(got) != 3 {
		t.Fatalf("expected 3 distinct PCs before reset, got %v", got)
	}

	agg.ResetTo(10)
	got := agg.Report().AllInstr
	want := map[uint64]uint64{1: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected reset to height 10 to discard later counts, got %v", got)
	}
}
