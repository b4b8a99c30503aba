package coverage_test

import (
	"encoding/json"
	"testing"

	"solidity-ir/evm/coverage"
	"solidity-ir/evm/srcmap"
	"solidity-ir/ir"
)

func buildSingleFunctionPCMap(t *testing.T) (*srcmap.PCMap, string) {
	t.Helper()
	raw := json.RawMessage(`{
		"nodeType": "SourceUnit", "id": 1, "src": "0:100:0",
		"nodes": [
			{"nodeType": "ContractDefinition", "id": 2, "src": "0:100:0", "name": "T",
			 "contractKind": "contract", "abstract": false, "baseContracts": [],
			 "nodes": [
				{"nodeType": "FunctionDefinition", "id": 3, "src": "10:20:0", "name": "f",
				 "kind": "function", "visibility": "public", "stateMutability": "nonpayable", "virtual": false,
				 "parameters": {"nodeType": "ParameterList", "id": 4, "src": "10:1:0", "parameters": []},
				 "returnParameters": {"nodeType": "ParameterList", "id": 5, "src": "10:1:0", "parameters": []},
				 "modifiers": [],
				 "body": {"nodeType": "Block", "id": 6, "src": "10:20:0", "statements": []}}
			 ]}
		]
	}`)
	su, err := ir.DecodeAST("cu1", "T.sol", raw)
	if err != nil {
		t.Fatalf("DecodeAST: %v", err)
	}
	tree := su.Tree()

	// 3 source ranges (offsets 10, 11, 12) spanning 4, 4, 2 PCs.
	compressed := "10:1:0:-:0;;;;11:1:0:-:0;;;;12:1:0:-:0;"
	entries, err := srcmap.Parse(compressed, []string{"T.sol"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 source-map entries, got %d", len(entries))
	}
	opcodes := make([]string, 10)
	for i := range opcodes {
		opcodes[i] = "JUMPDEST"
	}
	pcmap, err := srcmap.BuildPCMap(entries, opcodes, tree)
	if err != nil {
		t.Fatalf("BuildPCMap: %v", err)
	}
	return pcmap, "f"
}

// TestScenarioE_CoverageRollup is spec.md §8 Scenario E: a function with
// 10 PCs across 3 source ranges (4, 4, 2 PCs), executed once per PC,
// yields per-range hit count 1 (max across PCs) and function instruction
// coverage (10, 10).
func TestScenarioE_CoverageRollup(t *testing.T) {
	pcmap, fn := buildSingleFunctionPCMap(t)

	r := coverage.NewReport()
	for pc := 0; pc < pcmap.Len(); pc++ {
		r.Record(coverage.Entry{PC: uint64(pc), Op: "JUMPDEST"}, pcmap)
	}

	fc := coverage.FunctionCoverage(r, pcmap)
	st, ok := fc[fn]
	if !ok || st.Executed != 10 || st.Total != 10 {
		t.Fatalf("expected function %q coverage (10,10), got %+v (ok=%v)", fn, st, ok)
	}

	lines := coverage.SourceLineCoverage(r, pcmap)
	if len(lines) != 3 {
		t.Fatalf("expected 3 distinct source ranges, got %d: %+v", len(lines), lines)
	}
	for key, hits := range lines {
		if hits != 1 {
			t.Fatalf("range %+v: expected max hit count 1, got %d", key, hits)
		}
	}
}

func TestFunctionCoverage_PartialExecution(t *testing.T) {
	pcmap, fn := buildSingleFunctionPCMap(t)
	r := coverage.NewReport()
	for pc := 0; pc < 4; pc++ {
		r.Record(coverage.Entry{PC: uint64(pc), Op: "JUMPDEST"}, pcmap)
	}
	fc := coverage.FunctionCoverage(r, pcmap)
	st := fc[fn]
	if st.Executed != 4 || st.Total != 10 {
		t.Fatalf("expected (4,10), got %+v", st)
	}
}
