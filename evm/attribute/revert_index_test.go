package attribute_test

import (
	"encoding/json"
	"testing"

	"solidity-ir/evm/attribute"
	"solidity-ir/evm/srcmap"
	"solidity-ir/ir"
)

// TestBuildRevertIndex_OnlyExplicitRevertStatements checks that a
// REVERT opcode whose source range lands on a bare `revert;` statement
// is indexed, while one landing on an ordinary expression statement (the
// require/assert case) is not — spec.md §4.10: "not a generic
// require/panic".
func TestBuildRevertIndex_OnlyExplicitRevertStatements(t *testing.T) {
	raw := json.RawMessage(`{
		"nodeType": "SourceUnit", "id": 1, "src": "0:100:0",
		"nodes": [
			{"nodeType": "ContractDefinition", "id": 2, "src": "0:100:0", "name": "T",
			 "contractKind": "contract", "abstract": false, "baseContracts": [],
			 "nodes": [
				{"nodeType": "FunctionDefinition", "id": 3, "src": "10:50:0", "name": "f",
				 "kind": "function", "visibility": "public", "stateMutability": "nonpayable", "virtual": false,
				 "parameters": {"nodeType": "ParameterList", "id": 4, "src": "10:1:0", "parameters": []},
				 "returnParameters": {"nodeType": "ParameterList", "id": 5, "src": "10:1:0", "parameters": []},
				 "modifiers": [],
				 "body": {"nodeType": "Block", "id": 6, "src": "10:50:0", "statements": [
					{"nodeType": "RevertStatement", "id": 7, "src": "20:5:0"},
					{"nodeType": "ExpressionStatement", "id": 8, "src": "30:5:0",
					 "expression": {"nodeType": "Identifier", "id": 9, "src": "30:5:0", "name": "x"}}
				 ]}}
			 ]}
		]
	}`)
	su, err := ir.DecodeAST("cu1", "T.sol", raw)
	if err != nil {
		t.Fatalf("DecodeAST: %v", err)
	}
	tree := su.Tree()

	entries, err := srcmap.Parse("20:5:0:-:0;30:5:0:-:0", []string{"T.sol"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pcmap, err := srcmap.BuildPCMap(entries, []string{"REVERT", "REVERT"}, tree)
	if err != nil {
		t.Fatalf("BuildPCMap: %v", err)
	}

	idx := attribute.RevertIndex{}
	attribute.BuildRevertIndex(idx, "T.sol:T", pcmap, tree)

	pcs := idx["T.sol:T"]
	if len(pcs) != 1 || pcs[0] != 0 {
		t.Fatalf("expected only pc 0 (the explicit revert) indexed, got %v", pcs)
	}
}
