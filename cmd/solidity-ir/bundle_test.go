package main

import (
	"encoding/json"
	"testing"

	"solidity-ir/internal/testutil"
)

func writeFixtureBundle(t *testing.T) string {
	t.Helper()
	ast := json.RawMessage(`{
		"nodeType": "SourceUnit", "id": 1, "src": "0:60:0",
		"nodes": [
			{"nodeType": "ContractDefinition", "id": 2, "src": "0:60:0", "name": "T",
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
	b := bundle{
		SourcePath: "T.sol",
		Source:     "contract T { function f() public {} }",
		AST:        ast,
		SourceMap:  "10:1:0:-:0",
		Opcodes:    []string{"JUMPDEST"},
		Trace:      []traceStep{{PC: 0, Op: "JUMPDEST"}},
	}
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("new sandbox: %v", err)
	}
	t.Cleanup(func() { _ = sb.Cleanup() })
	if err := sb.WriteJSON("bundle.json", b); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return sb.Path("bundle.json")
}

func TestLoadBundle_DecodeAndCoverage(t *testing.T) {
	path := writeFixtureBundle(t)
	b, err := loadBundle(path)
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}

	su, err := b.decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fn := findFunction(su, "f")
	if fn == nil {
		t.Fatal("expected to find function f")
	}

	pcmap, err := b.pcmap(su.Tree())
	if err != nil {
		t.Fatalf("pcmap: %v", err)
	}
	if pcmap.Len() != 1 {
		t.Fatalf("expected 1 resolved pc, got %d", pcmap.Len())
	}

	r := b.coverageReport(pcmap)
	if r.AllInstr[0] != 1 {
		t.Fatalf("expected pc 0 hit once, got %d", r.AllInstr[0])
	}
}
