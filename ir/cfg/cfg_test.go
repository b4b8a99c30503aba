package cfg_test

import (
	"encoding/json"
	"testing"

	"solidity-ir/ir"
	"solidity-ir/ir/cfg"
)

// decodeFunction parses a single-function contract and returns its
// FunctionDefinition.
func decodeFunction(t *testing.T, src json.RawMessage) *ir.FunctionDefinition {
	t.Helper()
	su, err := ir.DecodeAST("cu1", "T.sol", src)
	if err != nil {
		t.Fatalf("DecodeAST: %v", err)
	}
	contract, ok := su.Declarations[0].(*ir.ContractDefinition)
	if !ok {
		t.Fatalf("expected ContractDefinition, got %T", su.Declarations[0])
	}
	for _, n := range contract.Nodes {
		if fn, ok := n.(*ir.FunctionDefinition); ok {
			return fn
		}
	}
	t.Fatal("no FunctionDefinition found")
	return nil
}

// reachable does a forward BFS over g's edges starting at start.
func reachable(g *cfg.Graph, start cfg.BlockID) map[cfg.BlockID]bool {
	seen := map[cfg.BlockID]bool{start: true}
	queue := []cfg.BlockID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Block(cur).Out {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}

// assertProperty6 checks Testable Property 6: every non-sentinel block is
// reachable from Entry, and every block reachable from Entry reaches
// Success or Revert.
func assertProperty6(t *testing.T, g *cfg.Graph) {
	t.Helper()
	fromEntry := reachable(g, g.Entry)
	for id := range fromEntry {
		if id == g.Success || id == g.Revert {
			continue
		}
		fromID := reachable(g, id)
		if !fromID[g.Success] && !fromID[g.Revert] {
			t.Fatalf("block %d reachable from entry but reaches neither success_end nor revert_end", id)
		}
	}
	for _, b := range g.Blocks {
		if b.ID == g.Success || b.ID == g.Revert {
			continue
		}
		if !fromEntry[b.ID] {
			t.Fatalf("block %d built but not reachable from entry", b.ID)
		}
	}
}

func wrapFunction(body string) json.RawMessage {
	return json.RawMessage(`{
		"nodeType": "SourceUnit", "id": 1, "src": "0:1:0",
		"nodes": [
			{"nodeType": "ContractDefinition", "id": 2, "src": "0:1:0", "name": "T",
			 "contractKind": "contract", "abstract": false, "baseContracts": [],
			 "nodes": [
				{"nodeType": "FunctionDefinition", "id": 3, "src": "0:1:0", "name": "f",
				 "kind": "function", "visibility": "public", "stateMutability": "nonpayable",
				 "virtual": false,
				 "parameters": {"nodeType": "ParameterList", "id": 4, "src": "0:1:0", "parameters": []},
				 "returnParameters": {"nodeType": "ParameterList", "id": 5, "src": "0:1:0", "parameters": []},
				 "modifiers": [],
				 "body": ` + body + `}
			 ]}
		]
	}`)
}

func TestBuild_Straightline(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "ExpressionStatement", "id": 11, "src": "0:1:0",
		 "expression": {"nodeType": "Identifier", "id": 12, "src": "0:1:0", "name": "x"}}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)
	if len(g.Block(g.Entry).Out) != 1 || g.Block(g.Entry).Out[0].To != g.Success {
		t.Fatalf("expected entry to fall through directly to success")
	}
}

func TestBuild_IfElseJoins(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "IfStatement", "id": 11, "src": "0:1:0",
		 "condition": {"nodeType": "Identifier", "id": 12, "src": "0:1:0", "name": "cond"},
		 "trueBody": {"nodeType": "Block", "id": 13, "src": "0:1:0", "statements": []},
		 "falseBody": {"nodeType": "Block", "id": 14, "src": "0:1:0", "statements": []}},
		{"nodeType": "ExpressionStatement", "id": 15, "src": "0:1:0",
		 "expression": {"nodeType": "Identifier", "id": 16, "src": "0:1:0", "name": "y"}}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)

	entryOut := g.Block(g.Entry).Out
	if len(entryOut) != 2 {
		t.Fatalf("expected if to produce 2 out-edges from entry, got %d", len(entryOut))
	}
	var sawTrue, sawFalse bool
	for _, e := range entryOut {
		switch e.Label {
		case "true":
			sawTrue = true
		case "false":
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Fatalf("expected true/false edges, got %+v", entryOut)
	}
}

func TestBuild_IfNoElseReturn(t *testing.T) {
	// if (cond) { return; } — the true branch terminates, the false
	// branch (implicit) falls straight through, so the whole if does not
	// terminate the function.
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "IfStatement", "id": 11, "src": "0:1:0",
		 "condition": {"nodeType": "Identifier", "id": 12, "src": "0:1:0", "name": "cond"},
		 "trueBody": {"nodeType": "Block", "id": 13, "src": "0:1:0", "statements": [
			{"nodeType": "Return", "id": 17, "src": "0:1:0"}
		 ]},
		 "falseBody": null},
		{"nodeType": "ExpressionStatement", "id": 15, "src": "0:1:0",
		 "expression": {"nodeType": "Identifier", "id": 16, "src": "0:1:0", "name": "y"}}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)
}

func TestBuild_BothBranchesTerminate(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "IfStatement", "id": 11, "src": "0:1:0",
		 "condition": {"nodeType": "Identifier", "id": 12, "src": "0:1:0", "name": "cond"},
		 "trueBody": {"nodeType": "Block", "id": 13, "src": "0:1:0", "statements": [
			{"nodeType": "Return", "id": 17, "src": "0:1:0"}
		 ]},
		 "falseBody": {"nodeType": "Block", "id": 14, "src": "0:1:0", "statements": [
			{"nodeType": "RevertStatement", "id": 18, "src": "0:1:0"}
		 ]}}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)
	// No fallthrough edge from entry's block out past the if, since both
	// branches terminate: the entry block's own out-edges are exactly the
	// if's true/false edges.
	for _, e := range g.Block(g.Entry).Out {
		if e.Label == "fallthrough" {
			t.Fatalf("unexpected fallthrough edge when both if branches terminate")
		}
	}
}

func TestBuild_ForLoopBreakContinue(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "ForStatement", "id": 11, "src": "0:1:0",
		 "initializationExpression": null,
		 "condition": {"nodeType": "Identifier", "id": 12, "src": "0:1:0", "name": "cond"},
		 "loopExpression": null,
		 "body": {"nodeType": "Block", "id": 13, "src": "0:1:0", "statements": [
			{"nodeType": "IfStatement", "id": 14, "src": "0:1:0",
			 "condition": {"nodeType": "Identifier", "id": 15, "src": "0:1:0", "name": "skip"},
			 "trueBody": {"nodeType": "Block", "id": 16, "src": "0:1:0", "statements": [
				{"nodeType": "Continue", "id": 17, "src": "0:1:0"}
			 ]},
			 "falseBody": {"nodeType": "Block", "id": 18, "src": "0:1:0", "statements": [
				{"nodeType": "Break", "id": 19, "src": "0:1:0"}
			 ]}}
		 ]}}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)
}

func TestBuild_TryCatch(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`{"nodeType": "Block", "id": 10, "src": "0:1:0", "statements": [
		{"nodeType": "TryStatement", "id": 11, "src": "0:1:0",
		 "externalCall": {"nodeType": "FunctionCall", "id": 12, "src": "0:1:0",
			"expression": {"nodeType": "Identifier", "id": 13, "src": "0:1:0", "name": "ext"}, "arguments": []},
		 "clauses": [
			{"nodeType": "TryCatchClause", "id": 14, "src": "0:1:0", "errorName": "",
			 "block": {"nodeType": "Block", "id": 15, "src": "0:1:0", "statements": []}},
			{"nodeType": "TryCatchClause", "id": 16, "src": "0:1:0", "errorName": "Error",
			 "block": {"nodeType": "Block", "id": 17, "src": "0:1:0", "statements": [
				{"nodeType": "RevertStatement", "id": 18, "src": "0:1:0"}
			 ]}},
			{"nodeType": "TryCatchClause", "id": 19, "src": "0:1:0", "errorName": "Panic",
			 "block": {"nodeType": "Block", "id": 20, "src": "0:1:0", "statements": []}}
		 ]}
	]}`))
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertProperty6(t, g)

	entryOut := g.Block(g.Entry).Out
	labels := map[string]bool{}
	for _, e := range entryOut {
		labels[e.Label] = true
	}
	for _, want := range []string{"try", "catch Error", "catch Panic"} {
		if !labels[want] {
			t.Fatalf("expected %q edge from try block, got %+v", want, entryOut)
		}
	}
}

func TestBuild_NoBody(t *testing.T) {
	fn := decodeFunction(t, wrapFunction(`null`))
	if _, err := cfg.Build(fn); err != cfg.ErrNoBody {
		t.Fatalf("expected ErrNoBody, got %v", err)
	}
}
