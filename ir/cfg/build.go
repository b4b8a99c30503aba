package cfg

import (
	"errors"
	"fmt"

	"solidity-ir/ir"
)

// ErrNoBody is returned when Build is given a function/modifier with no
// implementation (an interface method, or an abstract function).
var ErrNoBody = errors.New("cfg: function has no body")

// loopContext carries the break/continue targets for the innermost
// enclosing loop.
type loopContext struct {
	breakTarget    BlockID
	continueTarget BlockID
}

// Build transforms fn's body into a Graph per the rules in spec.md §4.5.
// fn must be *ir.FunctionDefinition or *ir.ModifierDefinition.
func Build(fn ir.Node) (*Graph, error) {
	var body *ir.Block
	switch f := fn.(type) {
	case *ir.FunctionDefinition:
		body = f.Body
	case *ir.ModifierDefinition:
		body = f.Body
	default:
		return nil, fmt.Errorf("cfg: Build called on unsupported node kind %s", fn.Kind())
	}
	if body == nil {
		return nil, ErrNoBody
	}

	g := &Graph{}
	entry := g.newBlock()
	success := g.newBlock()
	revert := g.newBlock()
	g.Entry, g.Success, g.Revert = entry.ID, success.ID, revert.ID

	cur, terminated := buildStatements(g, entry.ID, body.Statements, nil)
	if !terminated {
		g.addEdge(cur, g.Success, "fallthrough", nil)
	}
	return g, nil
}

// buildStatements walks stmts in order, threading the "current block"
// through each one. It stops early once a statement terminates the
// block (return/revert/break/continue/throw/selfdestruct) since
// subsequent statements in the same list are unreachable.
func buildStatements(g *Graph, cur BlockID, stmts []ir.Node, loop *loopContext) (BlockID, bool) {
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		var terminated bool
		cur, terminated = buildStmt(g, cur, stmt, loop)
		if terminated {
			return cur, true
		}
	}
	return cur, false
}

type branchResult struct {
	tail       BlockID
	terminated bool
}

// joinBranches creates a join block and wires fallthrough edges from
// every non-terminated branch tail into it. If every branch terminates,
// no join block is reachable and the caller should treat the whole
// construct as terminated instead.
func joinBranches(g *Graph, branches []branchResult) (BlockID, bool) {
	allTerminated := true
	for _, b := range branches {
		if !b.terminated {
			allTerminated = false
			break
		}
	}
	if allTerminated {
		return 0, true
	}
	after := g.newBlock()
	for _, b := range branches {
		if !b.terminated {
			g.addEdge(b.tail, after.ID, "fallthrough", nil)
		}
	}
	return after.ID, false
}

// buildStmt processes one statement against the current block, returning
// the block subsequent statements should attach to and whether control
// flow terminates here (so the caller must not fall through).
func buildStmt(g *Graph, cur BlockID, stmt ir.Node, loop *loopContext) (BlockID, bool) {
	switch s := stmt.(type) {

	case *ir.Block:
		return buildStatements(g, cur, s.Statements, loop)

	case *ir.UncheckedBlock:
		// Does not introduce a CFG boundary by itself (spec.md §4.5 only
		// lists branches/loops/labelled jumps as block-splitting
		// constructs); its statements are folded into the current block.
		return buildStatements(g, cur, s.Statements, loop)

	case *ir.IfStatement:
		return buildIf(g, cur, s, loop)

	case *ir.ForStatement:
		return buildFor(g, cur, s, loop)

	case *ir.WhileStatement:
		return buildWhile(g, cur, s, loop)

	case *ir.DoWhileStatement:
		return buildDoWhile(g, cur, s, loop)

	case *ir.TryStatement:
		return buildTry(g, cur, s, loop)

	case *ir.ReturnStatement:
		g.Blocks[cur].Control = s
		g.addEdge(cur, g.Success, "return", s.Expression)
		return cur, true

	case *ir.RevertStatement:
		g.Blocks[cur].Control = s
		g.addEdge(cur, g.Revert, "revert", s.ErrorCall)
		return cur, true

	case *ir.ThrowStatement:
		g.Blocks[cur].Control = s
		g.addEdge(cur, g.Revert, "revert", nil)
		return cur, true

	case *ir.BreakStatement:
		g.Blocks[cur].Control = s
		if loop == nil {
			return cur, true // malformed input outside a loop; treat as dead end
		}
		g.addEdge(cur, loop.breakTarget, "break", nil)
		return cur, true

	case *ir.ContinueStatement:
		g.Blocks[cur].Control = s
		if loop == nil {
			return cur, true
		}
		g.addEdge(cur, loop.continueTarget, "continue", nil)
		return cur, true

	case *ir.ExpressionStatement:
		if isSelfdestructCall(s.Expression) {
			g.Blocks[cur].Control = s
			g.addEdge(cur, g.Success, "return", s.Expression)
			return cur, true
		}
		g.Blocks[cur].Statements = append(g.Blocks[cur].Statements, s)
		return cur, false

	default:
		// Non-branching statements (emit, plain var-decl, placeholder, …)
		// just accumulate in the current block.
		g.Blocks[cur].Statements = append(g.Blocks[cur].Statements, stmt)
		return cur, false
	}
}

func isSelfdestructCall(n ir.Node) bool {
	call, ok := n.(*ir.FunctionCall)
	if !ok {
		return false
	}
	switch callee := call.Callee.(type) {
	case *ir.Identifier:
		return callee.Name == "selfdestruct"
	case *ir.MemberAccess:
		return callee.MemberName == "selfdestruct"
	}
	return false
}

func buildIf(g *Graph, cur BlockID, s *ir.IfStatement, loop *loopContext) (BlockID, bool) {
	g.Blocks[cur].Control = s

	thenBlock := g.newBlock()
	g.addEdge(cur, thenBlock.ID, "true", s.Condition)
	thenTail, thenTerm := buildStatements(g, thenBlock.ID, []ir.Node{s.Then}, loop)

	var elseTail BlockID
	var elseTerm bool
	if s.Else != nil {
		elseBlock := g.newBlock()
		g.addEdge(cur, elseBlock.ID, "false", s.Condition)
		elseTail, elseTerm = buildStatements(g, elseBlock.ID, []ir.Node{s.Else}, loop)
	} else {
		// No else branch: the false edge goes straight to the join block,
		// which joinBranches creates below — represented as a
		// zero-statement branch that never terminates.
		elseBlock := g.newBlock()
		g.addEdge(cur, elseBlock.ID, "false", s.Condition)
		elseTail, elseTerm = elseBlock.ID, false
	}

	after, allTerminated := joinBranches(g, []branchResult{
		{tail: thenTail, terminated: thenTerm},
		{tail: elseTail, terminated: elseTerm},
	})
	if allTerminated {
		return cur, true
	}
	return after, false
}

func buildFor(g *Graph, cur BlockID, s *ir.ForStatement, loop *loopContext) (BlockID, bool) {
	if s.Init != nil {
		var term bool
		cur, term = buildStmt(g, cur, s.Init, loop)
		if term {
			return cur, true // init itself can't realistically terminate, but stay total
		}
	}

	header := g.newBlock()
	g.addEdge(cur, header.ID, "fallthrough", nil)
	header.Control = s

	after := g.newBlock()
	if s.Condition != nil {
		g.addEdge(header.ID, after.ID, "false", s.Condition)
	}

	post := g.newBlock()
	if s.Post != nil {
		post.Statements = append(post.Statements, s.Post)
	}
	g.addEdge(post.ID, header.ID, "fallthrough", nil)

	inner := &loopContext{breakTarget: after.ID, continueTarget: post.ID}
	bodyBlock := g.newBlock()
	trueLabel := "true"
	if s.Condition == nil {
		trueLabel = "fallthrough"
	}
	g.addEdge(header.ID, bodyBlock.ID, trueLabel, s.Condition)

	bodyTail, bodyTerm := buildStatements(g, bodyBlock.ID, []ir.Node{s.Body}, inner)
	if !bodyTerm {
		g.addEdge(bodyTail, post.ID, "fallthrough", nil)
	}

	return after.ID, false
}

func buildWhile(g *Graph, cur BlockID, s *ir.WhileStatement, loop *loopContext) (BlockID, bool) {
	header := g.newBlock()
	g.addEdge(cur, header.ID, "fallthrough", nil)
	header.Control = s

	after := g.newBlock()
	g.addEdge(header.ID, after.ID, "false", s.Condition)

	inner := &loopContext{breakTarget: after.ID, continueTarget: header.ID}
	bodyBlock := g.newBlock()
	g.addEdge(header.ID, bodyBlock.ID, "true", s.Condition)

	bodyTail, bodyTerm := buildStatements(g, bodyBlock.ID, []ir.Node{s.Body}, inner)
	if !bodyTerm {
		g.addEdge(bodyTail, header.ID, "fallthrough", nil)
	}

	return after.ID, false
}

func buildDoWhile(g *Graph, cur BlockID, s *ir.DoWhileStatement, loop *loopContext) (BlockID, bool) {
	bodyBlock := g.newBlock()
	g.addEdge(cur, bodyBlock.ID, "fallthrough", nil)

	after := g.newBlock()
	inner := &loopContext{breakTarget: after.ID, continueTarget: bodyBlock.ID}

	bodyTail, bodyTerm := buildStatements(g, bodyBlock.ID, []ir.Node{s.Body}, inner)
	if !bodyTerm {
		g.Blocks[bodyTail].Control = s
		g.addEdge(bodyTail, bodyBlock.ID, "true", s.Condition)
		g.addEdge(bodyTail, after.ID, "false", s.Condition)
	}

	return after.ID, false
}

func buildTry(g *Graph, cur BlockID, s *ir.TryStatement, loop *loopContext) (BlockID, bool) {
	g.Blocks[cur].Control = s

	successBlock := g.newBlock()
	g.addEdge(cur, successBlock.ID, "try", s.ExternalCall)
	var successStmts []ir.Node
	if s.Body != nil {
		successStmts = s.Body.Statements
	}
	successTail, successTerm := buildStatements(g, successBlock.ID, successStmts, loop)

	branches := []branchResult{{tail: successTail, terminated: successTerm}}

	for _, clause := range s.CatchClauses {
		label := "catch"
		switch clause.ErrorID {
		case "Error":
			label = "catch Error"
		case "Panic":
			label = "catch Panic"
		}
		clauseBlock := g.newBlock()
		g.addEdge(cur, clauseBlock.ID, label, s.ExternalCall)
		var clauseStmts []ir.Node
		if clause.Body != nil {
			clauseStmts = clause.Body.Statements
		}
		tail, term := buildStatements(g, clauseBlock.ID, clauseStmts, loop)
		branches = append(branches, branchResult{tail: tail, terminated: term})
	}

	after, allTerminated := joinBranches(g, branches)
	if allTerminated {
		return cur, true
	}
	return after, false
}
