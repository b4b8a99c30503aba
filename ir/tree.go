package ir

import "iter"

// Children returns n's direct IR children only (contract → decls, block →
// stmts, etc.), in source order. Leaf nodes (identifiers, literals,
// break/continue/placeholder statements) return nil.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	if cp, ok := n.(childrenProvider); ok {
		children := cp.Children()
		out := make([]Node, 0, len(children))
		for _, c := range children {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// Iter walks n depth-first, pre-order, yielding n then every descendant.
// Siblings are yielded in strictly increasing ByteRange.Start order
// (Testable Property 5), which holds automatically here because
// Children() always returns nodes in source order.
func Iter(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(Node) bool
		walk = func(cur Node) bool {
			if cur == nil {
				return true
			}
			if !yield(cur) {
				return false
			}
			for _, c := range Children(cur) {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

// StatementsIter is Iter restricted to statement descendants (including
// n itself, if it is a statement).
func StatementsIter(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for cur := range Iter(n) {
			if cur.Kind().IsStatement() {
				if !yield(cur) {
					return
				}
			}
		}
	}
}

// ExpressionsIter is Iter restricted to expression descendants.
func ExpressionsIter(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for cur := range Iter(n) {
			if cur.Kind().IsExpression() {
				if !yield(cur) {
					return
				}
			}
		}
	}
}

// Ancestors walks from n up through Parent() to the owning Source Unit,
// yielding n first. Every non-root IR node has exactly one parent
// (Testable Property 1 dual); this walk always terminates there.
func Ancestors(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for cur := n; cur != nil; cur = cur.Parent() {
			if !yield(cur) {
				return
			}
		}
	}
}

// EnclosingFunction returns the nearest FunctionDefinition or
// ModifierDefinition ancestor of n (inclusive), or nil if n is not
// inside one.
func EnclosingFunction(n Node) Node {
	for cur := range Ancestors(n) {
		switch cur.Kind() {
		case KindFunctionDefinition, KindModifierDefinition:
			return cur
		}
	}
	return nil
}

// EnclosingContract returns the nearest ContractDefinition ancestor of n
// (inclusive), or nil if n is not inside one.
func EnclosingContract(n Node) *ContractDefinition {
	for cur := range Ancestors(n) {
		if c, ok := cur.(*ContractDefinition); ok {
			return c
		}
	}
	return nil
}

// buildTree assigns parent pointers over n's entire subtree. Called once
// by the AST decoder after constructing a subtree; SourceUnit.Tree()
// relies on parents already being set when it builds its interval tree.
func buildTree(n Node) {
	for _, c := range Children(n) {
		attach(n, c)
		buildTree(c)
	}
}
