package ir

// childrenProvider is implemented by any node with direct IR children.
// Children() uses this internally; nodes with no children (identifiers,
// literals, …) simply don't implement it.
type childrenProvider interface {
	Children() []Node
}

// ---------------------------------------------------------------------
// Meta
// ---------------------------------------------------------------------

// FileSourceUnit is the root meta node of a file — distinguished from
// SourceUnit (the owner struct in cu.go) because a SourceUnit owns bytes
// and declarations directly; FileSourceUnit exists only when the AST
// decoder needs a Node to represent "the file itself" (e.g. as a
// `Parent()` for top-level declarations before SourceUnit.Declarations is
// populated). In practice SourceUnit acts as its own tree root and this
// type is unused by the decoder; kept for API symmetry with the AST's
// own "SourceUnit" node type.
type FileSourceUnit struct {
	Base
	AbsolutePath string
}

// ParameterList is a declaration list shared by function parameters,
// return parameters, and catch-clause parameters.
type ParameterList struct {
	Base
	Parameters []*VariableDeclaration
}

func (p *ParameterList) Children() []Node {
	out := make([]Node, len(p.Parameters))
	for i, v := range p.Parameters {
		out[i] = v
	}
	return out
}

// InheritanceSpecifier is one entry in a contract's `is A(args), B` list.
// BaseName resolves (via ir/resolve) to the base ContractDefinition.
type InheritanceSpecifier struct {
	Base
	BaseName  Handle
	Arguments []Node
}

func (s *InheritanceSpecifier) Children() []Node { return s.Arguments }

// ModifierInvocation is one `modifierName(args)` attached to a function.
type ModifierInvocation struct {
	Base
	ModifierName Handle
	Arguments    []Node
}

func (m *ModifierInvocation) Children() []Node { return m.Arguments }

// CatchClause is one clause of a try/catch statement. ErrorID is "Error",
// "Panic", or "" for a bare `catch`.
type CatchClause struct {
	Base
	ErrorID    string
	Parameters *ParameterList
	Body       *Block
}

func (c *CatchClause) Children() []Node {
	var out []Node
	if c.Parameters != nil {
		out = append(out, c.Parameters)
	}
	if c.Body != nil {
		out = append(out, c.Body)
	}
	return out
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// ContractKind distinguishes `contract`, `interface`, and `library`.
type ContractKind int

const (
	ContractKindContract ContractKind = iota
	ContractKindInterface
	ContractKindLibrary
)

// ContractDefinition is a contract, interface, or library declaration.
type ContractDefinition struct {
	Base

	CanonicalName string
	NameLocation  ByteRange
	ContractKind  ContractKind
	Abstract      bool

	BaseContracts []*InheritanceSpecifier
	Nodes         []Node // functions, variables, events, errors, enums, structs, modifiers

	// linearized is populated by ir/inherit.Linearize (via
	// SetLinearization) and memoised: empty until first requested.
	linearized []*ContractDefinition
}

func (c *ContractDefinition) Children() []Node {
	out := make([]Node, 0, len(c.BaseContracts)+len(c.Nodes))
	for _, b := range c.BaseContracts {
		out = append(out, b)
	}
	out = append(out, c.Nodes...)
	return out
}

// SetLinearization is called once by ir/inherit.Linearize to memoise the
// C3 order. Re-computation by a racing caller is benign: it computes the
// same pure function of immutable IR state and the result is discarded.
func (c *ContractDefinition) SetLinearization(order []*ContractDefinition) {
	c.linearized = order
}

// Linearization returns the memoised C3 order, or nil if Linearize has
// not run yet.
func (c *ContractDefinition) Linearization() []*ContractDefinition {
	return c.linearized
}

// Visibility is a function/variable's declared visibility.
type Visibility int

const (
	VisibilityInternal Visibility = iota
	VisibilityExternal
	VisibilityPublic
	VisibilityPrivate
)

// StateMutability distinguishes pure/view/nonpayable/payable functions,
// needed by C10 to tell a reverting `require` apart from an intentional
// `revert` and by C4 for selector computation context.
type StateMutability int

const (
	StateMutabilityNonpayable StateMutability = iota
	StateMutabilityPure
	StateMutabilityView
	StateMutabilityPayable
)

// FunctionDefinition is a function, constructor, fallback, or receive
// declaration.
type FunctionDefinition struct {
	Base

	CanonicalName   string
	NameLocation    ByteRange
	Visibility      Visibility
	StateMutability StateMutability
	IsConstructor   bool
	Virtual         bool
	Override        bool

	Parameters    *ParameterList
	ReturnParams  *ParameterList
	Modifiers     []*ModifierInvocation
	Body          *Block // nil for declarations without a body (interfaces, abstract)

	// Selector is populated by ir/inherit.BuildSelectorTables; zero
	// value (nil) until then.
	Selector []byte

	cfgOnce cfgMemo
}

func (f *FunctionDefinition) Children() []Node {
	var out []Node
	if f.Parameters != nil {
		out = append(out, f.Parameters)
	}
	if f.ReturnParams != nil {
		out = append(out, f.ReturnParams)
	}
	for _, m := range f.Modifiers {
		out = append(out, m)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	}
	return out
}

// ModifierDefinition is a `modifier` declaration; its body contains a
// PlaceholderStatement (`_;`) marking where the modified function's body
// is inlined.
type ModifierDefinition struct {
	Base
	CanonicalName string
	NameLocation  ByteRange
	Parameters    *ParameterList
	Body          *Block

	cfgOnce cfgMemo
}

func (m *ModifierDefinition) Children() []Node {
	var out []Node
	if m.Parameters != nil {
		out = append(out, m.Parameters)
	}
	if m.Body != nil {
		out = append(out, m.Body)
	}
	return out
}

// EventDefinition is an `event` declaration.
type EventDefinition struct {
	Base
	CanonicalName string
	NameLocation  ByteRange
	Parameters    *ParameterList
	Anonymous     bool

	// Selector is the full 32-byte keccak256(signature) (C4).
	Selector [32]byte
}

func (e *EventDefinition) Children() []Node {
	if e.Parameters != nil {
		return []Node{e.Parameters}
	}
	return nil
}

// ErrorDefinition is a custom `error` declaration.
type ErrorDefinition struct {
	Base
	CanonicalName string
	NameLocation  ByteRange
	Parameters    *ParameterList

	// Selector is the 4-byte keccak256(signature)[0:4] (C4).
	Selector [4]byte
}

func (e *ErrorDefinition) Children() []Node {
	if e.Parameters != nil {
		return []Node{e.Parameters}
	}
	return nil
}

// EnumDefinition is an `enum` declaration.
type EnumDefinition struct {
	Base
	CanonicalName string
	NameLocation  ByteRange
	Members       []*EnumValue
}

func (e *EnumDefinition) Children() []Node {
	out := make([]Node, len(e.Members))
	for i, m := range e.Members {
		out[i] = m
	}
	return out
}

// EnumValue is one member of an EnumDefinition.
type EnumValue struct {
	Base
	Name         string
	NameLocation ByteRange
}

// StructDefinition is a `struct` declaration.
type StructDefinition struct {
	Base
	CanonicalName string
	NameLocation  ByteRange
	Members       []*VariableDeclaration
}

func (s *StructDefinition) Children() []Node {
	out := make([]Node, len(s.Members))
	for i, m := range s.Members {
		out[i] = m
	}
	return out
}

// VariableDeclaration is a state variable, local variable, or function
// parameter declaration.
type VariableDeclaration struct {
	Base
	Name         string
	NameLocation ByteRange
	TypeName     Node // an ElementaryTypeName / UserDefinedTypeName / ArrayTypeName / MappingTypeName
	Visibility   Visibility
	Constant     bool
	Immutable    bool
	StateVar     bool
	Value        Node // initializer, may be nil
}

func (v *VariableDeclaration) Children() []Node {
	var out []Node
	if v.TypeName != nil {
		out = append(out, v.TypeName)
	}
	if v.Value != nil {
		out = append(out, v.Value)
	}
	return out
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Block is a `{ ... }` sequence of statements.
type Block struct {
	Base
	Statements []Node
}

func (b *Block) Children() []Node { return b.Statements }

// UncheckedBlock is an `unchecked { ... }` block. It does not introduce a
// CFG boundary by itself (spec.md §4.5 does not list it as a
// block-splitting construct) but is tracked distinctly from Block so a
// ModifiesState/overflow-aware pass can recognise it later.
type UncheckedBlock struct {
	Base
	Statements []Node
}

func (u *UncheckedBlock) Children() []Node { return u.Statements }

// IfStatement is an `if (cond) thenBody else elseBody` statement.
type IfStatement struct {
	Base
	Condition Node
	Then      Node
	Else      Node // nil if no else branch
}

func (s *IfStatement) Children() []Node {
	out := []Node{s.Condition, s.Then}
	if s.Else != nil {
		out = append(out, s.Else)
	}
	return out
}

// ForStatement is a `for (init; cond; post) body` statement.
type ForStatement struct {
	Base
	Init      Node // may be nil
	Condition Node // may be nil
	Post      Node // may be nil
	Body      Node
}

func (s *ForStatement) Children() []Node {
	var out []Node
	for _, n := range []Node{s.Init, s.Condition, s.Post, s.Body} {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// WhileStatement is a `while (cond) body` statement.
type WhileStatement struct {
	Base
	Condition Node
	Body      Node
}

func (s *WhileStatement) Children() []Node { return []Node{s.Condition, s.Body} }

// DoWhileStatement is a `do body while (cond);` statement.
type DoWhileStatement struct {
	Base
	Body      Node
	Condition Node
}

func (s *DoWhileStatement) Children() []Node { return []Node{s.Body, s.Condition} }

// ReturnStatement is a `return [expr];` statement.
type ReturnStatement struct {
	Base
	Expression Node // nil for bare `return;`
}

func (s *ReturnStatement) Children() []Node {
	if s.Expression != nil {
		return []Node{s.Expression}
	}
	return nil
}

// RevertStatement is an explicit `revert [Error(args)];` statement — as
// opposed to a compiler-synthesised revert from `require`/`assert`, which
// never produces this node kind (see the revert-index construction in
// evm/attribute.BuildRevertIndex).
type RevertStatement struct {
	Base
	ErrorCall Node // FunctionCall, nil for bare `revert;`
}

func (s *RevertStatement) Children() []Node {
	if s.ErrorCall != nil {
		return []Node{s.ErrorCall}
	}
	return nil
}

// BreakStatement is a `break;` statement.
type BreakStatement struct{ Base }

// ContinueStatement is a `continue;` statement.
type ContinueStatement struct{ Base }

// ThrowStatement is the legacy `throw;` statement (pre-0.4.13).
type ThrowStatement struct{ Base }

// EmitStatement is an `emit Event(args);` statement.
type EmitStatement struct {
	Base
	EventCall Node // FunctionCall
}

func (s *EmitStatement) Children() []Node { return []Node{s.EventCall} }

// ExpressionStatement is a bare expression used as a statement.
type ExpressionStatement struct {
	Base
	Expression Node
}

func (s *ExpressionStatement) Children() []Node { return []Node{s.Expression} }

// VariableDeclarationStatement declares one or more local variables,
// optionally with an initializer (`(uint a, uint b) = f();`).
type VariableDeclarationStatement struct {
	Base
	Declarations []*VariableDeclaration // entries may be nil for skipped tuple slots
	Initial      Node                   // nil if no initializer
}

func (s *VariableDeclarationStatement) Children() []Node {
	var out []Node
	for _, d := range s.Declarations {
		if d != nil {
			out = append(out, d)
		}
	}
	if s.Initial != nil {
		out = append(out, s.Initial)
	}
	return out
}

// PlaceholderStatement is the modifier body's `_;`.
type PlaceholderStatement struct{ Base }

// TryStatement is a `try externalCall() returns (...) { } catch { }` — one
// or more CatchClauses plus the success body.
type TryStatement struct {
	Base
	ExternalCall  Node
	ReturnParams  *ParameterList
	Body          *Block
	CatchClauses  []*CatchClause
}

func (s *TryStatement) Children() []Node {
	out := []Node{s.ExternalCall}
	if s.ReturnParams != nil {
		out = append(out, s.ReturnParams)
	}
	if s.Body != nil {
		out = append(out, s.Body)
	}
	for _, c := range s.CatchClauses {
		out = append(out, c)
	}
	return out
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Identifier is a name reference. Reference resolves (via ir/resolve) to
// the declaration it names.
type Identifier struct {
	Base
	Name      string
	Reference Handle // zero Handle if unresolved (e.g. a builtin)
}

// LiteralKind distinguishes number/string/bool/hex literals.
type LiteralKind int

const (
	LiteralKindNumber LiteralKind = iota
	LiteralKindString
	LiteralKindBool
	LiteralKindHexString
)

// Literal is a constant value written in source.
type Literal struct {
	Base
	LiteralKind LiteralKind
	Value       string
}

// BinaryOperation is `left OP right`.
type BinaryOperation struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

func (b *BinaryOperation) Children() []Node { return []Node{b.Left, b.Right} }

// UnaryOperation is `OP operand` or `operand OP` (prefix/postfix).
type UnaryOperation struct {
	Base
	Operator string
	Operand  Node
	Prefix   bool
}

func (u *UnaryOperation) Children() []Node { return []Node{u.Operand} }

// Assignment is `lhs OP= rhs`.
type Assignment struct {
	Base
	Operator string
	LHS      Node
	RHS      Node
}

func (a *Assignment) Children() []Node { return []Node{a.LHS, a.RHS} }

// FunctionCall is `callee(arguments...)`, including explicit type
// conversions and struct-literal calls.
type FunctionCall struct {
	Base
	Callee    Node
	Arguments []Node
}

func (f *FunctionCall) Children() []Node {
	out := make([]Node, 0, 1+len(f.Arguments))
	out = append(out, f.Callee)
	out = append(out, f.Arguments...)
	return out
}

// MemberAccess is `expr.member`. Reference resolves the member to a
// declaration when statically known (e.g. `this.balanceOf`).
type MemberAccess struct {
	Base
	Expression Node
	MemberName string
	Reference  Handle
}

func (m *MemberAccess) Children() []Node { return []Node{m.Expression} }

// IndexAccess is `base[index]` (index may be nil for an empty array
// type-name slot, e.g. `uint[] memory`).
type IndexAccess struct {
	Base
	BaseExpr Node
	Index    Node
}

func (i *IndexAccess) Children() []Node {
	out := []Node{i.BaseExpr}
	if i.Index != nil {
		out = append(out, i.Index)
	}
	return out
}

// TupleExpression is `(a, b, c)`, including array literals `[a, b, c]`.
// Entries may be nil for skipped tuple slots (`(, b) = f()`).
type TupleExpression struct {
	Base
	Components []Node
	IsArray    bool
}

func (t *TupleExpression) Children() []Node {
	var out []Node
	for _, c := range t.Components {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Conditional is `cond ? trueExpr : falseExpr`.
type Conditional struct {
	Base
	Condition Node
	TrueExpr  Node
	FalseExpr Node
}

func (c *Conditional) Children() []Node { return []Node{c.Condition, c.TrueExpr, c.FalseExpr} }

// ---------------------------------------------------------------------
// Type names
// ---------------------------------------------------------------------

// ElementaryTypeName is a built-in type (`uint256`, `address`, `bool`, …).
type ElementaryTypeName struct {
	Base
	Name string
}

// UserDefinedTypeName references a contract/struct/enum by name.
type UserDefinedTypeName struct {
	Base
	Name      string
	Reference Handle
}

// ArrayTypeName is `BaseType[Length]` (Length nil for dynamic arrays).
type ArrayTypeName struct {
	Base
	BaseType Node
	Length   Node
}

func (a *ArrayTypeName) Children() []Node {
	out := []Node{a.BaseType}
	if a.Length != nil {
		out = append(out, a.Length)
	}
	return out
}

// MappingTypeName is `mapping(KeyType => ValueType)`.
type MappingTypeName struct {
	Base
	KeyType   Node
	ValueType Node
}

func (m *MappingTypeName) Children() []Node { return []Node{m.KeyType, m.ValueType} }
