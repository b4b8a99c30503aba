package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// rawNode is the generic shape every solc AST node decodes into before
// dispatch. Decoding straight into map[string]any (rather than a
// per-kind struct via json.Unmarshal) is what lets DecodeAST reject an
// unrecognised nodeType with a MalformedAstError instead of silently
// zero-valuing unknown fields.
type rawNode = map[string]any

// decodeCtx carries everything a node constructor needs: which file it
// belongs to (for ByteRange resolution against src strings) and the CU
// hash stamped onto every node.
type decodeCtx struct {
	cuHash string
	path   string
}

// DecodeAST parses one source file's compiler AST JSON into its root
// declarations. raw is the value of solc's
// `sources[path].ast` (or, equivalently, the legacy `AST` key) —
// effectively the SourceUnit node's own JSON.
//
// DecodeAST preserves source locations verbatim: every ByteRange comes
// straight from the AST's own "src" field, never recomputed.
func DecodeAST(cuHash, path string, raw json.RawMessage) (*SourceUnit, error) {
	var root rawNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &MalformedAstError{Path: path, Reason: "invalid JSON: " + err.Error()}
	}

	nodeType, _ := root["nodeType"].(string)
	if nodeType != "SourceUnit" {
		return nil, &MalformedAstError{Path: path, Reason: fmt.Sprintf("expected root nodeType SourceUnit, got %q", nodeType)}
	}

	ctx := &decodeCtx{cuHash: cuHash, path: path}
	su := &SourceUnit{
		Base: Base{KindValue: KindSourceUnit, CUHash: cuHash},
		Path: path,
	}

	children, ok := root["nodes"].([]any)
	if !ok {
		return nil, &MalformedAstError{Path: path, Reason: "SourceUnit missing \"nodes\" array"}
	}

	for _, raw := range children {
		m, ok := raw.(rawNode)
		if !ok {
			return nil, &MalformedAstError{Path: path, Reason: "top-level node is not an object"}
		}
		n, err := decodeNode(ctx, m)
		if err != nil {
			return nil, err
		}
		if n != nil {
			su.Declarations = append(su.Declarations, n)
		}
	}

	if r, ok := root["src"].(string); ok {
		su.ByteRange, _ = parseSrc(ctx, r)
	}

	buildTree(su)
	return su, nil
}

// parseSrc parses solc's "start:length:fileIndex" src string into a
// ByteRange. The fileIndex component is ignored: callers only decode one
// file at a time and a node's offsets are always relative to its own
// Source Unit, per spec.md §3.
func parseSrc(ctx *decodeCtx, src string) (ByteRange, error) {
	parts := strings.SplitN(src, ":", 3)
	if len(parts) < 2 {
		return ByteRange{}, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("malformed src %q", src)}
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return ByteRange{}, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("malformed src start %q", src)}
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return ByteRange{}, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("malformed src length %q", src)}
	}
	return ByteRange{Start: start, End: start + length}, nil
}

func base(ctx *decodeCtx, m rawNode, k Kind) (Base, error) {
	b := Base{KindValue: k, CUHash: ctx.cuHash}
	if id, ok := numField(m, "id"); ok {
		b.ASTID = int(id)
	} else {
		return b, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("%s missing integer \"id\"", k)}
	}
	if s, ok := m["src"].(string); ok {
		r, err := parseSrc(ctx, s)
		if err != nil {
			return b, err
		}
		b.ByteRange = r
	} else {
		return b, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("%s missing string \"src\"", k)}
	}
	return b, nil
}

func numField(m rawNode, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func strField(m rawNode, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m rawNode, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func handleField(ctx *decodeCtx, m rawNode, key string) Handle {
	f, ok := numField(m, key)
	if !ok || f == 0 {
		return Handle{}
	}
	return Handle{ASTID: int(f), CUHash: ctx.cuHash}
}

func refHandle(ctx *decodeCtx, m rawNode) Handle {
	return handleField(ctx, m, "referencedDeclaration")
}

func nodeField(ctx *decodeCtx, m rawNode, key string) (Node, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	child, ok := v.(rawNode)
	if !ok {
		return nil, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("field %q is not an object", key)}
	}
	return decodeNode(ctx, child)
}

func nodeListField(ctx *decodeCtx, m rawNode, key string) ([]Node, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("field %q is not an array", key)}
	}
	out := make([]Node, 0, len(list))
	for _, item := range list {
		if item == nil {
			out = append(out, nil) // preserves skipped-slot positions, e.g. tuple holes
			continue
		}
		child, ok := item.(rawNode)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("entry in %q is not an object", key)}
		}
		n, err := decodeNode(ctx, child)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeNode dispatches on nodeType into the closed Kind union. An
// unrecognised nodeType is a MalformedAstError, never a silently
// zero-valued node.
func decodeNode(ctx *decodeCtx, m rawNode) (Node, error) {
	nodeType, ok := m["nodeType"].(string)
	if !ok {
		return nil, &MalformedAstError{Path: ctx.path, Reason: "node missing string \"nodeType\""}
	}

	switch nodeType {
	case "ParameterList":
		return decodeParameterList(ctx, m)
	case "InheritanceSpecifier":
		return decodeInheritanceSpecifier(ctx, m)
	case "ModifierInvocation":
		return decodeModifierInvocation(ctx, m)

	case "ContractDefinition":
		return decodeContractDefinition(ctx, m)
	case "FunctionDefinition":
		return decodeFunctionDefinition(ctx, m)
	case "ModifierDefinition":
		return decodeModifierDefinition(ctx, m)
	case "EventDefinition":
		return decodeEventDefinition(ctx, m)
	case "ErrorDefinition":
		return decodeErrorDefinition(ctx, m)
	case "EnumDefinition":
		return decodeEnumDefinition(ctx, m)
	case "EnumValue":
		b, err := base(ctx, m, KindEnumValue)
		if err != nil {
			return nil, err
		}
		return &EnumValue{Base: b, Name: strField(m, "name")}, nil
	case "StructDefinition":
		return decodeStructDefinition(ctx, m)
	case "VariableDeclaration":
		return decodeVariableDeclaration(ctx, m)

	case "Block":
		return decodeBlock(ctx, m, KindBlock)
	case "UncheckedBlock":
		return decodeUncheckedBlock(ctx, m)
	case "IfStatement":
		return decodeIfStatement(ctx, m)
	case "ForStatement":
		return decodeForStatement(ctx, m)
	case "WhileStatement":
		return decodeWhileStatement(ctx, m)
	case "DoWhileStatement":
		return decodeDoWhileStatement(ctx, m)
	case "Return":
		b, err := base(ctx, m, KindReturnStatement)
		if err != nil {
			return nil, err
		}
		expr, err := nodeField(ctx, m, "expression")
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Base: b, Expression: expr}, nil
	case "RevertStatement":
		b, err := base(ctx, m, KindRevertStatement)
		if err != nil {
			return nil, err
		}
		call, err := nodeField(ctx, m, "errorCall")
		if err != nil {
			return nil, err
		}
		return &RevertStatement{Base: b, ErrorCall: call}, nil
	case "Break":
		b, err := base(ctx, m, KindBreakStatement)
		return &BreakStatement{Base: b}, err
	case "Continue":
		b, err := base(ctx, m, KindContinueStatement)
		return &ContinueStatement{Base: b}, err
	case "Throw":
		b, err := base(ctx, m, KindThrowStatement)
		return &ThrowStatement{Base: b}, err
	case "PlaceholderStatement":
		b, err := base(ctx, m, KindPlaceholderStatement)
		return &PlaceholderStatement{Base: b}, err
	case "EmitStatement":
		b, err := base(ctx, m, KindEmitStatement)
		if err != nil {
			return nil, err
		}
		call, err := nodeField(ctx, m, "eventCall")
		if err != nil {
			return nil, err
		}
		return &EmitStatement{Base: b, EventCall: call}, nil
	case "ExpressionStatement":
		b, err := base(ctx, m, KindExpressionStatement)
		if err != nil {
			return nil, err
		}
		expr, err := nodeField(ctx, m, "expression")
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Base: b, Expression: expr}, nil
	case "VariableDeclarationStatement":
		return decodeVariableDeclarationStatement(ctx, m)
	case "TryStatement":
		return decodeTryStatement(ctx, m)

	case "Identifier":
		b, err := base(ctx, m, KindIdentifier)
		if err != nil {
			return nil, err
		}
		return &Identifier{Base: b, Name: strField(m, "name"), Reference: refHandle(ctx, m)}, nil
	case "Literal":
		b, err := base(ctx, m, KindLiteral)
		if err != nil {
			return nil, err
		}
		return &Literal{Base: b, LiteralKind: parseLiteralKind(strField(m, "kind")), Value: strField(m, "value")}, nil
	case "BinaryOperation":
		b, err := base(ctx, m, KindBinaryOperation)
		if err != nil {
			return nil, err
		}
		left, err := nodeField(ctx, m, "leftExpression")
		if err != nil {
			return nil, err
		}
		right, err := nodeField(ctx, m, "rightExpression")
		if err != nil {
			return nil, err
		}
		return &BinaryOperation{Base: b, Operator: strField(m, "operator"), Left: left, Right: right}, nil
	case "UnaryOperation":
		b, err := base(ctx, m, KindUnaryOperation)
		if err != nil {
			return nil, err
		}
		operand, err := nodeField(ctx, m, "subExpression")
		if err != nil {
			return nil, err
		}
		return &UnaryOperation{Base: b, Operator: strField(m, "operator"), Operand: operand, Prefix: boolField(m, "prefix")}, nil
	case "Assignment":
		b, err := base(ctx, m, KindAssignment)
		if err != nil {
			return nil, err
		}
		lhs, err := nodeField(ctx, m, "leftHandSide")
		if err != nil {
			return nil, err
		}
		rhs, err := nodeField(ctx, m, "rightHandSide")
		if err != nil {
			return nil, err
		}
		return &Assignment{Base: b, Operator: strField(m, "operator"), LHS: lhs, RHS: rhs}, nil
	case "FunctionCall":
		b, err := base(ctx, m, KindFunctionCall)
		if err != nil {
			return nil, err
		}
		callee, err := nodeField(ctx, m, "expression")
		if err != nil {
			return nil, err
		}
		args, err := nodeListField(ctx, m, "arguments")
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Base: b, Callee: callee, Arguments: args}, nil
	case "MemberAccess":
		b, err := base(ctx, m, KindMemberAccess)
		if err != nil {
			return nil, err
		}
		expr, err := nodeField(ctx, m, "expression")
		if err != nil {
			return nil, err
		}
		return &MemberAccess{Base: b, Expression: expr, MemberName: strField(m, "memberName"), Reference: refHandle(ctx, m)}, nil
	case "IndexAccess":
		b, err := base(ctx, m, KindIndexAccess)
		if err != nil {
			return nil, err
		}
		baseExpr, err := nodeField(ctx, m, "baseExpression")
		if err != nil {
			return nil, err
		}
		index, err := nodeField(ctx, m, "indexExpression")
		if err != nil {
			return nil, err
		}
		return &IndexAccess{Base: b, BaseExpr: baseExpr, Index: index}, nil
	case "TupleExpression":
		b, err := base(ctx, m, KindTupleExpression)
		if err != nil {
			return nil, err
		}
		comps, err := nodeListField(ctx, m, "components")
		if err != nil {
			return nil, err
		}
		return &TupleExpression{Base: b, Components: comps, IsArray: boolField(m, "isInlineArray")}, nil
	case "Conditional":
		b, err := base(ctx, m, KindConditional)
		if err != nil {
			return nil, err
		}
		cond, err := nodeField(ctx, m, "condition")
		if err != nil {
			return nil, err
		}
		t, err := nodeField(ctx, m, "trueExpression")
		if err != nil {
			return nil, err
		}
		f, err := nodeField(ctx, m, "falseExpression")
		if err != nil {
			return nil, err
		}
		return &Conditional{Base: b, Condition: cond, TrueExpr: t, FalseExpr: f}, nil

	case "ElementaryTypeName":
		b, err := base(ctx, m, KindElementaryTypeName)
		if err != nil {
			return nil, err
		}
		return &ElementaryTypeName{Base: b, Name: strField(m, "name")}, nil
	case "UserDefinedTypeName":
		b, err := base(ctx, m, KindUserDefinedTypeName)
		if err != nil {
			return nil, err
		}
		return &UserDefinedTypeName{Base: b, Name: strField(m, "name"), Reference: refHandle(ctx, m)}, nil
	case "ArrayTypeName":
		b, err := base(ctx, m, KindArrayTypeName)
		if err != nil {
			return nil, err
		}
		bt, err := nodeField(ctx, m, "baseType")
		if err != nil {
			return nil, err
		}
		ln, err := nodeField(ctx, m, "length")
		if err != nil {
			return nil, err
		}
		return &ArrayTypeName{Base: b, BaseType: bt, Length: ln}, nil
	case "Mapping":
		b, err := base(ctx, m, KindMappingTypeName)
		if err != nil {
			return nil, err
		}
		kt, err := nodeField(ctx, m, "keyType")
		if err != nil {
			return nil, err
		}
		vt, err := nodeField(ctx, m, "valueType")
		if err != nil {
			return nil, err
		}
		return &MappingTypeName{Base: b, KeyType: kt, ValueType: vt}, nil

	default:
		return nil, &MalformedAstError{Path: ctx.path, Reason: fmt.Sprintf("unknown node variant %q", nodeType)}
	}
}

func parseLiteralKind(s string) LiteralKind {
	switch s {
	case "string":
		return LiteralKindString
	case "bool":
		return LiteralKindBool
	case "hexString":
		return LiteralKindHexString
	default:
		return LiteralKindNumber
	}
}

func decodeParameterList(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindParameterList)
	if err != nil {
		return nil, err
	}
	nodes, err := nodeListField(ctx, m, "parameters")
	if err != nil {
		return nil, err
	}
	params := make([]*VariableDeclaration, 0, len(nodes))
	for _, n := range nodes {
		vd, ok := n.(*VariableDeclaration)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "ParameterList entry is not a VariableDeclaration"}
		}
		params = append(params, vd)
	}
	return &ParameterList{Base: b, Parameters: params}, nil
}

func decodeInheritanceSpecifier(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindInheritanceSpecifier)
	if err != nil {
		return nil, err
	}
	baseNameHandle := Handle{}
	if bn, ok := m["baseName"].(rawNode); ok {
		baseNameHandle = refHandle(ctx, bn)
	}
	args, err := nodeListField(ctx, m, "arguments")
	if err != nil {
		return nil, err
	}
	return &InheritanceSpecifier{Base: b, BaseName: baseNameHandle, Arguments: args}, nil
}

func decodeModifierInvocation(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindModifierInvocation)
	if err != nil {
		return nil, err
	}
	modHandle := Handle{}
	if mn, ok := m["modifierName"].(rawNode); ok {
		modHandle = refHandle(ctx, mn)
	}
	args, err := nodeListField(ctx, m, "arguments")
	if err != nil {
		return nil, err
	}
	return &ModifierInvocation{Base: b, ModifierName: modHandle, Arguments: args}, nil
}

func decodeContractDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindContractDefinition)
	if err != nil {
		return nil, err
	}
	name := strField(m, "name")
	var kind ContractKind
	switch strField(m, "contractKind") {
	case "interface":
		kind = ContractKindInterface
	case "library":
		kind = ContractKindLibrary
	default:
		kind = ContractKindContract
	}

	baseList, err := nodeListField(ctx, m, "baseContracts")
	if err != nil {
		return nil, err
	}
	bases := make([]*InheritanceSpecifier, 0, len(baseList))
	for _, n := range baseList {
		is, ok := n.(*InheritanceSpecifier)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "baseContracts entry is not an InheritanceSpecifier"}
		}
		bases = append(bases, is)
	}

	nodes, err := nodeListField(ctx, m, "nodes")
	if err != nil {
		return nil, err
	}

	c := &ContractDefinition{
		Base:          b,
		CanonicalName: name,
		ContractKind:  kind,
		Abstract:      boolField(m, "abstract"),
		BaseContracts: bases,
		Nodes:         nodes,
	}
	return c, nil
}

func decodeFunctionDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindFunctionDefinition)
	if err != nil {
		return nil, err
	}
	name := strField(m, "name")
	kind := strField(m, "kind")

	params, err := nodeField(ctx, m, "parameters")
	if err != nil {
		return nil, err
	}
	returns, err := nodeField(ctx, m, "returnParameters")
	if err != nil {
		return nil, err
	}
	modList, err := nodeListField(ctx, m, "modifiers")
	if err != nil {
		return nil, err
	}
	mods := make([]*ModifierInvocation, 0, len(modList))
	for _, n := range modList {
		mi, ok := n.(*ModifierInvocation)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "modifiers entry is not a ModifierInvocation"}
		}
		mods = append(mods, mi)
	}
	body, err := nodeField(ctx, m, "body")
	if err != nil {
		return nil, err
	}
	var bodyBlock *Block
	if body != nil {
		bb, ok := body.(*Block)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "FunctionDefinition body is not a Block"}
		}
		bodyBlock = bb
	}

	var paramList, returnList *ParameterList
	if params != nil {
		paramList, _ = params.(*ParameterList)
	}
	if returns != nil {
		returnList, _ = returns.(*ParameterList)
	}

	return &FunctionDefinition{
		Base:            b,
		CanonicalName:   name,
		Visibility:      parseVisibility(strField(m, "visibility")),
		StateMutability: parseStateMutability(strField(m, "stateMutability")),
		IsConstructor:   kind == "constructor",
		Virtual:         boolField(m, "virtual"),
		Override:        m["overrides"] != nil,
		Parameters:      paramList,
		ReturnParams:    returnList,
		Modifiers:       mods,
		Body:            bodyBlock,
	}, nil
}

func decodeModifierDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindModifierDefinition)
	if err != nil {
		return nil, err
	}
	params, err := nodeField(ctx, m, "parameters")
	if err != nil {
		return nil, err
	}
	body, err := nodeField(ctx, m, "body")
	if err != nil {
		return nil, err
	}
	var paramList *ParameterList
	if params != nil {
		paramList, _ = params.(*ParameterList)
	}
	var bodyBlock *Block
	if body != nil {
		bodyBlock, _ = body.(*Block)
	}
	return &ModifierDefinition{Base: b, CanonicalName: strField(m, "name"), Parameters: paramList, Body: bodyBlock}, nil
}

func decodeEventDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindEventDefinition)
	if err != nil {
		return nil, err
	}
	params, err := nodeField(ctx, m, "parameters")
	if err != nil {
		return nil, err
	}
	var paramList *ParameterList
	if params != nil {
		paramList, _ = params.(*ParameterList)
	}
	return &EventDefinition{Base: b, CanonicalName: strField(m, "name"), Parameters: paramList, Anonymous: boolField(m, "anonymous")}, nil
}

func decodeErrorDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindErrorDefinition)
	if err != nil {
		return nil, err
	}
	params, err := nodeField(ctx, m, "parameters")
	if err != nil {
		return nil, err
	}
	var paramList *ParameterList
	if params != nil {
		paramList, _ = params.(*ParameterList)
	}
	return &ErrorDefinition{Base: b, CanonicalName: strField(m, "name"), Parameters: paramList}, nil
}

func decodeEnumDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindEnumDefinition)
	if err != nil {
		return nil, err
	}
	memberList, err := nodeListField(ctx, m, "members")
	if err != nil {
		return nil, err
	}
	members := make([]*EnumValue, 0, len(memberList))
	for _, n := range memberList {
		ev, ok := n.(*EnumValue)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "EnumDefinition member is not an EnumValue"}
		}
		members = append(members, ev)
	}
	return &EnumDefinition{Base: b, CanonicalName: strField(m, "name"), Members: members}, nil
}

func decodeStructDefinition(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindStructDefinition)
	if err != nil {
		return nil, err
	}
	memberList, err := nodeListField(ctx, m, "members")
	if err != nil {
		return nil, err
	}
	members := make([]*VariableDeclaration, 0, len(memberList))
	for _, n := range memberList {
		vd, ok := n.(*VariableDeclaration)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "StructDefinition member is not a VariableDeclaration"}
		}
		members = append(members, vd)
	}
	return &StructDefinition{Base: b, CanonicalName: strField(m, "name"), Members: members}, nil
}

func decodeVariableDeclaration(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindVariableDeclaration)
	if err != nil {
		return nil, err
	}
	typeName, err := nodeField(ctx, m, "typeName")
	if err != nil {
		return nil, err
	}
	value, err := nodeField(ctx, m, "value")
	if err != nil {
		return nil, err
	}
	mutability := strField(m, "mutability")
	return &VariableDeclaration{
		Base:       b,
		Name:       strField(m, "name"),
		TypeName:   typeName,
		Visibility: parseVisibility(strField(m, "visibility")),
		Constant:   mutability == "constant",
		Immutable:  mutability == "immutable",
		StateVar:   boolField(m, "stateVariable"),
		Value:      value,
	}, nil
}

func decodeBlock(ctx *decodeCtx, m rawNode, k Kind) (Node, error) {
	b, err := base(ctx, m, k)
	if err != nil {
		return nil, err
	}
	stmts, err := nodeListField(ctx, m, "statements")
	if err != nil {
		return nil, err
	}
	return &Block{Base: b, Statements: stmts}, nil
}

func decodeUncheckedBlock(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindUncheckedBlock)
	if err != nil {
		return nil, err
	}
	stmts, err := nodeListField(ctx, m, "statements")
	if err != nil {
		return nil, err
	}
	return &UncheckedBlock{Base: b, Statements: stmts}, nil
}

func decodeIfStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindIfStatement)
	if err != nil {
		return nil, err
	}
	cond, err := nodeField(ctx, m, "condition")
	if err != nil {
		return nil, err
	}
	then, err := nodeField(ctx, m, "trueBody")
	if err != nil {
		return nil, err
	}
	els, err := nodeField(ctx, m, "falseBody")
	if err != nil {
		return nil, err
	}
	return &IfStatement{Base: b, Condition: cond, Then: then, Else: els}, nil
}

func decodeForStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindForStatement)
	if err != nil {
		return nil, err
	}
	initN, err := nodeField(ctx, m, "initializationExpression")
	if err != nil {
		return nil, err
	}
	cond, err := nodeField(ctx, m, "condition")
	if err != nil {
		return nil, err
	}
	post, err := nodeField(ctx, m, "loopExpression")
	if err != nil {
		return nil, err
	}
	body, err := nodeField(ctx, m, "body")
	if err != nil {
		return nil, err
	}
	return &ForStatement{Base: b, Init: initN, Condition: cond, Post: post, Body: body}, nil
}

func decodeWhileStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindWhileStatement)
	if err != nil {
		return nil, err
	}
	cond, err := nodeField(ctx, m, "condition")
	if err != nil {
		return nil, err
	}
	body, err := nodeField(ctx, m, "body")
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Base: b, Condition: cond, Body: body}, nil
}

func decodeDoWhileStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindDoWhileStatement)
	if err != nil {
		return nil, err
	}
	body, err := nodeField(ctx, m, "body")
	if err != nil {
		return nil, err
	}
	cond, err := nodeField(ctx, m, "condition")
	if err != nil {
		return nil, err
	}
	return &DoWhileStatement{Base: b, Body: body, Condition: cond}, nil
}

func decodeVariableDeclarationStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindVariableDeclarationStatement)
	if err != nil {
		return nil, err
	}
	declList, err := nodeListField(ctx, m, "declarations")
	if err != nil {
		return nil, err
	}
	decls := make([]*VariableDeclaration, len(declList))
	for i, n := range declList {
		if n == nil {
			continue
		}
		vd, ok := n.(*VariableDeclaration)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "VariableDeclarationStatement entry is not a VariableDeclaration"}
		}
		decls[i] = vd
	}
	initial, err := nodeField(ctx, m, "initialValue")
	if err != nil {
		return nil, err
	}
	return &VariableDeclarationStatement{Base: b, Declarations: decls, Initial: initial}, nil
}

func decodeTryStatement(ctx *decodeCtx, m rawNode) (Node, error) {
	b, err := base(ctx, m, KindTryStatement)
	if err != nil {
		return nil, err
	}
	call, err := nodeField(ctx, m, "externalCall")
	if err != nil {
		return nil, err
	}
	clauseList, ok := m["clauses"].([]any)
	if !ok {
		return nil, &MalformedAstError{Path: ctx.path, Reason: "TryStatement missing \"clauses\" array"}
	}

	ts := &TryStatement{Base: b, ExternalCall: call}
	for i, raw := range clauseList {
		cm, ok := raw.(rawNode)
		if !ok {
			return nil, &MalformedAstError{Path: ctx.path, Reason: "TryStatement clause is not an object"}
		}
		cb, err := base(ctx, cm, KindCatchClause)
		if err != nil {
			return nil, err
		}
		params, err := nodeField(ctx, cm, "parameters")
		if err != nil {
			return nil, err
		}
		blockNode, err := nodeField(ctx, cm, "block")
		if err != nil {
			return nil, err
		}
		var paramList *ParameterList
		if params != nil {
			paramList, _ = params.(*ParameterList)
		}
		var block *Block
		if blockNode != nil {
			block, _ = blockNode.(*Block)
		}
		errName := strField(cm, "errorName")
		if i == 0 && errName == "" {
			ts.ReturnParams = paramList
			ts.Body = block
			continue
		}
		ts.CatchClauses = append(ts.CatchClauses, &CatchClause{Base: cb, ErrorID: errName, Parameters: paramList, Body: block})
	}
	return ts, nil
}

func parseVisibility(s string) Visibility {
	switch s {
	case "external":
		return VisibilityExternal
	case "public":
		return VisibilityPublic
	case "private":
		return VisibilityPrivate
	default:
		return VisibilityInternal
	}
}

func parseStateMutability(s string) StateMutability {
	switch s {
	case "pure":
		return StateMutabilityPure
	case "view":
		return StateMutabilityView
	case "payable":
		return StateMutabilityPayable
	default:
		return StateMutabilityNonpayable
	}
}
