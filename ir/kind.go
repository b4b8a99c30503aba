package ir

// Kind tags every IR node with its closed variant. New kinds are added
// here and nowhere else — AST decoding (ir.DecodeAST), visitors, and the
// CFG builder all switch over Kind rather than using open-ended
// interface dispatch, per the "dynamic dispatch across variant nodes"
// design note.
type Kind int

const (
	KindInvalid Kind = iota

	// Meta
	KindSourceUnit
	KindParameterList
	KindInheritanceSpecifier
	KindModifierInvocation
	KindCatchClause

	// Declarations
	KindContractDefinition
	KindFunctionDefinition
	KindModifierDefinition
	KindEventDefinition
	KindErrorDefinition
	KindEnumDefinition
	KindEnumValue
	KindStructDefinition
	KindVariableDeclaration

	// Statements
	KindBlock
	KindUncheckedBlock
	KindIfStatement
	KindForStatement
	KindWhileStatement
	KindDoWhileStatement
	KindReturnStatement
	KindRevertStatement
	KindBreakStatement
	KindContinueStatement
	KindEmitStatement
	KindExpressionStatement
	KindVariableDeclarationStatement
	KindTryStatement
	KindPlaceholderStatement
	KindThrowStatement

	// Expressions
	KindIdentifier
	KindLiteral
	KindBinaryOperation
	KindUnaryOperation
	KindAssignment
	KindFunctionCall
	KindMemberAccess
	KindIndexAccess
	KindTupleExpression
	KindConditional

	// Type names
	KindElementaryTypeName
	KindUserDefinedTypeName
	KindArrayTypeName
	KindMappingTypeName
)

// String renders a human-readable name for diagnostics and logging.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindSourceUnit:                   "SourceUnit",
	KindParameterList:                "ParameterList",
	KindInheritanceSpecifier:         "InheritanceSpecifier",
	KindModifierInvocation:           "ModifierInvocation",
	KindCatchClause:                  "CatchClause",
	KindContractDefinition:           "ContractDefinition",
	KindFunctionDefinition:           "FunctionDefinition",
	KindModifierDefinition:           "ModifierDefinition",
	KindEventDefinition:              "EventDefinition",
	KindErrorDefinition:              "ErrorDefinition",
	KindEnumDefinition:               "EnumDefinition",
	KindEnumValue:                    "EnumValue",
	KindStructDefinition:             "StructDefinition",
	KindVariableDeclaration:          "VariableDeclaration",
	KindBlock:                        "Block",
	KindUncheckedBlock:               "UncheckedBlock",
	KindIfStatement:                  "IfStatement",
	KindForStatement:                 "ForStatement",
	KindWhileStatement:               "WhileStatement",
	KindDoWhileStatement:             "DoWhileStatement",
	KindReturnStatement:              "ReturnStatement",
	KindRevertStatement:              "RevertStatement",
	KindBreakStatement:               "BreakStatement",
	KindContinueStatement:            "ContinueStatement",
	KindEmitStatement:                "EmitStatement",
	KindExpressionStatement:          "ExpressionStatement",
	KindVariableDeclarationStatement: "VariableDeclarationStatement",
	KindTryStatement:                 "TryStatement",
	KindPlaceholderStatement:         "PlaceholderStatement",
	KindThrowStatement:               "ThrowStatement",
	KindIdentifier:                   "Identifier",
	KindLiteral:                      "Literal",
	KindBinaryOperation:              "BinaryOperation",
	KindUnaryOperation:               "UnaryOperation",
	KindAssignment:                   "Assignment",
	KindFunctionCall:                 "FunctionCall",
	KindMemberAccess:                 "MemberAccess",
	KindIndexAccess:                  "IndexAccess",
	KindTupleExpression:              "TupleExpression",
	KindConditional:                  "Conditional",
	KindElementaryTypeName:           "ElementaryTypeName",
	KindUserDefinedTypeName:          "UserDefinedTypeName",
	KindArrayTypeName:                "ArrayTypeName",
	KindMappingTypeName:              "MappingTypeName",
}

// IsStatement reports whether k is one of the statement variants, used by
// StatementsIter to restrict its walk.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindUncheckedBlock, KindIfStatement, KindForStatement,
		KindWhileStatement, KindDoWhileStatement, KindReturnStatement,
		KindRevertStatement, KindBreakStatement, KindContinueStatement,
		KindEmitStatement, KindExpressionStatement, KindVariableDeclarationStatement,
		KindTryStatement, KindPlaceholderStatement, KindThrowStatement:
		return true
	default:
		return false
	}
}

// IsExpression reports whether k is one of the expression variants.
func (k Kind) IsExpression() bool {
	switch k {
	case KindIdentifier, KindLiteral, KindBinaryOperation, KindUnaryOperation,
		KindAssignment, KindFunctionCall, KindMemberAccess, KindIndexAccess,
		KindTupleExpression, KindConditional:
		return true
	default:
		return false
	}
}
