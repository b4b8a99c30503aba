package inherit

import (
	"strings"

	"golang.org/x/crypto/sha3"

	"solidity-ir/ir"
)

// CanonicalSignature renders "name(type1,type2,...)" for a parameter
// list, expanding contract types to "address" and enum types to "uint8"
// per the library ABI quirk in spec.md §4.4. typeNamer resolves a
// VariableDeclaration's TypeName node to its canonical ABI type string;
// callers own type resolution (it depends on ir/resolve to classify
// UserDefinedTypeName references as contract/enum/struct).
func CanonicalSignature(name string, params *ir.ParameterList, typeNamer func(ir.Node) string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	if params != nil {
		for i, p := range params.Parameters {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(typeNamer(p.TypeName))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// FunctionSelector returns keccak256(signature)[0:4].
func FunctionSelector(signature string) [4]byte {
	full := keccak256(signature)
	var sel [4]byte
	copy(sel[:], full[:4])
	return sel
}

// ErrorSelector returns keccak256(signature)[0:4] — errors use the same
// 4-byte convention as functions.
func ErrorSelector(signature string) [4]byte {
	return FunctionSelector(signature)
}

// EventSelector returns the full 32-byte keccak256(signature), used as
// the first indexed topic of a non-anonymous event.
func EventSelector(signature string) [32]byte {
	return keccak256(signature)
}

func keccak256(s string) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ElementaryABIType maps an ElementaryTypeName / UserDefinedTypeName to
// its canonical ABI type, applying the contract→address and enum→uint8
// expansion. kindOf classifies a UserDefinedTypeName's reference as
// "contract", "enum", "struct", or "" (unknown/unresolved, returned
// as-is — callers surface UnresolvedReference separately).
func ElementaryABIType(n ir.Node, kindOf func(ir.Handle) string) string {
	switch t := n.(type) {
	case *ir.ElementaryTypeName:
		return t.Name
	case *ir.UserDefinedTypeName:
		switch kindOf(t.Reference) {
		case "contract":
			return "address"
		case "enum":
			return "uint8"
		default:
			return t.Name
		}
	case *ir.ArrayTypeName:
		inner := ElementaryABIType(t.BaseType, kindOf)
		if t.Length != nil {
			if lit, ok := t.Length.(*ir.Literal); ok {
				return inner + "[" + lit.Value + "]"
			}
		}
		return inner + "[]"
	case *ir.MappingTypeName:
		// Mappings cannot appear in externally callable signatures;
		// this case exists only so the function is total.
		return "mapping"
	default:
		return "unknown"
	}
}
