package inherit

import "solidity-ir/ir"

// Candidate is one contract that could have originated a given selector.
type Candidate struct {
	FQN        string
	Handle     ir.Handle
}

// SelectorTables are the global, immutable snapshots produced once at
// indexing time: selector → candidate contracts. A selector is "unique"
// (UniqueFunction/UniqueEvent/UniqueError report true) iff exactly one
// candidate declared it.
type SelectorTables struct {
	Functions map[[4]byte][]Candidate
	Events    map[[32]byte][]Candidate
	Errors    map[[4]byte][]Candidate
}

// NewSelectorTables returns an empty, mutable builder. Once BuildSelectorTables
// finishes, callers should treat the result as read-only — reloading
// replaces the tables wholesale (no runtime mutation), per the "global
// registries" design note.
func NewSelectorTables() *SelectorTables {
	return &SelectorTables{
		Functions: make(map[[4]byte][]Candidate),
		Events:    make(map[[32]byte][]Candidate),
		Errors:    make(map[[4]byte][]Candidate),
	}
}

// UniqueFunction reports whether sel has exactly one candidate.
func (t *SelectorTables) UniqueFunction(sel [4]byte) (Candidate, bool) {
	cs := t.Functions[sel]
	if len(cs) == 1 {
		return cs[0], true
	}
	return Candidate{}, false
}

// UniqueError reports whether sel has exactly one candidate.
func (t *SelectorTables) UniqueError(sel [4]byte) (Candidate, bool) {
	cs := t.Errors[sel]
	if len(cs) == 1 {
		return cs[0], true
	}
	return Candidate{}, false
}

// UniqueEvent reports whether sel has exactly one candidate.
func (t *SelectorTables) UniqueEvent(sel [32]byte) (Candidate, bool) {
	cs := t.Events[sel]
	if len(cs) == 1 {
		return cs[0], true
	}
	return Candidate{}, false
}

// FQN renders "source-unit-path:ContractName".
func FQN(path, contractName string) string {
	return path + ":" + contractName
}

// BuildSelectorTables walks every contract's own (non-inherited)
// functions/events/errors across every indexed source unit and populates
// the selector tables. It also stamps each ir.FunctionDefinition.Selector,
// ir.EventDefinition.Selector, and ir.ErrorDefinition.Selector field.
//
// typeNamer resolves a VariableDeclaration's TypeName to its canonical
// ABI type string (see CanonicalSignature / ElementaryABIType).
func BuildSelectorTables(units []*ir.SourceUnit, typeNamer func(ir.Node) string) *SelectorTables {
	t := NewSelectorTables()

	for _, su := range units {
		for _, decl := range su.Declarations {
			contract, ok := decl.(*ir.ContractDefinition)
			if !ok {
				continue
			}
			fqn := FQN(su.Path, contract.CanonicalName)
			h := ir.NodeHandle(contract)

			for _, member := range contract.Nodes {
				switch m := member.(type) {
				case *ir.FunctionDefinition:
					if m.Visibility != ir.VisibilityExternal && m.Visibility != ir.VisibilityPublic {
						continue
					}
					if m.IsConstructor {
						continue
					}
					sig := CanonicalSignature(m.CanonicalName, m.Parameters, typeNamer)
					sel := FunctionSelector(sig)
					m.Selector = sel[:]
					t.Functions[sel] = append(t.Functions[sel], Candidate{FQN: fqn, Handle: h})
				case *ir.EventDefinition:
					sig := CanonicalSignature(m.CanonicalName, m.Parameters, typeNamer)
					sel := EventSelector(sig)
					m.Selector = sel
					t.Events[sel] = append(t.Events[sel], Candidate{FQN: fqn, Handle: h})
				case *ir.ErrorDefinition:
					sig := CanonicalSignature(m.CanonicalName, m.Parameters, typeNamer)
					sel := ErrorSelector(sig)
					m.Selector = sel
					t.Errors[sel] = append(t.Errors[sel], Candidate{FQN: fqn, Handle: h})
				}
			}
		}
	}

	return t
}
