package srcmap

import (
	"fmt"
	"strconv"
	"strings"

	"solidity-ir/ir"
)

// JumpKind is the jump classification attached to a PC, per spec.md
// §4.8/§4.9 (`jump_kind ∈ {in, out, regular}`).
type JumpKind string

const (
	JumpKindIn      JumpKind = "in"
	JumpKindOut     JumpKind = "out"
	JumpKindRegular JumpKind = "regular"
)

// PCEntry is one PC's resolved mapping: its source entry, the opcode at
// that PC, the smallest enclosing function/modifier (if any), and
// whether the PC is inside an inlined modifier.
type PCEntry struct {
	PC           int
	Entry        Entry
	Opcode       string
	FunctionName string
	JumpKind     JumpKind
	InModifier   bool
}

// PCMap is the immutable, once-computed PC → mapping table for one
// deployed contract.
type PCMap struct {
	byPC map[int]PCEntry
}

// Lookup returns the mapping for pc, or false if pc was never assigned
// (e.g. it fell inside a PUSH immediate, which carries no independent
// source-map entry).
func (m *PCMap) Lookup(pc int) (PCEntry, bool) {
	e, ok := m.byPC[pc]
	return e, ok
}

// Len returns the number of PCs with a resolved mapping.
func (m *PCMap) Len() int { return len(m.byPC) }

// All iterates every resolved PC in ascending order.
func (m *PCMap) All(yield func(PCEntry) bool) {
	pcs := make([]int, 0, len(m.byPC))
	for pc := range m.byPC {
		pcs = append(pcs, pc)
	}
	// Small insertion sort: PC counts per contract are in the low
	// thousands, and this runs once per BuildPCMap caller, not per PC.
	for i := 1; i < len(pcs); i++ {
		for j := i; j > 0 && pcs[j-1] > pcs[j]; j-- {
			pcs[j-1], pcs[j] = pcs[j], pcs[j-1]
		}
	}
	for _, pc := range pcs {
		if !yield(m.byPC[pc]) {
			return
		}
	}
}

// instruction is one decoded opcode plus the number of PC slots it
// occupies (1 for everything except PUSH1..PUSH32, which occupy n+1).
type instruction struct {
	mnemonic string
	size     int
}

// parseOpcodes splits solc's "opcodes" string into one instruction per
// entry. PUSHn is followed by its decimal-printed immediate as a
// separate token; that token is consumed here and does not get its own
// instruction.
func parseOpcodes(opcodes []string) []instruction {
	out := make([]instruction, 0, len(opcodes))
	for i := 0; i < len(opcodes); i++ {
		tok := opcodes[i]
		size := 1
		if n, ok := pushSize(tok); ok {
			size = n + 1
			if i+1 < len(opcodes) {
				i++ // consume the immediate token
			}
		}
		out = append(out, instruction{mnemonic: tok, size: size})
	}
	return out
}

func pushSize(mnemonic string) (int, bool) {
	if !strings.HasPrefix(mnemonic, "PUSH") {
		return 0, false
	}
	n, err := strconv.Atoi(mnemonic[len("PUSH"):])
	if err != nil || n < 1 || n > 32 {
		return 0, false
	}
	return n, true
}

// BuildPCMap interleaves entries (one per instruction, per solc's
// source-map convention) with the parsed opcode stream, assigning each
// PC in an instruction's span the same source-map entry, and resolving
// the smallest enclosing function or modifier definition via tree.
func BuildPCMap(entries []Entry, opcodes []string, tree *ir.IntervalTree) (*PCMap, error) {
	instrs := parseOpcodes(opcodes)
	if len(instrs) != len(entries) {
		return nil, &SourceMapError{PC: -1, Reason: fmt.Sprintf("instruction count %d does not match source-map entry count %d", len(instrs), len(entries))}
	}

	m := &PCMap{byPC: make(map[int]PCEntry, len(instrs))}
	pc := 0
	for i, instr := range instrs {
		entry := entries[i]
		fnName, _ := enclosingFunction(tree, entry)

		jk := JumpKindRegular
		switch entry.Jump {
		case JumpIn:
			jk = JumpKindIn
		case JumpOut:
			jk = JumpKindOut
		}

		pe := PCEntry{
			PC:           pc,
			Entry:        entry,
			Opcode:       instr.mnemonic,
			FunctionName: fnName,
			JumpKind:     jk,
			InModifier:   entry.ModifierDepth > 0,
		}
		for slot := 0; slot < instr.size; slot++ {
			p := pc + slot
			e := pe
			e.PC = p
			m.byPC[p] = e
		}
		pc += instr.size
	}

	return m, nil
}

// enclosingFunction resolves the smallest function/modifier definition
// whose byte range encloses entry's (offset, length) range, per §4.6:
// ties broken by greatest overlap ratio (overlap / candidate length).
//
// A source-map entry does not always fall entirely inside one
// declaration (the compiler emits synthetic ranges for some
// constructs), so containment is tried first and a looser point query
// at the entry's start offset is the fallback.
func enclosingFunction(tree *ir.IntervalTree, entry Entry) (string, bool) {
	return FunctionAt(tree, entry.Offset, entry.Length)
}

// FunctionAt resolves the smallest function/modifier definition enclosing
// [offset, offset+length) in tree. Exposed so callers can re-resolve a
// PCEntry's byte range independently of BuildPCMap (Testable Property 8:
// reparsing a PC-Map entry's range through the interval tree must return
// the same function name originally assigned).
func FunctionAt(tree *ir.IntervalTree, offset, length int) (string, bool) {
	if tree == nil {
		return "", false
	}
	r := ir.ByteRange{Start: offset, End: offset + length}

	candidates := tree.QueryRange(r)
	if len(candidates) == 0 {
		candidates = tree.Query(r.Start)
	}

	var best ir.Node
	bestLen := -1
	bestRatio := -1.0
	for _, c := range candidates {
		name := declName(c)
		if name == "" {
			continue
		}
		cr := c.Range()
		l := cr.Len()
		ratio := 0.0
		if l > 0 {
			ratio = float64(r.Overlap(cr)) / float64(l)
		}
		switch {
		case bestLen == -1 || l < bestLen:
			best, bestLen, bestRatio = c, l, ratio
		case l == bestLen && ratio > bestRatio:
			best, bestRatio = c, ratio
		}
	}
	if best == nil {
		return "", false
	}
	return declName(best), true
}

func declName(n ir.Node) string {
	switch v := n.(type) {
	case *ir.FunctionDefinition:
		return v.CanonicalName
	case *ir.ModifierDefinition:
		return v.CanonicalName
	default:
		return ""
	}
}
