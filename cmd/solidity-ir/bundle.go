package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"solidity-ir/evm/coverage"
	"solidity-ir/evm/srcmap"
	"solidity-ir/ir"
)

// bundle is the CLI's single input format: everything one compiled
// contract needs to exercise decode/cfg/trace/coverage end to end,
// since this repo ships no compiler front-end of its own (spec.md §1
// takes solc's AST/opcode/source-map output as given).
type bundle struct {
	SourcePath string          `json:"source_path"`
	Source     string          `json:"source"`
	AST        json.RawMessage `json:"ast"`
	SourceMap  string          `json:"source_map"`
	Opcodes    []string        `json:"opcodes"`
	Trace      []traceStep     `json:"trace"`
}

type traceStep struct {
	PC     uint64   `json:"pc"`
	Op     string   `json:"op"`
	Depth  int      `json:"depth"`
	Stack  []string `json:"stack"`
	Memory string   `json:"memory"`
}

func (s traceStep) bigStack() []*big.Int {
	out := make([]*big.Int, len(s.Stack))
	for i, v := range s.Stack {
		n := new(big.Int)
		n.SetString(v, 0)
		out[i] = n
	}
	return out
}

func (s traceStep) memory() []byte {
	if s.Memory == "" {
		return nil
	}
	b, _ := hex.DecodeString(s.Memory)
	return b
}

func loadBundle(path string) (*bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return &b, nil
}

func (b *bundle) decode() (*ir.SourceUnit, error) {
	su, err := ir.DecodeAST(b.SourcePath, b.SourcePath, b.AST)
	if err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	su.Bytes = []byte(b.Source)
	return su, nil
}

func (b *bundle) pcmap(tree *ir.IntervalTree) (*srcmap.PCMap, error) {
	entries, err := srcmap.Parse(b.SourceMap, []string{b.SourcePath})
	if err != nil {
		return nil, fmt.Errorf("parse source map: %w", err)
	}
	pcmap, err := srcmap.BuildPCMap(entries, b.Opcodes, tree)
	if err != nil {
		return nil, fmt.Errorf("build pcmap: %w", err)
	}
	return pcmap, nil
}

func (b *bundle) coverageReport(pcmap *srcmap.PCMap) *coverage.Report {
	r := coverage.NewReport()
	for _, step := range b.Trace {
		r.Record(coverage.Entry{PC: step.PC, Op: step.Op}, pcmap)
	}
	return r
}

func findFunction(su *ir.SourceUnit, name string) ir.Node {
	for n := range ir.Iter(su) {
		if fn, ok := n.(*ir.FunctionDefinition); ok && fn.CanonicalName == name {
			return fn
		}
	}
	return nil
}
