package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// SourceUnit is one source file within a CompilationUnit. It owns its raw
// bytes (required for source-map offsets) and the top-level declarations
// decoded from its AST.
type SourceUnit struct {
	Base

	Path         string
	Bytes        []byte
	Declarations []Node

	tree *IntervalTree
}

func (u *SourceUnit) Children() []Node { return u.Declarations }

// Tree returns the interval tree over this source unit's nodes, building
// it lazily on first use (C2.interval_tree).
func (u *SourceUnit) Tree() *IntervalTree {
	if u.tree == nil {
		u.tree = NewIntervalTree()
		for _, d := range u.Declarations {
			for n := range Iter(d) {
				u.tree.Insert(n)
			}
		}
	}
	return u.tree
}

// CompilationUnit is a bag of source files compiled together under one
// settings vector, identified by a stable content hash over inputs and
// settings.
type CompilationUnit struct {
	Hash         string
	SourceUnits  map[string]*SourceUnit // keyed by file path
	fileOrder    []string
}

// NewCompilationUnit creates an empty CU. Hash should be produced by
// HashInputs over the raw source bytes and compiler settings that
// produced it.
func NewCompilationUnit(hash string) *CompilationUnit {
	return &CompilationUnit{Hash: hash, SourceUnits: make(map[string]*SourceUnit)}
}

// AddSourceUnit registers su under path, preserving insertion order for
// deterministic iteration (FileOrder).
func (cu *CompilationUnit) AddSourceUnit(path string, su *SourceUnit) {
	if _, exists := cu.SourceUnits[path]; !exists {
		cu.fileOrder = append(cu.fileOrder, path)
	}
	cu.SourceUnits[path] = su
}

// FileOrder returns source file paths in the order they were added.
func (cu *CompilationUnit) FileOrder() []string {
	out := make([]string, len(cu.fileOrder))
	copy(out, cu.fileOrder)
	return out
}

// HashInputs derives a stable, content-addressed CU hash over the
// concatenation of file paths, file bytes, and a settings blob. Sorting
// by path first makes the hash independent of the order files were
// handed to the compiler.
func HashInputs(files map[string][]byte, settings []byte) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(files[p])
		h.Write([]byte{0})
	}
	h.Write(settings)
	return hex.EncodeToString(h.Sum(nil))
}
