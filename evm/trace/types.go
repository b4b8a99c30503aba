// Package trace interprets a flat EVM execution trace into a call tree
// (C8): one Frame per message call or contract creation, with address
// bindings, ABI-decoded call/constructor arguments, and emitted log
// records for later revert/event attribution (C10).
package trace

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"solidity-ir/evm/fingerprint"
	"solidity-ir/evm/srcmap"
	"solidity-ir/ir/inherit"
	"solidity-ir/ir/resolve"
)

// TxContext describes the top-level call that produced the trace.
type TxContext struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Entry is one flat trace step, shaped after debug_traceTransaction's
// structLog entries: Stack is ordered bottom-to-top (Stack[len-1] is the
// top of stack), Memory is the full linear memory at the time this
// instruction executes.
type Entry struct {
	PC     uint64
	Op     string
	Depth  int
	Stack  []*big.Int
	Memory []byte
}

// Kind distinguishes how a Frame came to exist.
type Kind string

const (
	KindRoot         Kind = "root"
	KindCall         Kind = "call"
	KindStaticCall   Kind = "staticcall"
	KindDelegateCall Kind = "delegatecall"
	KindCallCode     Kind = "callcode"
	KindCreate       Kind = "create"
	KindCreate2      Kind = "create2"
	KindPrecompile   Kind = "precompile"
)

// Status is a Frame's terminal disposition.
type Status string

const (
	StatusPending  Status = "pending"
	StatusOK       Status = "ok"
	StatusReverted Status = "reverted"
)

// Frame is one call-stack entry: a message call, a contract creation, or
// the root transaction itself.
type Frame struct {
	FQN          string
	Address      common.Address
	AddressKnown bool
	Kind         Kind
	Depth        int
	ParentIdx    int // -1 for the root frame
	Status       Status
	Subtraces    []int
	Selector     [4]byte
	HasSelector  bool
	FunctionName string
	CallSite     string // caller's enclosing function, per C6, at the PC that issued this call
	Arguments    []any
	RawCtorArgs  []byte
	Value        *big.Int
}

// LogRecord is one LOG1-LOG4 emission, keyed to the frame that emitted
// it for later event attribution (C10).
type LogRecord struct {
	FrameIdx int
	Topics   [][32]byte
	Data     []byte
}

// CallTrace is the interpreted call tree: frames in discovery order,
// frame 0 is always the root.
type CallTrace struct {
	Frames []*Frame
	Logs   []LogRecord
	// Balanced is true iff every pushed frame (including the root) was
	// matched by a terminating trace entry — Testable Property 9. When
	// the input trace is truncated mid-call, Interpret force-closes the
	// remaining frames and reports Balanced = false.
	Balanced bool
}

// Deps bundles the read-only analysis handles the interpreter consults
// to resolve call targets and decode arguments: C4 (selector tables), C6
// (source map, for caller-site function names), and C7 (bytecode
// fingerprinting, for matching CREATE/CREATE2 payloads and called
// runtime code to a known contract). Resolver (C3) is carried alongside
// them but Interpret does not read it.
type Deps struct {
	Resolver     *resolve.Resolver
	Tables       *inherit.SelectorTables
	PCMap        *srcmap.PCMap
	Fingerprints *fingerprint.Index

	// CodeAt returns the deployed runtime code at addr, or nil if
	// unknown. It abstracts the rpc.Node collaborator (GetCode) so the
	// interpreter never depends on rpc directly.
	CodeAt func(addr common.Address) []byte

	// ABIParamTypes returns the canonical ABI parameter types for a
	// call/constructor target, keyed by FQN and selector (empty
	// selector for a constructor). Returns nil if unknown, in which
	// case arguments are left undecoded.
	ABIParamTypes func(fqn string, selector [4]byte) []string
}
