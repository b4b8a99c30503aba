// Package rpc defines the Node RPC collaborator the engine depends on
// for on-chain state it cannot derive from compiler artifacts alone
// (deployed code, block/receipt lookups, raw execution traces). No real
// JSON-RPC client ships here — out of scope per spec.md §1 — only the
// interface contract and an in-memory fake for tests.
package rpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// UnavailableError wraps any transport failure (timeout, connection
// refused, malformed response). The core never retries; callers that
// want retries own that policy above this package.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("rpc: node unavailable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// Block is the minimal block header data the engine consults.
type Block struct {
	Number       uint64
	Hash         common.Hash
	ParentHash   common.Hash
	Transactions []common.Hash
}

// Log is one event log entry from a transaction receipt.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt is the minimal transaction receipt data the engine consults.
type Receipt struct {
	TxHash          common.Hash
	Status          uint64
	ContractAddress common.Address
	Logs            []Log
}

// RawTraceEntry is one flat execution-trace step as returned by a
// node's debug/trace namespace, independent of evm/trace.Entry so this
// package never needs to import the interpreter.
type RawTraceEntry struct {
	PC     uint64
	Op     string
	Depth  int
	Stack  []*big.Int
	Memory []byte
}

// Node is the Node RPC collaborator: everything the engine needs from a
// live or archival Ethereum node.
type Node interface {
	// GetCode returns the deployed runtime code at addr as of block (nil
	// for "latest").
	GetCode(ctx context.Context, addr common.Address, block *big.Int) ([]byte, error)

	// GetBlock returns the header data for block number.
	GetBlock(ctx context.Context, number uint64) (*Block, error)

	// GetTransactionReceipt returns the receipt for txHash.
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)

	// DebugTraceTransaction returns the flat opcode-level execution
	// trace for txHash (debug_traceTransaction's structLogs).
	DebugTraceTransaction(ctx context.Context, txHash common.Hash) ([]RawTraceEntry, error)

	// TraceTransaction returns the same trace via the trace_ namespace,
	// for nodes that expose it instead of (or alongside) debug_.
	TraceTransaction(ctx context.Context, txHash common.Hash) ([]RawTraceEntry, error)
}
