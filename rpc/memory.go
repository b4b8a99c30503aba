package rpc

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Memory is an in-memory fake Node, for tests and for the engine's
// offline mode (replaying an already-fetched trace without a live
// node). It never does I/O; missing data comes back as zero values,
// not errors, since "no code at this address" is a legitimate answer.
//
// Set Fail to make every method return an *UnavailableError wrapping
// it, simulating a down or unreachable node.
type Memory struct {
	mu sync.RWMutex

	Fail error

	codes    map[common.Address][]byte
	blocks   map[uint64]*Block
	receipts map[common.Hash]*Receipt
	traces   map[common.Hash][]RawTraceEntry
}

// NewMemory returns an empty Memory fake.
func NewMemory() *Memory {
	return &Memory{
		codes:    make(map[common.Address][]byte),
		blocks:   make(map[uint64]*Block),
		receipts: make(map[common.Hash]*Receipt),
		traces:   make(map[common.Hash][]RawTraceEntry),
	}
}

// SetCode registers the runtime code returned for addr.
func (m *Memory) SetCode(addr common.Address, code []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[addr] = code
}

// SetBlock registers the header returned for b.Number.
func (m *Memory) SetBlock(b *Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[b.Number] = b
}

// SetReceipt registers the receipt returned for r.TxHash.
func (m *Memory) SetReceipt(r *Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[r.TxHash] = r
}

// SetTrace registers the trace returned by both DebugTraceTransaction
// and TraceTransaction for txHash.
func (m *Memory) SetTrace(txHash common.Hash, entries []RawTraceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces[txHash] = entries
}

func (m *Memory) failure() error {
	if m.Fail == nil {
		return nil
	}
	return &UnavailableError{Cause: m.Fail}
}

func (m *Memory) GetCode(ctx context.Context, addr common.Address, block *big.Int) ([]byte, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[addr], nil
}

func (m *Memory) GetBlock(ctx context.Context, number uint64) (*Block, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blocks[number], nil
}

func (m *Memory) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receipts[txHash], nil
}

func (m *Memory) DebugTraceTransaction(ctx context.Context, txHash common.Hash) ([]RawTraceEntry, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.traces[txHash], nil
}

func (m *Memory) TraceTransaction(ctx context.Context, txHash common.Hash) ([]RawTraceEntry, error) {
	return m.DebugTraceTransaction(ctx, txHash)
}

var _ Node = (*Memory)(nil)
