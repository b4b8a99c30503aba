package trace

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"solidity-ir/engine"
)

// ErrCancelled mirrors engine.ErrCancelled so callers can type-switch on
// the trace package alone.
var ErrCancelled = engine.ErrCancelled

// Interpret walks a flat trace into a CallTrace, checking ctx once per
// entry (spec.md §4.8/§5: cooperative cancellation, never tighter).
func Interpret(ctx context.Context, tx TxContext, entries []Entry, deps Deps) (*CallTrace, error) {
	root := &Frame{
		FQN:          fqnForAddress(tx.To, deps),
		Address:      tx.To,
		AddressKnown: true,
		Kind:         KindRoot,
		Depth:        0,
		ParentIdx:    -1,
		Status:       StatusPending,
	}
	if len(tx.Data) >= 4 {
		copy(root.Selector[:], tx.Data[:4])
		root.HasSelector = true
		if c, ok := deps.Tables.UniqueFunction(root.Selector); ok {
			root.FunctionName = c.FQN
		}
	}

	ct := &CallTrace{Frames: []*Frame{root}}
	callStack := []int{0}
	overrides := []map[common.Address]string{{}, {}} // [0]=ambient, [1]=root's own layer
	var pendingAddrBind []int

	push := func(f *Frame) int {
		idx := len(ct.Frames)
		ct.Frames = append(ct.Frames, f)
		if len(callStack) > 0 {
			parent := ct.Frames[callStack[len(callStack)-1]]
			parent.Subtraces = append(parent.Subtraces, idx)
		}
		callStack = append(callStack, idx)
		overrides = append(overrides, map[common.Address]string{})
		return idx
	}

	// mergeTop closes the current top frame's override layer: on success
	// its entries flow up into the parent layer; on revert they vanish.
	mergeTop := func(ok bool) {
		top := overrides[len(overrides)-1]
		overrides = overrides[:len(overrides)-1]
		if ok {
			parent := overrides[len(overrides)-1]
			for addr, fqn := range top {
				parent[addr] = fqn
			}
		}
	}

	resolveAddr := func(addr common.Address) string {
		for i := len(overrides) - 1; i >= 0; i-- {
			if fqn, ok := overrides[i][addr]; ok {
				return fqn
			}
		}
		return fqnForAddress(addr, deps)
	}

	for _, entry := range entries {
		if err := engine.CheckCancelled(ctx); err != nil {
			return nil, err
		}

		// Scenario F: a pushed frame whose body never produced any
		// trace entry (precompiles, and any call the trace format
		// elides) must be closed before this entry is interpreted at
		// its shallower depth.
		for len(callStack) > 0 {
			top := ct.Frames[callStack[len(callStack)-1]]
			if top.Depth <= entry.Depth {
				break
			}
			idx := callStack[len(callStack)-1]
			callStack = callStack[:len(callStack)-1]
			top.Status = StatusOK
			mergeTop(true)
			if top.Kind == KindCreate || top.Kind == KindCreate2 {
				pendingAddrBind = append(pendingAddrBind, idx)
			}
		}

		for len(pendingAddrBind) > 0 {
			pidx := pendingAddrBind[len(pendingAddrBind)-1]
			f := ct.Frames[pidx]
			if f.Depth-1 != entry.Depth || len(entry.Stack) == 0 {
				break
			}
			pendingAddrBind = pendingAddrBind[:len(pendingAddrBind)-1]
			addr := common.BigToAddress(entry.Stack[len(entry.Stack)-1])
			if (addr != common.Address{}) {
				f.Address = addr
				f.AddressKnown = true
				overrides[len(overrides)-1][addr] = f.FQN
			}
		}

		op := strings.ToUpper(entry.Op)
		switch {
		case op == "CALL" || op == "CALLCODE" || op == "DELEGATECALL" || op == "STATICCALL":
			handleCall(op, entry, deps, callStack, push, resolveAddr)
		case op == "CREATE" || op == "CREATE2":
			handleCreate(op, entry, deps, callStack, push)
		case op == "RETURN" || op == "STOP" || op == "SELFDESTRUCT":
			if len(callStack) == 0 {
				continue
			}
			idx := callStack[len(callStack)-1]
			callStack = callStack[:len(callStack)-1]
			f := ct.Frames[idx]
			f.Status = StatusOK
			mergeTop(true)
			if f.Kind == KindCreate || f.Kind == KindCreate2 {
				pendingAddrBind = append(pendingAddrBind, idx)
			}
		case op == "REVERT":
			if len(callStack) == 0 {
				continue
			}
			idx := callStack[len(callStack)-1]
			callStack = callStack[:len(callStack)-1]
			ct.Frames[idx].Status = StatusReverted
			mergeTop(false)
		case strings.HasPrefix(op, "LOG") && len(op) == 4:
			handleLog(op, entry, callStack, ct)
		}
	}

	ct.Balanced = len(callStack) == 0
	for len(callStack) > 0 {
		idx := callStack[len(callStack)-1]
		callStack = callStack[:len(callStack)-1]
		ct.Frames[idx].Status = StatusOK
		mergeTop(true)
	}

	return ct, nil
}

func fqnForAddress(addr common.Address, deps Deps) string {
	if _, ok := precompileName(addr); ok {
		return precompileContractName
	}
	if deps.CodeAt == nil || deps.Fingerprints == nil {
		return ""
	}
	code := deps.CodeAt(addr)
	if len(code) == 0 {
		return ""
	}
	fqn, _, err := deps.Fingerprints.Match(code)
	if err != nil {
		return ""
	}
	return fqn
}

func callKind(op string) Kind {
	switch op {
	case "CALL":
		return KindCall
	case "CALLCODE":
		return KindCallCode
	case "DELEGATECALL":
		return KindDelegateCall
	case "STATICCALL":
		return KindStaticCall
	default:
		return ""
	}
}

func readMemory(mem []byte, offset, size int64) []byte {
	if offset < 0 || size < 0 || offset > int64(len(mem)) {
		return nil
	}
	end := offset + size
	if end > int64(len(mem)) {
		end = int64(len(mem))
	}
	return mem[offset:end]
}

func handleCall(op string, entry Entry, deps Deps, callStack []int, push func(*Frame) int, resolveAddr func(common.Address) string) {
	s := entry.Stack
	hasValue := op == "CALL" || op == "CALLCODE"
	need := 6
	if hasValue {
		need = 7
	}
	if len(s) < need {
		return
	}
	top := len(s) - 1
	// top-to-bottom: gas, addr, [value], argsOffset, argsSize, retOffset, retSize
	addr := common.BigToAddress(s[top-1])
	i := top - 2
	var value *big.Int
	if hasValue {
		value = s[i]
		i--
	} else {
		value = big.NewInt(0)
	}
	argsOffset := s[i].Int64()
	argsSize := s[i-1].Int64()

	args := readMemory(entry.Memory, argsOffset, argsSize)

	fqn := resolveAddr(addr)
	kind := callKind(op)
	precompileFn, isPrecompile := precompileName(addr)
	if isPrecompile {
		kind = KindPrecompile
	}

	f := &Frame{
		FQN:          fqn,
		Address:      addr,
		AddressKnown: true,
		Kind:         kind,
		Depth:        entry.Depth + 1,
		Status:       StatusPending,
		Value:        value,
	}
	if isPrecompile {
		f.FunctionName = precompileFn
	}
	if len(callStack) > 0 {
		f.ParentIdx = callStack[len(callStack)-1]
	} else {
		f.ParentIdx = -1
	}
	if deps.PCMap != nil {
		if pe, ok := deps.PCMap.Lookup(int(entry.PC)); ok {
			f.CallSite = pe.FunctionName
		}
	}
	if isPrecompile {
		// Precompiles have no Solidity ABI: the whole calldata blob is
		// the argument (spec.md §8 Scenario D: "arguments: (raw_bytes,)").
		f.Arguments = []any{append([]byte{}, args...)}
	} else if len(args) >= 4 {
		copy(f.Selector[:], args[:4])
		f.HasSelector = true
		if c, ok := deps.Tables.UniqueFunction(f.Selector); ok {
			f.FunctionName = c.FQN
		}
		if deps.ABIParamTypes != nil {
			if types := deps.ABIParamTypes(fqn, f.Selector); types != nil {
				if decoded, err := DecodeArgs(types, args[4:]); err == nil {
					f.Arguments = decoded
				}
			}
		}
	}
	push(f)
}

func handleCreate(op string, entry Entry, deps Deps, callStack []int, push func(*Frame) int) {
	s := entry.Stack
	need := 3
	if op == "CREATE2" {
		need = 4
	}
	if len(s) < need {
		return
	}
	top := len(s) - 1
	value := s[top]
	offset := s[top-1].Int64()
	size := s[top-2].Int64()

	code := readMemory(entry.Memory, offset, size)
	var fqn string
	var ctorOffset int
	var raw []byte
	if deps.Fingerprints != nil {
		if matched, off, err := deps.Fingerprints.Match(code); err == nil {
			fqn = matched
			ctorOffset = off
			if ctorOffset <= len(code) {
				raw = append([]byte{}, code[ctorOffset:]...)
			}
		}
	}

	kind := KindCreate
	if op == "CREATE2" {
		kind = KindCreate2
	}
	f := &Frame{
		FQN:          fqn,
		Kind:         kind,
		Depth:        entry.Depth + 1,
		Status:       StatusPending,
		Value:        value,
		RawCtorArgs:  raw,
		AddressKnown: false,
	}
	if len(callStack) > 0 {
		f.ParentIdx = callStack[len(callStack)-1]
	} else {
		f.ParentIdx = -1
	}
	if deps.ABIParamTypes != nil && fqn != "" {
		if types := deps.ABIParamTypes(fqn, [4]byte{}); types != nil {
			if decoded, err := DecodeArgs(types, raw); err == nil {
				f.Arguments = decoded
			}
		}
	}
	push(f)
}

func handleLog(op string, entry Entry, callStack []int, ct *CallTrace) {
	n := int(op[3] - '0')
	if n < 1 || n > 4 {
		return
	}
	s := entry.Stack
	if len(s) < 2+n {
		return
	}
	top := len(s) - 1
	offset := s[top].Int64()
	size := s[top-1].Int64()
	data := readMemory(entry.Memory, offset, size)

	topics := make([][32]byte, n)
	for i := 0; i < n; i++ {
		topics[i] = [32]byte(common.BigToHash(s[top-2-i]))
	}

	frameIdx := -1
	if len(callStack) > 0 {
		frameIdx = callStack[len(callStack)-1]
	}
	ct.Logs = append(ct.Logs, LogRecord{FrameIdx: frameIdx, Topics: topics, Data: data})
}
