package trace

import "github.com/ethereum/go-ethereum/common"

// precompileContractName is the fixed contract_name every precompiled
// call frame reports (spec.md §8 Scenario D), standing in for the
// "<no FQN, it's a precompile>" case.
const precompileContractName = "<precompiled>"

// precompiles names the standard Ethereum precompiled contracts at
// addresses 0x1-0x9 (spec.md §4.8 Scenario D: a precompile call never
// produces child trace entries, so the interpreter must recognise it by
// address alone rather than waiting for a matching return).
var precompiles = map[common.Address]string{
	common.BytesToAddress([]byte{0x01}): "ecRecover",
	common.BytesToAddress([]byte{0x02}): "SHA2-256",
	common.BytesToAddress([]byte{0x03}): "RIPEMD-160",
	common.BytesToAddress([]byte{0x04}): "identity",
	common.BytesToAddress([]byte{0x05}): "modexp",
	common.BytesToAddress([]byte{0x06}): "ecAdd",
	common.BytesToAddress([]byte{0x07}): "ecMul",
	common.BytesToAddress([]byte{0x08}): "ecPairing",
	common.BytesToAddress([]byte{0x09}): "blake2f",
}

// precompileName reports the well-known function name for a precompile
// address, if any.
func precompileName(addr common.Address) (string, bool) {
	name, ok := precompiles[addr]
	return name, ok
}
