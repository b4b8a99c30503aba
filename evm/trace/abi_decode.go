package trace

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DecodeArgs recursively decodes data (an ABI-encoded head/tail blob,
// e.g. a call's calldata past the 4-byte selector, or a constructor's
// trailing arguments) according to types, the canonical ABI type string
// for each parameter in order.
//
// Each top-level parameter occupies one 32-byte head slot. A dynamic
// type's (bytes, string, T[]) head slot holds a byte offset into data
// where its tail is encoded; everything else decodes directly from the
// head slot. Dynamic arrays recurse by re-running DecodeArgs over their
// tail with one synthetic parameter per element, which naturally handles
// nested dynamic arrays (T[][]) for free.
//
// Unsupported types (tuples, fixed-size arrays) return an error; callers
// treat that as "arguments undecoded", not a fatal condition.
func DecodeArgs(types []string, data []byte) ([]any, error) {
	if len(data) < 32*len(types) {
		return nil, fmt.Errorf("trace: abi data too short for %d parameters: %d bytes", len(types), len(data))
	}
	out := make([]any, len(types))
	for i, t := range types {
		head := data[i*32 : i*32+32]
		if isDynamicABIType(t) {
			offset := new(big.Int).SetBytes(head).Int64()
			if offset < 0 || int(offset)+32 > len(data) {
				return nil, fmt.Errorf("trace: abi offset %d out of range for %d-byte blob", offset, len(data))
			}
			v, err := decodeDynamicABI(t, data[offset:])
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		v, err := decodeStaticABI(t, head)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func isDynamicABIType(t string) bool {
	return t == "bytes" || t == "string" || strings.HasSuffix(t, "[]")
}

func decodeStaticABI(t string, slot []byte) (any, error) {
	switch {
	case strings.HasSuffix(t, "]"):
		return nil, fmt.Errorf("trace: unsupported fixed-size array abi type %q", t)
	case t == "address":
		return common.BytesToAddress(slot[12:]), nil
	case t == "bool":
		return slot[31] != 0, nil
	case strings.HasPrefix(t, "uint"):
		return new(big.Int).SetBytes(slot), nil
	case strings.HasPrefix(t, "int"):
		v := new(big.Int).SetBytes(slot)
		if slot[0]&0x80 != 0 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 256))
		}
		return v, nil
	case strings.HasPrefix(t, "bytes") && len(t) > len("bytes"):
		n, err := strconv.Atoi(t[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return nil, fmt.Errorf("trace: invalid fixed bytes type %q", t)
		}
		return append([]byte{}, slot[:n]...), nil
	default:
		return nil, fmt.Errorf("trace: unsupported static abi type %q", t)
	}
}

func decodeDynamicABI(t string, rest []byte) (any, error) {
	if len(rest) < 32 {
		return nil, fmt.Errorf("trace: abi tail too short for %q", t)
	}
	length := new(big.Int).SetBytes(rest[:32]).Int64()
	switch {
	case t == "bytes":
		if length < 0 || int(length) > len(rest)-32 {
			return nil, fmt.Errorf("trace: abi bytes length %d out of range", length)
		}
		return append([]byte{}, rest[32:32+length]...), nil
	case t == "string":
		if length < 0 || int(length) > len(rest)-32 {
			return nil, fmt.Errorf("trace: abi string length %d out of range", length)
		}
		return string(rest[32 : 32+length]), nil
	case strings.HasSuffix(t, "[]"):
		elem := strings.TrimSuffix(t, "[]")
		elemTypes := make([]string, length)
		for i := range elemTypes {
			elemTypes[i] = elem
		}
		return DecodeArgs(elemTypes, rest[32:])
	default:
		return nil, fmt.Errorf("trace: unsupported dynamic abi type %q", t)
	}
}
