package codec

import (
	"encoding/binary"
	"math/big"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

var (
	bigOne   = big.NewInt(1)
	maxI128  = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 127), bigOne)
	minI128  = new(big.Int).Neg(new(big.Int).Lsh(bigOne, 127))
	twoTo128 = new(big.Int).Lsh(bigOne, 128)
)

// appendPrimitive encodes v as the fixed-width little-endian form of k.
// It reports false when v is not the Go type k requires.
func appendPrimitive(dst []byte, k registry.Kind, v any) ([]byte, bool, string) {
	switch k {
	case registry.KindBool:
		b, ok := v.(bool)
		if !ok {
			return dst, false, ""
		}
		if b {
			return append(dst, 1), true, ""
		}
		return append(dst, 0), true, ""
	case registry.KindU8:
		x, ok := v.(uint8)
		return append(dst, x), ok, ""
	case registry.KindU16:
		x, ok := v.(uint16)
		return binary.LittleEndian.AppendUint16(dst, x), ok, ""
	case registry.KindU32:
		x, ok := v.(uint32)
		return binary.LittleEndian.AppendUint32(dst, x), ok, ""
	case registry.KindU64:
		x, ok := v.(uint64)
		return binary.LittleEndian.AppendUint64(dst, x), ok, ""
	case registry.KindI8:
		x, ok := v.(int8)
		return append(dst, byte(x)), ok, ""
	case registry.KindI16:
		x, ok := v.(int16)
		return binary.LittleEndian.AppendUint16(dst, uint16(x)), ok, ""
	case registry.KindI32:
		x, ok := v.(int32)
		return binary.LittleEndian.AppendUint32(dst, uint32(x)), ok, ""
	case registry.KindI64:
		x, ok := v.(int64)
		return binary.LittleEndian.AppendUint64(dst, uint64(x)), ok, ""
	case registry.KindU128, registry.KindU256:
		x, ok := v.(*big.Int)
		if !ok || x == nil {
			return dst, false, ""
		}
		if x.Sign() < 0 || x.BitLen() > k.Bits() {
			return dst, false, "value " + x.String() + " out of range for " + k.String()
		}
		return appendBigLE(dst, x, k.Width()), true, ""
	case registry.KindI128:
		x, ok := v.(*big.Int)
		if !ok || x == nil {
			return dst, false, ""
		}
		if x.Cmp(minI128) < 0 || x.Cmp(maxI128) > 0 {
			return dst, false, "value " + x.String() + " out of range for i128"
		}
		if x.Sign() < 0 {
			x = new(big.Int).Add(x, twoTo128)
		}
		return appendBigLE(dst, x, 16), true, ""
	}
	return dst, false, ""
}

// appendBigLE appends the low width bytes of a non-negative x, little-endian.
func appendBigLE(dst []byte, x *big.Int, width int) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, width)...)
	x.FillBytes(dst[start:])
	reverse(dst[start:])
	return dst
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// primitive decodes a fixed-width primitive of kind k.
func (r *reader) primitive(k registry.Kind) (any, error) {
	b, err := r.take(k.Width())
	if err != nil {
		return nil, err
	}
	switch k {
	case registry.KindBool:
		switch b[0] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(b[0]).
			Detail("invalid bool byte 0x%02x", b[0]).
			Build()
	case registry.KindU8:
		return b[0], nil
	case registry.KindU16:
		return binary.LittleEndian.Uint16(b), nil
	case registry.KindU32:
		return binary.LittleEndian.Uint32(b), nil
	case registry.KindU64:
		return binary.LittleEndian.Uint64(b), nil
	case registry.KindI8:
		return int8(b[0]), nil
	case registry.KindI16:
		return int16(binary.LittleEndian.Uint16(b)), nil
	case registry.KindI32:
		return int32(binary.LittleEndian.Uint32(b)), nil
	case registry.KindI64:
		return int64(binary.LittleEndian.Uint64(b)), nil
	case registry.KindU128, registry.KindU256:
		return bigFromLE(b), nil
	case registry.KindI128:
		x := bigFromLE(b)
		if b[15]&0x80 != 0 {
			x.Sub(x, twoTo128)
		}
		return x, nil
	}
	return nil, errors.InvalidData(errors.PhaseDecode, nil, "unsupported primitive "+k.String())
}

func bigFromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// compactTarget converts a decoded compact integer into the Go type of
// the unsigned kind k, failing when it does not fit.
func compactTarget(x *big.Int, k registry.Kind) (any, bool) {
	if x.BitLen() > k.Bits() {
		return nil, false
	}
	switch k {
	case registry.KindU8:
		return uint8(x.Uint64()), true
	case registry.KindU16:
		return uint16(x.Uint64()), true
	case registry.KindU32:
		return uint32(x.Uint64()), true
	case registry.KindU64:
		return x.Uint64(), true
	}
	return x, true
}

// compactSource converts an encode-side value of unsigned kind k into a
// big integer for compact encoding.
func compactSource(v any, k registry.Kind) (*big.Int, bool) {
	switch k {
	case registry.KindU8:
		x, ok := v.(uint8)
		return new(big.Int).SetUint64(uint64(x)), ok
	case registry.KindU16:
		x, ok := v.(uint16)
		return new(big.Int).SetUint64(uint64(x)), ok
	case registry.KindU32:
		x, ok := v.(uint32)
		return new(big.Int).SetUint64(uint64(x)), ok
	case registry.KindU64:
		x, ok := v.(uint64)
		return new(big.Int).SetUint64(x), ok
	case registry.KindU128, registry.KindU256:
		x, ok := v.(*big.Int)
		if !ok || x == nil || x.Sign() < 0 || x.BitLen() > k.Bits() {
			return nil, false
		}
		return x, true
	}
	return nil, false
}
