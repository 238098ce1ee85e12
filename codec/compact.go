package codec

import (
	"math/big"
	"math/bits"
	"strconv"

	"github.com/wippyai/scale-codec/errors"
)

// Compact integer modes, selected by the low two bits of the first byte.
const (
	compactSingle = 0b00 // 6-bit value in the upper bits of one byte
	compactTwo    = 0b01 // 14-bit value over two bytes
	compactFour   = 0b10 // 30-bit value over four bytes
	compactBig    = 0b11 // (len-4) in the upper bits, then len LE bytes

	maxSingle = 1<<6 - 1
	maxTwo    = 1<<14 - 1
	maxFour   = 1<<30 - 1
)

// AppendCompactUint appends the compact encoding of v.
func AppendCompactUint(dst []byte, v uint64) []byte {
	switch {
	case v <= maxSingle:
		return append(dst, byte(v)<<2)
	case v <= maxTwo:
		w := uint16(v)<<2 | compactTwo
		return append(dst, byte(w), byte(w>>8))
	case v <= maxFour:
		w := uint32(v)<<2 | compactFour
		return append(dst, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	n := (bits.Len64(v) + 7) / 8
	if n < 4 {
		n = 4
	}
	dst = append(dst, byte(n-4)<<2|compactBig)
	for i := 0; i < n; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// AppendCompact appends the compact encoding of a non-negative big integer.
func AppendCompact(dst []byte, v *big.Int) []byte {
	if v.IsUint64() {
		return AppendCompactUint(dst, v.Uint64())
	}
	be := v.Bytes()
	dst = append(dst, byte(len(be)-4)<<2|compactBig)
	for i := len(be) - 1; i >= 0; i-- {
		dst = append(dst, be[i])
	}
	return dst
}

// CompactLen returns the encoded size of v in compact form.
func CompactLen(v uint64) int {
	switch {
	case v <= maxSingle:
		return 1
	case v <= maxTwo:
		return 2
	case v <= maxFour:
		return 4
	}
	n := (bits.Len64(v) + 7) / 8
	if n < 4 {
		n = 4
	}
	return n + 1
}

// DecodeCompact decodes a compact integer from the start of data and
// returns it with the number of bytes consumed. Non-canonical encodings
// are rejected.
func DecodeCompact(data []byte) (*big.Int, int, error) {
	r := reader{data: data}
	v, err := r.compact()
	if err != nil {
		return nil, 0, err
	}
	return v, r.pos, nil
}

// DecodeCompactUint is DecodeCompact for values that must fit in 64 bits.
func DecodeCompactUint(data []byte) (uint64, int, error) {
	r := reader{data: data}
	v, err := r.compactUint()
	if err != nil {
		return 0, 0, err
	}
	return v, r.pos, nil
}

// compactHeader reads the mode byte and any fixed-mode payload. For the
// big mode it returns the payload length instead of a value.
func (r *reader) compactHeader() (small uint64, bigLen int, err error) {
	b0, err := r.byte()
	if err != nil {
		return 0, 0, err
	}
	switch b0 & 0b11 {
	case compactSingle:
		return uint64(b0 >> 2), 0, nil
	case compactTwo:
		b, err := r.take(1)
		if err != nil {
			return 0, 0, err
		}
		v := uint64(uint16(b0)|uint16(b[0])<<8) >> 2
		if v <= maxSingle {
			return 0, 0, nonCanonical(v)
		}
		return v, 0, nil
	case compactFour:
		b, err := r.take(3)
		if err != nil {
			return 0, 0, err
		}
		v := uint64(uint32(b0)|uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 2
		if v <= maxTwo {
			return 0, 0, nonCanonical(v)
		}
		return v, 0, nil
	}
	return 0, int(b0>>2) + 4, nil
}

// compactPayload reads the little-endian payload of a big-mode integer.
func (r *reader) compactPayload(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	if b[n-1] == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "non-canonical compact integer: leading zero byte")
	}
	if n == 4 && uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16|uint32(b[3])<<24 <= maxFour {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "non-canonical compact integer: fits four-byte mode")
	}
	return b, nil
}

func (r *reader) compact() (*big.Int, error) {
	small, n, err := r.compactHeader()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int).SetUint64(small), nil
	}
	le, err := r.compactPayload(n)
	if err != nil {
		return nil, err
	}
	be := make([]byte, n)
	for i := range le {
		be[n-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be), nil
}

func (r *reader) compactUint() (uint64, error) {
	small, n, err := r.compactHeader()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return small, nil
	}
	if n > 8 {
		// Consume nothing further; the value cannot fit regardless of content.
		return 0, errors.Overflow(errors.PhaseDecode, nil, "compact integer of "+strconv.Itoa(n)+" bytes", "u64")
	}
	le, err := r.compactPayload(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(le[i])
	}
	return v, nil
}

func nonCanonical(v uint64) error {
	return errors.InvalidData(errors.PhaseDecode, nil, "non-canonical compact integer "+strconv.FormatUint(v, 10))
}
