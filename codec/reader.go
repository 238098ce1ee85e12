package codec

import (
	"github.com/wippyai/scale-codec/errors"
)

// reader is a bounds-checked cursor over an input buffer.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

// take returns the next n bytes without copying.
func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, errors.Truncated(errors.PhaseDecode, nil, n, r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.Truncated(errors.PhaseDecode, nil, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// maxZeroSizeLen bounds sequences of zero-size elements, which the
// remaining input cannot bound.
const maxZeroSizeLen = 1 << 24

// length reads a compact sequence length and checks that n elements of
// at least minSize bytes each fit in the remaining input before anything
// is allocated.
func (r *reader) length(minSize int) (int, error) {
	n, err := r.compactUint()
	if err != nil {
		return 0, err
	}
	if minSize == 0 {
		if n > maxZeroSizeLen {
			return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Value(n).
				Detail("length %d of zero-size elements exceeds %d", n, maxZeroSizeLen).
				Build()
		}
		return int(n), nil
	}
	if n > uint64(r.remaining()/minSize) {
		return 0, errors.New(errors.PhaseDecode, errors.KindTruncatedInput).
			Value(n).
			Detail("length %d exceeds %d remaining bytes", n, r.remaining()).
			Build()
	}
	return int(n), nil
}
