package codec

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/wippyai/scale-codec/errors"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		t.Fatalf("bad big int %q", s)
	}
	return v
}

func TestCompactVectors(t *testing.T) {
	tests := []struct {
		value string
		hex   string
	}{
		{"0", "00"},
		{"1", "04"},
		{"63", "fc"},
		{"64", "0101"},
		{"16383", "fdff"},
		{"16384", "02000100"},
		{"1073741823", "feffffff"},
		{"1073741824", "0300000040"},
		{"4294967295", "03ffffffff"},
		{"4294967296", "070000000001"},
		{"18446744073709551615", "13ffffffffffffffff"},
		{"18446744073709551616", "17000000000000000001"},
		{"0xffffffffffffffffffffffffffffffff", "33ffffffffffffffffffffffffffffffff"},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			v := mustBig(t, tc.value)
			want, _ := hex.DecodeString(tc.hex)

			got := AppendCompact(nil, v)
			if !bytes.Equal(got, want) {
				t.Errorf("AppendCompact(%s) = %x, want %s", tc.value, got, tc.hex)
			}
			if v.IsUint64() {
				if got := AppendCompactUint(nil, v.Uint64()); !bytes.Equal(got, want) {
					t.Errorf("AppendCompactUint(%s) = %x, want %s", tc.value, got, tc.hex)
				}
				if n := CompactLen(v.Uint64()); n != len(want) {
					t.Errorf("CompactLen(%s) = %d, want %d", tc.value, n, len(want))
				}
			}

			dec, n, err := DecodeCompact(append(want, 0xaa))
			if err != nil {
				t.Fatalf("DecodeCompact: %v", err)
			}
			if n != len(want) || dec.Cmp(v) != 0 {
				t.Errorf("DecodeCompact = %s (%d bytes), want %s (%d bytes)", dec, n, tc.value, len(want))
			}

			u, n, err := DecodeCompactUint(want)
			if v.IsUint64() {
				if err != nil || u != v.Uint64() || n != len(want) {
					t.Errorf("DecodeCompactUint = %d, %d, %v", u, n, err)
				}
			} else if !errors.IsKind(err, errors.KindOverflow) {
				t.Errorf("DecodeCompactUint(%s) = %v, want overflow", tc.value, err)
			}
		})
	}
}

func TestCompactRejectsNonCanonical(t *testing.T) {
	for _, in := range []string{
		"0100",         // 0 in two-byte mode
		"fd00",         // 63 in two-byte mode
		"02000000",     // 0 in four-byte mode
		"feff0000",     // 16383 in four-byte mode
		"03ffffff3f",   // 2^30-1 in big mode
		"07000000ff00", // zero high byte in big mode
	} {
		t.Run(in, func(t *testing.T) {
			data, _ := hex.DecodeString(in)
			_, _, err := DecodeCompact(data)
			if !errors.IsKind(err, errors.KindInvalidData) {
				t.Errorf("DecodeCompact(%s) = %v, want invalid_data", in, err)
			}
		})
	}
}

func TestCompactTruncated(t *testing.T) {
	for _, in := range []string{"", "01", "020000", "03000000", "13ffffffff"} {
		t.Run(in, func(t *testing.T) {
			data, _ := hex.DecodeString(in)
			_, _, err := DecodeCompact(data)
			if !errors.IsKind(err, errors.KindTruncatedInput) {
				t.Errorf("DecodeCompact(%s) = %v, want truncated_input", in, err)
			}
		})
	}
}
