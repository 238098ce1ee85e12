// Package ss58 encodes account keys as SS58 addresses: base58 of a network
// prefix, the key, and a blake2b-512 checksum.
package ss58

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/wippyai/scale-codec/errors"
)

// DefaultPrefix is the generic substrate network prefix.
const DefaultPrefix uint16 = 42

const (
	maxPrefix   = 1<<14 - 1
	checksumLen = 2
)

var checksumSalt = []byte("SS58PRE")

// Encode returns the SS58 address of a 32 or 33 byte key.
func Encode(key []byte, prefix uint16) (string, error) {
	if len(key) != 32 && len(key) != 33 {
		return "", errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(len(key)).
			Detail("ss58 key must be 32 or 33 bytes, got %d", len(key)).
			Build()
	}
	if prefix > maxPrefix {
		return "", errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(prefix).
			Detail("ss58 prefix %d out of range", prefix).
			Build()
	}

	buf := appendPrefix(make([]byte, 0, 2+len(key)+checksumLen), prefix)
	buf = append(buf, key...)
	sum := checksum(buf)
	buf = append(buf, sum[:checksumLen]...)
	return base58.Encode(buf), nil
}

// Decode parses an SS58 address and returns the key and network prefix.
func Decode(addr string) ([]byte, uint16, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "ss58 base58")
	}
	if len(raw) < 1 {
		return nil, 0, invalid("empty ss58 address")
	}

	prefix, n := uint16(raw[0]), 1
	switch {
	case raw[0] < 64:
	case raw[0] < 128:
		if len(raw) < 2 {
			return nil, 0, invalid("truncated ss58 prefix")
		}
		lower := raw[0]<<2 | raw[1]>>6
		upper := raw[1] & 0x3f
		prefix, n = uint16(lower)|uint16(upper)<<8, 2
	default:
		return nil, 0, invalid("reserved ss58 prefix byte")
	}

	keyLen := len(raw) - n - checksumLen
	if keyLen != 32 && keyLen != 33 {
		return nil, 0, invalid("unsupported ss58 payload length")
	}
	body := raw[:n+keyLen]
	sum := checksum(body)
	if !bytes.Equal(sum[:checksumLen], raw[n+keyLen:]) {
		return nil, 0, invalid("ss58 checksum mismatch")
	}
	key := make([]byte, keyLen)
	copy(key, raw[n:n+keyLen])
	return key, prefix, nil
}

func appendPrefix(dst []byte, prefix uint16) []byte {
	if prefix < 64 {
		return append(dst, byte(prefix))
	}
	first := byte(prefix&0xfc)>>2 | 0x40
	second := byte(prefix>>8) | byte(prefix&0x03)<<6
	return append(dst, first, second)
}

func checksum(body []byte) [64]byte {
	h, _ := blake2b.New512(nil)
	h.Write(checksumSalt)
	h.Write(body)
	var out [64]byte
	h.Sum(out[:0])
	return out
}

func invalid(detail string) error {
	return errors.InvalidData(errors.PhaseDecode, nil, detail)
}
