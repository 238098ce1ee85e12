package ss58

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/wippyai/scale-codec/errors"
)

// Alice's well-known development key.
const (
	aliceHex  = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceAddr = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

func TestEncodeKnownAddress(t *testing.T) {
	key, _ := hex.DecodeString(aliceHex)
	got, err := Encode(key, DefaultPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if got != aliceAddr {
		t.Errorf("Encode = %s, want %s", got, aliceAddr)
	}

	dec, prefix, err := Decode(aliceAddr)
	if err != nil {
		t.Fatal(err)
	}
	if prefix != DefaultPrefix || !bytes.Equal(dec, key) {
		t.Errorf("Decode = %x/%d", dec, prefix)
	}
}

func TestRoundTripPrefixes(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, 32)
	for _, prefix := range []uint16{0, 2, 42, 63, 64, 255, 1000, 16383} {
		addr, err := Encode(key, prefix)
		if err != nil {
			t.Fatalf("prefix %d: %v", prefix, err)
		}
		got, p, err := Decode(addr)
		if err != nil {
			t.Fatalf("prefix %d: %v", prefix, err)
		}
		if p != prefix || !bytes.Equal(got, key) {
			t.Errorf("prefix %d: decoded %x/%d", prefix, got, p)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(make([]byte, 20), DefaultPrefix); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("short key = %v", err)
	}
	if _, err := Encode(make([]byte, 32), 1<<14); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("large prefix = %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	// Flip the last character to break the checksum.
	broken := aliceAddr[:len(aliceAddr)-1] + "Z"
	for _, addr := range []string{"", "0OIl", broken, "11111"} {
		if _, _, err := Decode(addr); !errors.IsKind(err, errors.KindInvalidData) {
			t.Errorf("Decode(%q) = %v, want invalid_data", addr, err)
		}
	}
}
