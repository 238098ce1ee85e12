package value_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/preset"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/value"
)

var bigComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

const zeroKey = "0x0000000000000000000000000000000000000000000000000000000000000000"

func TestFromJSONTransactionOutput(t *testing.T) {
	reg := preset.MustChain()
	raw := `{"value": 5, "header": 0, "destination": {"Pubkey": "` + zeroKey + `"}}`

	v, err := value.FromJSON(reg, "TransactionOutput", []byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	want := value.NewStruct(
		value.Field{Name: "value", Value: big.NewInt(5)},
		value.Field{Name: "header", Value: uint16(0)},
		value.Field{Name: "destination", Value: value.Variant{Name: "Pubkey", Value: make([]byte, 32)}},
	)
	if diff := cmp.Diff(any(want), v, bigComparer); diff != "" {
		t.Fatalf("FromJSON differs (-want +got):\n%s", diff)
	}

	data, err := codec.Encode(reg, "TransactionOutput", v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data[:4], []byte{0x14, 0x00, 0x00, 0x00}) || len(data) != 36 {
		t.Errorf("encoding = %x", data)
	}
}

func TestFromJSONForms(t *testing.T) {
	reg := preset.MustChain()
	tests := []struct {
		typ  string
		raw  string
		want any
	}{
		{"TokenListData", `[]`, []any{}},
		{"String", `"MLT"`, []byte("MLT")},
		{"String", `"0x4d4c54"`, []byte("MLT")},
		{"Bytes", `[1, 2, 3]`, []byte{1, 2, 3}},
		{"TokenID", `"0x10"`, uint64(16)},
		{"Moment", `1600000000000`, uint64(1600000000000)},
		{"Value", `"340282366920938463463374607431768211455"`, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))},
		{"AccountId", `"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"`, mustHex("d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")},
		{"MultiAddress", `{"Index": 7}`, value.Variant{Index: 1, Name: "Index", Value: uint32(7)}},
		{"TokenInstance", `{"id": 1, "name": "A", "ticker": "B", "supply": 10}`, value.NewStruct(
			value.Field{Name: "id", Value: uint64(1)},
			value.Field{Name: "name", Value: []byte("A")},
			value.Field{Name: "ticker", Value: []byte("B")},
			value.Field{Name: "supply", Value: big.NewInt(10)},
		)},
	}
	for _, tc := range tests {
		t.Run(tc.typ+" "+tc.raw, func(t *testing.T) {
			got, err := value.FromJSON(reg, tc.typ, []byte(tc.raw))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got, bigComparer); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromJSONErrors(t *testing.T) {
	reg := preset.MustChain()
	tests := []struct {
		typ  string
		raw  string
		kind errors.Kind
	}{
		{"Nope", `1`, errors.KindUnknownType},
		{"TXOutputHeader", `{`, errors.KindInvalidInput},
		{"TXOutputHeader", `70000`, errors.KindShapeMismatch},
		{"TXOutputHeader", `true`, errors.KindShapeMismatch},
		{"Value", `-1`, errors.KindShapeMismatch},
		{"Hash", `"0x00"`, errors.KindShapeMismatch},
		{"Destination", `{"Burn": null}`, errors.KindShapeMismatch},
		{"Destination", `"Pubkey"`, errors.KindShapeMismatch},
		{"Destination", `{"Pubkey": "` + zeroKey + `", "CallPP": null}`, errors.KindShapeMismatch},
		{"DestinationCreatePP", `{"code": "0x"}`, errors.KindShapeMismatch},
		{"DestinationCreatePP", `{"code": "0x", "data": "0x", "extra": 1}`, errors.KindShapeMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.typ+" "+tc.raw, func(t *testing.T) {
			_, err := value.FromJSON(reg, tc.typ, []byte(tc.raw))
			if !errors.IsKind(err, tc.kind) {
				t.Errorf("FromJSON = %v, want %s", err, tc.kind)
			}
		})
	}
}

func TestNestedOptionsHaveNoJSONForm(t *testing.T) {
	b := registry.NewBuilder()
	if err := b.Register("Maybe", registry.Option("Option<u8>")); err != nil {
		t.Fatal(err)
	}
	reg, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	for _, raw := range []string{`null`, `7`} {
		if _, err := value.FromJSON(reg, "Maybe", []byte(raw)); !errors.IsKind(err, errors.KindShapeMismatch) {
			t.Errorf("FromJSON(%s) = %v, want shape_mismatch", raw, err)
		}
	}
	if _, err := value.ToJSON(value.Some(value.None())); !errors.IsKind(err, errors.KindShapeMismatch) {
		t.Errorf("ToJSON(Some(None)) = %v, want shape_mismatch", err)
	}
	if got, err := value.ToJSON(value.Some(uint8(7))); err != nil || string(got) != "7" {
		t.Errorf("ToJSON(Some(7)) = %s, %v", got, err)
	}
}

func TestToJSON(t *testing.T) {
	v := value.NewStruct(
		value.Field{Name: "value", Value: big.NewInt(5)},
		value.Field{Name: "header", Value: uint16(8)},
		value.Field{Name: "flags", Value: []any{true, int8(-1), value.None(), value.Some(uint32(3))}},
		value.Field{Name: "destination", Value: value.Variant{Name: "Pubkey", Value: []byte{0xab, 0xcd}}},
		value.Field{Name: "mode", Value: value.Variant{Name: "Nil"}},
	)
	got, err := value.ToJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"value":"5","header":8,"flags":[true,-1,null,3],"destination":{"Pubkey":"0xabcd"},"mode":{"Nil":null}}`
	if string(got) != want {
		t.Errorf("ToJSON =\n%s\nwant\n%s", got, want)
	}

	pretty, err := value.ToJSONIndent(v, "  ")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pretty), "\n  \"value\": \"5\"") {
		t.Errorf("ToJSONIndent =\n%s", pretty)
	}

	if _, err := value.ToJSON(struct{}{}); !errors.IsKind(err, errors.KindShapeMismatch) {
		t.Errorf("ToJSON(struct{}) = %v", err)
	}
}

func TestJSONRoundTripThroughCodec(t *testing.T) {
	reg := preset.MustChain()
	raw := `{"inputs":[{"outpoint":"` + zeroKey + `","lock":"0x","witness":"0x0102"}],` +
		`"outputs":[{"value":"1000","header":8,"destination":{"CreatePP":{"code":"0x0061736d","data":"0x"}}}]}`

	v, err := value.FromJSON(reg, "Transaction", []byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	data, err := codec.Encode(reg, "Transaction", v)
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.DecodeAll(reg, "Transaction", data)
	if err != nil {
		t.Fatal(err)
	}
	out, err := value.ToJSON(back)
	if err != nil {
		t.Fatal(err)
	}
	again, err := value.FromJSON(reg, "Transaction", out)
	if err != nil {
		t.Fatalf("re-parse %s: %v", out, err)
	}
	if diff := cmp.Diff(back, again, bigComparer); diff != "" {
		t.Errorf("JSON round trip differs (-decoded +reparsed):\n%s", diff)
	}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
