package registry

import "testing"

func TestDescriptorString(t *testing.T) {
	tests := []struct {
		d    Descriptor
		want string
	}{
		{Primitive(KindU64), "u64"},
		{FixedBytes(32), "[u8; 32]"},
		{Struct(Field{"value", "Value"}, Field{"header", "u16"}), "{value: Value, header: u16}"},
		{Enum(Variant{"Pubkey", "Public"}, Variant{Name: "None"}), "enum {Pubkey(Public), None}"},
		{Vector("u8"), "Vec<u8>"},
		{Alias("H256"), "H256"},
		{Compact("u128"), "Compact<u128>"},
		{Option("bool"), "Option<bool>"},
		{Tuple("u8", "u32"), "(u8, u32)"},
		{Tuple("u8"), "(u8,)"},
		{Tuple(), "()"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDescriptorEqual(t *testing.T) {
	a := Struct(Field{"a", "u8"}, Field{"b", "Vec<u8>"})
	if !a.Equal(Struct(Field{"a", "u8"}, Field{"b", "Vec<u8>"})) {
		t.Error("identical structs differ")
	}
	if a.Equal(Struct(Field{"b", "Vec<u8>"}, Field{"a", "u8"})) {
		t.Error("field order ignored")
	}
	if Vector("u8").Equal(Option("u8")) {
		t.Error("kinds ignored")
	}
	c := a.clone()
	c.Fields[0].Type = "u16"
	if a.Fields[0].Type != "u8" {
		t.Error("clone shares fields")
	}
}
