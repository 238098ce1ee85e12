package value

import (
	"math/big"
	"testing"
)

func TestStructAccess(t *testing.T) {
	s := NewStruct(Field{Name: "a", Value: uint8(1)})
	s.Set("b", uint16(2))
	s.Set("a", uint8(3))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if v, ok := s.Get("a"); !ok || v != uint8(3) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := s.Get("c"); ok {
		t.Error("Get(c) should miss")
	}
	if s.Fields[1].Name != "b" {
		t.Errorf("field order = %+v", s.Fields)
	}
	if got := s.String(); got != "{a: 3, b: 2}" {
		t.Errorf("String() = %q", got)
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		in   interface{ String() string }
		want string
	}{
		{NewVariant("Pubkey", []byte{1}), "Pubkey([1])"},
		{Variant{Name: "Nil"}, "Nil"},
		{None(), "None"},
		{Some(uint8(7)), "Some(7)"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "nil"},
		{uint8(1), "uint8"},
		{NewStruct(), "value.Struct"},
		{Variant{}, "value.Variant"},
		{Some(1), "value.Option"},
		{big.NewInt(1), "*big.Int"},
		{[]any{}, "[]interface {}"},
	}
	for _, tc := range tests {
		if got := TypeName(tc.in); got != tc.want {
			t.Errorf("TypeName(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestU128(t *testing.T) {
	if U128(5).Cmp(big.NewInt(5)) != 0 {
		t.Error("U128(5) != 5")
	}
}
