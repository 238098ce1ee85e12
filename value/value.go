// Package value defines the in-memory form of encoded values.
//
// The codec maps descriptor kinds to Go values as follows:
//
//	bool                 bool
//	u8, u16, u32, u64    uint8, uint16, uint32, uint64
//	i8, i16, i32, i64    int8, int16, int32, int64
//	u128, u256, i128     *big.Int
//	[u8; N], Vec<u8>     []byte
//	Vec<T>, tuples       []any
//	structs              *Struct (map[string]any is accepted on encode)
//	enums                Variant
//	Option<T>            Option
//	Compact<T>           the Go type of T
//
// Values are never coerced: an integer of the wrong width is a shape
// mismatch, not a conversion.
package value

import (
	"fmt"
	"math/big"
	"strings"
)

// Field is a named struct member.
type Field struct {
	Value any
	Name  string
}

// Struct is an ordered set of fields.
type Struct struct {
	Fields []Field
}

// NewStruct creates a struct value from fields in declaration order.
func NewStruct(fields ...Field) *Struct {
	return &Struct{Fields: fields}
}

// Get returns the value of the named field.
func (s *Struct) Get(name string) (any, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field or appends it.
func (s *Struct) Set(name string, v any) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			s.Fields[i].Value = v
			return
		}
	}
	s.Fields = append(s.Fields, Field{Name: name, Value: v})
}

// Len returns the number of fields.
func (s *Struct) Len() int {
	return len(s.Fields)
}

func (s *Struct) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", f.Name, f.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Variant is an enum value. On encode the variant is selected by Name
// when set, otherwise by Index. Unit variants carry a nil Value.
type Variant struct {
	Value any
	Name  string
	Index int
}

// NewVariant selects a variant by name.
func NewVariant(name string, payload any) Variant {
	return Variant{Name: name, Value: payload}
}

func (v Variant) String() string {
	if v.Value == nil {
		return v.Name
	}
	return fmt.Sprintf("%s(%v)", v.Name, v.Value)
}

// Option is an optional value.
type Option struct {
	Value any
	Some  bool
}

// Some wraps v as a present option.
func Some(v any) Option {
	return Option{Some: true, Value: v}
}

// None returns an absent option.
func None() Option {
	return Option{}
}

func (o Option) String() string {
	if !o.Some {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// U128 returns v as a *big.Int, for building u128 and u256 values.
func U128(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// TypeName returns a short Go type description used in error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case *Struct:
		return "value.Struct"
	case Variant, *Variant:
		return "value.Variant"
	case Option, *Option:
		return "value.Option"
	}
	return fmt.Sprintf("%T", v)
}
