package registry

import (
	"strconv"
	"strings"
)

// Field is a named struct member referencing its type by expression.
type Field struct {
	Name string
	Type string
}

// Variant is a named enum case. An empty Type marks a unit variant.
type Variant struct {
	Name string
	Type string
}

// IsUnit reports whether the variant carries no payload.
func (v Variant) IsUnit() bool {
	return v.Type == ""
}

// Descriptor is the registration form of a type. References to other
// types are type expressions: registered names or inline forms such as
// Vec<T> or [u8; 32].
type Descriptor struct {
	Fields   []Field   // KindStruct
	Variants []Variant // KindEnum
	Items    []string  // KindTuple
	Elem     string    // KindVector, KindAlias, KindCompact, KindOption
	Length   int       // KindFixedBytes
	Kind     Kind
}

// Primitive returns a descriptor for a builtin integer or bool kind.
func Primitive(k Kind) Descriptor {
	return Descriptor{Kind: k}
}

// FixedBytes returns a descriptor for a byte array of length n.
func FixedBytes(n int) Descriptor {
	return Descriptor{Kind: KindFixedBytes, Length: n}
}

// Struct returns a struct descriptor with fields in declaration order.
func Struct(fields ...Field) Descriptor {
	return Descriptor{Kind: KindStruct, Fields: fields}
}

// Enum returns an enum descriptor; discriminants follow declaration order.
func Enum(variants ...Variant) Descriptor {
	return Descriptor{Kind: KindEnum, Variants: variants}
}

// Vector returns a descriptor for a length-prefixed sequence.
func Vector(elem string) Descriptor {
	return Descriptor{Kind: KindVector, Elem: elem}
}

// Alias returns a descriptor encoding exactly as target.
func Alias(target string) Descriptor {
	return Descriptor{Kind: KindAlias, Elem: target}
}

// Compact returns a descriptor for the compact encoding of an unsigned target.
func Compact(target string) Descriptor {
	return Descriptor{Kind: KindCompact, Elem: target}
}

// Option returns a descriptor for an optional value.
func Option(elem string) Descriptor {
	return Descriptor{Kind: KindOption, Elem: elem}
}

// Tuple returns a descriptor for an anonymous product of items.
func Tuple(items ...string) Descriptor {
	return Descriptor{Kind: KindTuple, Items: items}
}

// Equal reports structural equality.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.Kind != o.Kind || d.Length != o.Length || d.Elem != o.Elem {
		return false
	}
	if len(d.Fields) != len(o.Fields) || len(d.Variants) != len(o.Variants) || len(d.Items) != len(o.Items) {
		return false
	}
	for i := range d.Fields {
		if d.Fields[i] != o.Fields[i] {
			return false
		}
	}
	for i := range d.Variants {
		if d.Variants[i] != o.Variants[i] {
			return false
		}
	}
	for i := range d.Items {
		if d.Items[i] != o.Items[i] {
			return false
		}
	}
	return true
}

// String renders d in type-expression form; structs and enums are spelled
// out member by member.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindFixedBytes:
		return "[u8; " + strconv.Itoa(d.Length) + "]"
	case KindStruct:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = f.Name + ": " + f.Type
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		parts := make([]string, len(d.Variants))
		for i, v := range d.Variants {
			parts[i] = v.Name
			if !v.IsUnit() {
				parts[i] += "(" + v.Type + ")"
			}
		}
		return "enum {" + strings.Join(parts, ", ") + "}"
	case KindVector:
		return "Vec<" + d.Elem + ">"
	case KindAlias:
		return d.Elem
	case KindCompact:
		return "Compact<" + d.Elem + ">"
	case KindOption:
		return "Option<" + d.Elem + ">"
	case KindTuple:
		if len(d.Items) == 1 {
			return "(" + d.Items[0] + ",)"
		}
		return "(" + strings.Join(d.Items, ", ") + ")"
	}
	return d.Kind.String()
}

func (d Descriptor) clone() Descriptor {
	c := d
	c.Fields = append([]Field(nil), d.Fields...)
	c.Variants = append([]Variant(nil), d.Variants...)
	c.Items = append([]string(nil), d.Items...)
	return c
}
