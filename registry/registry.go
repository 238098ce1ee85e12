package registry

import (
	"slices"

	"github.com/wippyai/scale-codec/errors"
)

// TypeID addresses a type in a finalized registry's arena.
type TypeID uint32

// FieldRef is a resolved struct member.
type FieldRef struct {
	Name string
	Type TypeID
}

// VariantRef is a resolved enum case. Unit variants have no payload.
type VariantRef struct {
	Name    string
	Payload TypeID
	Unit    bool
}

// Type is a resolved arena record. References are TypeIDs into the same
// registry, so recursive graphs need no pointers.
type Type struct {
	Name     string
	Fields   []FieldRef
	Variants []VariantRef
	Items    []TypeID
	ID       TypeID
	Elem     TypeID // vector element, option element, alias or compact target
	Base     TypeID // first non-alias type reached from this one
	Length   int
	MinSize  int // fewest bytes any value of this type encodes to
	Kind     Kind
}

// VariantIndex returns the discriminant of the named variant.
func (t *Type) VariantIndex(name string) (int, bool) {
	for i, v := range t.Variants {
		if v.Name == name {
			return i, true
		}
	}
	return -1, false
}

// IsByteVector reports whether t is Vec<u8>.
func (r *Registry) IsByteVector(t *Type) bool {
	return t.Kind == KindVector && r.types[r.types[t.Elem].Base].Kind == KindU8
}

// Registry is an immutable, finalized set of types. It is safe for
// concurrent use.
type Registry struct {
	byName  map[string]TypeID
	descs   map[string]Descriptor
	version string
	types   []Type
	names   []string
}

// Lookup returns the TypeID for a registered name, a primitive keyword,
// or an inline expression interned during finalization.
func (r *Registry) Lookup(name string) (TypeID, error) {
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	canon, err := Canonical(name)
	if err == nil {
		if id, ok := r.byName[canon]; ok {
			return id, nil
		}
	}
	return 0, errors.UnknownType(errors.PhaseLookup, name)
}

// Resolve returns the descriptor a name was registered with. Primitive
// keywords and interned expressions resolve to their structural form.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	if d, ok := r.descs[name]; ok {
		return d.clone(), nil
	}
	id, err := r.Lookup(name)
	if err != nil {
		return Descriptor{}, err
	}
	return r.Describe(id), nil
}

// Describe rebuilds a descriptor from an arena record, spelling references
// by name or canonical expression.
func (r *Registry) Describe(id TypeID) Descriptor {
	t := &r.types[id]
	switch t.Kind {
	case KindFixedBytes:
		return FixedBytes(t.Length)
	case KindStruct:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = Field{Name: f.Name, Type: r.types[f.Type].Name}
		}
		return Struct(fields...)
	case KindEnum:
		variants := make([]Variant, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = Variant{Name: v.Name}
			if !v.Unit {
				variants[i].Type = r.types[v.Payload].Name
			}
		}
		return Enum(variants...)
	case KindTuple:
		items := make([]string, len(t.Items))
		for i, it := range t.Items {
			items[i] = r.types[it].Name
		}
		return Tuple(items...)
	case KindVector, KindAlias, KindCompact, KindOption:
		return Descriptor{Kind: t.Kind, Elem: r.types[t.Elem].Name}
	}
	return Primitive(t.Kind)
}

// Type returns the arena record for id, or nil if id is out of range.
func (r *Registry) Type(id TypeID) *Type {
	if int(id) >= len(r.types) {
		return nil
	}
	return &r.types[id]
}

// Base returns the record reached by following aliases from id.
func (r *Registry) Base(id TypeID) *Type {
	t := r.Type(id)
	if t == nil {
		return nil
	}
	return &r.types[t.Base]
}

// Expr returns the name or canonical expression of id.
func (r *Registry) Expr(id TypeID) string {
	if t := r.Type(id); t != nil {
		return t.Name
	}
	return ""
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Has reports whether name was registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.descs[name]
	return ok
}

// Len returns the number of arena records, including primitives and
// interned expressions.
func (r *Registry) Len() int {
	return len(r.types)
}

// Version returns the document version recorded by the loader, if any.
func (r *Registry) Version() string {
	return r.version
}
