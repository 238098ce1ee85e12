package witbridge

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

// Bridge maps registry types onto WIT types. Named registry types become
// named TypeDefs shared by every reference; inline expressions become
// anonymous TypeDefs. A Bridge is not safe for concurrent use.
type Bridge struct {
	reg      *registry.Registry
	named    map[registry.TypeID]*wit.TypeDef
	visiting map[registry.TypeID]bool
	order    []*wit.TypeDef
}

// New returns a bridge over reg.
func New(reg *registry.Registry) *Bridge {
	return &Bridge{
		reg:      reg,
		named:    make(map[registry.TypeID]*wit.TypeDef),
		visiting: make(map[registry.TypeID]bool),
	}
}

// Type returns the WIT type for a registry name or expression.
func (b *Bridge) Type(name string) (wit.Type, error) {
	id, err := b.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.convert(id)
}

// All converts every registered type and returns the named definitions
// with dependencies ahead of their users.
func (b *Bridge) All() ([]*wit.TypeDef, error) {
	for _, name := range b.reg.Names() {
		if _, err := b.Type(name); err != nil {
			return nil, err
		}
	}
	return b.Defs(), nil
}

// Defs returns the named definitions produced so far, dependencies first.
func (b *Bridge) Defs() []*wit.TypeDef {
	return append([]*wit.TypeDef(nil), b.order...)
}

func (b *Bridge) convert(id registry.TypeID) (wit.Type, error) {
	t := b.reg.Type(id)
	if t.Kind.IsPrimitive() && !b.reg.Has(t.Name) {
		return primitive(t.Kind), nil
	}
	if !b.reg.Has(t.Name) {
		kind, err := b.kind(t)
		if err != nil {
			return nil, err
		}
		if ty, ok := kind.(wit.Type); ok {
			return ty, nil
		}
		return &wit.TypeDef{Kind: kind}, nil
	}

	if td, ok := b.named[id]; ok {
		return td, nil
	}
	if b.visiting[id] {
		return nil, errors.New(errors.PhaseWIT, errors.KindInvalidDefinition).
			TypeName(t.Name).
			Detail("recursive type has no WIT form").
			Build()
	}
	b.visiting[id] = true
	kind, err := b.kind(t)
	delete(b.visiting, id)
	if err != nil {
		return nil, err
	}

	name := Name(t.Name)
	td := &wit.TypeDef{Name: &name, Kind: kind}
	b.named[id] = td
	b.order = append(b.order, td)
	return td, nil
}

// kind builds the definition body of t. Aliases and compact wrappers yield
// their target type; 128- and 256-bit integers become tuples of u64 limbs,
// least significant first.
func (b *Bridge) kind(t *registry.Type) (wit.TypeDefKind, error) {
	switch t.Kind {
	case registry.KindAlias, registry.KindCompact:
		return b.convert(t.Elem)

	case registry.KindU128, registry.KindU256, registry.KindI128:
		return limbs(t.Kind), nil

	case registry.KindFixedBytes:
		return &wit.List{Type: wit.U8{}}, nil

	case registry.KindVector:
		elem, err := b.convert(t.Elem)
		if err != nil {
			return nil, err
		}
		return &wit.List{Type: elem}, nil

	case registry.KindOption:
		elem, err := b.convert(t.Elem)
		if err != nil {
			return nil, err
		}
		return &wit.Option{Type: elem}, nil

	case registry.KindTuple:
		types := make([]wit.Type, len(t.Items))
		for i, it := range t.Items {
			ty, err := b.convert(it)
			if err != nil {
				return nil, err
			}
			types[i] = ty
		}
		return &wit.Tuple{Types: types}, nil

	case registry.KindStruct:
		fields := make([]wit.Field, len(t.Fields))
		for i, f := range t.Fields {
			ty, err := b.convert(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = wit.Field{Name: Name(f.Name), Type: ty}
		}
		return &wit.Record{Fields: fields}, nil

	case registry.KindEnum:
		return b.enum(t)
	}
	return primitive(t.Kind), nil
}

// enum maps a payload-free enum to a WIT enum and anything else to a variant.
func (b *Bridge) enum(t *registry.Type) (wit.TypeDefKind, error) {
	unit := true
	for _, v := range t.Variants {
		if !v.Unit {
			unit = false
			break
		}
	}
	if unit {
		cases := make([]wit.EnumCase, len(t.Variants))
		for i, v := range t.Variants {
			cases[i] = wit.EnumCase{Name: Name(v.Name)}
		}
		return &wit.Enum{Cases: cases}, nil
	}

	cases := make([]wit.Case, len(t.Variants))
	for i, v := range t.Variants {
		cases[i] = wit.Case{Name: Name(v.Name)}
		if v.Unit {
			continue
		}
		ty, err := b.convert(v.Payload)
		if err != nil {
			return nil, err
		}
		cases[i].Type = ty
	}
	return &wit.Variant{Cases: cases}, nil
}

func primitive(k registry.Kind) wit.Type {
	switch k {
	case registry.KindBool:
		return wit.Bool{}
	case registry.KindU8:
		return wit.U8{}
	case registry.KindU16:
		return wit.U16{}
	case registry.KindU32:
		return wit.U32{}
	case registry.KindU64:
		return wit.U64{}
	case registry.KindI8:
		return wit.S8{}
	case registry.KindI16:
		return wit.S16{}
	case registry.KindI32:
		return wit.S32{}
	case registry.KindI64:
		return wit.S64{}
	}
	return &wit.TypeDef{Kind: limbs(k)}
}

func limbs(k registry.Kind) *wit.Tuple {
	n := k.Bits() / 64
	types := make([]wit.Type, n)
	for i := range types {
		types[i] = wit.U64{}
	}
	if k == registry.KindI128 {
		types[n-1] = wit.S64{}
	}
	return &wit.Tuple{Types: types}
}
