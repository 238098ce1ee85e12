package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/errors"
)

// maxVariants is the number of discriminants a single byte can address.
const maxVariants = 256

// Builder collects descriptors and validates them into a Registry.
// A Builder is not safe for concurrent use.
type Builder struct {
	descs   map[string]Descriptor
	version string
	order   []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{descs: make(map[string]Descriptor)}
}

// Register adds a named descriptor. Registering a structurally identical
// descriptor again is a no-op; a different one fails with
// DuplicateDefinition.
func (b *Builder) Register(name string, d Descriptor) error {
	if !validName(name) || reservedNames[name] {
		return errors.InvalidDefinition(errors.PhaseRegister, name, "invalid type name")
	}
	if _, ok := primitiveKinds[name]; ok {
		return errors.InvalidDefinition(errors.PhaseRegister, name, "builtin types cannot be redefined")
	}

	norm, err := normalize(name, d)
	if err != nil {
		return err
	}

	if existing, ok := b.descs[name]; ok {
		if existing.Equal(norm) {
			return nil
		}
		return errors.DuplicateDefinition(name)
	}

	b.descs[name] = norm
	b.order = append(b.order, name)
	return nil
}

// Has reports whether name has been registered.
func (b *Builder) Has(name string) bool {
	_, ok := b.descs[name]
	return ok
}

// Len returns the number of registered names.
func (b *Builder) Len() int {
	return len(b.order)
}

func (b *Builder) clone() *Builder {
	c := &Builder{
		descs:   make(map[string]Descriptor, len(b.descs)),
		version: b.version,
		order:   append([]string(nil), b.order...),
	}
	for name, d := range b.descs {
		c.descs[name] = d
	}
	return c
}

// SetVersion records a document version carried into the registry.
func (b *Builder) SetVersion(v string) {
	b.version = v
}

func normalize(name string, d Descriptor) (Descriptor, error) {
	invalid := func(format string, args ...any) error {
		return errors.InvalidDefinition(errors.PhaseRegister, name, fmt.Sprintf(format, args...))
	}
	canon := func(expr string) (string, error) {
		c, err := Canonical(expr)
		if err != nil {
			return "", invalid("%v", err)
		}
		return c, nil
	}

	out := Descriptor{Kind: d.Kind}
	switch {
	case d.Kind.IsPrimitive():
		if d.Elem != "" || d.Length != 0 || len(d.Fields)+len(d.Variants)+len(d.Items) > 0 {
			return Descriptor{}, invalid("primitive %s takes no parameters", d.Kind)
		}

	case d.Kind == KindFixedBytes:
		if d.Length <= 0 || d.Length > maxFixedBytes {
			return Descriptor{}, invalid("fixed bytes length %d out of range", d.Length)
		}
		out.Length = d.Length

	case d.Kind == KindStruct:
		seen := make(map[string]bool, len(d.Fields))
		out.Fields = make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			if !validName(f.Name) {
				return Descriptor{}, invalid("invalid field name %q", f.Name)
			}
			if seen[f.Name] {
				return Descriptor{}, invalid("duplicate field %q", f.Name)
			}
			seen[f.Name] = true
			t, err := canon(f.Type)
			if err != nil {
				return Descriptor{}, err
			}
			out.Fields[i] = Field{Name: f.Name, Type: t}
		}

	case d.Kind == KindEnum:
		if len(d.Variants) == 0 {
			return Descriptor{}, invalid("enum has no variants")
		}
		if len(d.Variants) > maxVariants {
			return Descriptor{}, invalid("enum has %d variants, limit is %d", len(d.Variants), maxVariants)
		}
		seen := make(map[string]bool, len(d.Variants))
		out.Variants = make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			if !validName(v.Name) {
				return Descriptor{}, invalid("invalid variant name %q", v.Name)
			}
			if seen[v.Name] {
				return Descriptor{}, invalid("duplicate variant %q", v.Name)
			}
			seen[v.Name] = true
			out.Variants[i] = Variant{Name: v.Name}
			if IsUnitExpr(v.Type) {
				continue
			}
			t, err := canon(v.Type)
			if err != nil {
				return Descriptor{}, err
			}
			out.Variants[i].Type = t
		}

	case d.Kind == KindTuple:
		out.Items = make([]string, len(d.Items))
		for i, it := range d.Items {
			t, err := canon(it)
			if err != nil {
				return Descriptor{}, err
			}
			out.Items[i] = t
		}

	case d.Kind == KindVector, d.Kind == KindAlias, d.Kind == KindCompact, d.Kind == KindOption:
		t, err := canon(d.Elem)
		if err != nil {
			return Descriptor{}, err
		}
		out.Elem = t

	default:
		return Descriptor{}, invalid("unknown kind %d", d.Kind)
	}
	return out, nil
}

// Finalize resolves every reference, rejects alias cycles, non-integer
// compact targets and types that cannot be built from terminal values,
// and returns the immutable registry. The builder may be reused.
func (b *Builder) Finalize() (*Registry, error) {
	f := &finalizer{byName: make(map[string]TypeID, len(b.order)*2)}

	for k := KindBool; k <= KindI128; k++ {
		f.byName[k.String()] = f.add(Type{Name: k.String(), Kind: k})
	}
	for _, name := range b.order {
		f.byName[name] = f.add(Type{Name: name, Kind: b.descs[name].Kind})
	}
	for _, name := range b.order {
		if err := f.fill(name, f.byName[name], b.descs[name]); err != nil {
			return nil, err
		}
	}
	if err := f.resolveBases(); err != nil {
		return nil, err
	}
	if err := f.checkCompact(); err != nil {
		return nil, err
	}
	if err := f.checkConstructible(); err != nil {
		return nil, err
	}
	f.computeMinSizes()

	descs := make(map[string]Descriptor, len(b.descs))
	for name, d := range b.descs {
		descs[name] = d.clone()
	}
	r := &Registry{
		types:   f.types,
		byName:  f.byName,
		descs:   descs,
		names:   append([]string(nil), b.order...),
		version: b.version,
	}

	Logger().Debug("registry finalized",
		zap.Int("names", len(r.names)),
		zap.Int("types", len(r.types)),
		zap.String("version", r.version))
	return r, nil
}

type finalizer struct {
	byName map[string]TypeID
	owners []string
	types  []Type
}

func (f *finalizer) add(t Type) TypeID {
	id := TypeID(len(f.types))
	t.ID = id
	t.Base = id
	f.types = append(f.types, t)
	f.owners = append(f.owners, t.Name)
	return id
}

// ref resolves a canonical expression, interning inline forms on first use.
func (f *finalizer) ref(owner, expr string) (TypeID, error) {
	if id, ok := f.byName[expr]; ok {
		return id, nil
	}
	in, err := parseExpr(expr)
	if err != nil {
		return 0, errors.InvalidDefinition(errors.PhaseFinalize, owner, err.Error())
	}
	if in.desc == nil {
		return 0, errors.UnresolvedReference(owner, expr, fmt.Sprintf("%q is not registered", expr))
	}
	id := f.add(Type{Name: in.canon, Kind: in.desc.Kind})
	f.owners[id] = owner
	f.byName[in.canon] = id
	if err := f.fill(owner, id, *in.desc); err != nil {
		return 0, err
	}
	return id, nil
}

func (f *finalizer) fill(owner string, id TypeID, d Descriptor) error {
	switch d.Kind {
	case KindFixedBytes:
		f.types[id].Length = d.Length

	case KindStruct:
		fields := make([]FieldRef, len(d.Fields))
		for i, fd := range d.Fields {
			tid, err := f.ref(owner, fd.Type)
			if err != nil {
				return err
			}
			fields[i] = FieldRef{Name: fd.Name, Type: tid}
		}
		f.types[id].Fields = fields

	case KindEnum:
		variants := make([]VariantRef, len(d.Variants))
		for i, v := range d.Variants {
			variants[i] = VariantRef{Name: v.Name, Unit: v.IsUnit()}
			if v.IsUnit() {
				continue
			}
			tid, err := f.ref(owner, v.Type)
			if err != nil {
				return err
			}
			variants[i].Payload = tid
		}
		f.types[id].Variants = variants

	case KindTuple:
		items := make([]TypeID, len(d.Items))
		for i, it := range d.Items {
			tid, err := f.ref(owner, it)
			if err != nil {
				return err
			}
			items[i] = tid
		}
		f.types[id].Items = items

	case KindVector, KindAlias, KindCompact, KindOption:
		tid, err := f.ref(owner, d.Elem)
		if err != nil {
			return err
		}
		f.types[id].Elem = tid
	}
	return nil
}

func (f *finalizer) resolveBases() error {
	for i := range f.types {
		if f.types[i].Kind != KindAlias {
			continue
		}
		seen := make(map[TypeID]bool)
		cur := TypeID(i)
		for f.types[cur].Kind == KindAlias {
			if seen[cur] {
				t := &f.types[i]
				return errors.UnresolvedReference(f.owners[i], f.types[t.Elem].Name, "alias cycle through "+t.Name)
			}
			seen[cur] = true
			cur = f.types[cur].Elem
		}
		f.types[i].Base = cur
	}
	return nil
}

func (f *finalizer) checkCompact() error {
	for i := range f.types {
		t := &f.types[i]
		if t.Kind != KindCompact {
			continue
		}
		target := &f.types[f.types[t.Elem].Base]
		if !target.Kind.IsUnsigned() {
			return errors.InvalidDefinition(errors.PhaseFinalize, f.owners[i],
				fmt.Sprintf("compact target %s is %s, not an unsigned integer", f.types[t.Elem].Name, target.Kind))
		}
	}
	return nil
}

// checkConstructible computes the least fixpoint of types that admit a
// finite value and rejects every type outside it.
func (f *finalizer) checkConstructible() error {
	ok := make([]bool, len(f.types))
	for changed := true; changed; {
		changed = false
		for i := range f.types {
			if !ok[i] && f.constructible(&f.types[i], ok) {
				ok[i] = true
				changed = true
			}
		}
	}
	for i := range f.types {
		if !ok[i] {
			return errors.UnresolvedReference(f.owners[i], f.types[i].Name, "does not resolve to a terminal type")
		}
	}
	return nil
}

func (f *finalizer) constructible(t *Type, ok []bool) bool {
	switch t.Kind {
	case KindStruct:
		for _, fd := range t.Fields {
			if !ok[fd.Type] {
				return false
			}
		}
		return true
	case KindTuple:
		for _, it := range t.Items {
			if !ok[it] {
				return false
			}
		}
		return true
	case KindEnum:
		for _, v := range t.Variants {
			if v.Unit || ok[v.Payload] {
				return true
			}
		}
		return false
	case KindAlias, KindCompact:
		return ok[t.Elem]
	}
	// Primitives, fixed bytes, vectors and options always admit a value.
	return true
}

// computeMinSizes relaxes every type's minimum encoded size to its least
// fixpoint. All types are constructible here, so every size ends finite.
func (f *finalizer) computeMinSizes() {
	const unknown = -1
	for i := range f.types {
		f.types[i].MinSize = unknown
	}
	for changed := true; changed; {
		changed = false
		for i := range f.types {
			n := f.minSize(&f.types[i])
			if n == unknown {
				continue
			}
			if cur := f.types[i].MinSize; cur == unknown || n < cur {
				f.types[i].MinSize = n
				changed = true
			}
		}
	}
}

// minSize returns -1 while a dependency is still unknown.
func (f *finalizer) minSize(t *Type) int {
	switch t.Kind {
	case KindFixedBytes:
		return t.Length
	case KindVector, KindOption, KindCompact:
		// empty length prefix, None tag, compact zero
		return 1
	case KindAlias:
		return f.types[t.Elem].MinSize
	case KindStruct:
		total := 0
		for _, fd := range t.Fields {
			n := f.types[fd.Type].MinSize
			if n < 0 {
				return -1
			}
			total += n
		}
		return total
	case KindTuple:
		total := 0
		for _, it := range t.Items {
			n := f.types[it].MinSize
			if n < 0 {
				return -1
			}
			total += n
		}
		return total
	case KindEnum:
		least := -1
		for _, v := range t.Variants {
			n := 0
			if !v.Unit {
				n = f.types[v.Payload].MinSize
			}
			if n >= 0 && (least < 0 || n < least) {
				least = n
			}
		}
		if least < 0 {
			return -1
		}
		return 1 + least
	}
	return t.Kind.Width()
}
