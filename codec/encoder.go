package codec

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/value"
)

var itoa = strconv.Itoa

// Encoder encodes values of registry types. It holds no mutable state and
// may be shared between goroutines.
type Encoder struct {
	reg      *registry.Registry
	maxDepth int
}

// NewEncoder creates an encoder bound to reg.
func NewEncoder(reg *registry.Registry, opts ...Option) *Encoder {
	s := newSettings(opts)
	return &Encoder{reg: reg, maxDepth: s.maxDepth}
}

// Registry returns the registry the encoder is bound to.
func (e *Encoder) Registry() *registry.Registry {
	return e.reg
}

// Encode returns the encoding of v as typeName.
func (e *Encoder) Encode(typeName string, v any) ([]byte, error) {
	id, err := e.reg.Lookup(typeName)
	if err != nil {
		return nil, errors.UnknownType(errors.PhaseEncode, typeName)
	}
	return e.EncodeID(id, v)
}

// EncodeID is Encode for a resolved TypeID.
func (e *Encoder) EncodeID(id registry.TypeID, v any) ([]byte, error) {
	if e.reg.Type(id) == nil {
		return nil, errors.UnknownType(errors.PhaseEncode, "#"+itoa(int(id)))
	}
	buf := getBuf()
	out, err := e.encode(*buf, id, v, nil, 0)
	*buf = out
	if err != nil {
		putBuf(buf)
		e.logFailure(id, err)
		return nil, err
	}
	result := make([]byte, len(out))
	copy(result, out)
	putBuf(buf)
	return result, nil
}

// Append appends the encoding of v as typeName to dst. On error dst is
// returned at its original length.
func (e *Encoder) Append(dst []byte, typeName string, v any) ([]byte, error) {
	id, err := e.reg.Lookup(typeName)
	if err != nil {
		return dst, errors.UnknownType(errors.PhaseEncode, typeName)
	}
	start := len(dst)
	out, err := e.encode(dst, id, v, nil, 0)
	if err != nil {
		e.logFailure(id, err)
		return out[:start], err
	}
	return out, nil
}

func (e *Encoder) logFailure(id registry.TypeID, err error) {
	if ce := Logger().Check(zap.DebugLevel, "encode failed"); ce != nil {
		ce.Write(zap.String("type", e.reg.Expr(id)), zap.Error(err))
	}
}

func (e *Encoder) mismatch(path []string, v any, id registry.TypeID, detail string, args ...any) error {
	b := errors.New(errors.PhaseEncode, errors.KindShapeMismatch).
		Path(clonePath(path)...).
		GoType(value.TypeName(v)).
		TypeName(e.reg.Expr(id)).
		Value(v)
	if detail != "" {
		b.Detail(detail, args...)
	}
	return b.Build()
}

func (e *Encoder) encode(dst []byte, id registry.TypeID, v any, path []string, depth int) ([]byte, error) {
	if depth > e.maxDepth {
		return dst, errors.DepthExceeded(errors.PhaseEncode, clonePath(path), e.maxDepth)
	}

	t := e.reg.Base(id)
	switch t.Kind {
	case registry.KindFixedBytes:
		b, ok := v.([]byte)
		if !ok {
			return dst, e.mismatch(path, v, id, "")
		}
		if len(b) != t.Length {
			return dst, e.mismatch(path, v, id, "expected %d bytes, got %d", t.Length, len(b))
		}
		return append(dst, b...), nil

	case registry.KindStruct:
		return e.encodeStruct(dst, id, t, v, path, depth)

	case registry.KindEnum:
		return e.encodeEnum(dst, id, t, v, path, depth)

	case registry.KindVector:
		return e.encodeVector(dst, id, t, v, path, depth)

	case registry.KindOption:
		return e.encodeOption(dst, id, t, v, path, depth)

	case registry.KindTuple:
		return e.encodeTuple(dst, id, t, v, path, depth)

	case registry.KindCompact:
		target := e.reg.Base(t.Elem)
		x, ok := compactSource(v, target.Kind)
		if !ok {
			return dst, e.mismatch(path, v, id, "compact %s", target.Kind)
		}
		return AppendCompact(dst, x), nil
	}

	out, ok, detail := appendPrimitive(dst, t.Kind, v)
	if !ok {
		return dst, e.mismatch(path, v, id, "%s", detail)
	}
	return out, nil
}

func (e *Encoder) encodeStruct(dst []byte, id registry.TypeID, t *registry.Type, v any, path []string, depth int) ([]byte, error) {
	var err error
	switch s := v.(type) {
	case *value.Struct:
		if s == nil {
			return dst, e.mismatch(path, v, id, "nil struct")
		}
		if len(s.Fields) != len(t.Fields) {
			return dst, e.mismatch(path, v, id, "expected %d fields, got %d", len(t.Fields), len(s.Fields))
		}
		for i, f := range t.Fields {
			if s.Fields[i].Name != f.Name {
				return dst, e.mismatch(path, v, id, "field %d is %q, want %q", i, s.Fields[i].Name, f.Name)
			}
			if dst, err = e.encode(dst, f.Type, s.Fields[i].Value, appendPath(path, f.Name), depth+1); err != nil {
				return dst, err
			}
		}
		return dst, nil

	case map[string]any:
		for _, f := range t.Fields {
			fv, ok := s[f.Name]
			if !ok {
				return dst, e.mismatch(path, v, id, "missing field %q", f.Name)
			}
			if dst, err = e.encode(dst, f.Type, fv, appendPath(path, f.Name), depth+1); err != nil {
				return dst, err
			}
		}
		if len(s) != len(t.Fields) {
			return dst, e.mismatch(path, v, id, "expected %d fields, got %d", len(t.Fields), len(s))
		}
		return dst, nil
	}
	return dst, e.mismatch(path, v, id, "")
}

func (e *Encoder) encodeEnum(dst []byte, id registry.TypeID, t *registry.Type, v any, path []string, depth int) ([]byte, error) {
	var vr value.Variant
	switch x := v.(type) {
	case value.Variant:
		vr = x
	case *value.Variant:
		if x == nil {
			return dst, e.mismatch(path, v, id, "nil variant")
		}
		vr = *x
	default:
		return dst, e.mismatch(path, v, id, "")
	}

	idx := vr.Index
	if vr.Name != "" {
		i, ok := t.VariantIndex(vr.Name)
		if !ok {
			return dst, e.mismatch(path, v, id, "unknown variant %q", vr.Name)
		}
		if idx != 0 && idx != i {
			return dst, e.mismatch(path, v, id, "variant %q has index %d, not %d", vr.Name, i, idx)
		}
		idx = i
	} else if idx < 0 || idx >= len(t.Variants) {
		return dst, e.mismatch(path, v, id, "variant index %d out of range", idx)
	}

	variant := t.Variants[idx]
	dst = append(dst, byte(idx))
	p := appendPath(path, variant.Name)
	if variant.Unit {
		if vr.Value != nil {
			return dst, e.mismatch(p, vr.Value, id, "unit variant takes no payload")
		}
		return dst, nil
	}
	return e.encode(dst, variant.Payload, vr.Value, p, depth+1)
}

func (e *Encoder) encodeVector(dst []byte, id registry.TypeID, t *registry.Type, v any, path []string, depth int) ([]byte, error) {
	if e.reg.IsByteVector(t) {
		b, ok := v.([]byte)
		if !ok {
			return dst, e.mismatch(path, v, id, "")
		}
		dst = AppendCompactUint(dst, uint64(len(b)))
		return append(dst, b...), nil
	}

	items, ok := v.([]any)
	if !ok {
		return dst, e.mismatch(path, v, id, "")
	}
	dst = AppendCompactUint(dst, uint64(len(items)))
	var err error
	for i, item := range items {
		if dst, err = e.encode(dst, t.Elem, item, indexPath(path, i), depth+1); err != nil {
			return dst, err
		}
	}
	return dst, nil
}

func (e *Encoder) encodeOption(dst []byte, id registry.TypeID, t *registry.Type, v any, path []string, depth int) ([]byte, error) {
	var o value.Option
	switch x := v.(type) {
	case value.Option:
		o = x
	case *value.Option:
		if x == nil {
			return dst, e.mismatch(path, v, id, "nil option")
		}
		o = *x
	default:
		return dst, e.mismatch(path, v, id, "")
	}

	if !o.Some {
		if o.Value != nil {
			return dst, e.mismatch(path, v, id, "None carries a value")
		}
		return append(dst, 0), nil
	}

	// Option<bool> folds the payload into the tag byte.
	if e.reg.Base(t.Elem).Kind == registry.KindBool {
		b, ok := o.Value.(bool)
		if !ok {
			return dst, e.mismatch(path, o.Value, t.Elem, "")
		}
		if b {
			return append(dst, 1), nil
		}
		return append(dst, 2), nil
	}

	dst = append(dst, 1)
	return e.encode(dst, t.Elem, o.Value, path, depth+1)
}

func (e *Encoder) encodeTuple(dst []byte, id registry.TypeID, t *registry.Type, v any, path []string, depth int) ([]byte, error) {
	if v == nil && len(t.Items) == 0 {
		return dst, nil
	}
	items, ok := v.([]any)
	if !ok {
		return dst, e.mismatch(path, v, id, "")
	}
	if len(items) != len(t.Items) {
		return dst, e.mismatch(path, v, id, "expected %d items, got %d", len(t.Items), len(items))
	}
	var err error
	for i, item := range items {
		if dst, err = e.encode(dst, t.Items[i], item, appendPath(path, itoa(i)), depth+1); err != nil {
			return dst, err
		}
	}
	return dst, nil
}
