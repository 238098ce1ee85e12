package codec

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/value"
)

// Decoder decodes values of registry types. It holds no mutable state and
// may be shared between goroutines.
type Decoder struct {
	reg      *registry.Registry
	maxDepth int
}

// NewDecoder creates a decoder bound to reg.
func NewDecoder(reg *registry.Registry, opts ...Option) *Decoder {
	s := newSettings(opts)
	return &Decoder{reg: reg, maxDepth: s.maxDepth}
}

// Registry returns the registry the decoder is bound to.
func (d *Decoder) Registry() *registry.Registry {
	return d.reg
}

// Decode decodes one value of typeName from the start of data and returns
// it with the number of bytes consumed. No value is returned on error.
func (d *Decoder) Decode(typeName string, data []byte) (any, int, error) {
	id, err := d.reg.Lookup(typeName)
	if err != nil {
		return nil, 0, errors.UnknownType(errors.PhaseDecode, typeName)
	}
	return d.DecodeID(id, data)
}

// DecodeID is Decode for a resolved TypeID.
func (d *Decoder) DecodeID(id registry.TypeID, data []byte) (any, int, error) {
	if d.reg.Type(id) == nil {
		return nil, 0, errors.UnknownType(errors.PhaseDecode, "#"+itoa(int(id)))
	}
	r := &reader{data: data}
	v, err := d.decode(r, id, nil, 0)
	if err != nil {
		if ce := Logger().Check(zap.DebugLevel, "decode failed"); ce != nil {
			ce.Write(zap.String("type", d.reg.Expr(id)), zap.Int("offset", r.pos), zap.Error(err))
		}
		return nil, 0, err
	}
	return v, r.pos, nil
}

// DecodeAll decodes typeName from data and fails with TrailingBytes if
// any input is left over.
func (d *Decoder) DecodeAll(typeName string, data []byte) (any, error) {
	v, n, err := d.Decode(typeName, data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.TrailingBytes(typeName, n, len(data))
	}
	return v, nil
}

// at attaches path to an error raised below the point that knows it.
func at(err error, path []string) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Path == nil && len(path) > 0 {
		e.Path = clonePath(path)
	}
	return err
}

func (d *Decoder) decode(r *reader, id registry.TypeID, path []string, depth int) (any, error) {
	if depth > d.maxDepth {
		return nil, errors.DepthExceeded(errors.PhaseDecode, clonePath(path), d.maxDepth)
	}

	t := d.reg.Base(id)
	switch t.Kind {
	case registry.KindFixedBytes:
		b, err := r.take(t.Length)
		if err != nil {
			return nil, at(err, path)
		}
		return copyBytes(b), nil

	case registry.KindStruct:
		s := &value.Struct{Fields: make([]value.Field, len(t.Fields))}
		for i, f := range t.Fields {
			fv, err := d.decode(r, f.Type, appendPath(path, f.Name), depth+1)
			if err != nil {
				return nil, err
			}
			s.Fields[i] = value.Field{Name: f.Name, Value: fv}
		}
		return s, nil

	case registry.KindEnum:
		return d.decodeEnum(r, id, t, path, depth)

	case registry.KindVector:
		return d.decodeVector(r, t, path, depth)

	case registry.KindOption:
		return d.decodeOption(r, id, t, path, depth)

	case registry.KindTuple:
		items := make([]any, len(t.Items))
		for i, it := range t.Items {
			v, err := d.decode(r, it, appendPath(path, itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil

	case registry.KindCompact:
		target := d.reg.Base(t.Elem)
		x, err := r.compact()
		if err != nil {
			return nil, at(err, path)
		}
		v, ok := compactTarget(x, target.Kind)
		if !ok {
			return nil, errors.Overflow(errors.PhaseDecode, clonePath(path), x, target.Kind.String())
		}
		return v, nil
	}

	v, err := r.primitive(t.Kind)
	if err != nil {
		return nil, at(err, path)
	}
	return v, nil
}

func (d *Decoder) decodeEnum(r *reader, id registry.TypeID, t *registry.Type, path []string, depth int) (any, error) {
	disc, err := r.byte()
	if err != nil {
		return nil, at(err, path)
	}
	if int(disc) >= len(t.Variants) {
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, clonePath(path), d.reg.Expr(id), disc, len(t.Variants))
	}
	variant := t.Variants[disc]
	out := value.Variant{Index: int(disc), Name: variant.Name}
	if variant.Unit {
		return out, nil
	}
	payload, err := d.decode(r, variant.Payload, appendPath(path, variant.Name), depth+1)
	if err != nil {
		return nil, err
	}
	out.Value = payload
	return out, nil
}

func (d *Decoder) decodeVector(r *reader, t *registry.Type, path []string, depth int) (any, error) {
	n, err := r.length(d.reg.Type(t.Elem).MinSize)
	if err != nil {
		return nil, at(err, path)
	}
	if d.reg.IsByteVector(t) {
		b, err := r.take(n)
		if err != nil {
			return nil, at(err, path)
		}
		return copyBytes(b), nil
	}

	items := make([]any, 0, min(n, r.remaining()+1))
	for i := range n {
		v, err := d.decode(r, t.Elem, indexPath(path, i), depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *Decoder) decodeOption(r *reader, id registry.TypeID, t *registry.Type, path []string, depth int) (any, error) {
	tag, err := r.byte()
	if err != nil {
		return nil, at(err, path)
	}

	if d.reg.Base(t.Elem).Kind == registry.KindBool {
		switch tag {
		case 0:
			return value.None(), nil
		case 1:
			return value.Some(true), nil
		case 2:
			return value.Some(false), nil
		}
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, clonePath(path), d.reg.Expr(id), tag, 3)
	}

	switch tag {
	case 0:
		return value.None(), nil
	case 1:
		v, err := d.decode(r, t.Elem, path, depth+1)
		if err != nil {
			return nil, err
		}
		return value.Some(v), nil
	}
	return nil, errors.InvalidDiscriminant(errors.PhaseDecode, clonePath(path), d.reg.Expr(id), tag, 2)
}

// copyBytes detaches b from the input buffer. Empty input yields an empty,
// non-nil slice.
func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
