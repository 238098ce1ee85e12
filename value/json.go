package value

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/ss58"
)

// FromJSON converts a JSON document into the canonical value of typeName.
//
// Integers may be JSON numbers or strings (decimal, or 0x-prefixed hex).
// Byte arrays and Vec<u8> are 0x-prefixed hex strings; a Vec<u8> given as
// any other string takes its UTF-8 bytes, and a 32-byte array also accepts
// an SS58 address. Enums are {"Variant": payload}, or "Variant" for unit
// cases. Options are null or the payload, so Option<Option<T>> has no JSON
// form and is rejected.
func FromJSON(reg *registry.Registry, typeName string, raw []byte) (any, error) {
	id, err := reg.Lookup(typeName)
	if err != nil {
		return nil, errors.UnknownType(errors.PhaseEncode, typeName)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "parse json")
	}
	c := converter{reg: reg}
	return c.from(id, doc, nil)
}

type converter struct {
	reg *registry.Registry
}

func (c converter) mismatch(path []string, x any, id registry.TypeID, detail string, args ...any) error {
	b := errors.New(errors.PhaseEncode, errors.KindShapeMismatch).
		Path(append([]string(nil), path...)...).
		GoType(jsonKind(x)).
		TypeName(c.reg.Expr(id))
	if detail != "" {
		b.Detail(detail, args...)
	}
	return b.Build()
}

func jsonKind(x any) string {
	switch x.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return TypeName(x)
}

func sub(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

func (c converter) from(id registry.TypeID, x any, path []string) (any, error) {
	t := c.reg.Base(id)
	switch k := t.Kind; {
	case k == registry.KindBool:
		b, ok := x.(bool)
		if !ok {
			return nil, c.mismatch(path, x, id, "")
		}
		return b, nil

	case k.IsPrimitive():
		s, ok := numberText(x)
		if !ok {
			return nil, c.mismatch(path, x, id, "")
		}
		v, err := parseInt(s, k)
		if err != nil {
			return nil, c.mismatch(path, x, id, "%v", err)
		}
		return v, nil

	case k == registry.KindFixedBytes:
		s, ok := x.(string)
		if !ok {
			return nil, c.mismatch(path, x, id, "")
		}
		b, err := fixedBytes(s, t.Length)
		if err != nil {
			return nil, c.mismatch(path, x, id, "%v", err)
		}
		return b, nil

	case k == registry.KindCompact:
		return c.from(t.Elem, x, path)

	case k == registry.KindStruct:
		obj, ok := x.(map[string]any)
		if !ok {
			return nil, c.mismatch(path, x, id, "")
		}
		s := &Struct{Fields: make([]Field, len(t.Fields))}
		for i, f := range t.Fields {
			fx, ok := obj[f.Name]
			if !ok {
				return nil, c.mismatch(path, x, id, "missing field %q", f.Name)
			}
			fv, err := c.from(f.Type, fx, sub(path, f.Name))
			if err != nil {
				return nil, err
			}
			s.Fields[i] = Field{Name: f.Name, Value: fv}
		}
		if len(obj) != len(t.Fields) {
			return nil, c.mismatch(path, x, id, "expected %d fields, got %d", len(t.Fields), len(obj))
		}
		return s, nil

	case k == registry.KindEnum:
		return c.fromEnum(id, t, x, path)

	case k == registry.KindVector:
		if c.reg.IsByteVector(t) {
			if s, ok := x.(string); ok {
				return byteString(s)
			}
		}
		arr, ok := x.([]any)
		if !ok {
			return nil, c.mismatch(path, x, id, "")
		}
		if c.reg.IsByteVector(t) {
			out := make([]byte, len(arr))
			for i, e := range arr {
				v, err := c.from(t.Elem, e, sub(path, "["+strconv.Itoa(i)+"]"))
				if err != nil {
					return nil, err
				}
				out[i] = v.(uint8)
			}
			return out, nil
		}
		items := make([]any, len(arr))
		for i, e := range arr {
			v, err := c.from(t.Elem, e, sub(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil

	case k == registry.KindOption:
		if c.reg.Base(t.Elem).Kind == registry.KindOption {
			return nil, c.mismatch(path, x, id, "nested options have no JSON form")
		}
		if x == nil {
			return None(), nil
		}
		v, err := c.from(t.Elem, x, path)
		if err != nil {
			return nil, err
		}
		return Some(v), nil

	case k == registry.KindTuple:
		if x == nil && len(t.Items) == 0 {
			return []any{}, nil
		}
		arr, ok := x.([]any)
		if !ok || len(arr) != len(t.Items) {
			return nil, c.mismatch(path, x, id, "expected %d items", len(t.Items))
		}
		items := make([]any, len(arr))
		for i, e := range arr {
			v, err := c.from(t.Items[i], e, sub(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	}
	return nil, c.mismatch(path, x, id, "unsupported kind %s", t.Kind)
}

func (c converter) fromEnum(id registry.TypeID, t *registry.Type, x any, path []string) (any, error) {
	var name string
	var payload any
	switch v := x.(type) {
	case string:
		name = v
	case map[string]any:
		if len(v) != 1 {
			return nil, c.mismatch(path, x, id, "enum object must have exactly one key")
		}
		for k, p := range v {
			name, payload = k, p
		}
	default:
		return nil, c.mismatch(path, x, id, "")
	}

	idx, ok := t.VariantIndex(name)
	if !ok {
		return nil, c.mismatch(path, x, id, "unknown variant %q", name)
	}
	variant := t.Variants[idx]
	out := Variant{Index: idx, Name: name}
	if variant.Unit {
		if payload != nil {
			return nil, c.mismatch(sub(path, name), payload, id, "unit variant takes no payload")
		}
		return out, nil
	}
	if _, isName := x.(string); isName {
		return nil, c.mismatch(path, x, id, "variant %q needs a payload", name)
	}
	v, err := c.from(variant.Payload, payload, sub(path, name))
	if err != nil {
		return nil, err
	}
	out.Value = v
	return out, nil
}

func numberText(x any) (string, bool) {
	switch v := x.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	}
	return "", false
}

func parseInt(s string, k registry.Kind) (any, error) {
	bits := k.Bits()
	if bits > 64 {
		v, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, errors.InvalidInput(errors.PhaseEncode, "invalid integer "+strconv.Quote(s))
		}
		if k.IsUnsigned() && (v.Sign() < 0 || v.BitLen() > bits) {
			return nil, errors.Overflow(errors.PhaseEncode, nil, s, k.String())
		}
		if k.IsSigned() {
			limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
			if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
				return nil, errors.Overflow(errors.PhaseEncode, nil, s, k.String())
			}
		}
		return v, nil
	}

	if k.IsSigned() {
		v, err := strconv.ParseInt(s, 0, bits)
		if err != nil {
			return nil, err
		}
		switch k {
		case registry.KindI8:
			return int8(v), nil
		case registry.KindI16:
			return int16(v), nil
		case registry.KindI32:
			return int32(v), nil
		}
		return v, nil
	}

	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return nil, err
	}
	switch k {
	case registry.KindU8:
		return uint8(v), nil
	case registry.KindU16:
		return uint16(v), nil
	case registry.KindU32:
		return uint32(v), nil
	}
	return v, nil
}

func fixedBytes(s string, n int) ([]byte, error) {
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, err
		}
		if len(b) != n {
			return nil, errors.InvalidInput(errors.PhaseEncode, "expected "+strconv.Itoa(n)+" bytes, got "+strconv.Itoa(len(b)))
		}
		return b, nil
	}
	if n == 32 {
		key, _, err := ss58.Decode(s)
		if err != nil {
			return nil, err
		}
		return key, nil
	}
	return nil, errors.InvalidInput(errors.PhaseEncode, "expected 0x-prefixed hex")
}

func byteString(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "hex bytes")
		}
		return b, nil
	}
	return []byte(s), nil
}

// ToJSON renders a canonical value as JSON. Struct fields keep their
// order, bytes become 0x-prefixed hex, integers wider than 64 bits become
// decimal strings, enums become {"Variant": payload}.
func ToJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJSONIndent is ToJSON with indentation.
func ToJSONIndent(v any, indent string) ([]byte, error) {
	raw, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", indent); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "indent json")
	}
	return out.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(strconv.Quote(key))
	buf.WriteByte(':')
}

func writeJSON(buf *bytes.Buffer, v any, path []string) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(x, 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case *big.Int:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(strconv.Quote(x.String()))
	case []byte:
		buf.WriteString(`"0x`)
		buf.WriteString(hex.EncodeToString(x))
		buf.WriteByte('"')
	case []any:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e, sub(path, "["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Struct:
		buf.WriteByte('{')
		for i, f := range x.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(buf, f.Name)
			if err := writeJSON(buf, f.Value, sub(path, f.Name)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Variant:
		name := x.Name
		if name == "" {
			name = strconv.Itoa(x.Index)
		}
		buf.WriteByte('{')
		writeKey(buf, name)
		if err := writeJSON(buf, x.Value, sub(path, name)); err != nil {
			return err
		}
		buf.WriteByte('}')
	case Option:
		if !x.Some {
			buf.WriteString("null")
			return nil
		}
		if _, nested := x.Value.(Option); nested {
			return errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
				Path(append([]string(nil), path...)...).
				GoType(TypeName(v)).
				Detail("nested options have no JSON form").
				Build()
		}
		return writeJSON(buf, x.Value, path)
	default:
		return errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
			Path(append([]string(nil), path...)...).
			GoType(TypeName(v)).
			Detail("no JSON form").
			Build()
	}
	return nil
}
