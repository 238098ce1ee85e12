package registry

// Kind is the structural category of a descriptor.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindFixedBytes
	KindStruct
	KindEnum
	KindVector
	KindAlias
	KindCompact
	KindOption
	KindTuple
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindU8:         "u8",
	KindU16:        "u16",
	KindU32:        "u32",
	KindU64:        "u64",
	KindU128:       "u128",
	KindU256:       "u256",
	KindI8:         "i8",
	KindI16:        "i16",
	KindI32:        "i32",
	KindI64:        "i64",
	KindI128:       "i128",
	KindFixedBytes: "fixed_bytes",
	KindStruct:     "struct",
	KindEnum:       "enum",
	KindVector:     "vector",
	KindAlias:      "alias",
	KindCompact:    "compact",
	KindOption:     "option",
	KindTuple:      "tuple",
}

var kindWidths = [...]int{
	KindBool: 1,
	KindU8:   1,
	KindU16:  2,
	KindU32:  4,
	KindU64:  8,
	KindU128: 16,
	KindU256: 32,
	KindI8:   1,
	KindI16:  2,
	KindI32:  4,
	KindI64:  8,
	KindI128: 16,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is bool or a fixed-width integer.
func (k Kind) IsPrimitive() bool {
	return k <= KindI128
}

// IsUnsigned reports whether k is an unsigned integer.
func (k Kind) IsUnsigned() bool {
	return k >= KindU8 && k <= KindU256
}

// IsSigned reports whether k is a signed integer.
func (k Kind) IsSigned() bool {
	return k >= KindI8 && k <= KindI128
}

// IsTerminal reports whether k carries no type references.
func (k Kind) IsTerminal() bool {
	return k.IsPrimitive() || k == KindFixedBytes
}

// Width returns the encoded size in bytes of a primitive kind, or 0.
func (k Kind) Width() int {
	if k.IsPrimitive() {
		return kindWidths[k]
	}
	return 0
}

// Bits returns the integer width in bits of a primitive kind, or 0.
func (k Kind) Bits() int {
	return k.Width() * 8
}

// primitiveKinds maps builtin type keywords to their kinds.
var primitiveKinds = map[string]Kind{
	"bool": KindBool,
	"u8":   KindU8,
	"u16":  KindU16,
	"u32":  KindU32,
	"u64":  KindU64,
	"u128": KindU128,
	"u256": KindU256,
	"i8":   KindI8,
	"i16":  KindI16,
	"i32":  KindI32,
	"i64":  KindI64,
	"i128": KindI128,
}

// PrimitiveKind returns the kind for a builtin keyword such as "u64".
func PrimitiveKind(name string) (Kind, bool) {
	k, ok := primitiveKinds[name]
	return k, ok
}
