package witbridge

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

// Render prints defs as WIT declarations suitable for an interface body.
func Render(defs []*wit.TypeDef) string {
	var b strings.Builder
	for i, td := range defs {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderDef(&b, td)
	}
	return b.String()
}

func renderDef(b *strings.Builder, td *wit.TypeDef) {
	name := ""
	if td.Name != nil {
		name = ident(*td.Name)
	}
	switch k := td.Kind.(type) {
	case *wit.Record:
		b.WriteString("record " + name + " {\n")
		for _, f := range k.Fields {
			b.WriteString("    " + ident(f.Name) + ": " + ref(f.Type) + ",\n")
		}
		b.WriteString("}\n")
	case *wit.Variant:
		b.WriteString("variant " + name + " {\n")
		for _, c := range k.Cases {
			b.WriteString("    " + ident(c.Name))
			if c.Type != nil {
				b.WriteString("(" + ref(c.Type) + ")")
			}
			b.WriteString(",\n")
		}
		b.WriteString("}\n")
	case *wit.Enum:
		b.WriteString("enum " + name + " {\n")
		for _, c := range k.Cases {
			b.WriteString("    " + ident(c.Name) + ",\n")
		}
		b.WriteString("}\n")
	default:
		b.WriteString("type " + name + " = " + body(td.Kind) + ";\n")
	}
}

// ref spells a type at a use site: named definitions by name, everything
// else structurally.
func ref(t wit.Type) string {
	if td, ok := t.(*wit.TypeDef); ok {
		if td.Name != nil {
			return ident(*td.Name)
		}
		return body(td.Kind)
	}
	return body(t)
}

func body(k wit.TypeDefKind) string {
	switch k := k.(type) {
	case *wit.TypeDef:
		return ref(k)
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.S8:
		return "s8"
	case wit.S16:
		return "s16"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case *wit.List:
		return "list<" + ref(k.Type) + ">"
	case *wit.Option:
		return "option<" + ref(k.Type) + ">"
	case *wit.Tuple:
		parts := make([]string, len(k.Types))
		for i, t := range k.Types {
			parts[i] = ref(t)
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	}
	return "_"
}

var keywords = map[string]bool{
	"as": true, "async": true, "bool": true, "borrow": true, "char": true,
	"constructor": true, "enum": true, "export": true, "f32": true, "f64": true,
	"flags": true, "func": true, "future": true, "import": true, "include": true,
	"interface": true, "list": true, "option": true, "own": true, "package": true,
	"record": true, "resource": true, "result": true, "s8": true, "s16": true,
	"s32": true, "s64": true, "static": true, "stream": true, "string": true,
	"tuple": true, "type": true, "u8": true, "u16": true, "u32": true,
	"u64": true, "use": true, "variant": true, "with": true, "world": true,
}

// ident escapes WIT keywords with a leading %.
func ident(name string) string {
	if keywords[name] {
		return "%" + name
	}
	return name
}
