package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// maxFixedBytes bounds [u8; N] lengths accepted by the parser.
const maxFixedBytes = 1 << 20

// inline is a parsed type expression. A nil desc means a plain name.
type inline struct {
	desc  *Descriptor
	canon string
}

// Canonical returns the canonical spelling of a type expression, with
// whitespace and "T::" qualifiers removed and Box<T> unwrapped.
func Canonical(expr string) (string, error) {
	in, err := parseExpr(expr)
	if err != nil {
		return "", err
	}
	return in.canon, nil
}

// IsUnitExpr reports whether expr denotes an empty payload.
func IsUnitExpr(expr string) bool {
	switch strings.TrimSpace(expr) {
	case "", "Null", "()":
		return true
	}
	return false
}

func parseExpr(expr string) (inline, error) {
	p := &exprParser{src: expr}
	in, err := p.parse()
	if err != nil {
		return inline{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return inline{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return in, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("expression %q: %s", p.src, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *exprParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *exprParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		if c == ':' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ':' && p.pos > start {
			p.pos += 2
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parse() (inline, error) {
	switch p.peek() {
	case 0:
		return inline{}, p.errorf("empty type")
	case '(':
		return p.parseTuple()
	case '[':
		return p.parseArray()
	}

	name := p.ident()
	if name == "" {
		return inline{}, p.errorf("expected type name at offset %d", p.pos)
	}
	name = unqualify(name)
	if name == "Null" {
		d := Tuple()
		return inline{desc: &d, canon: "()"}, nil
	}

	if p.peek() != '<' {
		return inline{canon: name}, nil
	}
	p.pos++
	arg, err := p.parse()
	if err != nil {
		return inline{}, err
	}
	if err := p.expect('>'); err != nil {
		return inline{}, err
	}

	var d Descriptor
	switch name {
	case "Box":
		return arg, nil
	case "Vec":
		d = Vector(arg.canon)
	case "Compact":
		d = Compact(arg.canon)
	case "Option":
		d = Option(arg.canon)
	default:
		return inline{}, p.errorf("unsupported generic %s", name)
	}
	return inline{desc: &d, canon: name + "<" + arg.canon + ">"}, nil
}

func (p *exprParser) parseTuple() (inline, error) {
	p.pos++
	var items []string
	if p.peek() == ')' {
		p.pos++
		d := Tuple()
		return inline{desc: &d, canon: "()"}, nil
	}
	for {
		item, err := p.parse()
		if err != nil {
			return inline{}, err
		}
		items = append(items, item.canon)
		switch p.peek() {
		case ',':
			p.pos++
			if p.peek() == ')' {
				p.pos++
				return tupleInline(items), nil
			}
		case ')':
			p.pos++
			return tupleInline(items), nil
		default:
			return inline{}, p.errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}

func tupleInline(items []string) inline {
	// A one-element tuple is written (T,) by the chain's tooling but
	// encodes identically to T.
	if len(items) == 1 {
		d := Alias(items[0])
		return inline{desc: &d, canon: "(" + items[0] + ",)"}
	}
	d := Tuple(items...)
	return inline{desc: &d, canon: "(" + strings.Join(items, ", ") + ")"}
}

func (p *exprParser) parseArray() (inline, error) {
	p.pos++
	elem, err := p.parse()
	if err != nil {
		return inline{}, err
	}
	if elem.canon != "u8" {
		return inline{}, p.errorf("fixed arrays support only u8 elements, got %s", elem.canon)
	}
	if err := p.expect(';'); err != nil {
		return inline{}, err
	}
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil || n <= 0 || n > maxFixedBytes {
		return inline{}, p.errorf("invalid array length %q", p.src[start:p.pos])
	}
	if err := p.expect(']'); err != nil {
		return inline{}, err
	}
	d := FixedBytes(n)
	return inline{desc: &d, canon: "[u8; " + strconv.Itoa(n) + "]"}, nil
}

// unqualify strips path qualifiers such as T:: and keeps the last segment.
func unqualify(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// validName reports whether name is usable as a registered type name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

var reservedNames = map[string]bool{
	"Vec": true, "Compact": true, "Option": true, "Box": true, "Null": true,
}
