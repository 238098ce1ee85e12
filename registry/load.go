package registry

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/scale-codec/errors"
)

const (
	versionKey = "_version"
	enumKey    = "_enum"
)

// Document summarizes what a Load call registered.
type Document struct {
	Version *semver.Version
	Names   []string
}

// LoadOption customizes how a document is interpreted.
type LoadOption func(*loadOptions)

type loadOptions struct {
	compact map[string]bool
}

// WithCompact marks the named alias entries as compact encodings of their
// target. Names absent from the document are ignored.
func WithCompact(names ...string) LoadOption {
	return func(o *loadOptions) {
		for _, n := range names {
			o.compact[n] = true
		}
	}
}

// Load parses a registry document and registers each entry with b in
// document order. The document is a JSON or YAML object mapping names to
// definitions:
//
//	"Name": "u64"                                  alias or inline expression
//	"Name": {"field": "Type", ...}                 struct
//	"Name": {"_enum": {"A": "Type", "B": null}}    enum with payloads
//	"Name": {"_enum": ["A", "B"]}                  enum of unit variants
//
// A top-level "_version" key records a semantic version for the document.
// Load is all or nothing: on error b is left as it was.
func Load(b *Builder, data []byte, opts ...LoadOption) (*Document, error) {
	o := loadOptions{compact: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	// JSON permits tab indentation, YAML does not.
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		data = bytes.ReplaceAll(data, []byte("\t"), []byte(" "))
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidDefinition, err, "parse document")
	}
	if root.Kind == 0 {
		return &Document{}, nil
	}
	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return nil, loadError("", top, "document must be an object")
	}

	doc := &Document{}
	scratch := b.clone()
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		name := key.Value

		if name == versionKey {
			v, err := semver.NewVersion(val.Value)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidDefinition, err,
					fmt.Sprintf("invalid %s %q", versionKey, val.Value))
			}
			doc.Version = v
			scratch.SetVersion(v.String())
			continue
		}

		d, err := nodeDescriptor(name, val, o.compact[name])
		if err != nil {
			return nil, err
		}
		if err := scratch.Register(name, d); err != nil {
			return nil, err
		}
		doc.Names = append(doc.Names, name)
	}
	*b = *scratch

	Logger().Sugar().Debugf("loaded %d registry entries", len(doc.Names))
	return doc, nil
}

// LoadFile reads and loads a registry document from path.
func LoadFile(b *Builder, path string, opts ...LoadOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read "+path)
	}
	return Load(b, data, opts...)
}

func nodeDescriptor(name string, n *yaml.Node, compact bool) (Descriptor, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) {
			return Tuple(), nil
		}
		if compact {
			return Compact(n.Value), nil
		}
		return Alias(n.Value), nil

	case yaml.MappingNode:
		if len(n.Content) == 2 && n.Content[0].Value == enumKey {
			return enumDescriptor(name, n.Content[1])
		}
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Value != "" && k.Value[0] == '_' {
				return Descriptor{}, loadError(name, k, "unsupported directive "+k.Value)
			}
			if v.Kind != yaml.ScalarNode {
				return Descriptor{}, loadError(name, v, "field "+k.Value+" must name a type")
			}
			fields = append(fields, Field{Name: k.Value, Type: v.Value})
		}
		return Struct(fields...), nil
	}
	return Descriptor{}, loadError(name, n, "unsupported definition")
}

func enumDescriptor(name string, n *yaml.Node) (Descriptor, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		variants := make([]Variant, len(n.Content))
		for i, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return Descriptor{}, loadError(name, c, "variant names must be strings")
			}
			variants[i] = Variant{Name: c.Value}
		}
		return Enum(variants...), nil

	case yaml.MappingNode:
		variants := make([]Variant, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return Descriptor{}, loadError(name, v, "variant "+k.Value+" must name a type")
			}
			ty := v.Value
			if isNull(v) {
				ty = ""
			}
			variants = append(variants, Variant{Name: k.Value, Type: ty})
		}
		return Enum(variants...), nil
	}
	return Descriptor{}, loadError(name, n, enumKey+" must be an object or a list")
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func loadError(name string, n *yaml.Node, detail string) error {
	return errors.InvalidDefinition(errors.PhaseLoad, name, fmt.Sprintf("line %d: %s", n.Line, detail))
}
