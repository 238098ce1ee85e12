package registry

import (
	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/wippyai/scale-codec/errors"
)

// snapshotFormat is bumped whenever the persisted layout changes.
const snapshotFormat = 1

type snapshot struct {
	Format  uint32        `cramberry:"1"`
	Version string        `cramberry:"2"`
	Defs    []snapshotDef `cramberry:"3"`
}

type snapshotDef struct {
	Name     string         `cramberry:"1"`
	Kind     uint32         `cramberry:"2"`
	Length   uint32         `cramberry:"3"`
	Fields   []snapshotPair `cramberry:"4"`
	Variants []snapshotPair `cramberry:"5"`
	Elem     string         `cramberry:"6"`
	Items    []snapshotPair `cramberry:"7"`
}

type snapshotPair struct {
	Name string `cramberry:"1"`
	Type string `cramberry:"2"`
}

// Snapshot serializes the registered descriptors in registration order.
// The output is deterministic for a given registry.
func (r *Registry) Snapshot() ([]byte, error) {
	s := snapshot{
		Format:  snapshotFormat,
		Version: r.version,
		Defs:    make([]snapshotDef, len(r.names)),
	}
	for i, name := range r.names {
		d := r.descs[name]
		def := snapshotDef{
			Name:   name,
			Kind:   uint32(d.Kind),
			Length: uint32(d.Length),
			Elem:   d.Elem,
		}
		for _, f := range d.Fields {
			def.Fields = append(def.Fields, snapshotPair{Name: f.Name, Type: f.Type})
		}
		for _, v := range d.Variants {
			def.Variants = append(def.Variants, snapshotPair{Name: v.Name, Type: v.Type})
		}
		for _, it := range d.Items {
			def.Items = append(def.Items, snapshotPair{Type: it})
		}
		s.Defs[i] = def
	}

	data, err := cramberry.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "marshal snapshot")
	}
	return data, nil
}

// FromSnapshot rebuilds a registry from Snapshot output. Every descriptor
// is registered and finalized again, so a tampered snapshot fails the
// same checks as a document.
func FromSnapshot(data []byte) (*Registry, error) {
	var s snapshot
	if err := cramberry.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "unmarshal snapshot")
	}
	if s.Format != snapshotFormat {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Value(s.Format).
			Detail("unsupported snapshot format %d", s.Format).
			Build()
	}

	b := NewBuilder()
	b.SetVersion(s.Version)
	for _, def := range s.Defs {
		d := Descriptor{
			Kind:   Kind(def.Kind),
			Length: int(def.Length),
			Elem:   def.Elem,
		}
		for _, f := range def.Fields {
			d.Fields = append(d.Fields, Field{Name: f.Name, Type: f.Type})
		}
		for _, v := range def.Variants {
			d.Variants = append(d.Variants, Variant{Name: v.Name, Type: v.Type})
		}
		for _, it := range def.Items {
			d.Items = append(d.Items, it.Type)
		}
		if err := b.Register(def.Name, d); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}
