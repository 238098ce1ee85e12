// Package preset embeds the registry documents for the UTXO chain: the
// base runtime types it builds on and the chain's own transaction,
// destination and token types.
package preset

import (
	_ "embed"
	"sort"
	"sync"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

// Preset names accepted by Document and Load.
const (
	Substrate = "substrate"
	UTXO      = "utxo"
)

// CompactNames lists the chain types encoded in compact form.
var CompactNames = []string{"Value"}

var (
	//go:embed substrate.json
	substrateDoc []byte

	//go:embed utxo.json
	utxoDoc []byte
)

var documents = map[string][]byte{
	Substrate: substrateDoc,
	UTXO:      utxoDoc,
}

// Names returns the available preset names in sorted order.
func Names() []string {
	out := make([]string, 0, len(documents))
	for name := range documents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Document returns the raw registry document for a preset.
func Document(name string) ([]byte, bool) {
	doc, ok := documents[name]
	return doc, ok
}

// Load registers the named presets into b in the given order. With no
// names, both presets are loaded, base types first.
func Load(b *registry.Builder, names []string, opts ...registry.LoadOption) error {
	if len(names) == 0 {
		names = []string{Substrate, UTXO}
	}
	for _, name := range names {
		doc, ok := documents[name]
		if !ok {
			return errors.InvalidInput(errors.PhaseLoad, "unknown preset "+name)
		}
		if _, err := registry.Load(b, doc, opts...); err != nil {
			return err
		}
	}
	return nil
}

var chain = sync.OnceValues(func() (*registry.Registry, error) {
	b := registry.NewBuilder()
	if err := Load(b, nil, registry.WithCompact(CompactNames...)); err != nil {
		return nil, err
	}
	return b.Finalize()
})

// Chain returns the finalized registry of base and chain types, with
// Value designated compact. The registry is built once and shared.
func Chain() (*registry.Registry, error) {
	return chain()
}

// MustChain is like Chain but panics if the embedded documents are invalid.
func MustChain() *registry.Registry {
	r, err := Chain()
	if err != nil {
		panic(err)
	}
	return r
}
