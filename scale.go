package scalecodec

import (
	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/preset"
	"github.com/wippyai/scale-codec/registry"
)

// Registry is a finalized, immutable set of types.
type Registry = registry.Registry

// Encode returns the encoding of v as typeName.
func Encode(reg *Registry, typeName string, v any) ([]byte, error) {
	return codec.Encode(reg, typeName, v)
}

// Decode decodes one typeName value from the start of data and reports how
// many bytes it consumed.
func Decode(reg *Registry, typeName string, data []byte) (any, int, error) {
	return codec.Decode(reg, typeName, data)
}

// DecodeAll decodes typeName from data and fails if bytes remain.
func DecodeAll(reg *Registry, typeName string, data []byte) (any, error) {
	return codec.DecodeAll(reg, typeName, data)
}

// Chain returns the embedded registry of base runtime and UTXO chain types.
func Chain() (*Registry, error) {
	return preset.Chain()
}
