package codec

import "github.com/wippyai/scale-codec/registry"

// Encode returns the encoding of v as typeName using reg.
func Encode(reg *registry.Registry, typeName string, v any) ([]byte, error) {
	return NewEncoder(reg).Encode(typeName, v)
}

// Decode decodes one value of typeName from the start of data and returns
// it with the number of bytes consumed.
func Decode(reg *registry.Registry, typeName string, data []byte) (any, int, error) {
	return NewDecoder(reg).Decode(typeName, data)
}

// DecodeAll decodes typeName from data, requiring every byte be consumed.
func DecodeAll(reg *registry.Registry, typeName string, data []byte) (any, error) {
	return NewDecoder(reg).DecodeAll(typeName, data)
}
