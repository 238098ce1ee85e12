package guest

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

// Memory moves encoded values in and out of a guest's linear memory.
type Memory struct {
	mem api.Memory
	enc *codec.Encoder
	dec *codec.Decoder
}

// NewMemory binds mem to the codec for reg.
func NewMemory(mem api.Memory, reg *registry.Registry, opts ...codec.Option) *Memory {
	return &Memory{
		mem: mem,
		enc: codec.NewEncoder(reg, opts...),
		dec: codec.NewDecoder(reg, opts...),
	}
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// Write encodes v as typeName at offset and returns the encoded length.
// Nothing is written if encoding fails or the value does not fit.
func (m *Memory) Write(offset uint32, typeName string, v any) (uint32, error) {
	data, err := m.enc.Encode(typeName, v)
	if err != nil {
		return 0, err
	}
	if err := m.WriteBytes(offset, data); err != nil {
		return 0, err
	}
	return uint32(len(data)), nil
}

// Read decodes typeName from the length bytes at offset. The range must
// hold exactly one value.
func (m *Memory) Read(offset, length uint32, typeName string) (any, error) {
	data, err := m.ReadBytes(offset, length)
	if err != nil {
		return nil, err
	}
	return m.dec.DecodeAll(typeName, data)
}

// ReadBytes returns a copy of length bytes at offset.
func (m *Memory) ReadBytes(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGuest, nil, offset, length, m.mem.Size())
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteBytes copies data to offset.
func (m *Memory) WriteBytes(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseGuest, nil, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}
