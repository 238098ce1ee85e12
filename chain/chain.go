package chain

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/preset"
	"github.com/wippyai/scale-codec/registry"
)

// Codec encodes and decodes the typed chain model through a registry.
type Codec struct {
	enc *codec.Encoder
	dec *codec.Decoder
}

// NewCodec binds a codec to reg, which must define the chain types.
func NewCodec(reg *registry.Registry, opts ...codec.Option) *Codec {
	return &Codec{
		enc: codec.NewEncoder(reg, opts...),
		dec: codec.NewDecoder(reg, opts...),
	}
}

// Default returns a codec over the embedded chain registry.
func Default() (*Codec, error) {
	reg, err := preset.Chain()
	if err != nil {
		return nil, err
	}
	return NewCodec(reg), nil
}

// Registry returns the registry the codec was built with.
func (c *Codec) Registry() *registry.Registry {
	return c.enc.Registry()
}

// Encode returns the encoding of m under its registry type.
func (c *Codec) Encode(m Model) ([]byte, error) {
	return c.enc.Encode(m.TypeName(), m.ToValue())
}

// DecodeTransaction decodes a complete Transaction encoding.
func (c *Codec) DecodeTransaction(data []byte) (*Transaction, error) {
	v, err := c.dec.DecodeAll(TypeTransaction, data)
	if err != nil {
		return nil, err
	}
	return TransactionFromValue(v)
}

// DecodeOutput decodes a complete TransactionOutput encoding.
func (c *Codec) DecodeOutput(data []byte) (Output, error) {
	v, err := c.dec.DecodeAll(TypeTransactionOutput, data)
	if err != nil {
		return Output{}, err
	}
	return OutputFromValue(v)
}

// DecodeTokenList decodes a complete TokenListData encoding.
func (c *Codec) DecodeTokenList(data []byte) (TokenList, error) {
	v, err := c.dec.DecodeAll(TypeTokenListData, data)
	if err != nil {
		return nil, err
	}
	return TokenListFromValue(v)
}

// DecodeDifficulty decodes a complete DifficultyAndTimestamp encoding.
func (c *Codec) DecodeDifficulty(data []byte) (DifficultyAndTimestamp, error) {
	v, err := c.dec.DecodeAll(TypeDifficultyAndTimestamp, data)
	if err != nil {
		return DifficultyAndTimestamp{}, err
	}
	return DifficultyFromValue(v)
}

// Hash returns the blake2b-256 digest of m's encoding.
func (c *Codec) Hash(m Model) (Hash, error) {
	enc, err := c.Encode(m)
	if err != nil {
		return Hash{}, err
	}
	return blake2b.Sum256(enc), nil
}

// Outpoint derives the key of output index of tx: the digest of the
// transaction encoding as a byte vector followed by the index as u64.
func (c *Codec) Outpoint(tx *Transaction, index uint64) (Hash, error) {
	enc, err := c.Encode(tx)
	if err != nil {
		return Hash{}, err
	}
	buf := make([]byte, 0, codec.CompactLen(uint64(len(enc)))+len(enc)+8)
	buf = codec.AppendCompactUint(buf, uint64(len(enc)))
	buf = append(buf, enc...)
	buf = binary.LittleEndian.AppendUint64(buf, index)
	return blake2b.Sum256(buf), nil
}

// SigningPayload returns the bytes signed by each input: the encoding of
// tx with every witness emptied.
func (c *Codec) SigningPayload(tx *Transaction) ([]byte, error) {
	return c.Encode(tx.Unsigned())
}

// HashOf returns the blake2b-256 digest of v encoded as typeName.
func HashOf(reg *registry.Registry, typeName string, v any) (Hash, error) {
	enc, err := codec.Encode(reg, typeName, v)
	if err != nil {
		return Hash{}, err
	}
	return blake2b.Sum256(enc), nil
}
