package chain

import (
	"math/big"
	"strconv"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/value"
)

// converter turns decoded values into the typed model, recording the path
// of the first mismatch.
type converter struct {
	err  error
	path []string
}

func (c *converter) fail(v any, typeName string) {
	if c.err == nil {
		c.err = errors.ShapeMismatch(errors.PhaseDecode, append([]string(nil), c.path...), value.TypeName(v), typeName)
	}
}

func (c *converter) enter(seg string) func() {
	c.path = append(c.path, seg)
	return func() { c.path = c.path[:len(c.path)-1] }
}

func (c *converter) field(s *value.Struct, name string) any {
	v, ok := s.Get(name)
	if !ok && c.err == nil {
		path := append(append([]string(nil), c.path...), name)
		c.err = errors.New(errors.PhaseDecode, errors.KindShapeMismatch).
			Path(path...).
			Detail("missing field %q", name).
			Build()
	}
	return v
}

func (c *converter) structOf(v any, typeName string) *value.Struct {
	s, ok := v.(*value.Struct)
	if !ok || s == nil {
		c.fail(v, typeName)
		return &value.Struct{}
	}
	return s
}

func (c *converter) bytes(v any, typeName string) []byte {
	b, ok := v.([]byte)
	if !ok {
		c.fail(v, typeName)
	}
	return b
}

func (c *converter) hash(v any) Hash {
	var h Hash
	b := c.bytes(v, "H256")
	if b != nil && len(b) != len(h) {
		c.fail(v, "H256")
	}
	copy(h[:], b)
	return h
}

func (c *converter) bigInt(v any, typeName string) *big.Int {
	x, ok := v.(*big.Int)
	if !ok || x == nil {
		c.fail(v, typeName)
		return new(big.Int)
	}
	return x
}

func (c *converter) list(v any, typeName string) []any {
	items, ok := v.([]any)
	if !ok {
		c.fail(v, typeName)
	}
	return items
}

func (c *converter) destination(v any) Destination {
	vr, ok := v.(value.Variant)
	if !ok {
		c.fail(v, TypeDestination)
		return nil
	}
	defer c.enter(vr.Name)()
	switch vr.Name {
	case "Pubkey":
		return Pubkey(c.hash(vr.Value))
	case "CreatePP":
		s := c.structOf(vr.Value, "DestinationCreatePP")
		return CreatePP{
			Code: c.bytes(c.field(s, "code"), "Vec<u8>"),
			Data: c.bytes(c.field(s, "data"), "Vec<u8>"),
		}
	case "CallPP":
		s := c.structOf(vr.Value, "DestinationCallPP")
		return CallPP{
			DestAccount: c.hash(c.field(s, "dest_account")),
			InputData:   c.bytes(c.field(s, "input_data"), "Vec<u8>"),
		}
	}
	c.fail(v, TypeDestination)
	return nil
}

func (c *converter) input(v any) Input {
	s := c.structOf(v, TypeTransactionInput)
	return Input{
		Outpoint: c.hash(c.field(s, "outpoint")),
		Lock:     c.bytes(c.field(s, "lock"), "Vec<u8>"),
		Witness:  c.bytes(c.field(s, "witness"), "Vec<u8>"),
	}
}

func (c *converter) output(v any) Output {
	s := c.structOf(v, TypeTransactionOutput)
	header, ok := c.field(s, "header").(uint16)
	if !ok {
		c.fail(c.field(s, "header"), "TXOutputHeader")
	}
	out := Output{
		Value:  c.bigInt(c.field(s, "value"), "Value"),
		Header: Header(header),
	}
	defer c.enter("destination")()
	out.Destination = c.destination(c.field(s, "destination"))
	return out
}

func (c *converter) transaction(v any) *Transaction {
	s := c.structOf(v, TypeTransaction)
	tx := &Transaction{}
	for i, in := range c.list(c.field(s, "inputs"), "Vec<TransactionInput>") {
		done := c.enter("inputs[" + strconv.Itoa(i) + "]")
		tx.Inputs = append(tx.Inputs, c.input(in))
		done()
	}
	for i, out := range c.list(c.field(s, "outputs"), "Vec<TransactionOutput>") {
		done := c.enter("outputs[" + strconv.Itoa(i) + "]")
		tx.Outputs = append(tx.Outputs, c.output(out))
		done()
	}
	return tx
}

func (c *converter) token(v any) TokenInstance {
	s := c.structOf(v, TypeTokenInstance)
	id, ok := c.field(s, "id").(uint64)
	if !ok {
		c.fail(c.field(s, "id"), "u64")
	}
	return TokenInstance{
		ID:     id,
		Name:   string(c.bytes(c.field(s, "name"), "String")),
		Ticker: string(c.bytes(c.field(s, "ticker"), "String")),
		Supply: c.bigInt(c.field(s, "supply"), "u128"),
	}
}

// TransactionFromValue converts a decoded Transaction value.
func TransactionFromValue(v any) (*Transaction, error) {
	var c converter
	tx := c.transaction(v)
	if c.err != nil {
		return nil, c.err
	}
	return tx, nil
}

// OutputFromValue converts a decoded TransactionOutput value.
func OutputFromValue(v any) (Output, error) {
	var c converter
	out := c.output(v)
	if c.err != nil {
		return Output{}, c.err
	}
	return out, nil
}

// TokenListFromValue converts a decoded TokenListData value.
func TokenListFromValue(v any) (TokenList, error) {
	var c converter
	items := c.list(v, TypeTokenListData)
	list := make(TokenList, 0, len(items))
	for i, item := range items {
		done := c.enter("[" + strconv.Itoa(i) + "]")
		list = append(list, c.token(item))
		done()
	}
	if c.err != nil {
		return nil, c.err
	}
	return list, nil
}

// DifficultyFromValue converts a decoded DifficultyAndTimestamp value.
func DifficultyFromValue(v any) (DifficultyAndTimestamp, error) {
	var c converter
	s := c.structOf(v, TypeDifficultyAndTimestamp)
	ts, ok := c.field(s, "timestamp").(uint64)
	if !ok {
		c.fail(c.field(s, "timestamp"), "Moment")
	}
	d := DifficultyAndTimestamp{
		Difficulty: c.bigInt(c.field(s, "difficulty"), "Difficulty"),
		Timestamp:  ts,
	}
	if c.err != nil {
		return DifficultyAndTimestamp{}, c.err
	}
	return d, nil
}
