package chain

import (
	"encoding/hex"
	"math/big"

	"github.com/wippyai/scale-codec/value"
)

// Registry type names of the chain model.
const (
	TypeTransaction            = "Transaction"
	TypeTransactionInput       = "TransactionInput"
	TypeTransactionOutput      = "TransactionOutput"
	TypeDestination            = "Destination"
	TypeTokenInstance          = "TokenInstance"
	TypeTokenListData          = "TokenListData"
	TypeDifficultyAndTimestamp = "DifficultyAndTimestamp"
)

// Hash is a 32-byte H256 value.
type Hash [32]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Model is a typed chain value that knows its registry type.
type Model interface {
	TypeName() string
	ToValue() any
}

// Destination is where an output's value goes.
type Destination interface {
	Model
	isDestination()
}

// Pubkey pays to a public key.
type Pubkey Hash

// CreatePP deploys a programmable pool from contract code.
type CreatePP struct {
	Code []byte
	Data []byte
}

// CallPP invokes an existing programmable pool.
type CallPP struct {
	InputData   []byte
	DestAccount Hash
}

func (Pubkey) isDestination()   {}
func (CreatePP) isDestination() {}
func (CallPP) isDestination()   {}

func (Pubkey) TypeName() string   { return TypeDestination }
func (CreatePP) TypeName() string { return TypeDestination }
func (CallPP) TypeName() string   { return TypeDestination }

func (p Pubkey) ToValue() any {
	return value.Variant{Index: 0, Name: "Pubkey", Value: bytesOf(Hash(p))}
}

func (c CreatePP) ToValue() any {
	return value.Variant{Index: 1, Name: "CreatePP", Value: value.NewStruct(
		value.Field{Name: "code", Value: nonNil(c.Code)},
		value.Field{Name: "data", Value: nonNil(c.Data)},
	)}
}

func (c CallPP) ToValue() any {
	return value.Variant{Index: 2, Name: "CallPP", Value: value.NewStruct(
		value.Field{Name: "dest_account", Value: bytesOf(c.DestAccount)},
		value.Field{Name: "input_data", Value: nonNil(c.InputData)},
	)}
}

// Input spends a previous output identified by its outpoint.
type Input struct {
	Lock     []byte
	Witness  []byte
	Outpoint Hash
}

func (Input) TypeName() string { return TypeTransactionInput }

func (in Input) ToValue() any {
	return value.NewStruct(
		value.Field{Name: "outpoint", Value: bytesOf(in.Outpoint)},
		value.Field{Name: "lock", Value: nonNil(in.Lock)},
		value.Field{Name: "witness", Value: nonNil(in.Witness)},
	)
}

// Output assigns an amount to a destination.
type Output struct {
	Value       *big.Int
	Destination Destination
	Header      Header
}

func (Output) TypeName() string { return TypeTransactionOutput }

func (o Output) ToValue() any {
	amount := o.Value
	if amount == nil {
		amount = new(big.Int)
	}
	var dest any
	if o.Destination != nil {
		dest = o.Destination.ToValue()
	}
	return value.NewStruct(
		value.Field{Name: "value", Value: amount},
		value.Field{Name: "header", Value: uint16(o.Header)},
		value.Field{Name: "destination", Value: dest},
	)
}

// Transaction moves value from inputs to outputs.
type Transaction struct {
	Inputs  []Input
	Outputs []Output
}

func (*Transaction) TypeName() string { return TypeTransaction }

func (tx *Transaction) ToValue() any {
	inputs := make([]any, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in.ToValue()
	}
	outputs := make([]any, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = out.ToValue()
	}
	return value.NewStruct(
		value.Field{Name: "inputs", Value: inputs},
		value.Field{Name: "outputs", Value: outputs},
	)
}

// Unsigned returns a copy of tx with every witness cleared.
func (tx *Transaction) Unsigned() *Transaction {
	out := &Transaction{
		Inputs:  make([]Input, len(tx.Inputs)),
		Outputs: tx.Outputs,
	}
	for i, in := range tx.Inputs {
		in.Witness = nil
		out.Inputs[i] = in
	}
	return out
}

// TokenInstance describes an issued token.
type TokenInstance struct {
	Supply *big.Int
	Name   string
	Ticker string
	ID     uint64
}

func (TokenInstance) TypeName() string { return TypeTokenInstance }

func (t TokenInstance) ToValue() any {
	supply := t.Supply
	if supply == nil {
		supply = new(big.Int)
	}
	return value.NewStruct(
		value.Field{Name: "id", Value: t.ID},
		value.Field{Name: "name", Value: []byte(t.Name)},
		value.Field{Name: "ticker", Value: []byte(t.Ticker)},
		value.Field{Name: "supply", Value: supply},
	)
}

// TokenList is the TokenListData sequence.
type TokenList []TokenInstance

func (TokenList) TypeName() string { return TypeTokenListData }

func (l TokenList) ToValue() any {
	items := make([]any, len(l))
	for i, t := range l {
		items[i] = t.ToValue()
	}
	return items
}

// DifficultyAndTimestamp pairs a mining difficulty with a block moment.
type DifficultyAndTimestamp struct {
	Difficulty *big.Int
	Timestamp  uint64
}

func (DifficultyAndTimestamp) TypeName() string { return TypeDifficultyAndTimestamp }

func (d DifficultyAndTimestamp) ToValue() any {
	difficulty := d.Difficulty
	if difficulty == nil {
		difficulty = new(big.Int)
	}
	return value.NewStruct(
		value.Field{Name: "difficulty", Value: difficulty},
		value.Field{Name: "timestamp", Value: d.Timestamp},
	)
}

func bytesOf(h Hash) []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
