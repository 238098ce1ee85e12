// Package scalecodec encodes and decodes the SCALE wire format used by a
// UTXO chain runtime, driven by a registry of named type descriptors.
//
// Types are declared in JSON or YAML documents, registered with a
// builder and finalized into an immutable registry. The codec then walks
// the registry to translate between bytes and in-memory values.
//
// # Architecture Overview
//
//	scalecodec/          Root package re-exporting the dispatch API
//	├── registry/        Type descriptors, document loading, finalization, snapshots
//	├── codec/           Primitive, compact and compound encoding and decoding
//	├── value/           In-memory value model and JSON conversion
//	├── preset/          Embedded base runtime and chain type documents
//	├── chain/           Typed transaction model, output headers, outpoints
//	├── ss58/            SS58 address encoding for account keys
//	├── witbridge/       Registry types as WebAssembly Interface Types
//	├── guest/           Value exchange with wazero guests, contract inspection
//	├── config/          TOML host configuration
//	└── errors/          Structured error types
//
// # Quick Start
//
// Encode a transaction output with the embedded chain types:
//
//	reg, err := scalecodec.Chain()
//	if err != nil {
//	    return err
//	}
//	out := value.NewStruct(
//	    value.Field{Name: "value", Value: big.NewInt(5)},
//	    value.Field{Name: "header", Value: uint16(0)},
//	    value.Field{Name: "destination", Value: value.NewVariant("Pubkey", make([]byte, 32))},
//	)
//	data, err := scalecodec.Encode(reg, "TransactionOutput", out)
//
// Decode it back, requiring every byte to be consumed:
//
//	v, err := scalecodec.DecodeAll(reg, "TransactionOutput", data)
//
// # Custom Types
//
// Register descriptors directly or load a document:
//
//	b := registry.NewBuilder()
//	_, err := registry.Load(b, []byte(`{
//	    "Point": {"x": "i32", "y": "i32"},
//	    "Shape": {"_enum": {"Dot": "Point", "Empty": null}}
//	}`))
//	reg, err := b.Finalize()
//
// # Values
//
// Integers up to 64 bits use the matching Go types, wider ones *big.Int.
// Byte arrays and Vec<u8> are []byte, other sequences and tuples []any.
// Structs are *value.Struct with fields in declaration order, enums
// value.Variant and options value.Option. Encoding never coerces: a value
// of the wrong Go type fails with a shape mismatch naming its path.
//
// # Errors
//
// All failures are *errors.Error values carrying a phase and a kind:
//
//	if errors.IsKind(err, errors.KindTruncatedInput) {
//	    // wait for more bytes
//	}
package scalecodec
