// Package chain provides a typed model of the UTXO chain's transactions,
// outputs and token records on top of the registry-driven codec, along
// with the digests the runtime derives from their encodings.
package chain
