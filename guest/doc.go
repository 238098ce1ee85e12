// Package guest exchanges SCALE-encoded chain values with WebAssembly
// guests running under wazero and inspects programmable pool contract
// code carried by CreatePP outputs.
//
// Values are written to and read from a guest's linear memory through a
// registry-bound codec. Instances that export cabi_realloc (or a simple
// alloc) can receive values placed by the host with Put.
package guest
