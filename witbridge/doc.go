// Package witbridge describes registry types as WebAssembly Interface
// Types so component-model hosts can exchange chain values with guests.
//
// Structs map to records, payload-free enums to enums, other enums to
// variants, vectors and fixed byte arrays to lists, and options and tuples
// to their WIT counterparts. Aliases and compact wrappers are transparent.
package witbridge
