// Package codec encodes and decodes values described by a registry using
// the SCALE binary format.
//
// Fixed-width integers are little-endian. Compact integers use a two-bit
// mode in the first byte: a single byte below 2^6, two bytes below 2^14,
// four bytes below 2^30, and otherwise a length byte followed by the
// minimal little-endian payload. Structs concatenate their fields, enums
// write a one-byte discriminant before the payload, vectors write a
// compact length before their elements, and options write 0 or 1 before
// the payload.
//
// Decoding never returns a partial value. Length prefixes are checked
// against the remaining input before allocating, and nesting is limited
// by WithMaxDepth.
package codec
