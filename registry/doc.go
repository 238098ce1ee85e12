// Package registry holds the type registry that drives the codec.
//
// A Builder collects named descriptors, either registered directly or
// loaded from a JSON/YAML document. Finalize validates the graph and
// produces an immutable Registry whose types live in an index-addressed
// arena:
//
//	b := registry.NewBuilder()
//	b.Register("Pubkey", registry.Alias("H256"))
//	b.Register("H256", registry.FixedBytes(32))
//	reg, err := b.Finalize()
//
// References are type expressions. Besides registered names and the
// builtin keywords (bool, u8..u256, i8..i128), the inline forms Vec<T>,
// Compact<T>, Option<T>, Box<T>, [u8; N], (A, B) and () are accepted and
// interned once per canonical spelling.
package registry
