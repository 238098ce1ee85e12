// Package errors provides structured error types for the scale-codec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, Go type, registry type name and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindShapeMismatch).
//		Path("outputs[0]", "value").
//		GoType("string").
//		TypeName("Compact<u128>").
//		Detail("expected *big.Int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ShapeMismatch(errors.PhaseEncode, path, "string", "u16")
//	err := errors.Truncated(errors.PhaseDecode, path, 32, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, regardless of phase.
package errors
