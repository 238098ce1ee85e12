package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // descriptor registration
	PhaseFinalize Phase = "finalize" // registry validation
	PhaseLookup   Phase = "lookup"   // registry queries
	PhaseLoad     Phase = "load"     // registry document parsing
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseGuest    Phase = "guest"    // guest memory and contract code
	PhaseWIT      Phase = "wit"      // WIT type mapping
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType         Kind = "unknown_type"
	KindUnresolvedReference Kind = "unresolved_reference"
	KindDuplicateDefinition Kind = "duplicate_definition"
	KindInvalidDefinition   Kind = "invalid_definition"
	KindTruncatedInput      Kind = "truncated_input"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindShapeMismatch       Kind = "shape_mismatch"
	KindTrailingBytes       Kind = "trailing_bytes"
	KindInvalidData         Kind = "invalid_data"
	KindOverflow            Kind = "overflow"
	KindDepthExceeded       Kind = "depth_exceeded"
	KindInvalidInput        Kind = "invalid_input"
	KindOutOfBounds         Kind = "out_of_bounds"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.TypeName != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.TypeName != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", type ")
			b.WriteString(e.TypeName)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("type ")
			b.WriteString(e.TypeName)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// TypeName sets the registry type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the codec taxonomy

// UnknownType creates an error for a name absent from the registry
func UnknownType(phase Phase, name string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownType,
		TypeName: name,
		Detail:   fmt.Sprintf("type %q is not registered", name),
		Value:    name,
	}
}

// UnresolvedReference creates an error for a reference that does not resolve at finalization
func UnresolvedReference(owner, ref, detail string) *Error {
	return &Error{
		Phase:    PhaseFinalize,
		Kind:     KindUnresolvedReference,
		TypeName: owner,
		Detail:   detail,
		Value:    ref,
	}
}

// DuplicateDefinition creates a conflicting re-registration error
func DuplicateDefinition(name string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindDuplicateDefinition,
		TypeName: name,
		Detail:   "already registered with a different descriptor",
	}
}

// InvalidDefinition creates a malformed descriptor error
func InvalidDefinition(phase Phase, name, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidDefinition,
		TypeName: name,
		Detail:   detail,
	}
}

// Truncated creates an error for input that ended before a value was complete
func Truncated(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncatedInput,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
		Value:  need,
	}
}

// InvalidDiscriminant creates an enum tag out of range error
func InvalidDiscriminant(phase Phase, path []string, typeName string, disc byte, count int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidDiscriminant,
		Path:     path,
		TypeName: typeName,
		Detail:   fmt.Sprintf("discriminant %d out of range (%d variants)", disc, count),
		Value:    disc,
	}
}

// ShapeMismatch creates an error for a value that does not fit its descriptor
func ShapeMismatch(phase Phase, path []string, goType, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindShapeMismatch,
		Path:     path,
		GoType:   goType,
		TypeName: typeName,
	}
}

// TrailingBytes creates an error for unconsumed input after a top-level decode
func TrailingBytes(typeName string, consumed, total int) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindTrailingBytes,
		TypeName: typeName,
		Detail:   fmt.Sprintf("consumed %d of %d bytes", consumed, total),
		Value:    total - consumed,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Path:     path,
		TypeName: target,
		Detail:   fmt.Sprintf("value %v overflows %s", value, target),
		Value:    value,
	}
}

// DepthExceeded creates an error for values nested deeper than the configured limit
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds %d levels", limit),
		Value:  limit,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d) outside memory of %d bytes", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
