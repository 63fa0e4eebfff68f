package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where at the call boundary the error occurred
type Phase string

const (
	PhaseValidate Phase = "validate" // pre-call argument checking
	PhaseConvert  Phase = "convert"  // value marshaling
	PhaseInvoke   Phase = "invoke"   // native call dispatch
	PhaseRegistry Phase = "registry" // binding registration and lookup
	PhaseParse    Phase = "parse"    // signature text parsing
	PhaseLoad     Phase = "load"     // native module loading
)

// Kind categorizes the error
type Kind string

const (
	KindArgumentMismatch  Kind = "argument_mismatch"
	KindConversionFailure Kind = "conversion_failure"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOverflow          Kind = "overflow"
	KindNotFound          Kind = "not_found"
	KindRegistration      Kind = "registration"
	KindInvalidInput      Kind = "invalid_input"
	KindUnsupported       Kind = "unsupported"
	KindNativeFault       Kind = "native_fault"
	KindInvalidData       Kind = "invalid_data"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	HostKind   string // host value kind, e.g. "string"
	NativeType string // declared native parameter type, e.g. "s32"
	Detail     string
	Path       []string
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

	if e.HostKind != "" || e.NativeType != "" {
		b.WriteString(": ")
		if e.HostKind != "" && e.NativeType != "" {
			b.WriteString("host kind ")
			b.WriteString(e.HostKind)
			b.WriteString(", native type ")
			b.WriteString(e.NativeType)
		} else if e.HostKind != "" {
			b.WriteString("host kind ")
			b.WriteString(e.HostKind)
		} else {
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
		}
	}

	if e.Detail != "" {
		if e.HostKind != "" || e.NativeType != "" {
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

// Path sets the argument/field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// HostKind sets the host value kind name
func (b *Builder) HostKind(k string) *Builder {
	b.err.HostKind = k
	return b
}

// NativeType sets the declared native type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
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

// Convenience constructors for common error patterns

// ArityMismatch creates an argument-count mismatch error
func ArityMismatch(want, got int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindArgumentMismatch,
		Detail: fmt.Sprintf("expected %d argument(s), got %d", want, got),
		Value:  got,
	}
}

// ArgumentMismatch creates a per-position argument type mismatch error
func ArgumentMismatch(path []string, hostKind, nativeType string) *Error {
	return &Error{
		Phase:      PhaseValidate,
		Kind:       KindArgumentMismatch,
		Path:       path,
		HostKind:   hostKind,
		NativeType: nativeType,
	}
}

// ConversionFailure creates a result conversion error
func ConversionFailure(path []string, hostKind, nativeType string, cause error) *Error {
	return &Error{
		Phase:      PhaseConvert,
		Kind:       KindConversionFailure,
		Path:       path,
		HostKind:   hostKind,
		NativeType: nativeType,
		Cause:      cause,
	}
}

// Overflow creates an overflow error for values outside the target range
func Overflow(path []string, value any, nativeType string) *Error {
	return &Error{
		Phase:      PhaseValidate,
		Kind:       KindOverflow,
		Path:       path,
		NativeType: nativeType,
		Detail:     fmt.Sprintf("value %v overflows %s", value, nativeType),
		Value:      value,
	}
}

// NotFound creates a not-found error
func NotFound(what, name string) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
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

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NativeFault wraps an error raised by the native function itself.
// Fatal only to the single call, never to the host process.
func NativeFault(cause error) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindNativeFault,
		Detail: "native function failed",
		Cause:  cause,
	}
}

// ParseFailed creates a signature parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Load creates a native module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
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
