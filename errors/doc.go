// Package errors provides structured error types for the native-bridge library.
//
// Errors are categorized by Phase (where at the call boundary the error
// occurred) and Kind (error category). The Error type includes rich context:
// argument path, host value kind, declared native type, and cause chain.
//
// The two kinds a dynamic caller normally sees are argument_mismatch
// (arity or per-position type mismatch, raised before the native function
// runs) and conversion_failure (the native result cannot be represented
// in the host's value space). Both are recoverable per-call.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindArgumentMismatch).
//	    Path("arg[1]").
//	    HostKind("int").
//	    NativeType("string").
//	    Build()
//
// Rendered form:
//
//	[validate] argument_mismatch at arg[1]: host kind int, native type string
package errors
