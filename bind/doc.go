// Package bind implements the argument/result marshaler: the type-checked
// boundary between a dynamically-typed caller and a statically-typed
// native function of fixed arity.
//
// # Call Flow
//
//	┌────────────────────────────────────────────────────────────┐
//	│ host values → [validate arity] → [convert args] → native  │
//	│ host result ← [convert result] ←─────────────── ← native  │
//	└────────────────────────────────────────────────────────────┘
//
// Invoke validates arity and per-position convertibility against the
// function's declared Signature before the native call is attempted.
// On any validation failure the native function is never invoked and
// the caller receives an argument_mismatch error.
//
// # Signatures
//
// Signatures use the WIT type vocabulary (go.bytecodealliance.org/wit)
// and can be declared three ways:
//
//   - derived from a Go function via Func (reflection),
//   - parsed from text via ParseSignature("func(a: string, b: string) -> s32"),
//   - built directly from wit.Type values.
//
// # Results
//
// Every call produces a Result with an explicit tri-state: pending,
// ok, or failed. The zero Result is pending and never unpacks to a
// success, so an uninitialized result can not be mistaken for a
// legitimate zero-valued outcome.
package bind
