// Package nativebridge provides a type-checked binding layer between a
// dynamically-typed host and statically-typed native functions.
//
// A dynamic caller supplies an ordered list of tagged values; the bridge
// validates arity and per-position convertibility against the function's
// declared signature, invokes the native function, and converts the result
// back into the host's value space. Validation failures are reported before
// the native function runs; it is never called with bad data.
//
// # Architecture Overview
//
// The library is organized into small packages with distinct responsibilities:
//
//	nativebridge/        Root package with Memory and Allocator interfaces
//	├── value/           Tagged dynamic values (the host representation)
//	├── bind/            Signatures, the invoke marshaler, native adapters
//	├── registry/        Explicit name -> bound function registry
//	├── engine/          wazero-backed natives from wasm module exports
//	└── errors/          Structured error types for the call boundary
//
// # Quick Start
//
// Bind a Go function and call it dynamically:
//
//	reg := registry.New()
//	reg.RegisterFunc("bridge:strings", "compare", strings.Compare)
//
//	res := reg.Invoke(ctx, "bridge:strings", "compare",
//	    []value.Value{value.String("abc"), value.String("abd")})
//	v, err := res.Unpack()
//
// # Error Model
//
// Every failure is one of two recoverable categories at the call boundary:
// argument_mismatch (arity or type mismatch, detected before the call) and
// conversion_failure (the native result cannot be represented in the host's
// value space). Both carry phase, kind, and field path context; neither is
// fatal to the process.
//
// # Thread Safety
//
// Registry and Engine are safe for concurrent use. Each invoke is an
// independent, synchronous operation with no state shared across calls.
package nativebridge
