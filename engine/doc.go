// Package engine exposes compiled wasm module exports as bindable
// native functions.
//
// A native function need not be written in Go: any statically-typed
// compiled function reachable through a wasm export satisfies the
// bind.NativeFunc contract. The engine compiles a core wasm module
// with wazero, and each export becomes a function whose signature is
// derived from its core type (Export) or declared explicitly
// (ExportWithSignature, for string-taking functions that follow the
// ptr+len convention with a guest-exported allocator).
//
//	eng, _ := engine.New(ctx)
//	defer eng.Close(ctx)
//
//	mod, _ := eng.Load(ctx, wasmBytes)
//	inst, _ := mod.Instantiate(ctx)
//	defer inst.Close(ctx)
//
//	sub, _ := inst.Export("sub")
//	res := bind.Invoke(ctx, sub, []value.Value{value.Int(7), value.Int(3)})
package engine
