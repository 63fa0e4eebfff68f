package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	nativebridge "github.com/wippyai/native-bridge"
	"github.com/wippyai/native-bridge/bind"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/registry"
	"github.com/wippyai/native-bridge/value"
)

// Instance is an instantiated wasm module whose exports can be wrapped
// as bindable native functions.
type Instance struct {
	module *Module
	mod    api.Module
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// flatKind describes how one declared parameter lowers onto the core
// wasm call stack.
type flatKind uint8

const (
	flatI32 flatKind = iota
	flatI64
	flatF32
	flatF64
	flatPtrLen // string / list<u8>: two i32 values, data via linear memory
)

// Export wraps an exported wasm function as a native function. The
// signature is derived from the core wasm type: i32 -> s32, i64 -> s64,
// f32 -> f32, f64 -> f64.
func (i *Instance) Export(name string) (bind.NativeFunc, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound("export", name)
	}

	def := fn.Definition()

	var sig bind.Signature
	var flat []flatKind
	for _, vt := range def.ParamTypes() {
		wt, fk, err := coreToWit(vt)
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, wt)
		flat = append(flat, fk)
	}

	results := def.ResultTypes()
	if len(results) > 1 {
		return nil, errors.Unsupported(errors.PhaseLoad, "multi-value results")
	}
	if len(results) == 1 {
		wt, _, err := coreToWit(results[0])
		if err != nil {
			return nil, err
		}
		sig.Results = []wit.Type{wt}
	}

	return &wasmFunc{inst: i, fn: fn, sig: sig, flat: flat}, nil
}

// ExportWithSignature wraps an exported wasm function under a declared
// signature richer than the core type, e.g. parsed from
// "func(a: string, b: string) -> s32". String and list<u8> parameters
// lower to ptr+len pairs; the bytes are written through the guest's
// exported allocator. The declared lowering must match the export's
// core type exactly.
func (i *Instance) ExportWithSignature(name string, sig bind.Signature) (bind.NativeFunc, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound("export", name)
	}

	var expect []api.ValueType
	var flat []flatKind
	needsMemory := false
	for _, p := range sig.Params {
		fk, core, err := witToCore(p)
		if err != nil {
			return nil, err
		}
		if fk == flatPtrLen {
			needsMemory = true
		}
		expect = append(expect, core...)
		flat = append(flat, fk)
	}

	if len(sig.Results) > 1 {
		return nil, errors.Unsupported(errors.PhaseLoad, "multi-value results")
	}
	if len(sig.Results) == 1 {
		fk, _, err := witToCore(sig.Results[0])
		if err != nil {
			return nil, err
		}
		if fk == flatPtrLen {
			return nil, errors.Unsupported(errors.PhaseLoad, "string results")
		}
	}

	if needsMemory && (i.mod.Memory() == nil || i.allocFunc() == nil) {
		return nil, errors.Unsupported(errors.PhaseLoad,
			"string parameters require an exported memory and allocator")
	}

	def := fn.Definition()
	if !coreTypesEqual(def.ParamTypes(), expect) {
		return nil, errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
			Path(name).
			NativeType(sig.String()).
			Detail("declared signature does not lower to the export's core type").
			Build()
	}

	return &wasmFunc{inst: i, fn: fn, sig: sig, flat: flat}, nil
}

// BindAll registers every export with a representable core signature
// under the given namespace. Exports with unsupported shapes are
// skipped.
func (i *Instance) BindAll(reg *registry.Registry, namespace string) error {
	for _, name := range i.module.Exports() {
		nf, err := i.Export(name)
		if err != nil {
			logger().Debug("skipping export",
				zap.String("name", name),
				zap.Error(err))
			continue
		}
		if err := reg.Register(namespace, name, nf); err != nil {
			return err
		}
	}
	return nil
}

func (i *Instance) allocFunc() api.Function {
	for _, name := range []string{"cabi_realloc", "alloc", "malloc"} {
		if fn := i.mod.ExportedFunction(name); fn != nil {
			return fn
		}
	}
	return nil
}

// wasmFunc marshals host values onto the core wasm call stack.
type wasmFunc struct {
	inst *Instance
	fn   api.Function
	sig  bind.Signature
	flat []flatKind
}

func (w *wasmFunc) Signature() bind.Signature { return w.sig }

func (w *wasmFunc) Call(ctx context.Context, args []value.Value) (value.Value, error) {
	stack := make([]uint64, 0, len(args)+2)

	var mem nativebridge.Memory
	var alloc nativebridge.Allocator
	for i, a := range args {
		switch w.flat[i] {
		case flatI32:
			if a.Kind() == value.KindBool {
				var b uint64
				if a.Bool() {
					b = 1
				}
				stack = append(stack, b)
				continue
			}
			stack = append(stack, api.EncodeI32(int32(a.Int())))
		case flatI64:
			stack = append(stack, uint64(a.Int()))
		case flatF32:
			stack = append(stack, api.EncodeF32(float32(a.Float())))
		case flatF64:
			stack = append(stack, api.EncodeF64(a.Float()))
		case flatPtrLen:
			if mem == nil {
				mem = guestMemory{mem: w.inst.mod.Memory()}
				alloc = newGuestAllocator(ctx, w.inst.allocFunc())
			}
			data := a.Bytes()
			if a.Kind() == value.KindString {
				data = []byte(a.Str())
			}
			ptr, err := writeBytes(mem, alloc, data)
			if err != nil {
				return value.Nil(), err
			}
			stack = append(stack, uint64(ptr), uint64(len(data)))
		}
	}

	results, err := w.fn.Call(ctx, stack...)
	if err != nil {
		return value.Nil(), err
	}

	if len(w.sig.Results) == 0 {
		return value.Nil(), nil
	}

	switch w.sig.Results[0].(type) {
	case wit.Bool:
		return value.Bool(api.DecodeI32(results[0]) != 0), nil
	case wit.F32:
		return value.Float(float64(api.DecodeF32(results[0]))), nil
	case wit.F64:
		return value.Float(api.DecodeF64(results[0])), nil
	case wit.S64, wit.U64:
		return value.Int(int64(results[0])), nil
	default:
		return value.Int(int64(api.DecodeI32(results[0]))), nil
	}
}

// writeBytes copies data into guest memory through the guest allocator
// and returns the pointer.
func writeBytes(mem nativebridge.Memory, alloc nativebridge.Allocator, data []byte) (uint32, error) {
	ptr, err := alloc.Alloc(uint32(len(data)), 1)
	if err != nil {
		return 0, err
	}
	if err := mem.Write(ptr, data); err != nil {
		return 0, err
	}
	return ptr, nil
}

func coreToWit(vt api.ValueType) (wit.Type, flatKind, error) {
	switch vt {
	case api.ValueTypeI32:
		return wit.S32{}, flatI32, nil
	case api.ValueTypeI64:
		return wit.S64{}, flatI64, nil
	case api.ValueTypeF32:
		return wit.F32{}, flatF32, nil
	case api.ValueTypeF64:
		return wit.F64{}, flatF64, nil
	default:
		return nil, 0, errors.Unsupported(errors.PhaseLoad, "core value type "+api.ValueTypeName(vt))
	}
}

// witToCore lowers one declared parameter type onto core value types.
func witToCore(t wit.Type) (flatKind, []api.ValueType, error) {
	switch tt := t.(type) {
	case wit.Bool, wit.S8, wit.S16, wit.S32, wit.U8, wit.U16, wit.U32, wit.Char:
		return flatI32, []api.ValueType{api.ValueTypeI32}, nil
	case wit.S64, wit.U64:
		return flatI64, []api.ValueType{api.ValueTypeI64}, nil
	case wit.F32:
		return flatF32, []api.ValueType{api.ValueTypeF32}, nil
	case wit.F64:
		return flatF64, []api.ValueType{api.ValueTypeF64}, nil
	case wit.String:
		return flatPtrLen, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil
	case *wit.TypeDef:
		if l, ok := tt.Kind.(*wit.List); ok {
			if _, isU8 := l.Type.(wit.U8); isU8 {
				return flatPtrLen, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil
			}
		}
		return 0, nil, errors.Unsupported(errors.PhaseLoad, "native type "+bind.TypeName(t))
	default:
		return 0, nil, errors.Unsupported(errors.PhaseLoad, "native type "+bind.TypeName(t))
	}
}

func coreTypesEqual(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
