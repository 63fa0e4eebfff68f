package engine

import (
	"context"
	"testing"

	"github.com/wippyai/native-bridge/bind"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/registry"
	"github.com/wippyai/native-bridge/value"
)

// subModule is a hand-assembled core wasm module exporting
// "sub": (func (param i32 i32) (result i32) local.get 0 local.get 1 i32.sub).
var subModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version 1

	// type section: (i32, i32) -> i32
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	// function section: one function of type 0
	0x03, 0x02, 0x01, 0x00,
	// export section: "sub" -> func 0
	0x07, 0x07, 0x01, 0x03, 0x73, 0x75, 0x62, 0x00, 0x00,
	// code section: local.get 0, local.get 1, i32.sub
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6b, 0x0b,
}

func newSubInstance(t *testing.T) (*Instance, func()) {
	t.Helper()
	ctx := context.Background()

	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}

	mod, err := eng.Load(ctx, subModule)
	if err != nil {
		eng.Close(ctx)
		t.Fatalf("load module: %v", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		eng.Close(ctx)
		t.Fatalf("instantiate: %v", err)
	}

	return inst, func() {
		inst.Close(ctx)
		eng.Close(ctx)
	}
}

func TestExport_DerivedSignature(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	sub, err := inst.Export("sub")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := sub.Signature().String(); got != "func(s32, s32) -> s32" {
		t.Errorf("signature = %q", got)
	}
}

func TestExport_Call(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	sub, err := inst.Export("sub")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"positive", 7, 3, 4},
		{"negative result", 3, 7, -4},
		{"zero", 5, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := bind.Invoke(context.Background(), sub,
				[]value.Value{value.Int(tt.a), value.Int(tt.b)})
			v, err := res.Unpack()
			if err != nil {
				t.Fatalf("invoke: %v", err)
			}
			if v.Int() != tt.want {
				t.Errorf("sub(%d, %d) = %d, want %d", tt.a, tt.b, v.Int(), tt.want)
			}
		})
	}
}

func TestExport_ValidationBeforeCall(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	sub, err := inst.Export("sub")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	res := bind.Invoke(context.Background(), sub, []value.Value{value.Int(1)})
	if res.Ok() || res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("arity mismatch should fail before the wasm call: %v", res.Err)
	}

	res = bind.Invoke(context.Background(), sub,
		[]value.Value{value.String("1"), value.Int(2)})
	if res.Ok() || res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("type mismatch should fail before the wasm call: %v", res.Err)
	}
}

func TestExport_NotFound(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	if _, err := inst.Export("missing"); err == nil {
		t.Error("unknown export should be not_found")
	}
}

func TestExportWithSignature(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	sig, err := bind.ParseSignature("func(a: s32, b: s32) -> s32")
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	sub, err := inst.ExportWithSignature("sub", sig)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	v, err := bind.Invoke(context.Background(), sub,
		[]value.Value{value.Int(10), value.Int(4)}).Unpack()
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if v.Int() != 6 {
		t.Errorf("sub = %d, want 6", v.Int())
	}
}

func TestExportWithSignature_CoreMismatch(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	sig, err := bind.ParseSignature("func(a: s64, b: s32) -> s32")
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	if _, err := inst.ExportWithSignature("sub", sig); err == nil {
		t.Error("mismatched core lowering should be rejected")
	}
}

func TestExportWithSignature_StringsNeedAllocator(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	// The sub module exports no memory or allocator, so a string-taking
	// declaration must be rejected at wrap time, not at call time.
	sig, err := bind.ParseSignature("func(a: string) -> s32")
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	_, err = inst.ExportWithSignature("sub", sig)
	if err == nil {
		t.Fatal("string params without guest memory should be rejected")
	}
	if be, ok := err.(*errors.Error); !ok || be.Kind != errors.KindUnsupported {
		t.Errorf("kind = %v, want unsupported", err)
	}
}

func TestBindAll(t *testing.T) {
	inst, done := newSubInstance(t)
	defer done()

	reg := registry.New()
	if err := inst.BindAll(reg, "guest:calc"); err != nil {
		t.Fatalf("bind all: %v", err)
	}

	funcs := reg.Functions()
	if len(funcs) != 1 || funcs[0].Name != "sub" {
		t.Fatalf("unexpected bindings: %v", funcs)
	}

	v, err := reg.Invoke(context.Background(), "guest:calc", "sub",
		[]value.Value{value.Int(9), value.Int(4)}).Unpack()
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if v.Int() != 5 {
		t.Errorf("sub = %d, want 5", v.Int())
	}
}

func TestLoad_InvalidModule(t *testing.T) {
	ctx := context.Background()
	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	defer eng.Close(ctx)

	if _, err := eng.Load(ctx, []byte("not wasm")); err == nil {
		t.Error("garbage bytes should fail to compile")
	}
}

func TestModule_Exports(t *testing.T) {
	ctx := context.Background()
	eng, err := New(ctx)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	defer eng.Close(ctx)

	mod, err := eng.Load(ctx, subModule)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := mod.Exports()
	if len(names) != 1 || names[0] != "sub" {
		t.Errorf("exports = %v, want [sub]", names)
	}
}
