package bind

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

// stubFunc counts calls so tests can verify the native function is
// never reached on validation failure.
type stubFunc struct {
	err   error
	ret   value.Value
	sig   Signature
	calls int
}

func (s *stubFunc) Signature() Signature { return s.sig }

func (s *stubFunc) Call(_ context.Context, _ []value.Value) (value.Value, error) {
	s.calls++
	return s.ret, s.err
}

func mustFunc(t *testing.T, fn any) NativeFunc {
	t.Helper()
	nf, err := Func(fn)
	if err != nil {
		t.Fatalf("wrap function: %v", err)
	}
	return nf
}

func TestInvoke_StringCompare(t *testing.T) {
	ctx := context.Background()
	compare := mustFunc(t, strings.Compare)

	tests := []struct {
		name string
		a, b string
		want func(int64) bool
	}{
		{"equal strings", "hello world", "hello world", func(n int64) bool { return n == 0 }},
		{"less than", "abc", "abd", func(n int64) bool { return n < 0 }},
		{"greater than", "abd", "abc", func(n int64) bool { return n > 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Invoke(ctx, compare, []value.Value{value.String(tt.a), value.String(tt.b)})
			v, err := res.Unpack()
			if err != nil {
				t.Fatalf("invoke: %v", err)
			}
			if v.Kind() != value.KindInt {
				t.Fatalf("result kind = %s, want int", v.Kind())
			}
			if !tt.want(v.Int()) {
				t.Errorf("compare(%q, %q) = %d, wrong sign", tt.a, tt.b, v.Int())
			}
		})
	}
}

func TestInvoke_ArityMismatch(t *testing.T) {
	ctx := context.Background()
	stub := &stubFunc{sig: Signature{Params: []wit.Type{wit.String{}, wit.String{}}, Results: []wit.Type{wit.S64{}}}}

	res := Invoke(ctx, stub, []value.Value{value.String("only-one-arg")})
	if res.State != StateFailed {
		t.Fatalf("state = %s, want failed", res.State)
	}
	if res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("kind = %s, want argument_mismatch", res.Err.Kind)
	}
	if stub.calls != 0 {
		t.Errorf("native function was invoked %d time(s) despite arity mismatch", stub.calls)
	}

	// Too many arguments fails the same way.
	res = Invoke(ctx, stub, []value.Value{value.String("a"), value.String("b"), value.String("c")})
	if res.Err == nil || res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("extra argument should be argument_mismatch, got %v", res.Err)
	}
	if stub.calls != 0 {
		t.Errorf("native function was invoked on extra-argument call")
	}
}

func TestInvoke_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	stub := &stubFunc{sig: Signature{Params: []wit.Type{wit.String{}, wit.String{}}, Results: []wit.Type{wit.S64{}}}}

	res := Invoke(ctx, stub, []value.Value{value.Int(42), value.String("text")})
	if res.State != StateFailed {
		t.Fatalf("state = %s, want failed", res.State)
	}
	if res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("kind = %s, want argument_mismatch", res.Err.Kind)
	}
	if len(res.Err.Path) == 0 || res.Err.Path[0] != "arg[0]" {
		t.Errorf("error path = %v, want arg[0]", res.Err.Path)
	}
	if stub.calls != 0 {
		t.Errorf("native function was invoked %d time(s) despite type mismatch", stub.calls)
	}
}

func TestInvoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	compare := mustFunc(t, strings.Compare)
	args := []value.Value{value.String("abc"), value.String("abd")}

	first, err := Invoke(ctx, compare, args).Unpack()
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	for i := 0; i < 10; i++ {
		v, err := Invoke(ctx, compare, args).Unpack()
		if err != nil {
			t.Fatalf("invoke %d: %v", i, err)
		}
		if !v.Equal(first) {
			t.Fatalf("invoke %d returned %s, first returned %s", i, v, first)
		}
	}
}

func TestInvoke_NativeFault(t *testing.T) {
	ctx := context.Background()
	fault := stderrors.New("disk on fire")
	stub := &stubFunc{
		sig: Signature{Params: []wit.Type{wit.String{}}},
		err: fault,
	}

	res := Invoke(ctx, stub, []value.Value{value.String("x")})
	if res.State != StateFailed {
		t.Fatalf("state = %s, want failed", res.State)
	}
	if res.Err.Kind != errors.KindNativeFault {
		t.Errorf("kind = %s, want native_fault", res.Err.Kind)
	}
	if !stderrors.Is(res.Err, fault) {
		t.Error("native error should be reachable through Unwrap")
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestInvoke_ResultConversionFailure(t *testing.T) {
	ctx := context.Background()
	// Declares an s32 result but produces a string.
	stub := &stubFunc{
		sig: Signature{Params: nil, Results: []wit.Type{wit.S32{}}},
		ret: value.String("not a number"),
	}

	res := Invoke(ctx, stub, nil)
	if res.State != StateFailed {
		t.Fatalf("state = %s, want failed", res.State)
	}
	if res.Err.Kind != errors.KindConversionFailure {
		t.Errorf("kind = %s, want conversion_failure", res.Err.Kind)
	}
	if res.Err.Phase != errors.PhaseConvert {
		t.Errorf("phase = %s, want convert", res.Err.Phase)
	}
}

func TestInvoke_NoResult(t *testing.T) {
	ctx := context.Background()
	called := false
	nf := mustFunc(t, func(s string) { called = s == "ping" })

	res := Invoke(ctx, nf, []value.Value{value.String("ping")})
	v, err := res.Unpack()
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !v.IsNil() {
		t.Errorf("void function should produce nil, got %s", v)
	}
	if !called {
		t.Error("native function was not invoked")
	}
}

func TestInvoke_IntRangeChecks(t *testing.T) {
	ctx := context.Background()
	stub := &stubFunc{sig: Signature{Params: []wit.Type{wit.S32{}}}}

	res := Invoke(ctx, stub, []value.Value{value.Int(1 << 40)})
	if res.State != StateFailed || res.Err.Kind != errors.KindArgumentMismatch {
		t.Errorf("out-of-range s32 should be argument_mismatch, got %v", res.Err)
	}
	if stub.calls != 0 {
		t.Error("native function invoked with overflowing argument")
	}

	res = Invoke(ctx, stub, []value.Value{value.Int(-5)})
	if res.State != StateOK {
		t.Errorf("in-range s32 should succeed: %v", res.Err)
	}
}

func TestResult_TriState(t *testing.T) {
	var zero Result
	if zero.State != StatePending {
		t.Errorf("zero result state = %s, want pending", zero.State)
	}
	if _, err := zero.Unpack(); err == nil {
		t.Error("pending result must not unpack to a success")
	}

	ok := OK(value.Int(0))
	if v, err := ok.Unpack(); err != nil || v.Int() != 0 {
		t.Error("explicit zero success must unpack cleanly")
	}
	if !ok.Ok() {
		t.Error("Ok() should be true for a success")
	}

	fail := Fail(errors.ArityMismatch(2, 0))
	if fail.Ok() {
		t.Error("Ok() should be false for a failure")
	}
	if _, err := fail.Unpack(); err == nil {
		t.Error("failed result must unpack to an error")
	}
}
