package bind

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

// NativeFunc is a statically-typed native function exposed to the host.
// Call receives arguments already validated and converted against the
// declared Signature.
type NativeFunc interface {
	Signature() Signature
	Call(ctx context.Context, args []value.Value) (value.Value, error)
}

// Invoke marshals a dynamic call onto a native function.
//
// Arity and per-position convertibility are checked first; on any
// mismatch the native function is never invoked and the result carries
// an argument_mismatch error. A native-side error surfaces as a
// native_fault; a result that cannot be represented in the host value
// space surfaces as a conversion_failure. All failures are scoped to
// the single call.
func Invoke(ctx context.Context, fn NativeFunc, args []value.Value) Result {
	sig := fn.Signature()

	if len(args) != len(sig.Params) {
		return Fail(errors.ArityMismatch(len(sig.Params), len(args)))
	}

	converted := make([]value.Value, len(args))
	for i, t := range sig.Params {
		cv, cerr := Convert(args[i], t)
		if cerr != nil {
			return Fail(errors.New(errors.PhaseValidate, errors.KindArgumentMismatch).
				Path(argPath(i)).
				HostKind(args[i].Kind().String()).
				NativeType(TypeName(t)).
				Cause(cerr).
				Build())
		}
		converted[i] = cv
	}

	out, err := fn.Call(ctx, converted)
	if err != nil {
		var be *errors.Error
		if stderrors.As(err, &be) && be.Kind == errors.KindConversionFailure {
			return Fail(be)
		}
		return Fail(errors.NativeFault(err))
	}

	if len(sig.Results) == 0 {
		return OK(value.Nil())
	}

	rv, cerr := Convert(out, sig.Results[0])
	if cerr != nil {
		return Fail(errors.ConversionFailure([]string{"result"}, out.Kind().String(), TypeName(sig.Results[0]), cerr))
	}
	return OK(rv)
}

func argPath(i int) string {
	return fmt.Sprintf("arg[%d]", i)
}
