package bind

import (
	"context"
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Func wraps a plain Go function as a NativeFunc, deriving its Signature
// from the Go parameter and result types via reflection.
//
// The function may take a leading context.Context, any number of
// supported parameters (bool, signed/unsigned integers, floats, string,
// []byte, slices of supported types), and return zero or one value plus
// an optional trailing error.
func Func(fn any) (NativeFunc, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, errors.New(errors.PhaseRegistry, errors.KindTypeMismatch).
			HostKind(reflect.TypeOf(fn).String()).
			Detail("handler must be a function").
			Build()
	}

	rt := rv.Type()
	if rt.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseRegistry, "variadic handlers")
	}

	g := &goFunc{fn: rv}

	start := 0
	if rt.NumIn() > 0 && rt.In(0) == ctxType {
		g.hasCtx = true
		start = 1
	}

	for i := start; i < rt.NumIn(); i++ {
		pt := rt.In(i)
		wt, err := witTypeFor(pt)
		if err != nil {
			return nil, err
		}
		g.in = append(g.in, pt)
		g.sig.Params = append(g.sig.Params, wt)
	}

	switch rt.NumOut() {
	case 0:
	case 1:
		if rt.Out(0) == errType {
			g.hasErr = true
		} else {
			wt, err := witTypeFor(rt.Out(0))
			if err != nil {
				return nil, err
			}
			g.sig.Results = []wit.Type{wt}
		}
	case 2:
		if rt.Out(1) != errType {
			return nil, errors.Unsupported(errors.PhaseRegistry, "second return value must be error")
		}
		wt, err := witTypeFor(rt.Out(0))
		if err != nil {
			return nil, err
		}
		g.sig.Results = []wit.Type{wt}
		g.hasErr = true
	default:
		return nil, errors.Unsupported(errors.PhaseRegistry, "handlers may return at most one value and an error")
	}

	return g, nil
}

type goFunc struct {
	fn     reflect.Value
	in     []reflect.Type
	sig    Signature
	hasCtx bool
	hasErr bool
}

func (g *goFunc) Signature() Signature { return g.sig }

func (g *goFunc) Call(ctx context.Context, args []value.Value) (value.Value, error) {
	callArgs := make([]reflect.Value, 0, len(args)+1)
	if g.hasCtx {
		callArgs = append(callArgs, reflect.ValueOf(ctx))
	}
	for i, a := range args {
		gv, err := toReflect(a, g.in[i])
		if err != nil {
			return value.Nil(), err
		}
		callArgs = append(callArgs, gv)
	}

	outs := g.fn.Call(callArgs)

	if g.hasErr {
		last := outs[len(outs)-1]
		if !last.IsNil() {
			return value.Nil(), last.Interface().(error)
		}
		outs = outs[:len(outs)-1]
	}

	if len(outs) == 0 {
		return value.Nil(), nil
	}
	return value.FromGo(outs[0].Interface())
}

// witTypeFor maps a Go type to its WIT signature type.
func witTypeFor(t reflect.Type) (wit.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return wit.Bool{}, nil
	case reflect.Int8:
		return wit.S8{}, nil
	case reflect.Int16:
		return wit.S16{}, nil
	case reflect.Int32:
		return wit.S32{}, nil
	case reflect.Int, reflect.Int64:
		return wit.S64{}, nil
	case reflect.Uint8:
		return wit.U8{}, nil
	case reflect.Uint16:
		return wit.U16{}, nil
	case reflect.Uint32:
		return wit.U32{}, nil
	case reflect.Uint, reflect.Uint64:
		return wit.U64{}, nil
	case reflect.Float32:
		return wit.F32{}, nil
	case reflect.Float64:
		return wit.F64{}, nil
	case reflect.String:
		return wit.String{}, nil
	case reflect.Slice:
		elem, err := witTypeFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
	default:
		return nil, errors.New(errors.PhaseRegistry, errors.KindUnsupported).
			HostKind(t.String()).
			Detail("Go type has no native signature mapping").
			Build()
	}
}

// toReflect lowers a validated host value into a concrete Go value.
// Arguments have already been converted against the signature, so the
// kinds are trusted here; only width casts remain.
func toReflect(v value.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		out.SetBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(uint64(v.Int()))
	case reflect.Float32, reflect.Float64:
		out.SetFloat(v.Float())
	case reflect.String:
		out.SetString(v.Str())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			out.SetBytes(v.Bytes())
			break
		}
		elems := v.List()
		s := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			ev, err := toReflect(e, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			s.Index(i).Set(ev)
		}
		out = s
	default:
		return reflect.Value{}, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			HostKind(t.String()).
			Detail("Go type has no host value lowering").
			Build()
	}
	return out, nil
}
