package bind

import (
	"fmt"
	"math"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

// Convert checks that a host value is convertible to the declared native
// type and returns the normalized value. Coercions are strict: numeric
// widening int -> float is allowed, cross-domain coercions (string to
// int, int to string) are not.
func Convert(v value.Value, t wit.Type) (value.Value, *errors.Error) {
	switch tt := t.(type) {
	case wit.Bool:
		if v.Kind() == value.KindBool {
			return v, nil
		}
		return value.Nil(), mismatch(v, t)
	case wit.S8:
		return convertInt(v, t, math.MinInt8, math.MaxInt8)
	case wit.S16:
		return convertInt(v, t, math.MinInt16, math.MaxInt16)
	case wit.S32:
		return convertInt(v, t, math.MinInt32, math.MaxInt32)
	case wit.S64:
		return convertInt(v, t, math.MinInt64, math.MaxInt64)
	case wit.U8:
		return convertInt(v, t, 0, math.MaxUint8)
	case wit.U16:
		return convertInt(v, t, 0, math.MaxUint16)
	case wit.U32:
		return convertInt(v, t, 0, math.MaxUint32)
	case wit.U64:
		return convertInt(v, t, 0, math.MaxInt64)
	case wit.F32, wit.F64:
		switch v.Kind() {
		case value.KindFloat:
			return v, nil
		case value.KindInt:
			return value.Float(float64(v.Int())), nil
		}
		return value.Nil(), mismatch(v, t)
	case wit.Char:
		return convertChar(v, t)
	case wit.String:
		if v.Kind() == value.KindString {
			return v, nil
		}
		return value.Nil(), mismatch(v, t)
	case *wit.TypeDef:
		if l, ok := tt.Kind.(*wit.List); ok {
			return convertList(v, t, l)
		}
		return value.Nil(), errors.Unsupported(errors.PhaseValidate, "native type "+TypeName(t))
	default:
		return value.Nil(), errors.Unsupported(errors.PhaseValidate, fmt.Sprintf("native type %T", t))
	}
}

func convertInt(v value.Value, t wit.Type, lo, hi int64) (value.Value, *errors.Error) {
	if v.Kind() != value.KindInt {
		return value.Nil(), mismatch(v, t)
	}
	if v.Int() < lo || v.Int() > hi {
		return value.Nil(), errors.Overflow(nil, v.Int(), TypeName(t))
	}
	return v, nil
}

func convertChar(v value.Value, t wit.Type) (value.Value, *errors.Error) {
	switch v.Kind() {
	case value.KindInt:
		cp := v.Int()
		if cp < 0 || cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			return value.Nil(), errors.Overflow(nil, cp, "char")
		}
		return v, nil
	case value.KindString:
		if utf8.RuneCountInString(v.Str()) != 1 {
			return value.Nil(), errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
				HostKind(v.Kind().String()).
				NativeType("char").
				Detail("char requires exactly one rune").
				Build()
		}
		r, _ := utf8.DecodeRuneInString(v.Str())
		return value.Int(int64(r)), nil
	}
	return value.Nil(), mismatch(v, t)
}

func convertList(v value.Value, t wit.Type, l *wit.List) (value.Value, *errors.Error) {
	// list<u8> accepts both byte and string payloads.
	if _, isU8 := l.Type.(wit.U8); isU8 {
		switch v.Kind() {
		case value.KindBytes:
			return v, nil
		case value.KindString:
			return value.Bytes([]byte(v.Str())), nil
		}
		return value.Nil(), mismatch(v, t)
	}

	if v.Kind() != value.KindList {
		return value.Nil(), mismatch(v, t)
	}
	elems := v.List()
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		ce, err := Convert(e, l.Type)
		if err != nil {
			return value.Nil(), errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
				Path(fmt.Sprintf("[%d]", i)).
				HostKind(e.Kind().String()).
				NativeType(TypeName(l.Type)).
				Cause(err).
				Build()
		}
		out[i] = ce
	}
	return value.List(out...), nil
}

func mismatch(v value.Value, t wit.Type) *errors.Error {
	return errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
		HostKind(v.Kind().String()).
		NativeType(TypeName(t)).
		Build()
}
