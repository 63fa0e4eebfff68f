// Package value defines the host's dynamically-typed value representation.
//
// A Value is a tagged variant: exactly one kind, immutable after
// construction. Values are created per call and carry no state of their
// own; they exist only to cross the host/native boundary.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/native-bridge/errors"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt   // signed 64-bit
	KindFloat // 64-bit
	KindString
	KindBytes
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable tagged host value. The zero Value is nil.
type Value struct {
	s    string
	raw  []byte
	list []Value
	i    int64
	f    float64
	kind Kind
	b    bool
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a byte-sequence value. The input is copied.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, raw: cp}
}

// List returns a list value. The input is copied.
func List(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

// Kind returns the value's dynamic kind.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload. Zero value if the kind differs.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Zero value if the kind differs.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. For KindInt the integer is widened.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Str returns the string payload. Zero value if the kind differs.
func (v Value) Str() string { return v.s }

// Bytes returns a copy of the byte payload.
func (v Value) Bytes() []byte {
	cp := make([]byte, len(v.raw))
	copy(cp, v.raw)
	return cp
}

// List returns a copy of the list payload.
func (v Value) List() []Value {
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp
}

// Len returns the element count for lists, byte count for bytes and
// strings, and 0 for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindBytes:
		return len(v.raw)
	case KindString:
		return len(v.s)
	default:
		return 0
	}
}

// ConvertTo coerces the value to another kind. Coercions are explicit
// and strict: int widens to float, string and bytes interconvert.
// Cross-domain coercions such as string to int fail with type_mismatch.
func (v Value) ConvertTo(k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}
	switch {
	case v.kind == KindInt && k == KindFloat:
		return Float(float64(v.i)), nil
	case v.kind == KindString && k == KindBytes:
		return Bytes([]byte(v.s)), nil
	case v.kind == KindBytes && k == KindString:
		return String(string(v.raw)), nil
	}
	return Nil(), errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		HostKind(v.kind.String()).
		NativeType(k.String()).
		Build()
}

// FromGo lifts a plain Go value into the host's dynamic value space.
// Used when a native function returns. Unrepresentable values produce
// a conversion_failure.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		if uint64(t) > 1<<63-1 {
			return Nil(), errors.ConversionFailure(nil, "", "int", nil)
		}
		return Int(int64(t)), nil
	case uint64:
		if t > 1<<63-1 {
			return Nil(), errors.ConversionFailure(nil, "", "int", nil)
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Bytes(t), nil
	case []Value:
		return List(t...), nil
	case []string:
		vs := make([]Value, len(t))
		for i, s := range t {
			vs[i] = String(s)
		}
		return List(vs...), nil
	case []int64:
		vs := make([]Value, len(t))
		for i, n := range t {
			vs[i] = Int(n)
		}
		return List(vs...), nil
	case []int:
		vs := make([]Value, len(t))
		for i, n := range t {
			vs[i] = Int(int64(n))
		}
		return List(vs...), nil
	case []float64:
		vs := make([]Value, len(t))
		for i, f := range t {
			vs[i] = Float(f)
		}
		return List(vs...), nil
	default:
		return Nil(), errors.New(errors.PhaseConvert, errors.KindConversionFailure).
			Detail("Go value of type %T is not representable in the host value space", x).
			Value(x).
			Build()
	}
}

// Interface lowers the value to a plain Go representation for display
// and host hand-off.
func (v Value) Interface() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.Bytes()
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality of two values, including kind.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBytes:
		return string(v.raw) == string(o.raw)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a display form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.raw))
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}
