package bind

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/value"
)

func TestConvert_Accepts(t *testing.T) {
	byteList := &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	intList := &wit.TypeDef{Kind: &wit.List{Type: wit.S64{}}}

	tests := []struct {
		name string
		in   value.Value
		t    wit.Type
		want value.Value
	}{
		{"bool", value.Bool(true), wit.Bool{}, value.Bool(true)},
		{"s32 in range", value.Int(-100), wit.S32{}, value.Int(-100)},
		{"u8 edge", value.Int(255), wit.U8{}, value.Int(255)},
		{"int widens to f64", value.Int(3), wit.F64{}, value.Float(3)},
		{"float to f32", value.Float(1.5), wit.F32{}, value.Float(1.5)},
		{"string", value.String("x"), wit.String{}, value.String("x")},
		{"char from rune string", value.String("é"), wit.Char{}, value.Int(0xE9)},
		{"char from codepoint", value.Int(0x41), wit.Char{}, value.Int(0x41)},
		{"bytes for list<u8>", value.Bytes([]byte{1, 2}), byteList, value.Bytes([]byte{1, 2})},
		{"string for list<u8>", value.String("ab"), byteList, value.Bytes([]byte("ab"))},
		{"typed list", value.List(value.Int(1)), intList, value.List(value.Int(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.t)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Convert = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConvert_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		t    wit.Type
	}{
		{"int to string", value.Int(42), wit.String{}},
		{"string to s64", value.String("42"), wit.S64{}},
		{"float to s32", value.Float(1.0), wit.S32{}},
		{"string to f64", value.String("1.5"), wit.F64{}},
		{"s8 overflow", value.Int(200), wit.S8{}},
		{"u32 negative", value.Int(-1), wit.U32{}},
		{"bool from int", value.Int(1), wit.Bool{}},
		{"char from long string", value.String("ab"), wit.Char{}},
		{"char surrogate", value.Int(0xD800), wit.Char{}},
		{"list from scalar", value.Int(1), &wit.TypeDef{Kind: &wit.List{Type: wit.S64{}}}},
		{"list element mismatch", value.List(value.String("x")), &wit.TypeDef{Kind: &wit.List{Type: wit.S64{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(tt.in, tt.t); err == nil {
				t.Errorf("Convert(%s, %s) should fail", tt.in, TypeName(tt.t))
			}
		})
	}
}
