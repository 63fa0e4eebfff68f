package bind

import (
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/errors"
)

// Signature is the declared shape of a native function: fixed arity,
// fixed parameter types, at most one result.
type Signature struct {
	Params  []wit.Type
	Results []wit.Type
}

// Arity returns the number of declared parameters.
func (s Signature) Arity() int { return len(s.Params) }

// String renders the signature in WIT-style function syntax.
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(TypeName(p))
	}
	b.WriteByte(')')
	if len(s.Results) > 0 {
		b.WriteString(" -> ")
		b.WriteString(TypeName(s.Results[0]))
	}
	return b.String()
}

// TypeName returns the WIT-style display name of a type.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if l, ok := v.Kind.(*wit.List); ok {
			return "list<" + TypeName(l.Type) + ">"
		}
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return "unknown"
	}
}

// Pattern: func(params) -> result;
var funcPattern = regexp.MustCompile(`^func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?;?$`)

// ParseSignature parses a WIT-style function signature such as
// "func(a: string, b: string) -> s32". Parameter names are optional.
func ParseSignature(text string) (Signature, error) {
	match := funcPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return Signature{}, errors.InvalidInput(errors.PhaseParse, "signature must have the form func(params) -> result")
	}

	var sig Signature

	paramsStr := strings.TrimSpace(match[1])
	if paramsStr != "" {
		for _, p := range splitParams(paramsStr) {
			typStr := p
			if idx := strings.LastIndex(p, ":"); idx != -1 {
				typStr = strings.TrimSpace(p[idx+1:])
			}
			t, err := parseType(typStr)
			if err != nil {
				return Signature{}, errors.ParseFailed("param type "+typStr, err)
			}
			sig.Params = append(sig.Params, t)
		}
	}

	resultStr := strings.TrimSpace(match[2])
	if resultStr != "" && resultStr != "()" {
		t, err := parseType(resultStr)
		if err != nil {
			return Signature{}, errors.ParseFailed("result type "+resultStr, err)
		}
		sig.Results = []wit.Type{t}
	}

	return sig, nil
}

// splitParams splits a parameter list, handling nested angle brackets
// and parens.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}

	return result
}

func parseType(s string) (wit.Type, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "list<"); ok && strings.HasSuffix(inner, ">") {
		elem, err := parseType(strings.TrimSuffix(inner, ">"))
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
	}
	return wit.ParseType(s)
}
