package main

import (
	"strings"

	"github.com/wippyai/native-bridge/registry"
)

// registerBuiltins binds the demonstration namespaces that are always
// available in the console.
func registerBuiltins(reg *registry.Registry) error {
	builtins := []struct {
		namespace string
		name      string
		fn        any
	}{
		{"bridge:strings", "compare", strings.Compare},
		{"bridge:strings", "concat", func(a, b string) string { return a + b }},
		{"bridge:strings", "length", func(s string) int64 { return int64(len(s)) }},
		{"bridge:strings", "contains", strings.Contains},
		{"bridge:math", "add", func(a, b int64) int64 { return a + b }},
		{"bridge:math", "mul", func(a, b int64) int64 { return a * b }},
		{"bridge:math", "hypot2", func(x, y float64) float64 { return x*x + y*y }},
	}

	for _, b := range builtins {
		if err := reg.RegisterFunc(b.namespace, b.name, b.fn); err != nil {
			return err
		}
	}
	return nil
}
