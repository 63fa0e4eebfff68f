package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/native-bridge/bind"
	"github.com/wippyai/native-bridge/engine"
	"github.com/wippyai/native-bridge/registry"
	"github.com/wippyai/native-bridge/value"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to a wasm module whose exports are bound under guest:wasm")
		callName    = flag.String("call", "", "Binding to call, as namespace/name")
		callArgs    = flag.String("args", "", "Arguments (comma-separated)")
		list        = flag.Bool("list", false, "List bindings and exit")
		interactive = flag.Bool("i", false, "Interactive console")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *callName == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: bridge [-wasm file.wasm] -call ns/name [-args a,b]")
		fmt.Fprintln(os.Stderr, "       bridge [-wasm file.wasm] -list")
		fmt.Fprintln(os.Stderr, "       bridge [-wasm file.wasm] -i  (interactive console)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(logger)
		}
	}

	if err := run(*wasmFile, *callName, *callArgs, *list, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, callName, argsStr string, listOnly, interactive bool) error {
	ctx := context.Background()

	reg := registry.New()
	if err := registerBuiltins(reg); err != nil {
		return fmt.Errorf("register builtins: %w", err)
	}

	var cleanup func()
	if wasmFile != "" {
		data, err := os.ReadFile(wasmFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}

		eng, err := engine.New(ctx)
		if err != nil {
			return fmt.Errorf("create engine: %w", err)
		}
		mod, err := eng.Load(ctx, data)
		if err != nil {
			eng.Close(ctx)
			return fmt.Errorf("load module: %w", err)
		}
		inst, err := mod.Instantiate(ctx)
		if err != nil {
			eng.Close(ctx)
			return fmt.Errorf("instantiate: %w", err)
		}
		cleanup = func() {
			inst.Close(ctx)
			eng.Close(ctx)
		}
		defer cleanup()

		if err := inst.BindAll(reg, "guest:wasm"); err != nil {
			return fmt.Errorf("bind exports: %w", err)
		}
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return runInteractive(reg)
	}

	if listOnly {
		for _, b := range reg.Functions() {
			fmt.Printf("  %s/%s: %s\n", b.Namespace, b.Name, b.Signature)
		}
		return nil
	}

	namespace, name, ok := strings.Cut(callName, "/")
	if !ok {
		return fmt.Errorf("binding must be namespace/name, got %q", callName)
	}

	nf, err := reg.Lookup(namespace, name)
	if err != nil {
		return err
	}

	args, err := parseArgs(argsStr, nf.Signature())
	if err != nil {
		return err
	}

	fmt.Printf("Calling %s/%s%s...\n", namespace, name, formatArgs(args))
	v, err := bind.Invoke(ctx, nf, args).Unpack()
	if err != nil {
		return err
	}

	fmt.Printf("Result: %s\n", v)
	return nil
}

// parseArgs converts comma-separated text into host values guided by
// the declared signature.
func parseArgs(argsStr string, sig bind.Signature) ([]value.Value, error) {
	if argsStr == "" {
		return nil, nil
	}
	parts := strings.Split(argsStr, ",")
	args := make([]value.Value, len(parts))
	for i, p := range parts {
		var t wit.Type
		if i < len(sig.Params) {
			t = sig.Params[i]
		}
		args[i] = parseArg(strings.TrimSpace(p), t)
	}
	return args, nil
}

// parseArg converts one argument. The declared type guides parsing;
// arguments beyond the declared arity stay strings so arity errors
// surface from the marshaler, not from here.
func parseArg(text string, t wit.Type) value.Value {
	switch t.(type) {
	case wit.Bool:
		return value.Bool(text == "true" || text == "1")
	case wit.S8, wit.S16, wit.S32, wit.S64, wit.U8, wit.U16, wit.U32, wit.U64, wit.Char:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.Int(n)
		}
		return value.String(text)
	case wit.F32, wit.F64:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return value.Float(f)
		}
		return value.String(text)
	default:
		return value.String(text)
	}
}

func formatArgs(args []value.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
