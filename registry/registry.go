// Package registry provides the explicit binding registry handed to the
// host integration layer: named namespaces of marshaled native functions.
// There is no process-wide registration state; build a Registry at
// startup and pass it where it is needed.
package registry

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/bind"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

type Registry struct {
	funcs  map[string]map[string]bind.NativeFunc
	logger *zap.Logger
	mu     sync.RWMutex
}

func New() *Registry {
	return &Registry{
		funcs:  make(map[string]map[string]bind.NativeFunc),
		logger: zap.NewNop(),
	}
}

// SetLogger replaces the registry's logger. Nil restores the no-op logger.
func (r *Registry) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// Register binds an already-wrapped native function under namespace/name.
// Rebinding an occupied slot is a registration error.
func (r *Registry) Register(namespace, name string, nf bind.NativeFunc) error {
	if namespace == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "namespace cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "function name cannot be empty")
	}
	if nf == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "native function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs[namespace] == nil {
		r.funcs[namespace] = make(map[string]bind.NativeFunc)
	}
	if _, exists := r.funcs[namespace][name]; exists {
		return errors.Registration(namespace, name,
			errors.InvalidInput(errors.PhaseRegistry, "name already bound"))
	}

	r.funcs[namespace][name] = nf
	r.logger.Debug("bound native function",
		zap.String("namespace", namespace),
		zap.String("name", name),
		zap.String("signature", nf.Signature().String()))
	return nil
}

// RegisterFunc wraps a plain Go function via bind.Func and registers it.
func (r *Registry) RegisterFunc(namespace, name string, fn any) error {
	nf, err := bind.Func(fn)
	if err != nil {
		return errors.Registration(namespace, name, err)
	}
	return r.Register(namespace, name, nf)
}

// Lookup returns the bound function for namespace/name.
func (r *Registry) Lookup(namespace, name string) (bind.NativeFunc, error) {
	nf, err := r.lookup(namespace, name)
	if err != nil {
		return nil, err
	}
	return nf, nil
}

func (r *Registry) lookup(namespace, name string) (bind.NativeFunc, *errors.Error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ns, ok := r.funcs[namespace]
	if !ok {
		return nil, errors.NotFound("namespace", namespace)
	}
	nf, ok := ns[name]
	if !ok {
		return nil, errors.NotFound("function", namespace+"#"+name)
	}
	return nf, nil
}

// Invoke looks up namespace/name and marshals the call through bind.Invoke.
func (r *Registry) Invoke(ctx context.Context, namespace, name string, args []value.Value) bind.Result {
	nf, err := r.lookup(namespace, name)
	if err != nil {
		return bind.Fail(err)
	}
	return bind.Invoke(ctx, nf, args)
}

// Binding describes one registered function, for tooling and listings.
type Binding struct {
	Namespace string
	Name      string
	Signature bind.Signature
}

// Functions returns all bindings sorted by namespace then name.
func (r *Registry) Functions() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Binding
	for ns, funcs := range r.funcs {
		for name, nf := range funcs {
			out = append(out, Binding{Namespace: ns, Name: name, Signature: nf.Signature()})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}
