package starlark

import (
	"fmt"
	"log/slog"

	"github.com/funvibe/dynobj/internal/dispatch"
	"github.com/funvibe/dynobj/internal/evaluator"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Executor runs Starlark scripts against a registry. Every registered name
// becomes a predeclared builtin that dispatches through the registry.
type Executor struct {
	registry *dispatch.Registry
	logger   *slog.Logger
}

// NewExecutor creates an executor. logger may be nil.
func NewExecutor(registry *dispatch.Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{registry: registry, logger: logger}
}

// Globals builds the predeclared environment from the names registered at
// the time of the call.
func (e *Executor) Globals() starlark.StringDict {
	names := e.registry.Names()
	globals := make(starlark.StringDict, len(names))
	for _, name := range names {
		globals[name] = starlark.NewBuiltin(name, e.call)
	}
	return globals
}

func (e *Executor) call(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: keyword arguments are not supported", b.Name())
	}
	objs := make([]evaluator.Object, len(args))
	for i, a := range args {
		obj, err := ToObject(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", b.Name(), i, err)
		}
		objs[i] = obj
	}
	result, err := e.registry.Call(b.Name(), objs)
	if err != nil {
		return nil, err
	}
	return FromObject(result)
}

// Exec runs src and returns the globals it defined. vars are predeclared
// alongside the registered functions and shadow them on a name clash.
func (e *Executor) Exec(filename string, src interface{}, vars map[string]evaluator.Object) (starlark.StringDict, error) {
	predeclared := e.Globals()
	for name, obj := range vars {
		v, err := FromObject(obj)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		predeclared[name] = v
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			e.logger.Info(msg, "script", filename)
		},
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, predeclared)
	if err != nil {
		e.logger.Debug("script failed", "script", filename, "error", err)
		return nil, err
	}
	return globals, nil
}
