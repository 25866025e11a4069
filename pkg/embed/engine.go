// Package dynobj embeds dynamic objects and guarded dispatch in Go programs.
//
// Go functions are bound by name, either as plain overloads or as methods
// and constructors of a dynamic type. Calls resolve against every overload
// registered under a name, from Go through Engine.Call or from Starlark
// scripts through Engine.Script.
package dynobj

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/dispatch"
	"github.com/funvibe/dynobj/internal/dynamic"
	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/starlark"
)

// Engine owns a function registry and the values visible to scripts.
type Engine struct {
	registry   *dispatch.Registry
	marshaller *Marshaller
	executor   *starlark.Executor
	logger     *slog.Logger

	mu   sync.RWMutex
	vars map[string]evaluator.Object
}

type settings struct {
	logger      *slog.Logger
	options     *config.Options
	conversions *evaluator.Conversions
}

// Option customizes New.
type Option func(*settings)

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

func WithOptions(opts *config.Options) Option {
	return func(s *settings) { s.options = opts }
}

// WithConversions replaces the default Int to Float conversion table.
func WithConversions(conv *evaluator.Conversions) Option {
	return func(s *settings) { s.conversions = conv }
}

// New creates an engine with an empty registry.
func New(opts ...Option) *Engine {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	registry := dispatch.NewRegistry(dispatch.Config{
		Conversions: s.conversions,
		Options:     s.options,
		Logger:      s.logger,
	})
	return &Engine{
		registry:   registry,
		marshaller: NewMarshaller(),
		executor:   starlark.NewExecutor(registry, s.logger),
		logger:     s.logger,
		vars:       make(map[string]evaluator.Object),
	}
}

// NewFromConfig loads options from a YAML file (optional, may be "") and
// DYNOBJ_ environment variables, and logs to stderr accordingly.
func NewFromConfig(path string) (*Engine, error) {
	opts, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := opts.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return New(WithOptions(opts), WithLogger(logger)), nil
}

func (e *Engine) Registry() *dispatch.Registry { return e.registry }

// NewObject creates an empty dynamic object tagged typeName.
func (e *Engine) NewObject(typeName string) *evaluator.DynamicObject {
	return evaluator.NewDynamicObject(typeName)
}

// Bind registers fn as an overload of name. fn is either a Go function or
// an evaluator.Callable.
func (e *Engine) Bind(name string, fn interface{}) error {
	callable, err := e.callable(name, fn)
	if err != nil {
		return err
	}
	return e.registry.Register(name, callable)
}

// DefineMethod registers fn as an overload of name that only fires for
// dynamic objects tagged typeName. The first parameter of fn receives the
// object; *evaluator.DynamicObject or an interface type both work.
func (e *Engine) DefineMethod(name, typeName string, fn interface{}) (err error) {
	callable, err := e.callable(name, fn)
	if err != nil {
		return err
	}
	defer recoverConstruction(&err)
	return e.registry.Register(name, dynamic.NewMethodFunction(typeName, callable))
}

// DefineTypedMethod is DefineMethod for receivers that may also be Go
// values: objects are matched by typeName, anything else must convert to
// the same type as sample (an int sample matches Int, a *User sample matches
// *User host values). The receiver parameter of fn must be an interface type.
func (e *Engine) DefineTypedMethod(name, typeName string, sample interface{}, fn interface{}) (err error) {
	callable, err := e.callable(name, fn)
	if err != nil {
		return err
	}
	defer recoverConstruction(&err)
	typ := inferType(reflect.TypeOf(sample))
	return e.registry.Register(name, dynamic.NewTypedMethodFunction(typeName, callable, typ))
}

// DefineConstructor registers an initializer under typeName. Calling
// typeName creates a fresh object, passes it to fn together with the call
// arguments, and returns it.
func (e *Engine) DefineConstructor(typeName string, fn interface{}) (err error) {
	callable, err := e.callable(typeName, fn)
	if err != nil {
		return err
	}
	defer recoverConstruction(&err)
	return e.registry.Register(typeName, dynamic.NewConstructorFunction(typeName, callable))
}

func (e *Engine) callable(name string, fn interface{}) (evaluator.Callable, error) {
	if c, ok := fn.(evaluator.Callable); ok {
		return c, nil
	}
	return e.marshaller.WrapFunc(name, fn)
}

// recoverConstruction turns a rejected wrapper into an error at the
// embedding boundary.
func recoverConstruction(err *error) {
	if r := recover(); r != nil {
		ce, ok := r.(*evaluator.ConstructionError)
		if !ok {
			panic(r)
		}
		*err = ce
	}
}

// Call resolves name against args and converts the result back to Go.
// Dynamic objects are returned as *evaluator.DynamicObject.
func (e *Engine) Call(name string, args ...interface{}) (interface{}, error) {
	objs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := e.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		objs[i] = obj
	}

	result, err := e.registry.Call(name, objs)
	if err != nil {
		return nil, err
	}
	return e.marshaller.FromValue(result, nil)
}

// Set makes val visible to scripts as a global.
func (e *Engine) Set(name string, val interface{}) error {
	obj, err := e.marshaller.ToValue(val)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.vars[name] = obj
	e.mu.Unlock()
	return nil
}

// Get retrieves a global set from Go or defined by a script.
func (e *Engine) Get(name string) (interface{}, error) {
	e.mu.RLock()
	obj, ok := e.vars[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return e.marshaller.FromValue(obj, nil)
}

// Vars lists the names of all globals in sorted order.
func (e *Engine) Vars() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script runs Starlark source. Every registered name is callable from the
// script. Globals the script defines become available through Get, except
// those with no object counterpart such as script functions.
func (e *Engine) Script(filename string, src interface{}) error {
	e.mu.RLock()
	vars := make(map[string]evaluator.Object, len(e.vars))
	for k, v := range e.vars {
		vars[k] = v
	}
	e.mu.RUnlock()

	globals, err := e.executor.Exec(filename, src, vars)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for name, v := range globals {
		obj, err := starlark.ToObject(v)
		if err != nil {
			e.logger.Debug("script global skipped", "script", filename, "name", name, "error", err)
			continue
		}
		e.vars[name] = obj
	}
	return nil
}

// LoadFile reads and runs a Starlark file.
func (e *Engine) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Script(path, content)
}
