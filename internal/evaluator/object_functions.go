package evaluator

import (
	"fmt"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/typesystem"
)

// Callable is a function value that takes part in overload resolution.
type Callable interface {
	Object

	// Signature is the declared parameter and return types.
	Signature() typesystem.TFunc
	// Arity is the number of parameters, or config.VariadicArity.
	Arity() int
	Annotation() string

	// Accepts reports whether args fit the function, including arity,
	// per-position types and declared conversions. It never errors.
	Accepts(args []Object, conv *Conversions) bool
	Call(args []Object, conv *Conversions) (Object, error)
	// CompareFirstType is a cheap pre-check on the first argument only.
	CompareFirstType(v Object, conv *Conversions) bool

	// ContainedFunctions lists the callables a wrapper delegates to.
	ContainedFunctions() []Callable
	Equal(other Callable) bool
}

// NativeFn is the body of a native function. Arguments have already been
// checked and converted to the declared parameter types.
type NativeFn func(args []Object) (Object, error)

// NativeFunction is a statically typed host function.
type NativeFunction struct {
	Name string
	Sig  typesystem.TFunc
	Doc  string
	Fn   NativeFn
}

func NewNativeFunction(name string, sig typesystem.TFunc, fn NativeFn) *NativeFunction {
	return &NativeFunction{Name: name, Sig: sig, Fn: fn}
}

func (f *NativeFunction) Type() ObjectType             { return BUILTIN_OBJ }
func (f *NativeFunction) Inspect() string              { return "builtin " + f.Name + " " + f.Sig.String() }
func (f *NativeFunction) RuntimeType() typesystem.Type { return f.Sig }
func (f *NativeFunction) Hash() uint32                 { return HashString(f.Name) }

func (f *NativeFunction) Signature() typesystem.TFunc { return f.Sig }

func (f *NativeFunction) Arity() int {
	if f.Sig.IsVariadic {
		return config.VariadicArity
	}
	return len(f.Sig.Params)
}

func (f *NativeFunction) Annotation() string { return f.Doc }

func (f *NativeFunction) Accepts(args []Object, conv *Conversions) bool {
	if len(args) < f.Sig.FixedParams() {
		return false
	}
	if !f.Sig.IsVariadic && len(args) != len(f.Sig.Params) {
		return false
	}
	for i, arg := range args {
		param, ok := f.Sig.ParamAt(i)
		if !ok || !conv.Compatible(arg, param) {
			return false
		}
	}
	return true
}

func (f *NativeFunction) Call(args []Object, conv *Conversions) (Object, error) {
	if !f.Accepts(args, conv) {
		return nil, NewArgumentError(f.Name, f.Sig.String(), args)
	}
	converted := make([]Object, len(args))
	for i, arg := range args {
		param, _ := f.Sig.ParamAt(i)
		v, err := conv.Convert(arg, param)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", f.Name, i, err)
		}
		converted[i] = v
	}
	result, err := f.Fn(converted)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &Nil{}, nil
	}
	return result, nil
}

func (f *NativeFunction) CompareFirstType(v Object, conv *Conversions) bool {
	param, ok := f.Sig.ParamAt(0)
	if !ok {
		return false
	}
	return conv.Compatible(v, param)
}

func (f *NativeFunction) ContainedFunctions() []Callable { return nil }

// Equal treats two native functions with the same name and signature as the
// same function; registering both would make dispatch ambiguous.
func (f *NativeFunction) Equal(other Callable) bool {
	o, ok := other.(*NativeFunction)
	if !ok || o == nil {
		return false
	}
	return o == f || (o.Name == f.Name && typesystem.Equal(o.Sig, f.Sig))
}
