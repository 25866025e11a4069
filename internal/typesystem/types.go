package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all runtime type descriptors.
type Type interface {
	String() string
	// Equal reports structural equality. It never applies conversions.
	Equal(other Type) bool
}

// TVar represents a type variable (e.g. 'a', 'self').
// A parameter declared with a TVar accepts a value of any type.
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Equal(other Type) bool {
	o, ok := other.(TVar)
	return ok && o.Name == t.Name
}

// TCon represents a type constant/constructor (e.g. Int, Bool, Dynamic_Object).
type TCon struct {
	Name   string
	Module string // Optional package path for host types
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Equal(other Type) bool {
	o, ok := other.(TCon)
	return ok && o.Name == t.Name && o.Module == t.Module
}

// TApp represents a type application (e.g. List Int).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := []string{}
	for _, arg := range t.Args {
		args = append(args, arg.String())
	}
	if len(args) == 0 {
		return t.Constructor.String()
	}
	return fmt.Sprintf("(%s %s)", t.Constructor.String(), strings.Join(args, " "))
}

func (t TApp) Equal(other Type) bool {
	o, ok := other.(TApp)
	if !ok || len(o.Args) != len(t.Args) {
		return false
	}
	if !Equal(t.Constructor, o.Constructor) {
		return false
	}
	for i := range t.Args {
		if !Equal(t.Args[i], o.Args[i]) {
			return false
		}
	}
	return true
}

// TFunc represents a function signature.
// When IsVariadic is set the last parameter repeats zero or more times;
// a variadic signature without parameters accepts any argument list.
type TFunc struct {
	Params     []Type
	ReturnType Type
	IsVariadic bool
}

func (t TFunc) String() string {
	params := []string{}
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	if t.IsVariadic {
		if len(params) > 0 {
			params[len(params)-1] = "..." + params[len(params)-1]
		} else {
			params = append(params, "...")
		}
	}
	ret := "Nil"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), ret)
}

func (t TFunc) Equal(other Type) bool {
	o, ok := other.(TFunc)
	if !ok || o.IsVariadic != t.IsVariadic || len(o.Params) != len(t.Params) {
		return false
	}
	for i := range t.Params {
		if !Equal(t.Params[i], o.Params[i]) {
			return false
		}
	}
	return Equal(t.ReturnType, o.ReturnType)
}

// FixedParams is the number of parameters that must always be supplied.
func (t TFunc) FixedParams() int {
	if t.IsVariadic && len(t.Params) > 0 {
		return len(t.Params) - 1
	}
	return len(t.Params)
}

// ParamAt returns the declared type of argument position i, following the
// variadic tail. ok is false when the signature has no slot for i.
func (t TFunc) ParamAt(i int) (Type, bool) {
	if i < 0 {
		return nil, false
	}
	if i < t.FixedParams() {
		return t.Params[i], true
	}
	if !t.IsVariadic {
		return nil, false
	}
	if len(t.Params) == 0 {
		return Any, true
	}
	return t.Params[len(t.Params)-1], true
}

// Any is the wildcard parameter type.
var Any Type = TVar{Name: "a"}

// Equal compares two descriptors, treating two nils as equal.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// IsAny reports whether t is a wildcard (type variable or absent).
func IsAny(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(TVar)
	return ok
}
