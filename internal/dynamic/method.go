package dynamic

import (
	"fmt"

	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
)

// MethodFunction restricts a callable to receivers accepted by its guard.
// The inner callable is shared: several wrappers, one per type name, may
// hold the same function.
type MethodFunction struct {
	guard Guard
	inner evaluator.Callable
	sig   typesystem.TFunc
}

// NewMethodFunction guards inner by dynamic type name.
// It panics with *evaluator.ConstructionError if inner cannot take a receiver.
func NewMethodFunction(typeName string, inner evaluator.Callable) *MethodFunction {
	requireReceiver(typeName, inner)
	return &MethodFunction{
		guard: NewGuard(typeName, nil),
		inner: inner,
		sig:   inner.Signature(),
	}
}

// NewTypedMethodFunction guards inner by typeName for dynamic objects and by
// typ for every other receiver. The receiver slot of the signature becomes
// typ, so inner must declare that slot as a wildcard.
func NewTypedMethodFunction(typeName string, inner evaluator.Callable, typ typesystem.Type) *MethodFunction {
	requireReceiver(typeName, inner)
	return &MethodFunction{
		guard: NewGuard(typeName, typ),
		inner: inner,
		sig:   receiverSignature(typeName, inner, typ),
	}
}

func receiverSignature(typeName string, inner evaluator.Callable, typ typesystem.Type) typesystem.TFunc {
	sig := inner.Signature()
	if len(sig.Params) < 1 {
		panic(evaluator.NewConstructionError(typeName, inner.Inspect(), "no receiver parameter to retype"))
	}
	if !typesystem.IsAny(sig.Params[0]) {
		panic(evaluator.NewConstructionError(typeName, inner.Inspect(),
			fmt.Sprintf("receiver parameter is %s, want a type variable", sig.Params[0])))
	}
	params := make([]typesystem.Type, len(sig.Params))
	copy(params, sig.Params)
	params[0] = typ
	return typesystem.TFunc{Params: params, ReturnType: sig.ReturnType, IsVariadic: sig.IsVariadic}
}

func requireReceiver(typeName string, inner evaluator.Callable) {
	if inner == nil {
		panic(evaluator.NewConstructionError(typeName, "<nil>", "no function"))
	}
	if inner.Arity() == 0 {
		panic(evaluator.NewConstructionError(typeName, inner.Inspect(), "function must take at least one parameter (the receiver)"))
	}
}

func (m *MethodFunction) TypeName() string { return m.guard.TypeName }
func (m *MethodFunction) Guard() Guard     { return m.guard }

func (m *MethodFunction) Type() evaluator.ObjectType { return evaluator.GUARDED_METHOD_OBJ }
func (m *MethodFunction) Inspect() string {
	return fmt.Sprintf("method %s %s", m.guard.TypeName, m.sig)
}
func (m *MethodFunction) RuntimeType() typesystem.Type { return m.sig }
func (m *MethodFunction) Hash() uint32                 { return evaluator.HashString(m.guard.TypeName) ^ m.inner.Hash() }

func (m *MethodFunction) Signature() typesystem.TFunc { return m.sig }

// Arity counts the receiver.
func (m *MethodFunction) Arity() int         { return m.inner.Arity() }
func (m *MethodFunction) Annotation() string { return m.inner.Annotation() }

func (m *MethodFunction) Accepts(args []evaluator.Object, conv *evaluator.Conversions) bool {
	if !m.guard.MatchesArgs(args) {
		return false
	}
	return m.inner.Accepts(args, conv)
}

// Call re-checks the guard, so a caller that skipped Accepts gets a
// *evaluator.GuardError rather than a call with the wrong receiver.
func (m *MethodFunction) Call(args []evaluator.Object, conv *evaluator.Conversions) (evaluator.Object, error) {
	if !m.guard.MatchesArgs(args) {
		return nil, evaluator.NewGuardError(m.guard.TypeName, args)
	}
	return m.inner.Call(args, conv)
}

func (m *MethodFunction) CompareFirstType(v evaluator.Object, _ *evaluator.Conversions) bool {
	return m.guard.Matches(v)
}

func (m *MethodFunction) ContainedFunctions() []evaluator.Callable {
	return []evaluator.Callable{m.inner}
}

func (m *MethodFunction) Equal(other evaluator.Callable) bool {
	switch o := other.(type) {
	case *MethodFunction:
		return o != nil && o.guard.TypeName == m.guard.TypeName && o.inner.Equal(m.inner)
	default:
		return false
	}
}
