package dynamic

import (
	"fmt"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
)

var (
	_ evaluator.Callable = (*MethodFunction)(nil)
	_ evaluator.Callable = (*ConstructorFunction)(nil)
)

// ReceiverProducer makes the object a constructor passes as receiver.
type ReceiverProducer func() *evaluator.DynamicObject

// NewObjectProducer returns a producer of empty objects tagged typeName.
func NewObjectProducer(typeName string) ReceiverProducer {
	return func() *evaluator.DynamicObject {
		return evaluator.NewDynamicObject(typeName)
	}
}

// ConstructorFunction composes a receiver producer with an initializer:
// calling it produces a fresh object, runs the initializer with the object
// prepended to the arguments, and returns the object.
type ConstructorFunction struct {
	typeName string
	produce  ReceiverProducer
	inner    evaluator.Callable
	sig      typesystem.TFunc
}

// NewConstructorFunction builds objects tagged typeName and initializes them
// with inner. It panics with *evaluator.ConstructionError if inner cannot
// take a receiver.
func NewConstructorFunction(typeName string, inner evaluator.Callable) *ConstructorFunction {
	return NewConstructorFunctionWithProducer(typeName, NewObjectProducer(typeName), inner)
}

func NewConstructorFunctionWithProducer(typeName string, produce ReceiverProducer, inner evaluator.Callable) *ConstructorFunction {
	requireReceiver(typeName, inner)
	return &ConstructorFunction{
		typeName: typeName,
		produce:  produce,
		inner:    inner,
		sig:      constructorSignature(inner.Signature()),
	}
}

// constructorSignature drops the receiver slot and returns the object type.
func constructorSignature(sig typesystem.TFunc) typesystem.TFunc {
	params := []typesystem.Type{}
	if len(sig.Params) > 1 || (len(sig.Params) == 1 && !sig.IsVariadic) {
		params = append(params, sig.Params[1:]...)
	} else if len(sig.Params) == 1 {
		// receiver is the variadic tail itself
		params = append(params, sig.Params[0])
	}
	return typesystem.TFunc{
		Params:     params,
		ReturnType: evaluator.DynamicObjectType,
		IsVariadic: sig.IsVariadic,
	}
}

func (c *ConstructorFunction) withReceiver(receiver evaluator.Object, args []evaluator.Object) []evaluator.Object {
	out := make([]evaluator.Object, 0, len(args)+1)
	out = append(out, receiver)
	return append(out, args...)
}

func (c *ConstructorFunction) TypeName() string { return c.typeName }

func (c *ConstructorFunction) Type() evaluator.ObjectType { return evaluator.DYNAMIC_CTOR_OBJ }
func (c *ConstructorFunction) Inspect() string {
	return fmt.Sprintf("constructor %s %s", c.typeName, c.sig)
}
func (c *ConstructorFunction) RuntimeType() typesystem.Type { return c.sig }
func (c *ConstructorFunction) Hash() uint32                 { return evaluator.HashString("new " + c.typeName) ^ c.inner.Hash() }

func (c *ConstructorFunction) Signature() typesystem.TFunc { return c.sig }

// Arity does not count the receiver. A variadic initializer stays variadic.
func (c *ConstructorFunction) Arity() int {
	arity := c.inner.Arity()
	if arity == config.VariadicArity {
		return arity
	}
	return arity - 1
}

func (c *ConstructorFunction) Annotation() string { return c.inner.Annotation() }

// Accepts checks args against the initializer using a throwaway probe object,
// so a rejected call never touches a real one.
func (c *ConstructorFunction) Accepts(args []evaluator.Object, conv *evaluator.Conversions) bool {
	probe := c.produce()
	return c.inner.Accepts(c.withReceiver(probe, args), conv)
}

// Call returns the new object; the initializer's own result is discarded.
func (c *ConstructorFunction) Call(args []evaluator.Object, conv *evaluator.Conversions) (evaluator.Object, error) {
	obj := c.produce()
	if _, err := c.inner.Call(c.withReceiver(obj, args), conv); err != nil {
		return nil, err
	}
	return obj, nil
}

// CompareFirstType checks v against the first parameter after the receiver.
func (c *ConstructorFunction) CompareFirstType(v evaluator.Object, conv *evaluator.Conversions) bool {
	param, ok := c.sig.ParamAt(0)
	if !ok {
		return false
	}
	return conv.Compatible(v, param)
}

func (c *ConstructorFunction) ContainedFunctions() []evaluator.Callable {
	return []evaluator.Callable{c.inner}
}

func (c *ConstructorFunction) Equal(other evaluator.Callable) bool {
	switch o := other.(type) {
	case *ConstructorFunction:
		return o != nil && o.typeName == c.typeName && o.inner.Equal(c.inner)
	default:
		return false
	}
}
