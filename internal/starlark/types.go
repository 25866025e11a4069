// Package starlark exposes registered functions and dynamic objects to
// Starlark scripts.
package starlark

import (
	"fmt"
	"sort"

	"github.com/funvibe/dynobj/internal/evaluator"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// RecordValue is a dynamic object seen from Starlark. Attribute reads and
// writes go straight to the underlying object, so changes made by a script
// are visible to Go and the other way round.
type RecordValue struct {
	obj *evaluator.DynamicObject
}

var (
	_ starlark.HasAttrs    = (*RecordValue)(nil)
	_ starlark.HasSetField = (*RecordValue)(nil)
	_ starlark.Comparable  = (*RecordValue)(nil)
)

func NewRecordValue(obj *evaluator.DynamicObject) *RecordValue {
	return &RecordValue{obj: obj}
}

func (r *RecordValue) Object() *evaluator.DynamicObject { return r.obj }

func (r *RecordValue) String() string { return r.obj.Inspect() }

// Type reports the record's tag, so type(p) == "Point" in scripts.
func (r *RecordValue) Type() string { return r.obj.TypeName() }

// Freeze is a no-op: records are shared with Go and stay mutable.
func (r *RecordValue) Freeze() {}

func (r *RecordValue) Truth() starlark.Bool { return starlark.True }

func (r *RecordValue) Hash() (uint32, error) { return r.obj.Hash(), nil }

// CompareSameType compares by identity of the underlying object, so two
// values wrapping the same record are equal. Records are not ordered.
func (r *RecordValue) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	// a tag may collide with a builtin type name
	other, ok := y.(*RecordValue)
	same := ok && r.obj == other.obj
	switch op {
	case syntax.EQL:
		return same, nil
	case syntax.NEQ:
		return !same, nil
	}
	return false, fmt.Errorf("%s %s %s not implemented", r.Type(), op, y.Type())
}

// Attr returns (nil, nil) for a missing attribute, which Starlark reports as
// "no such field". Reading from a script never creates attributes.
func (r *RecordValue) Attr(name string) (starlark.Value, error) {
	v, ok := r.obj.TryAttr(name)
	if !ok {
		return nil, nil
	}
	return FromObject(v)
}

func (r *RecordValue) AttrNames() []string {
	attrs := r.obj.Attrs()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *RecordValue) SetField(name string, val starlark.Value) error {
	obj, err := ToObject(val)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", r.obj.TypeName(), name, err)
	}
	r.obj.SetAttr(name, obj)
	return nil
}

// opaqueValue carries an object with no Starlark counterpart, such as a host
// value or a function, through a script unchanged.
type opaqueValue struct {
	obj evaluator.Object
}

func (o opaqueValue) String() string        { return o.obj.Inspect() }
func (o opaqueValue) Type() string          { return o.obj.RuntimeType().String() }
func (o opaqueValue) Freeze()               {}
func (o opaqueValue) Truth() starlark.Bool  { return starlark.True }
func (o opaqueValue) Hash() (uint32, error) { return o.obj.Hash(), nil }

// FromObject converts an object to a Starlark value.
func FromObject(obj evaluator.Object) (starlark.Value, error) {
	switch v := obj.(type) {
	case nil, *evaluator.Nil:
		return starlark.None, nil
	case *evaluator.Integer:
		return starlark.MakeInt64(v.Value), nil
	case *evaluator.Float:
		return starlark.Float(v.Value), nil
	case *evaluator.Boolean:
		return starlark.Bool(v.Value), nil
	case *evaluator.String:
		return starlark.String(v.Value), nil
	case *evaluator.DynamicObject:
		if v == nil {
			return starlark.None, nil
		}
		return NewRecordValue(v), nil
	default:
		return opaqueValue{obj: obj}, nil
	}
}

// ToObject converts a Starlark value back to an object.
// Only scalars, records and values that came from FromObject are supported.
func ToObject(v starlark.Value) (evaluator.Object, error) {
	switch val := v.(type) {
	case nil, starlark.NoneType:
		return &evaluator.Nil{}, nil
	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", val.String())
		}
		return &evaluator.Integer{Value: i64}, nil
	case starlark.Float:
		return &evaluator.Float{Value: float64(val)}, nil
	case starlark.Bool:
		return &evaluator.Boolean{Value: bool(val)}, nil
	case starlark.String:
		return &evaluator.String{Value: string(val)}, nil
	case *RecordValue:
		return val.obj, nil
	case opaqueValue:
		return val.obj, nil
	default:
		return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
	}
}
