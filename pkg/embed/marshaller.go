package dynobj

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
)

var (
	objectInterface = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	dynamicPtr      = reflect.TypeOf((*evaluator.DynamicObject)(nil))
	errorInterface  = reflect.TypeOf((*error)(nil)).Elem()
)

// Marshaller handles conversion between Go values and objects.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to an Object.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return &evaluator.Nil{}, nil
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d out of range", u)
		}
		return &evaluator.Integer{Value: int64(u)}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Func:
		return nil, fmt.Errorf("cannot pass a Go function as a value; use Bind")
	default:
		// Pointers, structs and containers stay opaque
		return &evaluator.HostObject{Value: val}, nil
	}
}

// FromValue converts an Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}

	if targetType != nil && targetType == objectInterface {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Integer:
		if targetType != nil {
			zero := reflect.New(targetType).Elem()
			switch targetType.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				if zero.OverflowInt(o.Value) {
					return nil, fmt.Errorf("integer %d overflows %s", o.Value, targetType)
				}
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				if o.Value < 0 || zero.OverflowUint(uint64(o.Value)) {
					return nil, fmt.Errorf("integer %d overflows %s", o.Value, targetType)
				}
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			case reflect.Float32, reflect.Float64:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			}
		}
		return int(o.Value), nil // Default to int
	case *evaluator.Float:
		if targetType != nil && targetType.Kind() == reflect.Float32 {
			return float32(o.Value), nil
		}
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.HostObject:
		return o.Value, nil
	case *evaluator.DynamicObject:
		return o, nil
	case *evaluator.Nil:
		return nil, nil
	case evaluator.Callable:
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}

// WrapFunc turns a Go function into a native function. Its signature is
// inferred from the Go parameter types. Supported results are none, (T),
// (error) and (T, error).
func (m *Marshaller) WrapFunc(name string, fn interface{}) (*evaluator.NativeFunction, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: expected a function, got %T", name, fn)
	}
	ft := fv.Type()
	if err := checkResults(ft); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sig := inferSignature(ft)
	return evaluator.NewNativeFunction(name, sig, func(args []evaluator.Object) (evaluator.Object, error) {
		goArgs := make([]reflect.Value, len(args))
		for i, arg := range args {
			targetType := paramType(ft, i)
			val, err := m.FromValue(arg, targetType)
			if err != nil {
				return nil, fmt.Errorf("argument %d conversion failed: %w", i, err)
			}
			rv, err := coerce(val, targetType)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			goArgs[i] = rv
		}
		return m.results(fv.Call(goArgs))
	}), nil
}

func (m *Marshaller) results(out []reflect.Value) (evaluator.Object, error) {
	if len(out) > 0 {
		last := out[len(out)-1]
		if last.Type() == errorInterface {
			if !last.IsNil() {
				return nil, last.Interface().(error)
			}
			out = out[:len(out)-1]
		}
	}
	if len(out) == 0 {
		return &evaluator.Nil{}, nil
	}
	return m.ToValue(out[0].Interface())
}

func checkResults(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) != errorInterface {
			return fmt.Errorf("second result must be error, got %s", ft.Out(1))
		}
		return nil
	}
	return fmt.Errorf("too many results: %d", ft.NumOut())
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

// coerce makes val usable as an argument of type target.
func coerce(val interface{}, target reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch target.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass nil as %s", target)
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), target)
}

func inferSignature(ft reflect.Type) typesystem.TFunc {
	numIn := ft.NumIn()
	params := make([]typesystem.Type, numIn)
	for i := 0; i < numIn; i++ {
		params[i] = inferType(paramType(ft, i))
	}

	var retType typesystem.Type = evaluator.NilType
	if ft.NumOut() > 0 && ft.Out(0) != errorInterface {
		retType = inferType(ft.Out(0))
	}

	return typesystem.TFunc{
		Params:     params,
		ReturnType: retType,
		IsVariadic: ft.IsVariadic(),
	}
}

// inferType generates a type descriptor from a Go type.
// Interfaces accept anything.
func inferType(t reflect.Type) typesystem.Type {
	if t == nil {
		return evaluator.NilType
	}
	if t == dynamicPtr {
		return evaluator.DynamicObjectType
	}

	switch t.Kind() {
	case reflect.Interface:
		return typesystem.Any
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return evaluator.IntType
	case reflect.Float32, reflect.Float64:
		return evaluator.FloatType
	case reflect.Bool:
		return evaluator.BoolType
	case reflect.String:
		return evaluator.StringType
	}

	return evaluator.HostType(t)
}
