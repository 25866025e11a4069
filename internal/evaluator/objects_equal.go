package evaluator

import (
	"reflect"
)

// ObjectsEqual compares two values. Primitives compare by value, dynamic
// objects and functions by identity, host objects by their Go value.
func ObjectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if a.Type() != b.Type() {
		return false
	}

	switch aVal := a.(type) {
	case *Integer:
		if bVal, ok := b.(*Integer); ok {
			return aVal.Value == bVal.Value
		}
	case *Float:
		if bVal, ok := b.(*Float); ok {
			return aVal.Value == bVal.Value
		}
	case *Boolean:
		if bVal, ok := b.(*Boolean); ok {
			return aVal.Value == bVal.Value
		}
	case *String:
		if bVal, ok := b.(*String); ok {
			return aVal.Value == bVal.Value
		}
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *HostObject:
		if bVal, ok := b.(*HostObject); ok {
			return reflect.DeepEqual(aVal.Value, bVal.Value)
		}
	case Callable:
		if bVal, ok := b.(Callable); ok {
			return aVal.Equal(bVal)
		}
	}
	return false
}
