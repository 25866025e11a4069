package evaluator

import (
	"fmt"
	"reflect"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/typesystem"
)

// HostObject wraps a Go value that has no native representation.
// Its runtime type is derived from the Go type, so a guard can select
// methods for it by descriptor.
type HostObject struct {
	Value interface{}
}

func (h *HostObject) Type() ObjectType { return HOST_OBJ }

func (h *HostObject) Inspect() string {
	return fmt.Sprintf("<HostObject: %T %+v>", h.Value, h.Value)
}

func (h *HostObject) RuntimeType() typesystem.Type {
	if h == nil || h.Value == nil {
		return typesystem.TCon{Name: config.HostTypeName}
	}
	return HostType(reflect.TypeOf(h.Value))
}

func (h *HostObject) Hash() uint32 {
	// Best effort hash
	if h.Value == nil {
		return 0
	}
	val := reflect.ValueOf(h.Value)
	switch val.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
		return uint32(val.Pointer())
	default:
		return HashString(fmt.Sprintf("%v", h.Value))
	}
}

// HostType maps a Go type to its descriptor.
// Named types keep their package path; pointers to named types are
// prefixed with "*".
func HostType(t reflect.Type) typesystem.Type {
	if t == nil {
		return typesystem.TCon{Name: config.HostTypeName}
	}
	if t.Name() != "" {
		return typesystem.TCon{Name: t.Name(), Module: t.PkgPath()}
	}
	if t.Kind() == reflect.Ptr && t.Elem().Name() != "" {
		return typesystem.TCon{Name: "*" + t.Elem().Name(), Module: t.Elem().PkgPath()}
	}
	return typesystem.TCon{Name: t.String()}
}
