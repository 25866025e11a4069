package evaluator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/typesystem"
	"github.com/google/uuid"
)

// DynamicObjectType is the runtime type shared by all dynamic objects,
// whatever their tag.
var DynamicObjectType typesystem.Type = typesystem.TCon{Name: config.DynamicObjectTypeName}

// DynamicObject is a runtime-defined object: a type tag and an open set of
// attributes. It is a reference value; every holder sees the same attributes.
// It is not safe for concurrent mutation.
type DynamicObject struct {
	id       uuid.UUID
	typeName string
	attrs    map[string]Object
}

// NewDynamicObject creates an empty object tagged typeName.
// The tag is not validated.
func NewDynamicObject(typeName string) *DynamicObject {
	return &DynamicObject{
		id:       uuid.New(),
		typeName: typeName,
		attrs:    make(map[string]Object),
	}
}

// AsDynamicObject views obj as a dynamic object. It reports false instead of
// panicking when obj is something else.
func AsDynamicObject(obj Object) (*DynamicObject, bool) {
	d, ok := obj.(*DynamicObject)
	if !ok || d == nil {
		return nil, false
	}
	return d, true
}

func (d *DynamicObject) ID() uuid.UUID { return d.id }

func (d *DynamicObject) TypeName() string { return d.typeName }

// Attr returns the attribute called name. A missing attribute is created
// as Nil first, so reading never fails. Use TryAttr to test membership.
func (d *DynamicObject) Attr(name string) Object {
	if v, ok := d.attrs[name]; ok {
		return v
	}
	v := &Nil{}
	d.attrs[name] = v
	return v
}

// TryAttr looks name up without inserting it.
func (d *DynamicObject) TryAttr(name string) (Object, bool) {
	v, ok := d.attrs[name]
	return v, ok
}

func (d *DynamicObject) SetAttr(name string, value Object) {
	if value == nil {
		value = &Nil{}
	}
	d.attrs[name] = value
}

// Attrs returns a copy of the attribute set.
func (d *DynamicObject) Attrs() map[string]Object {
	out := make(map[string]Object, len(d.attrs))
	for k, v := range d.attrs {
		out[k] = v
	}
	return out
}

func (d *DynamicObject) Type() ObjectType             { return DYNAMIC_OBJECT_OBJ }
func (d *DynamicObject) RuntimeType() typesystem.Type { return DynamicObjectType }
func (d *DynamicObject) Hash() uint32                 { return HashString(d.id.String()) }

func (d *DynamicObject) Inspect() string {
	return d.inspect(map[*DynamicObject]bool{})
}

func (d *DynamicObject) inspect(seen map[*DynamicObject]bool) string {
	if seen[d] {
		return d.typeName + "{...}"
	}
	seen[d] = true
	defer delete(seen, d)

	keys := make([]string, 0, len(d.attrs))
	for k := range d.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := d.attrs[k]
		s := v.Inspect()
		if nested, ok := AsDynamicObject(v); ok {
			s = nested.inspect(seen)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", k, s))
	}
	return fmt.Sprintf("%s{%s}", d.typeName, strings.Join(parts, ", "))
}
