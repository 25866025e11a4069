package evaluator

import (
	"fmt"
	"sync"

	"github.com/funvibe/dynobj/internal/typesystem"
)

// Converter turns a value of one runtime type into another.
type Converter func(Object) (Object, error)

type conversion struct {
	from, to typesystem.Type
	fn       Converter
}

// Conversions is the set of implicit argument conversions consulted when a
// native function checks its arguments. A nil *Conversions allows none.
type Conversions struct {
	mu    sync.RWMutex
	rules []conversion
}

func NewConversions() *Conversions {
	return &Conversions{}
}

// DefaultConversions allows Int where Float is expected.
func DefaultConversions() *Conversions {
	c := NewConversions()
	c.Add(IntType, FloatType, func(obj Object) (Object, error) {
		i, ok := obj.(*Integer)
		if !ok {
			return nil, fmt.Errorf("expected Int, got %s", obj.RuntimeType())
		}
		return &Float{Value: float64(i.Value)}, nil
	})
	return c
}

// Add registers a conversion, replacing an existing one for the same pair.
func (c *Conversions) Add(from, to typesystem.Type, fn Converter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rules {
		if typesystem.Equal(r.from, from) && typesystem.Equal(r.to, to) {
			c.rules[i].fn = fn
			return
		}
	}
	c.rules = append(c.rules, conversion{from: from, to: to, fn: fn})
}

func (c *Conversions) lookup(from, to typesystem.Type) (Converter, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rules {
		if typesystem.Equal(r.from, from) && typesystem.Equal(r.to, to) {
			return r.fn, true
		}
	}
	return nil, false
}

// Convertible reports whether a conversion from -> to is declared.
func (c *Conversions) Convertible(from, to typesystem.Type) bool {
	_, ok := c.lookup(from, to)
	return ok
}

// Compatible reports whether obj can be passed where to is expected:
// wildcard, exact descriptor match, or a declared conversion.
func (c *Conversions) Compatible(obj Object, to typesystem.Type) bool {
	if typesystem.IsAny(to) {
		return true
	}
	if obj == nil {
		return false
	}
	from := obj.RuntimeType()
	return typesystem.Equal(from, to) || c.Convertible(from, to)
}

// Convert returns obj as a value of type to. Values that already match are
// returned unchanged.
func (c *Conversions) Convert(obj Object, to typesystem.Type) (Object, error) {
	if typesystem.IsAny(to) || typesystem.Equal(obj.RuntimeType(), to) {
		return obj, nil
	}
	fn, ok := c.lookup(obj.RuntimeType(), to)
	if !ok {
		return nil, fmt.Errorf("no conversion from %s to %s", obj.RuntimeType(), to)
	}
	return fn(obj)
}
