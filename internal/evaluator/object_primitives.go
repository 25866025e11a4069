package evaluator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/typesystem"
)

var (
	IntType    typesystem.Type = typesystem.TCon{Name: config.IntTypeName}
	FloatType  typesystem.Type = typesystem.TCon{Name: config.FloatTypeName}
	BoolType   typesystem.Type = typesystem.TCon{Name: config.BoolTypeName}
	StringType typesystem.Type = typesystem.TCon{Name: config.StringTypeName}
	NilType    typesystem.Type = typesystem.TCon{Name: config.NilTypeName}
)

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return BoolType }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType             { return INTEGER_OBJ }
func (i *Integer) Inspect() string              { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() typesystem.Type { return IntType }
func (i *Integer) Hash() uint32 {
	return uint32(i.Value ^ (i.Value >> 32))
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType             { return FLOAT_OBJ }
func (f *Float) Inspect() string              { return fmt.Sprintf("%g", f.Value) }
func (f *Float) RuntimeType() typesystem.Type { return FloatType }
func (f *Float) Hash() uint32 {
	bits := math.Float64bits(f.Value)
	return uint32(bits ^ (bits >> 32))
}

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return strconv.Quote(s.Value) }
func (s *String) RuntimeType() typesystem.Type { return StringType }
func (s *String) Hash() uint32                 { return HashString(s.Value) }

// Nil is the default value of an attribute that was read before being set.
type Nil struct{}

func (n *Nil) Type() ObjectType             { return NIL_OBJ }
func (n *Nil) Inspect() string              { return "Nil" }
func (n *Nil) RuntimeType() typesystem.Type { return NilType }
func (n *Nil) Hash() uint32                 { return 0 }
