package evaluator

import (
	"hash/fnv"

	"github.com/funvibe/dynobj/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ        = "INTEGER"
	FLOAT_OBJ          = "FLOAT"
	BOOLEAN_OBJ        = "BOOLEAN"
	STRING_OBJ         = "STRING"
	NIL_OBJ            = "NIL"
	HOST_OBJ           = "HOST"
	DYNAMIC_OBJECT_OBJ = "DYNAMIC_OBJECT"
	BUILTIN_OBJ        = "BUILTIN"
	GUARDED_METHOD_OBJ = "GUARDED_METHOD"
	DYNAMIC_CTOR_OBJ   = "DYNAMIC_CONSTRUCTOR"
)

// Object is the opaque value passed through dispatch.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type // Returns the type system representation
	Hash() uint32
}

// HashString is the fnv-1a hash used by Object.Hash implementations.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
