package config

// DynamicObjectTypeName is the runtime type of every dynamic object.
// As a guard type name it matches an object of any tag.
const DynamicObjectTypeName = "Dynamic_Object"

// VariadicArity is reported by callables that take any number of arguments.
const VariadicArity = -1

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DYNOBJ_"

// Built-in type names
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	BoolTypeName   = "Bool"
	StringTypeName = "String"
	NilTypeName    = "Nil"
	HostTypeName   = "HostObject"
)

// Duplicate registration policies
const (
	OnDuplicateError  = "error"
	OnDuplicateIgnore = "ignore"
)
