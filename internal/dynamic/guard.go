// Package dynamic binds native functions to dynamic objects.
//
// A MethodFunction guards a callable so that it only fires for receivers of
// one dynamic type (by tag) or one host type (by descriptor). A
// ConstructorFunction turns an initializer that takes a receiver into a
// function that builds and returns a fresh dynamic object.
package dynamic

import (
	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
)

// Guard decides whether a value may be used as a receiver.
// TypeName applies to dynamic objects; Type, when set, applies to every
// other value.
type Guard struct {
	TypeName string
	Type     typesystem.Type

	objectType typesystem.Type
}

func NewGuard(typeName string, typ typesystem.Type) Guard {
	return Guard{
		TypeName:   typeName,
		Type:       typ,
		objectType: evaluator.DynamicObjectType,
	}
}

// criterion is the half of a guard that applies to one kind of receiver.
type criterion interface {
	match(v evaluator.Object) bool
}

// byTag matches dynamic objects by tag. config.DynamicObjectTypeName matches
// any tag.
type byTag string

func (name byTag) match(v evaluator.Object) bool {
	obj, ok := evaluator.AsDynamicObject(v)
	if !ok {
		return false
	}
	return string(name) == config.DynamicObjectTypeName || obj.TypeName() == string(name)
}

// byType matches any other value by exact descriptor equality.
// Without a descriptor nothing matches.
type byType struct {
	typ typesystem.Type
}

func (c byType) match(v evaluator.Object) bool {
	return c.typ != nil && typesystem.Equal(v.RuntimeType(), c.typ)
}

func (g Guard) criterionFor(v evaluator.Object) criterion {
	objectType := g.objectType
	if objectType == nil {
		objectType = evaluator.DynamicObjectType
	}
	if typesystem.Equal(v.RuntimeType(), objectType) {
		return byTag(g.TypeName)
	}
	return byType{typ: g.Type}
}

// Matches checks a single receiver candidate.
func (g Guard) Matches(v evaluator.Object) bool {
	if v == nil {
		return false
	}
	return g.criterionFor(v).match(v)
}

// MatchesArgs checks the first argument; an empty list never matches.
func (g Guard) MatchesArgs(args []evaluator.Object) bool {
	if len(args) == 0 {
		return false
	}
	return g.Matches(args[0])
}
