package evaluator

import (
	"errors"
	"fmt"
	"strings"
)

// GuardError is returned when a guarded function is called with a receiver
// its guard rejects. Dispatch treats it as "try the next overload"; it is not
// meant to reach users.
type GuardError struct {
	TypeName string
	Got      string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guard mismatch: expected receiver %s, got %s", e.TypeName, e.Got)
}

func NewGuardError(typeName string, args []Object) *GuardError {
	got := "no arguments"
	if len(args) > 0 {
		got = describe(args[0])
	}
	return &GuardError{TypeName: typeName, Got: got}
}

// IsGuardError reports whether err is, or wraps, a GuardError.
func IsGuardError(err error) bool {
	var ge *GuardError
	return errors.As(err, &ge)
}

// ConstructionError is the panic value raised when a guarded wrapper is built
// around a function that cannot take a receiver. It signals a registration
// bug and is never returned as an error.
type ConstructionError struct {
	TypeName string
	Function string
	Reason   string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot wrap %s for %s: %s", e.Function, e.TypeName, e.Reason)
}

func NewConstructionError(typeName, function, reason string) *ConstructionError {
	return &ConstructionError{TypeName: typeName, Function: function, Reason: reason}
}

// ArgumentError reports a call whose arguments do not fit a signature.
type ArgumentError struct {
	Function string
	Expected string
	Got      []string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: expected %s, got (%s)", e.Function, e.Expected, strings.Join(e.Got, ", "))
}

func NewArgumentError(function, expected string, args []Object) *ArgumentError {
	return &ArgumentError{Function: function, Expected: expected, Got: DescribeArgs(args)}
}

// DescribeArgs renders argument types for error messages. Dynamic objects
// are shown by tag.
func DescribeArgs(args []Object) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = describe(a)
	}
	return out
}

func describe(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	if d, ok := AsDynamicObject(obj); ok {
		return d.TypeName()
	}
	return obj.RuntimeType().String()
}
