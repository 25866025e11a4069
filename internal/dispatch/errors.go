package dispatch

import (
	"fmt"
	"strings"

	"github.com/funvibe/dynobj/internal/evaluator"
)

// NoMatchingOverloadError is the single error a caller sees when no
// registered function accepts the arguments.
type NoMatchingOverloadError struct {
	Name       string
	ArgTypes   []string
	Candidates int
}

func (e *NoMatchingOverloadError) Error() string {
	return fmt.Sprintf("no matching overload for %s(%s) among %d candidate(s)",
		e.Name, strings.Join(e.ArgTypes, ", "), e.Candidates)
}

func NewNoMatchingOverloadError(name string, args []evaluator.Object, candidates int) *NoMatchingOverloadError {
	return &NoMatchingOverloadError{
		Name:       name,
		ArgTypes:   evaluator.DescribeArgs(args),
		Candidates: candidates,
	}
}

// DuplicateFunctionError is returned when a function equal to an existing
// overload is registered under the same name.
type DuplicateFunctionError struct {
	Name     string
	Function string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("duplicate registration of %s: %s", e.Name, e.Function)
}

func NewDuplicateFunctionError(name string, fn evaluator.Callable) *DuplicateFunctionError {
	return &DuplicateFunctionError{Name: name, Function: fn.Inspect()}
}
