package dispatch

import (
	"log/slog"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/evaluator"
)

// OverloadSet is the ordered list of functions registered under one name.
// It is not safe for concurrent use; Registry serializes access.
type OverloadSet struct {
	Name  string
	funcs []evaluator.Callable
}

func NewOverloadSet(name string) *OverloadSet {
	return &OverloadSet{Name: name}
}

// Add appends fn unless an equal function is already present, in which case
// it reports the duplicate and leaves the set unchanged.
func (s *OverloadSet) Add(fn evaluator.Callable) error {
	for _, existing := range s.funcs {
		if existing.Equal(fn) {
			return NewDuplicateFunctionError(s.Name, fn)
		}
	}
	s.funcs = append(s.funcs, fn)
	return nil
}

// Functions returns a copy of the candidates in registration order.
func (s *OverloadSet) Functions() []evaluator.Callable {
	out := make([]evaluator.Callable, len(s.funcs))
	copy(out, s.funcs)
	return out
}

func (s *OverloadSet) Len() int { return len(s.funcs) }

// Dispatch calls the first candidate that accepts args.
//
// Candidates are pruned by their first-argument check, then asked to accept
// the whole list. A guard failure raised by the winner's Call counts as a
// rejection and resolution moves on. Any other error is returned as is.
func Dispatch(name string, funcs []evaluator.Callable, args []evaluator.Object, conv *evaluator.Conversions, logger *slog.Logger) (evaluator.Object, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for i, fn := range funcs {
		if len(args) > 0 && fn.Arity() != 0 && !fn.CompareFirstType(args[0], conv) {
			logger.Debug("overload pruned", "name", name, "candidate", i, "reason", "receiver")
			continue
		}
		if !fn.Accepts(args, conv) {
			logger.Debug("overload rejected", "name", name, "candidate", i)
			continue
		}

		result, err := fn.Call(args, conv)
		if err != nil {
			if evaluator.IsGuardError(err) {
				logger.Debug("overload guard failed at call", "name", name, "candidate", i, "error", err)
				continue
			}
			return nil, err
		}
		logger.Debug("overload selected", "name", name, "candidate", i, "function", fn.Inspect())
		return result, nil
	}
	return nil, NewNoMatchingOverloadError(name, args, len(funcs))
}

// arityLabel is used in registration logs.
func arityLabel(fn evaluator.Callable) any {
	if fn.Arity() == config.VariadicArity {
		return "variadic"
	}
	return fn.Arity()
}
