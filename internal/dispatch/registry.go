package dispatch

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
)

// Config holds the collaborators of a Registry.
type Config struct {
	// Conversions consulted during argument matching (defaults to
	// evaluator.DefaultConversions).
	Conversions *evaluator.Conversions
	// Options controls duplicate handling (defaults to config.DefaultOptions).
	Options *config.Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Registry maps names to overload sets. Registration and dispatch may run
// concurrently; functions are called without holding the lock.
type Registry struct {
	mu     sync.RWMutex
	sets   map[string]*OverloadSet
	conv   *evaluator.Conversions
	opts   *config.Options
	logger *slog.Logger
}

func NewRegistry(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conv := cfg.Conversions
	if conv == nil {
		conv = evaluator.DefaultConversions()
	}
	opts := cfg.Options
	if opts == nil {
		opts = config.DefaultOptions()
	}
	return &Registry{
		sets:   make(map[string]*OverloadSet),
		conv:   conv,
		opts:   opts,
		logger: logger,
	}
}

func (r *Registry) Conversions() *evaluator.Conversions { return r.conv }
func (r *Registry) Logger() *slog.Logger                { return r.logger }

// Register adds fn to the overload set called name. Registering a function
// equal to an existing one fails with *DuplicateFunctionError, or is a no-op
// when duplicates are configured to be ignored.
func (r *Registry) Register(name string, fn evaluator.Callable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[name]
	if !ok {
		set = NewOverloadSet(name)
		r.sets[name] = set
	}
	if err := set.Add(fn); err != nil {
		var dup *DuplicateFunctionError
		if errors.As(err, &dup) && r.opts.OnDuplicate == config.OnDuplicateIgnore {
			r.logger.Debug("duplicate registration ignored", "name", name, "function", fn.Inspect())
			return nil
		}
		return err
	}
	r.logger.Debug("function registered", "name", name, "function", fn.Inspect(), "arity", arityLabel(fn))
	return nil
}

// Lookup returns the candidates registered under name.
func (r *Registry) Lookup(name string) ([]evaluator.Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[name]
	if !ok {
		return nil, false
	}
	return set.Functions(), true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call resolves name against args and invokes the winning overload.
func (r *Registry) Call(name string, args []evaluator.Object) (evaluator.Object, error) {
	funcs, ok := r.Lookup(name)
	if !ok {
		return nil, typesystem.NewSymbolNotFoundError(name)
	}
	return Dispatch(name, funcs, args, r.conv, r.logger)
}
