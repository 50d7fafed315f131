package task

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

type entry struct {
	spec    Spec
	handler Handler
}

// Registry maps task names to their spec and handler. Tasks are registered
// once at start-up.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	log     logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{entries: make(map[string]entry), log: log}
}

// Register adds a task. Registering a name twice replaces the earlier
// handler; the last registration wins.
func (r *Registry) Register(spec Spec, handler Handler) error {
	if handler == nil {
		return errors.Errorf("task %q has no handler", spec.Name)
	}
	if err := spec.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[spec.Name]; exists {
		r.log.Warn("Task registered twice, overwriting previous definition", zap.String("task", spec.Name))
	}
	r.entries[spec.Name] = entry{spec: spec.clone(), handler: handler}
	return nil
}

// MustRegister is Register that panics, for static task tables.
func (r *Registry) MustRegister(spec Spec, handler Handler) {
	if err := r.Register(spec, handler); err != nil {
		panic(err)
	}
}

// Lookup returns the spec and handler registered under name.
func (r *Registry) Lookup(name string) (Spec, Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Spec{}, nil, &taskerr.Error{Kind: taskerr.UnknownTask, Task: name, Message: "no such task"}
	}
	return e.spec.clone(), e.handler, nil
}

// Specs returns every registered spec sorted by name.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]Spec, 0, len(r.entries))
	for _, e := range r.entries {
		specs = append(specs, e.spec.clone())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Validate checks inv against the registered spec without running the task.
// It fails exactly where Execute would before reaching the handler.
func (r *Registry) Validate(inv Invocation) error {
	spec, _, err := r.Lookup(inv.TaskName)
	if err != nil {
		return err
	}
	_, err = bindArgs(spec, inv.SuppliedArgs)
	return err
}
