package task

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

// Executor validates invocations and runs them against a shared Env.
type Executor struct {
	registry *Registry
	env      *Env
}

func NewExecutor(registry *Registry, env *Env) *Executor {
	return &Executor{registry: registry, env: env}
}

// Execute runs one invocation. Parameters are validated before the handler
// runs, so a rejected invocation never touches the network. Every returned
// error is a *taskerr.Error naming the task.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (*Output, error) {
	spec, handler, err := e.registry.Lookup(inv.TaskName)
	if err != nil {
		return nil, err
	}

	args, err := bindArgs(spec, inv.SuppliedArgs)
	if err != nil {
		return nil, err
	}

	if e.env == nil || e.env.Config == nil || !e.env.Config.Frozen() {
		return nil, &taskerr.Error{Kind: taskerr.TaskExecutionFailed, Task: spec.Name,
			Message: "configuration must be loaded and frozen before running tasks"}
	}

	log := e.env.Log()
	if ignored := unknownArgs(spec, inv.SuppliedArgs); len(ignored) > 0 {
		log.Debug("Ignoring unknown parameters", zap.String("task", spec.Name), zap.Strings("params", ignored))
	}
	log.Debug("Running task", zap.String("task", spec.Name), zap.String("network", e.env.Config.Network.Name))

	ctx = logger.WithLogger(ctx, log)
	out, err := handler(ctx, e.env, args)
	if err != nil {
		return nil, classify(spec.Name, err)
	}
	if out == nil {
		return nil, &taskerr.Error{Kind: taskerr.TaskExecutionFailed, Task: spec.Name, Message: "task reported no result"}
	}
	return out, nil
}

func bindArgs(spec Spec, supplied map[string]string) (Args, error) {
	args := make(Args, len(spec.Parameters))
	for _, p := range spec.Parameters {
		value, ok := supplied[p.Name]
		if ok && strings.TrimSpace(value) != "" {
			args[p.Name] = value
			continue
		}
		if p.Required {
			return nil, &taskerr.Error{
				Kind:    taskerr.MissingParameter,
				Task:    spec.Name,
				Param:   p.Name,
				Message: "missing required parameter --" + p.Name,
			}
		}
		if p.Default != "" {
			args[p.Name] = p.Default
		}
	}
	return args, nil
}

func unknownArgs(spec Spec, supplied map[string]string) []string {
	var out []string
	for name := range supplied {
		if _, ok := spec.Parameter(name); !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func classify(taskName string, err error) error {
	if te, ok := taskerr.As(err); ok {
		if te.Task == "" {
			te.Task = taskName
		}
		return err
	}
	return &taskerr.Error{Kind: taskerr.TaskExecutionFailed, Task: taskName, Message: "task failed", Cause: err}
}
