// Package task holds the registry of named operations and the executor that
// validates invocations and dispatches them to their handlers.
package task

import (
	"context"
	"fmt"
	"strings"
)

// ParameterSpec declares one string-valued task parameter.
type ParameterSpec struct {
	Name        string
	Required    bool
	Description string
	// Default is supplied for an optional parameter that was not given.
	Default string
}

// Spec describes a task and its parameters, in declaration order.
type Spec struct {
	Name        string
	Description string
	Parameters  []ParameterSpec
}

// Parameter returns the named parameter spec.
func (s Spec) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

func (s Spec) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("task name must not be empty")
	}
	seen := make(map[string]struct{}, len(s.Parameters))
	for _, p := range s.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("task %q declares a parameter without a name", s.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("task %q declares parameter %q twice", s.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

func (s Spec) clone() Spec {
	out := s
	out.Parameters = append([]ParameterSpec(nil), s.Parameters...)
	return out
}

// Invocation is a request to run a task with raw CLI arguments.
type Invocation struct {
	TaskName     string
	SuppliedArgs map[string]string
}

// Output is the single result line a task reports.
type Output struct {
	Label string
	Value string
}

func (o *Output) String() string {
	if o.Label == "" {
		return o.Value
	}
	return o.Label + " " + o.Value
}

// Handler runs a task. args holds every declared parameter that was supplied
// or defaulted.
type Handler func(ctx context.Context, env *Env, args Args) (*Output, error)
