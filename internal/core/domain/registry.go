// Package domain contains the core model for the build scheduler: the target
// registry, the task type, and the persisted stamp map.
package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Registry accumulates build steps before scheduling. Output names are
// globally unique identifiers; inputs may be other steps' outputs (forming
// the dependency graph) or plain file paths (leaves).
//
// A Registry is populated by single-threaded build-definition code and then
// snapshotted; it is an explicit value rather than process-global state so a
// process can construct and run several graphs independently.
type Registry struct {
	steps  []*Task
	byOut  map[InternedString]*Task
	sealed bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byOut: make(map[InternedString]*Task),
	}
}

// RegisterStep declares a step producing a single output. If the output is
// already registered the inputs are appended to the existing step and the
// deps are merged; this is how a library target accumulates object files from
// many unrelated registration sites. Re-registering with contradictory
// options is a hard error.
func (r *Registry) RegisterStep(output string, inputs, options, deps []string) error {
	return r.RegisterGroup([]string{output}, inputs, options, deps)
}

// RegisterGroup declares a step whose outputs are produced together by a
// single action. The same append/merge contract as RegisterStep applies when
// any of the outputs already exists.
func (r *Registry) RegisterGroup(outputs []string, inputs, options, deps []string) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if len(outputs) == 0 {
		return zerr.New("step declares no outputs")
	}

	existing, err := r.findExisting(outputs)
	if err != nil {
		return err
	}

	if existing == nil {
		t := &Task{
			Outputs: internAll(outputs),
			Inputs:  internAll(inputs),
			Options: slices.Clone(options),
			Deps:    internAll(deps),
		}
		r.steps = append(r.steps, t)
		for _, out := range t.Outputs {
			r.byOut[out] = t
		}
		return nil
	}

	if err := checkOptions(existing, options); err != nil {
		return err
	}
	existing.Inputs = append(existing.Inputs, internAll(inputs)...)
	mergeNames(&existing.Deps, deps)
	return nil
}

// RegisterAlternate attaches soft ordering constraints to an existing output.
// Alternate deps participate in readiness but never in staleness comparison.
func (r *Registry) RegisterAlternate(output string, altDeps []string) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	t, ok := r.byOut[NewInternedString(output)]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownOutput, "cannot attach alternate deps"), "output", output)
	}
	mergeNames(&t.AltDeps, altDeps)
	return nil
}

// BindCommand attaches the argv the shell executor runs for the step owning
// the given output. A step's command can only be bound once.
func (r *Registry) BindCommand(output string, argv []string) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	t, ok := r.byOut[NewInternedString(output)]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownOutput, "cannot bind command"), "output", output)
	}
	if len(t.Command) > 0 && !slices.Equal(t.Command, argv) {
		return zerr.With(zerr.Wrap(ErrStepConflict, "command already bound"), "output", output)
	}
	t.Command = slices.Clone(argv)
	return nil
}

// Snapshot seals the registry and returns the task list in registration
// order. The returned tasks are copies; the scheduler owns them from here on.
func (r *Registry) Snapshot() []Task {
	r.sealed = true
	tasks := make([]Task, len(r.steps))
	for i, t := range r.steps {
		tasks[i] = *t
	}
	return tasks
}

// Len reports the number of registered steps.
func (r *Registry) Len() int {
	return len(r.steps)
}

// findExisting resolves the step already owning any of the given outputs.
// It is a conflict for the outputs to span two distinct steps, or for a
// multi-output declaration to only partially match an existing one.
func (r *Registry) findExisting(outputs []string) (*Task, error) {
	var existing *Task
	matched := 0
	for _, out := range outputs {
		t, ok := r.byOut[NewInternedString(out)]
		if !ok {
			continue
		}
		if existing != nil && existing != t {
			return nil, zerr.With(zerr.Wrap(ErrStepConflict, "outputs span two existing steps"), "output", out)
		}
		existing = t
		matched++
	}
	if existing == nil {
		return nil, nil
	}
	if matched != len(outputs) || len(existing.Outputs) != len(outputs) {
		return nil, zerr.With(zerr.Wrap(ErrStepConflict, "outputs partially overlap an existing step"), "output", outputs[0])
	}
	return existing, nil
}

func checkOptions(t *Task, options []string) error {
	if len(options) == 0 || slices.Equal(t.Options, options) {
		return nil
	}
	if len(t.Options) == 0 {
		t.Options = slices.Clone(options)
		return nil
	}
	return zerr.With(zerr.Wrap(ErrStepConflict, "options differ from existing registration"), "output", t.Name().String())
}

func internAll(strs []string) []InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]InternedString, len(strs))
	for i, s := range strs {
		res[i] = NewInternedString(s)
	}
	return res
}

// mergeNames appends the given names to dst, skipping ones already present.
// Dep sets stay small, so the linear scan beats a side map.
func mergeNames(dst *[]InternedString, names []string) {
	for _, s := range names {
		n := NewInternedString(s)
		if !slices.Contains(*dst, n) {
			*dst = append(*dst, n)
		}
	}
}
