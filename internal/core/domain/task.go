package domain

// Task is the unit of work handed to the scheduler. It is created once by the
// Registry at graph-build time and never mutated afterwards.
//
// Outputs is the set of artifacts the task produces together; the first entry
// doubles as the task's display name. Inputs keep their declaration order
// because the order matters to the action (link lines), even though the
// scheduler itself only cares about set membership. AltDeps gate readiness the
// same way Deps do, but are deliberately invisible to staleness checks.
type Task struct {
	Outputs []InternedString
	Inputs  []InternedString
	Options []string
	Deps    []InternedString
	AltDeps []InternedString

	// Command is the argv the shell executor runs for this task. Empty for
	// tasks whose action is supplied some other way.
	Command []string
}

// Name returns the task's primary output, used for reporting.
func (t *Task) Name() InternedString {
	if len(t.Outputs) == 0 {
		return InternedString{}
	}
	return t.Outputs[0]
}

// OutputPaths returns the declared outputs as plain strings.
func (t *Task) OutputPaths() []string {
	return toStrings(t.Outputs)
}

// InputPaths returns the declared inputs as plain strings, in declaration order.
func (t *Task) InputPaths() []string {
	return toStrings(t.Inputs)
}

// BlockedBy yields every name that must leave the pending set before the task
// becomes ready: inputs, explicit deps, and alternate deps.
func (t *Task) BlockedBy(yield func(InternedString) bool) {
	for _, in := range t.Inputs {
		if !yield(in) {
			return
		}
	}
	for _, dep := range t.Deps {
		if !yield(dep) {
			return
		}
	}
	for _, alt := range t.AltDeps {
		if !yield(alt) {
			return
		}
	}
}

func toStrings(names []InternedString) []string {
	res := make([]string, len(names))
	for i, n := range names {
		res[i] = n.String()
	}
	return res
}
