package domain

import "go.trai.ch/zerr"

var (
	// ErrStepConflict is returned when an output is re-registered with options
	// that contradict its existing declaration.
	ErrStepConflict = zerr.New("conflicting step registration")

	// ErrUnknownOutput is returned when a registration refers to an output
	// that no step has declared.
	ErrUnknownOutput = zerr.New("unknown output")

	// ErrRegistrySealed is returned when a registration arrives after the
	// registry has been snapshotted for scheduling.
	ErrRegistrySealed = zerr.New("registry is sealed")

	// ErrUnsatisfiedDependency is raised when the scheduler starves: tasks
	// remain, none are ready, and none are in flight. A cyclic or missing
	// dependency is the only way to get here.
	ErrUnsatisfiedDependency = zerr.New("unsatisfiable dependency")
)
