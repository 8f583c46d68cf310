// Package ports defines the interfaces between the scheduler core and its
// collaborators. Toolchain invocation, config parsing, and persistence live
// behind these interfaces; the core never imports an adapter.
package ports

import (
	"context"

	"github.com/droverbuild/drover/internal/core/domain"
)

// Executor runs a task's action. The action is opaque to the scheduler: it
// gets the task's outputs, inputs, and options and reports success or error.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the action for the given task. Progress may optionally be
	// reported through the telemetry vertex carried in ctx; the scheduler
	// ignores it for correctness.
	Execute(ctx context.Context, task *domain.Task) error
}
