package telemetry

import (
	"context"
	"io"

	"github.com/droverbuild/drover/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop discards all progress reporting.
type Noop struct{}

// NewNoop creates a Noop telemetry.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns ctx unchanged and a vertex that discards everything.
func (n *Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (n *Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Progress(float64)  {}
func (noopVertex) Cached()           {}
func (noopVertex) Complete(error)    {}
