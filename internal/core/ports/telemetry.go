package ports

import (
	"context"
	"io"
)

// Telemetry records per-task progress for UI purposes. Correctness never
// depends on it; the noop implementation is always a valid choice.
type Telemetry interface {
	// Record opens a vertex for the named task and threads it through ctx so
	// executors can attach output streams to it.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes the recording session.
	Close() error
}

// Vertex is one task's slot in the progress display.
type Vertex interface {
	// Stdout returns a writer for the task's standard output stream.
	Stdout() io.Writer

	// Stderr returns a writer for the task's error output stream.
	Stderr() io.Writer

	// Progress reports fractional completion in [0,1].
	Progress(frac float64)

	// Cached marks the vertex as an incremental skip.
	Cached()

	// Complete marks the vertex as finished, with err nil on success.
	Complete(err error)
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying the vertex.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext extracts the vertex recorded for the current task, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
